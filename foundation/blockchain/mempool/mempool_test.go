package mempool_test

import (
	"crypto/ecdsa"
	"errors"
	"testing"

	"github.com/emberchain/blockchain/foundation/blockchain/database"
	"github.com/emberchain/blockchain/foundation/blockchain/mempool"
	"github.com/emberchain/blockchain/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func genAccount(t *testing.T) (database.AccountID, *ecdsa.PrivateKey) {
	t.Helper()

	key, err := signature.GenerateKey()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate a key: %v", failed, err)
	}

	address, err := signature.PublicKeyHex(&key.PublicKey)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to encode the public key: %v", failed, err)
	}

	return database.AccountID(address), key
}

func signedTx(t *testing.T, fromID database.AccountID, key *ecdsa.PrivateKey, to database.AccountID, amount int64) database.Tx {
	t.Helper()

	tx, err := database.NewTx(fromID, to, amount)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a transaction: %v", failed, err)
	}

	tx, err = tx.Sign(key)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to sign a transaction: %v", failed, err)
	}

	return tx
}

func TestAdmission(t *testing.T) {
	fromID, key := genAccount(t)

	balances := map[database.AccountID]int64{fromID: 100}
	mp := mempool.New(func(account database.AccountID) int64 {
		return balances[account]
	})

	t.Log("Given the need to admit transactions into the pool.")
	{
		t.Logf("\tTest 0:\tWhen admitting a covered, signed transaction.")
		{
			tx := signedTx(t, fromID, key, "bob", 60)

			if err := mp.Add(tx); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould admit the transaction: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould admit the transaction.", success)

			if err := mp.Add(tx); !errors.Is(err, mempool.ErrDuplicate) {
				t.Fatalf("\t%s\tTest 0:\tShould reject a duplicate id: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a duplicate id.", success)

			if mp.Count() != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould hold exactly one transaction.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould hold exactly one transaction.", success)
		}

		t.Logf("\tTest 1:\tWhen pending spend exceeds the confirmed balance.")
		{
			tx := signedTx(t, fromID, key, "carol", 50)

			if err := mp.Add(tx); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould reject spend beyond pending funds.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject spend beyond pending funds.", success)

			small := signedTx(t, fromID, key, "carol", 40)
			if err := mp.Add(small); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould admit what pending funds still cover: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould admit what pending funds still cover.", success)
		}

		t.Logf("\tTest 2:\tWhen the signature does not validate.")
		{
			tx := signedTx(t, fromID, key, "bob", 5)
			tx.Amount = 6
			tx.ID = tx.ContentID()

			if err := mp.Add(tx); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould reject a tampered transaction.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject a tampered transaction.", success)
		}

		t.Logf("\tTest 3:\tWhen submitting a coinbase transaction.")
		{
			if err := mp.Add(database.NewCoinbaseTx("miner1", 50)); err == nil {
				t.Fatalf("\t%s\tTest 3:\tShould reject a submitted coinbase.", failed)
			}
			t.Logf("\t%s\tTest 3:\tShould reject a submitted coinbase.", success)
		}
	}
}

func TestSnapshotAndRemoval(t *testing.T) {
	fromID, key := genAccount(t)

	mp := mempool.New(func(account database.AccountID) int64 {
		return 1_000
	})

	var trans []database.Tx
	for i := int64(1); i <= 5; i++ {
		tx := signedTx(t, fromID, key, "bob", i)
		if err := mp.Add(tx); err != nil {
			t.Fatalf("\t%s\tShould be able to admit transaction %d: %v", failed, i, err)
		}
		trans = append(trans, tx)
	}

	t.Log("Given the need to snapshot and drain the pool.")
	{
		t.Logf("\tTest 0:\tWhen taking bounded snapshots.")
		{
			if got := len(mp.Snapshot(3)); got != 3 {
				t.Fatalf("\t%s\tTest 0:\tShould cap the snapshot at 3, got %d.", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould cap the snapshot at the limit.", success)

			s1 := mp.Snapshot(-1)
			s2 := mp.Snapshot(-1)
			for i := range s1 {
				if s1[i].ID != s2[i].ID {
					t.Fatalf("\t%s\tTest 0:\tShould order snapshots stably.", failed)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould order snapshots stably.", success)
		}

		t.Logf("\tTest 1:\tWhen removing confirmed transactions.")
		{
			mp.RemoveConfirmed(trans[:2])

			if mp.Count() != 3 {
				t.Fatalf("\t%s\tTest 1:\tShould drop the confirmed transactions, count %d.", failed, mp.Count())
			}
			t.Logf("\t%s\tTest 1:\tShould drop the confirmed transactions.", success)

			for _, tx := range mp.Snapshot(-1) {
				if tx.ID == trans[0].ID || tx.ID == trans[1].ID {
					t.Fatalf("\t%s\tTest 1:\tShould not return mined transactions.", failed)
				}
			}
			t.Logf("\t%s\tTest 1:\tShould not return mined transactions.", success)

			// Removing them again is a no-op.
			mp.RemoveConfirmed(trans[:2])
			if mp.Count() != 3 {
				t.Fatalf("\t%s\tTest 1:\tShould tolerate repeated removal.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould tolerate repeated removal.", success)
		}

		t.Logf("\tTest 2:\tWhen clearing the pool.")
		{
			mp.Clear()
			if mp.Count() != 0 {
				t.Fatalf("\t%s\tTest 2:\tShould leave the pool empty.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould leave the pool empty.", success)
		}
	}
}
