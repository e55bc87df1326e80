package chain_test

import (
	"testing"

	"github.com/emberchain/blockchain/foundation/blockchain/chain"
	"github.com/emberchain/blockchain/foundation/blockchain/consensus"
	"github.com/emberchain/blockchain/foundation/blockchain/database"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// solve searches nonces until the block hash satisfies the consensus
// difficulty. At three leading zeros this takes a few thousand attempts.
func solve(t *testing.T, block database.Block) database.Block {
	t.Helper()

	for nonce := uint64(0); ; nonce++ {
		block.Nonce = nonce
		if consensus.ValidateDifficulty(block) {
			return block
		}
	}
}

func userTx(from, to database.AccountID, amount int64) database.Tx {
	tx := database.Tx{FromID: from, ToID: to, Amount: amount, TimeStamp: 1700000001}
	tx.ID = tx.ContentID()
	return tx
}

func TestAppend(t *testing.T) {
	t.Log("Given the need to append blocks under the consensus rules.")
	{
		t.Logf("\tTest 0:\tWhen appending a properly mined block.")
		{
			c := chain.New()
			block := solve(t, database.NewBlock(c.Latest(), 1700000000, []database.Tx{database.NewCoinbaseTx("miner1", 50)}))

			if !c.Append(block) {
				t.Fatalf("\t%s\tTest 0:\tShould append the block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould append the block.", success)

			if c.Height() != 2 || c.Latest().Hash() != block.Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould make the block the new tip.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould make the block the new tip.", success)
		}

		t.Logf("\tTest 1:\tWhen the coinbase claims more than the reward.")
		{
			c := chain.New()
			block := solve(t, database.NewBlock(c.Latest(), 1700000000, []database.Tx{database.NewCoinbaseTx("miner1", 100)}))

			if c.Append(block) {
				t.Fatalf("\t%s\tTest 1:\tShould reject an over-reward block.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject an over-reward block.", success)

			if c.Height() != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould leave the chain unchanged.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould leave the chain unchanged.", success)
		}

		t.Logf("\tTest 2:\tWhen a sender has no confirmed balance.")
		{
			c := chain.New()
			block := solve(t, database.NewBlock(c.Latest(), 1700000000, []database.Tx{
				database.NewCoinbaseTx("miner1", 50),
				userTx("alice", "bob", 5),
			}))

			if c.Append(block) {
				t.Fatalf("\t%s\tTest 2:\tShould reject an uncovered spend even with valid work.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject an uncovered spend even with valid work.", success)
		}

		t.Logf("\tTest 3:\tWhen the block has no proof of work.")
		{
			c := chain.New()
			block := database.NewBlock(c.Latest(), 1700000000, []database.Tx{database.NewCoinbaseTx("miner1", 50)})

			// The odds of nonce zero satisfying the target are negligible,
			// but be explicit about the precondition.
			if consensus.ValidateDifficulty(block) {
				block.Nonce++
			}

			if c.Append(block) {
				t.Fatalf("\t%s\tTest 3:\tShould reject a block without work.", failed)
			}
			t.Logf("\t%s\tTest 3:\tShould reject a block without work.", success)
		}

		t.Logf("\tTest 4:\tWhen the block does not link to the tip.")
		{
			c := chain.New()
			block := solve(t, database.NewBlock(c.Latest(), 1700000000, []database.Tx{database.NewCoinbaseTx("miner1", 50)}))
			block.PrevHash = "deadbeef" + block.PrevHash[8:]
			block = solve(t, block)

			if c.Append(block) {
				t.Fatalf("\t%s\tTest 4:\tShould reject a broken link.", failed)
			}
			t.Logf("\t%s\tTest 4:\tShould reject a broken link.", success)
		}
	}
}

func TestIsValidChain(t *testing.T) {
	t.Log("Given the need to validate full chains from peers.")
	{
		t.Logf("\tTest 0:\tWhen validating a well-formed chain.")
		{
			c := chain.New()
			b1 := solve(t, database.NewBlock(c.Latest(), 1700000000, []database.Tx{database.NewCoinbaseTx("miner1", 50)}))
			if !c.Append(b1) {
				t.Fatalf("\t%s\tTest 0:\tShould append block 1.", failed)
			}
			b2 := solve(t, database.NewBlock(c.Latest(), 1700000010, []database.Tx{database.NewCoinbaseTx("miner1", 50)}))
			if !c.Append(b2) {
				t.Fatalf("\t%s\tTest 0:\tShould append block 2.", failed)
			}

			if !chain.IsValidChain(c.Blocks()) {
				t.Fatalf("\t%s\tTest 0:\tShould validate the chain.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould validate the chain.", success)
		}

		t.Logf("\tTest 1:\tWhen the chain is empty.")
		{
			if chain.IsValidChain(nil) {
				t.Fatalf("\t%s\tTest 1:\tShould reject an empty chain.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject an empty chain.", success)
		}

		t.Logf("\tTest 2:\tWhen the chain starts with a forged genesis.")
		{
			g := database.Genesis()
			g.Nonce = 1

			if chain.IsValidChain([]database.Block{g}) {
				t.Fatalf("\t%s\tTest 2:\tShould reject a forged genesis.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject a forged genesis.", success)
		}

		t.Logf("\tTest 3:\tWhen a middle block is tampered with.")
		{
			c := chain.New()
			b1 := solve(t, database.NewBlock(c.Latest(), 1700000000, []database.Tx{database.NewCoinbaseTx("miner1", 50)}))
			c.Append(b1)
			b2 := solve(t, database.NewBlock(c.Latest(), 1700000010, []database.Tx{database.NewCoinbaseTx("miner1", 50)}))
			c.Append(b2)

			blocks := c.Blocks()
			blocks[1].Transactions[0].Amount = 1000

			if chain.IsValidChain(blocks) {
				t.Fatalf("\t%s\tTest 3:\tShould reject a tampered block.", failed)
			}
			t.Logf("\t%s\tTest 3:\tShould reject a tampered block.", success)
		}
	}
}

func TestReplace(t *testing.T) {
	t.Log("Given the need to swap in a longer chain.")
	{
		t.Logf("\tTest 0:\tWhen replacing with a caller-validated list.")
		{
			c := chain.New()
			b1 := solve(t, database.NewBlock(c.Latest(), 1700000000, []database.Tx{database.NewCoinbaseTx("miner1", 50)}))

			c.Replace([]database.Block{database.Genesis(), b1})

			if c.Height() != 2 || c.Latest().Hash() != b1.Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould hold the replacement blocks.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould hold the replacement blocks.", success)
		}
	}
}
