package disk_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emberchain/blockchain/foundation/blockchain/database"
	"github.com/emberchain/blockchain/foundation/blockchain/storage/disk"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chain", "chain.json")

	t.Log("Given the need to persist the chain as a JSON array.")
	{
		t.Logf("\tTest 0:\tWhen saving and reloading a chain.")
		{
			strg, err := disk.New(path)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct the store: %v", failed, err)
			}

			// A missing file reads as an empty chain.
			blocks, err := strg.Load()
			if err != nil || len(blocks) != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould read a missing file as empty: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould read a missing file as empty.", success)

			genesis := database.Genesis()
			b1 := database.NewBlock(genesis, 1700000000, []database.Tx{database.NewCoinbaseTx("miner1", 50)})

			if err := strg.Save([]database.Block{genesis, b1}); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to save the chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to save the chain.", success)

			loaded, err := strg.Load()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to reload the chain: %v", failed, err)
			}

			if len(loaded) != 2 || loaded[0].Hash() != genesis.Hash() || loaded[1].Hash() != b1.Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould reproduce the block hashes.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reproduce the block hashes.", success)
		}

		t.Logf("\tTest 1:\tWhen inspecting the wire format.")
		{
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to read the raw file: %v", failed, err)
			}

			content := string(data)
			for _, field := range []string{`"index"`, `"timestamp"`, `"previousHash"`, `"transactions"`, `"merkleRoot"`, `"nonce"`} {
				if !strings.Contains(content, field) {
					t.Fatalf("\t%s\tTest 1:\tShould contain the %s field.", failed, field)
				}
			}
			t.Logf("\t%s\tTest 1:\tShould contain the canonical field names.", success)

			if strings.Contains(content, `"hash"`) {
				t.Fatalf("\t%s\tTest 1:\tShould never persist the block hash.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould never persist the block hash.", success)
		}
	}
}
