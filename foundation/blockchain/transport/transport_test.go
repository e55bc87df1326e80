package transport_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/emberchain/blockchain/foundation/blockchain/database"
	"github.com/emberchain/blockchain/foundation/blockchain/peer"
	"github.com/emberchain/blockchain/foundation/blockchain/transport"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestClient(t *testing.T) {
	genesis := database.Genesis()

	var gotBlock transport.BlockMessage

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/node/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(peer.Status{
			LatestBlockHash:  genesis.Hash(),
			LatestBlockIndex: 0,
			ChainLength:      1,
		})
	})
	mux.HandleFunc("/v1/node/chain", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]database.Block{genesis})
	})
	mux.HandleFunc("/v1/node/block/next", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBlock); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	pr := peer.New(strings.TrimPrefix(srv.URL, "http://"))
	client := transport.New("self:9080")

	t.Log("Given the need to exchange messages with a peer.")
	{
		t.Logf("\tTest 0:\tWhen requesting the peer status.")
		{
			status, err := client.RequestStatus(pr)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to request status: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to request status.", success)

			if status.ChainLength != 1 || status.LatestBlockHash != genesis.Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould decode the peer status.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould decode the peer status.", success)
		}

		t.Logf("\tTest 1:\tWhen requesting the peer chain.")
		{
			blocks, err := client.RequestChain(pr)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to request the chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to request the chain.", success)

			if len(blocks) != 1 || blocks[0].Hash() != genesis.Hash() {
				t.Fatalf("\t%s\tTest 1:\tShould reproduce the genesis hash after transport.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reproduce the genesis hash after transport.", success)
		}

		t.Logf("\tTest 2:\tWhen sending a block.")
		{
			block := database.NewBlock(genesis, 1700000000, []database.Tx{database.NewCoinbaseTx("miner1", 50)})

			if err := client.SendBlock(pr, block); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to send a block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould be able to send a block.", success)

			if gotBlock.Host != "self:9080" || gotBlock.Block.Hash() != block.Hash() {
				t.Fatalf("\t%s\tTest 2:\tShould deliver the block with the sender host.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould deliver the block with the sender host.", success)
		}

		t.Logf("\tTest 3:\tWhen the peer is unreachable.")
		{
			if _, err := client.RequestStatus(peer.New("127.0.0.1:1")); err == nil {
				t.Fatalf("\t%s\tTest 3:\tShould report the failure.", failed)
			}
			t.Logf("\t%s\tTest 3:\tShould report the failure.", success)
		}
	}
}
