package worker_test

import (
	"testing"
	"time"

	"github.com/emberchain/blockchain/foundation/blockchain/peer"
	"github.com/emberchain/blockchain/foundation/blockchain/state"
	"github.com/emberchain/blockchain/foundation/blockchain/storage/memory"
	"github.com/emberchain/blockchain/foundation/blockchain/worker"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_MineAndShutdown(t *testing.T) {
	st, err := state.New(state.Config{
		BeneficiaryID: "miner-a",
		Host:          "test:9080",
		Difficulty:    1,
		Storage:       memory.New(),
		KnownPeers:    peer.NewSet(),
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
	}

	t.Log("Given a running worker with no peers.")
	{
		t.Logf("\tTest 0:\tWhen letting the mining loop run.")
		{
			worker.Run(st, func(v string, args ...any) {})

			// The loop mines continuously; at difficulty one the first
			// block lands almost immediately.
			deadline := time.Now().Add(5 * time.Second)
			for st.Height() < 2 && time.Now().Before(deadline) {
				time.Sleep(10 * time.Millisecond)
			}

			if st.Height() < 2 {
				t.Fatalf("\t%s\tTest 0:\tShould mine at least one block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould mine at least one block.", success)

			if err := st.Shutdown(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould shut down cleanly: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould shut down cleanly.", success)
		}
	}
}
