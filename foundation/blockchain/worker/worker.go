// Package worker implements the long-lived workflows of the node: the
// continuous mining loop, transaction sharing, and peer synchronization.
package worker

import (
	"sync"
	"time"

	"github.com/emberchain/blockchain/foundation/blockchain/database"
	"github.com/emberchain/blockchain/foundation/blockchain/state"
)

// maxTxShareRequests represents the max number of pending tx share requests
// that can be outstanding before share requests are dropped. If the buffered
// channel fills up, new transactions simply won't be shared.
const maxTxShareRequests = 100

// peerUpdateInterval represents the interval for refreshing the peer list
// and catching up with peers that are ahead.
const peerUpdateInterval = time.Minute

// Worker manages the blockchain workflows on behalf of the state.
type Worker struct {
	state        *state.State
	wg           sync.WaitGroup
	ticker       *time.Ticker
	shut         chan struct{}
	cancelMining chan chan struct{}
	txSharing    chan database.Tx
	evHandler    state.EventHandler
}

// Run creates the worker, registers it with the state, performs an initial
// peer sync, and starts the operational goroutines. It doesn't return until
// all of them are up and running.
func Run(st *state.State, evHandler state.EventHandler) {
	w := Worker{
		state:        st,
		ticker:       time.NewTicker(peerUpdateInterval),
		shut:         make(chan struct{}),
		cancelMining: make(chan chan struct{}, 1),
		txSharing:    make(chan database.Tx, maxTxShareRequests),
		evHandler:    evHandler,
	}

	// Register this worker with the state. During startup the sync below
	// already needs it in place for cancel-mining signalling.
	st.Worker = &w

	// Update this node before starting any support G's.
	w.sync()

	// Load the set of operations we need to run.
	operations := []func(){
		w.miningOperations,
		w.shareTxOperations,
		w.peerOperations,
	}

	// Set waitgroup to match the number of G's we need for the set of
	// operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	for i := 0; i < g; i++ {
		<-hasStarted
	}
}

// Shutdown terminates the goroutines performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.ticker.Stop()

	done := w.SignalCancelMining()
	done()

	close(w.shut)
	w.wg.Wait()
}

// =============================================================================

// SignalCancelMining signals the G executing the runMiningOperation function
// to stop immediately. That G will not restart mining until done is called,
// which allows the caller to complete its state changes first.
func (w *Worker) SignalCancelMining() (done func()) {
	wait := make(chan struct{})

	select {
	case w.cancelMining <- wait:
	default:
	}
	w.evHandler("worker: SignalCancelMining: mining cancel signaled")

	return func() { close(wait) }
}

// SignalShareTx queues up a share transaction operation. If maxTxShareRequests
// signals exist in the channel, the transaction won't be shared.
func (w *Worker) SignalShareTx(tx database.Tx) {
	select {
	case w.txSharing <- tx:
		w.evHandler("worker: SignalShareTx: share tx signaled")
	default:
		w.evHandler("worker: SignalShareTx: queue full, transaction won't be shared")
	}
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
