package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/emberchain/blockchain/foundation/blockchain/state"
)

// miningRetryDelay is how long the mining loop pauses after a failed
// attempt before retrying with a fresh template.
const miningRetryDelay = 100 * time.Millisecond

// miningOperations runs the continuous mining loop until shutdown.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		default:
			w.runMiningOperation()
		}
	}
}

// runMiningOperation mines one block and broadcasts it. Any non-cancellation
// failure pauses briefly so the loop doesn't spin on a persistent condition.
func (w *Worker) runMiningOperation() {

	// If mining is signalled to be cancelled by AcceptBlock or ReplaceChain,
	// this G can't start the next attempt until it is told it can.
	var wait chan struct{}
	defer func() {
		if wait != nil {
			w.evHandler("worker: runMiningOperation: MINING: termination signal: waiting")
			<-wait
			w.evHandler("worker: runMiningOperation: MINING: termination signal: received")
		}
	}()

	// Drain the cancel mining channel before starting.
	select {
	case <-w.cancelMining:
	default:
	}

	// Create a context so mining can be cancelled.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Can't return from this function until both G's are complete.
	var wg sync.WaitGroup
	wg.Add(2)

	// This G exists to cancel the mining operation.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		select {
		case wait = <-w.cancelMining:
			w.evHandler("worker: runMiningOperation: MINING: cancel mining requested")
		case <-w.shut:
		case <-ctx.Done():
		}
	}()

	// This G is performing the mining.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		block, err := w.state.MineNewBlock(ctx)
		if err != nil {
			switch {
			case errors.Is(err, context.Canceled):
				w.evHandler("worker: runMiningOperation: MINING: CANCELLED: by request")
			case errors.Is(err, state.ErrStaleTemplate):
				w.evHandler("worker: runMiningOperation: MINING: stale template, tip moved")
			case errors.Is(err, state.ErrAppendRejected):
				w.evHandler("worker: runMiningOperation: MINING: append rejected, lost the race")
			default:
				w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
			}

			if ctx.Err() == nil && !w.isShutdown() {
				time.Sleep(miningRetryDelay)
			}
			return
		}

		w.evHandler("worker: runMiningOperation: MINING: mined block: blk[%s] index[%d]", block.Hash(), block.Index)

		// Send the new block to the network. Logging of individual peer
		// failures happens inside the broadcast.
		w.state.BroadcastBlock(block)
	}()

	// Wait for both G's to terminate.
	wg.Wait()
}
