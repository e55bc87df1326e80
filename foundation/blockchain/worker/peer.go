package worker

// peerOperations handles the periodic refresh of the peer list and catching
// up with peers that are ahead.
func (w *Worker) peerOperations() {
	w.evHandler("worker: peerOperations: G started")
	defer w.evHandler("worker: peerOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runPeerOperation()
			}
		case <-w.shut:
			w.evHandler("worker: peerOperations: received shut signal")
			return
		}
	}
}

// runPeerOperation queries every known peer for status, merges newly learned
// peers, and requests the chain from any peer that is ahead.
func (w *Worker) runPeerOperation() {
	w.evHandler("worker: runPeerOperation: started")
	defer w.evHandler("worker: runPeerOperation: completed")

	for _, pr := range w.state.KnownPeers() {
		status, err := w.state.QueryPeerStatus(pr)
		if err != nil {
			w.evHandler("worker: runPeerOperation: queryPeerStatus: %s: ERROR: %s", pr.Host, err)
			continue
		}

		w.addNewPeers(status.KnownPeers)

		if status.ChainLength > w.state.Height() {
			if err := w.state.RequestPeerChain(pr); err != nil {
				w.evHandler("worker: runPeerOperation: requestPeerChain: %s: ERROR: %s", pr.Host, err)
			}
		}
	}
}
