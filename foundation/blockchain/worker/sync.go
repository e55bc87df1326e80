package worker

import (
	"github.com/emberchain/blockchain/foundation/blockchain/peer"
)

// sync brings this node up to date with its peers before the operational
// goroutines start: learn new peers, pull pending transactions, and adopt a
// longer chain when one exists.
func (w *Worker) sync() {
	w.evHandler("worker: sync: started")
	defer w.evHandler("worker: sync: completed")

	for _, pr := range w.state.KnownPeers() {

		// Retrieve the status of this peer.
		status, err := w.state.QueryPeerStatus(pr)
		if err != nil {
			w.evHandler("worker: sync: queryPeerStatus: %s: ERROR: %s", pr.Host, err)
			continue
		}

		// Add new peers to this node's list.
		w.addNewPeers(status.KnownPeers)

		// Pull the peer's pending transactions into the local mempool.
		pool, err := w.state.QueryPeerMempool(pr)
		if err != nil {
			w.evHandler("worker: sync: queryPeerMempool: %s: ERROR: %s", pr.Host, err)
		}
		for _, tx := range pool {
			if err := w.state.SubmitPeerTransaction(tx); err != nil {
				w.evHandler("worker: sync: queryPeerMempool: %s: tx[%s]: %s", pr.Host, tx, err)
			}
		}

		// If this peer has a longer chain, adopt it.
		if status.ChainLength > w.state.Height() {
			w.evHandler("worker: sync: peer ahead: %s: length[%d]", pr.Host, status.ChainLength)
			if err := w.state.RequestPeerChain(pr); err != nil {
				w.evHandler("worker: sync: requestPeerChain: %s: ERROR: %s", pr.Host, err)
			}
		}
	}
}

// addNewPeers takes a list of known peers and makes sure they are included
// in this node's list of known peers.
func (w *Worker) addNewPeers(peers []peer.Peer) {
	for _, pr := range peers {
		if w.state.AddKnownPeer(pr) {
			w.evHandler("worker: addNewPeers: added peer %s", pr.Host)
		}
	}
}
