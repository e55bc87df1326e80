package state

import (
	"errors"

	"github.com/emberchain/blockchain/foundation/blockchain/database"
	"github.com/emberchain/blockchain/foundation/blockchain/peer"
)

// ErrNoTransport is returned when a network operation runs on a node that
// was configured without a transport.
var ErrNoTransport = errors.New("no transport configured")

// BroadcastBlock sends a block to every known peer, fire and forget.
// Individual peer failures are logged and swallowed.
func (s *State) BroadcastBlock(block database.Block) {
	if s.transport == nil {
		return
	}

	for _, pr := range s.KnownPeers() {
		if err := s.transport.SendBlock(pr, block); err != nil {
			s.evHandler("state: BroadcastBlock: WARNING: peer[%s]: %s", pr.Host, err)
		}
	}
}

// BroadcastTx sends a transaction to every known peer, fire and forget.
func (s *State) BroadcastTx(tx database.Tx) {
	if s.transport == nil {
		return
	}

	for _, pr := range s.KnownPeers() {
		if err := s.transport.SendTx(pr, tx); err != nil {
			s.evHandler("state: BroadcastTx: WARNING: peer[%s]: %s", pr.Host, err)
		}
	}
}

// RequestPeerChain asks the specified peer for its full chain and attempts
// to adopt it under the longest-chain rule. This is the fork resolution
// path: it runs whenever a peer block was rejected because this node may be
// behind.
func (s *State) RequestPeerChain(pr peer.Peer) error {
	s.evHandler("state: RequestPeerChain: started: peer[%s]", pr.Host)
	defer s.evHandler("state: RequestPeerChain: completed: peer[%s]", pr.Host)

	if s.transport == nil {
		return ErrNoTransport
	}

	remote, err := s.transport.RequestChain(pr)
	if err != nil {
		return err
	}

	return s.ReplaceChain(remote)
}

// QueryPeerStatus asks the specified peer for its status.
func (s *State) QueryPeerStatus(pr peer.Peer) (peer.Status, error) {
	if s.transport == nil {
		return peer.Status{}, ErrNoTransport
	}

	return s.transport.RequestStatus(pr)
}

// QueryPeerMempool asks the specified peer for its pending transactions.
func (s *State) QueryPeerMempool(pr peer.Peer) ([]database.Tx, error) {
	if s.transport == nil {
		return nil, ErrNoTransport
	}

	return s.transport.RequestMempool(pr)
}

// persistChain saves a snapshot of the chain to storage. Failures are
// logged and swallowed; the in-memory chain remains authoritative and the
// next mutation retries.
func (s *State) persistChain() {
	s.mu.Lock()
	blocks := s.chain.Blocks()
	s.mu.Unlock()

	if err := s.storage.Save(blocks); err != nil {
		s.evHandler("state: persistChain: WARNING: %s", err)
	}
}
