package state

import (
	"github.com/emberchain/blockchain/foundation/blockchain/consensus"
	"github.com/emberchain/blockchain/foundation/blockchain/database"
	"github.com/emberchain/blockchain/foundation/blockchain/peer"
)

// Chain returns a consistent snapshot of the full chain.
func (s *State) Chain() []database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain.Blocks()
}

// LatestBlock returns the current tip of the chain.
func (s *State) LatestBlock() database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain.Latest()
}

// Height returns the current chain length.
func (s *State) Height() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain.Height()
}

// Balance replays the chain to produce the confirmed balance for the
// specified address. Balances are not materialised anywhere; this walk is
// the source of truth.
func (s *State) Balance(account database.AccountID) int64 {
	s.mu.Lock()
	blocks := s.chain.Blocks()
	s.mu.Unlock()

	return consensus.Replay(blocks)[account]
}

// Balances replays the chain for every address seen so far.
func (s *State) Balances() map[database.AccountID]int64 {
	s.mu.Lock()
	blocks := s.chain.Blocks()
	s.mu.Unlock()

	return consensus.Replay(blocks)
}

// MempoolCount returns the number of pending transactions.
func (s *State) MempoolCount() int {
	return s.mempool.Count()
}

// Mempool returns a snapshot of the pending transactions.
func (s *State) Mempool() []database.Tx {
	return s.mempool.Snapshot(-1)
}

// Genesis returns the fixed genesis block.
func (s *State) Genesis() database.Block {
	return database.Genesis()
}

// KnownPeers returns the known peers, this node excluded.
func (s *State) KnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// AddKnownPeer adds a newly learned peer, reporting whether it was unknown.
func (s *State) AddKnownPeer(pr peer.Peer) bool {
	if pr.Match(s.host) {
		return false
	}

	return s.knownPeers.Add(pr)
}

// Host returns the host of this node within the network.
func (s *State) Host() string {
	return s.host
}

// Status reports this node's view of its own chain for peers.
func (s *State) Status() peer.Status {
	s.mu.Lock()
	latest := s.chain.Latest()
	height := s.chain.Height()
	s.mu.Unlock()

	return peer.Status{
		LatestBlockHash:  latest.Hash(),
		LatestBlockIndex: latest.Index,
		ChainLength:      height,
		KnownPeers:       s.KnownPeers(),
	}
}
