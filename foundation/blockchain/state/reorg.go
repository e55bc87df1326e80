package state

import (
	"errors"
	"sort"

	"github.com/emberchain/blockchain/foundation/blockchain/chain"
	"github.com/emberchain/blockchain/foundation/blockchain/database"
)

// ErrChainRejected is returned when a remote chain is empty or fails full
// validation.
var ErrChainRejected = errors.New("remote chain rejected")

// ErrChainNotLonger is returned when a valid remote chain is not strictly
// longer than the local chain. Ties go to the local chain.
var ErrChainNotLonger = errors.New("remote chain not longer than local chain")

// ReplaceChain reconciles a conflicting chain received from a peer under the
// longest-chain rule. The remote blocks may arrive unordered; they are
// sorted by index before validation. On success the whole chain is swapped
// atomically and persisted.
func (s *State) ReplaceChain(remote []database.Block) error {
	s.evHandler("state: ReplaceChain: started: remote height[%d]", len(remote))
	defer s.evHandler("state: ReplaceChain: completed")

	if len(remote) == 0 {
		return ErrChainRejected
	}

	blocks := make([]database.Block, len(remote))
	copy(blocks, remote)
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Index < blocks[j].Index })

	// Full validation happens before the lock is taken. The length
	// comparison and the swap happen under it.
	if !chain.IsValidChainAt(blocks, s.difficulty) {
		return ErrChainRejected
	}

	if s.Worker != nil {
		done := s.Worker.SignalCancelMining()
		defer done()
	}

	s.mu.Lock()
	if len(blocks) <= s.chain.Height() {
		s.mu.Unlock()
		return ErrChainNotLonger
	}
	s.chain.Replace(blocks)
	s.mu.Unlock()

	s.evHandler("state: ReplaceChain: chain replaced: height[%d]", len(blocks))

	s.persistChain()

	return nil
}
