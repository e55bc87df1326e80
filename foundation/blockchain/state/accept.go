package state

import (
	"errors"

	"github.com/emberchain/blockchain/foundation/blockchain/database"
)

// ErrBlockRejected is returned when a peer block failed a consensus rule or
// does not extend the current tip. The sender may be on a longer chain; the
// transport reacts by requesting it.
var ErrBlockRejected = errors.New("block rejected")

// AcceptBlock takes a block received from a peer and attempts to append it
// to the chain. Accepting a block cancels any in-flight local mining so the
// miner restarts from the new tip.
func (s *State) AcceptBlock(block database.Block) error {
	s.evHandler("state: AcceptBlock: started: prevBlk[%s]: newBlk[%s]: txs[%d]", block.PrevHash, block.Hash(), len(block.Transactions))
	defer s.evHandler("state: AcceptBlock: completed")

	// If mining is in flight it needs to stop before the tip changes. The
	// mining goroutine stays parked until done is called, which lets this
	// function complete its state changes first.
	if s.Worker != nil {
		done := s.Worker.SignalCancelMining()
		defer done()
	}

	s.mu.Lock()
	appended := s.chain.Append(block)
	s.mu.Unlock()

	if !appended {
		return ErrBlockRejected
	}

	s.mempool.RemoveConfirmed(block.Transactions)

	s.persistChain()

	return nil
}
