package state

import (
	"github.com/emberchain/blockchain/foundation/blockchain/database"
)

// SubmitTransaction admits a wallet-signed transaction into the mempool and
// queues it for sharing with the known peers.
func (s *State) SubmitTransaction(tx database.Tx) error {
	s.evHandler("state: SubmitTransaction: tx[%s]", tx)

	if err := s.mempool.Add(tx); err != nil {
		return err
	}

	if s.Worker != nil {
		s.Worker.SignalShareTx(tx)
	}

	return nil
}

// SubmitPeerTransaction admits a transaction learned from a peer. It is not
// re-shared; every node gossips only what its own clients submit.
func (s *State) SubmitPeerTransaction(tx database.Tx) error {
	s.evHandler("state: SubmitPeerTransaction: tx[%s]", tx)

	return s.mempool.Add(tx)
}
