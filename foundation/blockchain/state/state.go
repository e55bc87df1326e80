// Package state is the core API for the blockchain node and implements all
// the business rules and processing. It is the only component that mutates
// the chain or persists it; every chain mutation runs under a single
// exclusive lock, and persistence and broadcast happen after the lock is
// released.
package state

import (
	"sync"

	"github.com/emberchain/blockchain/foundation/blockchain/chain"
	"github.com/emberchain/blockchain/foundation/blockchain/consensus"
	"github.com/emberchain/blockchain/foundation/blockchain/database"
	"github.com/emberchain/blockchain/foundation/blockchain/mempool"
	"github.com/emberchain/blockchain/foundation/blockchain/peer"
)

// EventHandler defines a function that is called when events occur in the
// processing of blocks and transactions.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining, peer updates, and transaction
// sharing.
type Worker interface {
	Shutdown()
	SignalCancelMining() (done func())
	SignalShareTx(tx database.Tx)
}

// Storage interface represents the behavior required to be implemented by
// any package providing support for persisting the chain. Save is a
// best-effort idempotent overwrite with last-writer-wins semantics.
type Storage interface {
	Load() ([]database.Block, error)
	Save(blocks []database.Block) error
	Close() error
}

// Transport interface represents the behavior required to be implemented by
// any package providing peer communication. Delivery is never assumed;
// duplicates and reorderings are tolerated by validation.
type Transport interface {
	SendBlock(pr peer.Peer, block database.Block) error
	SendTx(pr peer.Peer, tx database.Tx) error
	RequestChain(pr peer.Peer) ([]database.Block, error)
	RequestStatus(pr peer.Peer) (peer.Status, error)
	RequestMempool(pr peer.Peer) ([]database.Tx, error)
}

// =============================================================================

// Config represents the configuration required to start the blockchain node.
type Config struct {
	BeneficiaryID database.AccountID
	Host          string
	Difficulty    int
	Storage       Storage
	Transport     Transport
	KnownPeers    *peer.Set
	EvHandler     EventHandler
}

// State manages the blockchain node.
type State struct {
	mu sync.Mutex

	beneficiaryID database.AccountID
	host          string
	difficulty    int
	evHandler     EventHandler

	chain      *chain.Chain
	mempool    *mempool.Mempool
	knownPeers *peer.Set
	storage    Storage
	transport  Transport

	Worker Worker
}

// New constructs the node state, loading any persisted chain from storage.
// A persisted chain that is empty or fails validation is ignored and the
// node starts from genesis.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	difficulty := cfg.Difficulty
	if difficulty == 0 {
		difficulty = consensus.Difficulty
	}

	s := State{
		beneficiaryID: cfg.BeneficiaryID,
		host:          cfg.Host,
		difficulty:    difficulty,
		evHandler:     ev,
		chain:         chain.NewAtDifficulty(difficulty),
		knownPeers:    cfg.KnownPeers,
		storage:       cfg.Storage,
		transport:     cfg.Transport,
	}

	// The mempool pre-checks admissions against confirmed balances. The
	// function is injected so the pool carries no chain dependency.
	s.mempool = mempool.New(s.Balance)

	// Load any chain persisted by a previous run.
	blocks, err := cfg.Storage.Load()
	if err != nil {
		return nil, err
	}

	if len(blocks) > 0 {
		if chain.IsValidChainAt(blocks, difficulty) {
			s.chain.Replace(blocks)
			ev("state: startup: loaded chain from storage: height[%d]", len(blocks))
		} else {
			ev("state: startup: persisted chain failed validation, starting from genesis")
		}
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &s, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Make sure the storage is properly closed.
	defer func() {
		s.storage.Close()
	}()

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}
