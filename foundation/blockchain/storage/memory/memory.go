// Package memory implements chain storage in memory, primarily for tests.
package memory

import (
	"sync"

	"github.com/emberchain/blockchain/foundation/blockchain/database"
)

// Memory represents the storage implementation backed by process memory.
type Memory struct {
	mu     sync.Mutex
	blocks []database.Block
}

// New constructs an empty in-memory storage.
func New() *Memory {
	return &Memory{}
}

// Load returns the stored chain.
func (m *Memory) Load() ([]database.Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	blocks := make([]database.Block, len(m.blocks))
	copy(blocks, m.blocks)

	return blocks, nil
}

// Save overwrites the stored chain.
func (m *Memory) Save(blocks []database.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks = make([]database.Block, len(blocks))
	copy(m.blocks, blocks)

	return nil
}

// Close implements the storage interface.
func (m *Memory) Close() error {
	return nil
}
