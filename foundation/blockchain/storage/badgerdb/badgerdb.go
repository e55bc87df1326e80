// Package badgerdb implements chain storage on badger. Each block is stored
// under its zero-padded index in the canonical JSON encoding, so an
// iteration in key order reproduces the chain.
package badgerdb

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/emberchain/blockchain/foundation/blockchain/database"
)

// blockKey produces a lexically sortable key for a block index.
func blockKey(index uint64) []byte {
	return []byte(fmt.Sprintf("block:%016d", index))
}

// Badger represents the storage implementation backed by a badger database.
type Badger struct {
	db *badger.DB
}

// New opens or creates the badger database at the specified directory.
func New(dbPath string) (*Badger, error) {
	opts := badger.DefaultOptions(dbPath).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	return &Badger{db: db}, nil
}

// Load reads every stored block in index order.
func (b *Badger) Load() ([]database.Block, error) {
	var blocks []database.Block

	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte("block:")

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var block database.Block
				if err := json.Unmarshal(val, &block); err != nil {
					return err
				}
				blocks = append(blocks, block)
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load chain: %w", err)
	}

	return blocks, nil
}

// Save overwrites the stored chain with the specified blocks. Stale tail
// entries from a previously longer chain are dropped.
func (b *Badger) Save(blocks []database.Block) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		for _, block := range blocks {
			data, err := json.Marshal(block)
			if err != nil {
				return err
			}
			if err := txn.Set(blockKey(block.Index), data); err != nil {
				return err
			}
		}

		// Remove anything beyond the new tip.
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte("block:")
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)

		var stale [][]byte
		for it.Seek(blockKey(uint64(len(blocks)))); it.Valid(); it.Next() {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("save chain: %w", err)
	}

	return nil
}

// Close closes the underlying database.
func (b *Badger) Close() error {
	return b.db.Close()
}
