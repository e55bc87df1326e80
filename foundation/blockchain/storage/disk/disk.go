// Package disk persists the chain as the canonical JSON array of blocks on
// the local filesystem. Writes are last-writer-wins: the file is replaced
// through a temp-file rename so readers never observe a partial chain.
package disk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/emberchain/blockchain/foundation/blockchain/database"
)

// Disk represents the storage implementation backed by a single chain file.
type Disk struct {
	dbPath string
}

// New constructs a disk storage rooted at the specified chain file,
// creating the parent directory if needed.
func New(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	return &Disk{dbPath: dbPath}, nil
}

// Load reads the persisted chain. A missing file is an empty chain, not an
// error.
func (d *Disk) Load() ([]database.Block, error) {
	data, err := os.ReadFile(d.dbPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read chain file: %w", err)
	}

	var blocks []database.Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("decode chain file: %w", err)
	}

	return blocks, nil
}

// Save overwrites the persisted chain with the specified blocks.
func (d *Disk) Save(blocks []database.Block) error {
	data, err := json.Marshal(blocks)
	if err != nil {
		return fmt.Errorf("encode chain: %w", err)
	}

	tmp := d.dbPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write chain file: %w", err)
	}

	if err := os.Rename(tmp, d.dbPath); err != nil {
		return fmt.Errorf("replace chain file: %w", err)
	}

	return nil
}

// Close implements the storage interface. There is nothing held open
// between operations.
func (d *Disk) Close() error {
	return nil
}
