// Package chain maintains the ordered block sequence. The type performs no
// locking of its own; the node coordinator serializes every read and
// mutation behind its single mutex.
package chain

import (
	"github.com/emberchain/blockchain/foundation/blockchain/consensus"
	"github.com/emberchain/blockchain/foundation/blockchain/database"
	"github.com/emberchain/blockchain/foundation/blockchain/merkle"
)

// Chain is an ordered list of blocks starting at the fixed genesis.
type Chain struct {
	blocks     []database.Block
	difficulty int
}

// New constructs a chain holding only the genesis block, validating at the
// consensus difficulty.
func New() *Chain {
	return NewAtDifficulty(consensus.Difficulty)
}

// NewAtDifficulty constructs a genesis chain validating at the specified
// difficulty. Anything other than the consensus constant is for local
// testing only.
func NewAtDifficulty(difficulty int) *Chain {
	return &Chain{
		blocks:     []database.Block{database.Genesis()},
		difficulty: difficulty,
	}
}

// Latest returns the tail block.
func (c *Chain) Latest() database.Block {
	return c.blocks[len(c.blocks)-1]
}

// Height returns the number of blocks in the chain.
func (c *Chain) Height() int {
	return len(c.blocks)
}

// Blocks returns a copy of the block list.
func (c *Chain) Blocks() []database.Block {
	blocks := make([]database.Block, len(c.blocks))
	copy(blocks, c.blocks)

	return blocks
}

// Append adds the block to the chain iff it extends the tip and passes the
// consensus rules. On failure the chain is unchanged.
func (c *Chain) Append(block database.Block) bool {
	latest := c.Latest()

	if block.PrevHash != latest.Hash() {
		return false
	}
	if block.Index != latest.Index+1 {
		return false
	}

	if block.Index > 0 {
		switch {
		case !consensus.ValidateCoinbase(block):
			return false
		case !consensus.ValidateDifficultyAt(block, c.difficulty):
			return false
		case !consensus.ValidateBalances(c.blocks, block):
			return false
		case block.MerkleRoot != merkle.RootHex(database.TxIDs(block.Transactions)):
			return false
		}
	}

	c.blocks = append(c.blocks, block)

	return true
}

// Replace swaps in a new block list unconditionally. The caller is
// responsible for having validated the list.
func (c *Chain) Replace(blocks []database.Block) {
	c.blocks = make([]database.Block, len(blocks))
	copy(c.blocks, blocks)
}

// IsValidChain reports whether the block list forms a valid chain at the
// consensus difficulty.
func IsValidChain(blocks []database.Block) bool {
	return IsValidChainAt(blocks, consensus.Difficulty)
}

// IsValidChainAt reports whether the block list forms a valid chain: the
// fixed genesis at index 0 and every later block linking to, and validating
// against, the prefix before it.
func IsValidChainAt(blocks []database.Block, difficulty int) bool {
	if len(blocks) == 0 {
		return false
	}

	if blocks[0].Hash() != database.Genesis().Hash() {
		return false
	}

	for i := 1; i < len(blocks); i++ {
		block := blocks[i]

		switch {
		case block.Index != uint64(i):
			return false
		case block.PrevHash != blocks[i-1].Hash():
			return false
		case !consensus.ValidateCoinbase(block):
			return false
		case !consensus.ValidateDifficultyAt(block, difficulty):
			return false
		case !consensus.ValidateBalances(blocks[:i], block):
			return false
		case block.MerkleRoot != merkle.RootHex(database.TxIDs(block.Transactions)):
			return false
		}
	}

	return true
}
