// Package consensus implements the pure rule functions every node must agree
// on. Changing any constant or rule in this package forks the node off the
// network. All functions are deterministic and side-effect free; rule
// violations are reported as booleans, never as errors.
package consensus

import (
	"strings"

	"github.com/emberchain/blockchain/foundation/blockchain/database"
)

const (
	// InitialBlockReward is the coinbase amount before any halving.
	InitialBlockReward int64 = 50

	// HalvingInterval is the number of blocks between reward halvings.
	HalvingInterval uint64 = 210_000

	// Difficulty is the number of leading '0' hex characters required in a
	// block hash.
	Difficulty = 3

	// CoinbaseFrom is the from address of every coinbase transaction.
	CoinbaseFrom = database.CoinbaseAccount
)

// RewardFor returns the block reward at the specified height. The reward
// halves every HalvingInterval blocks and saturates to zero.
func RewardFor(height uint64) int64 {
	halvings := height / HalvingInterval
	if halvings >= 64 {
		return 0
	}

	return InitialBlockReward >> halvings
}

// ValidateCoinbase reports whether the block opens with a well-formed
// coinbase: at least one transaction, the first from the system account,
// with a non-negative amount no greater than the reward at this height.
func ValidateCoinbase(block database.Block) bool {
	if len(block.Transactions) == 0 {
		return false
	}

	coinbase := block.Transactions[0]
	if !coinbase.IsCoinbase() {
		return false
	}

	return coinbase.Amount >= 0 && coinbase.Amount <= RewardFor(block.Index)
}

// ValidateDifficulty reports whether the block hash satisfies the consensus
// difficulty target.
func ValidateDifficulty(block database.Block) bool {
	return ValidateDifficultyAt(block, Difficulty)
}

// ValidateDifficultyAt reports whether the block hash starts with the
// specified number of '0' hex characters. The parameterized form exists for
// local testing only; the network runs on the Difficulty constant.
func ValidateDifficultyAt(block database.Block, difficulty int) bool {
	hash := block.Hash()
	if len(hash) != 64 {
		return false
	}

	return strings.HasPrefix(hash, strings.Repeat("0", difficulty))
}

// HashMeetsDifficulty reports whether a raw digest satisfies the difficulty
// prefix without encoding to hex. It is equivalent to checking the leading
// '0' characters of the hex form and exists for the mining hot path.
func HashMeetsDifficulty(digest [32]byte, difficulty int) bool {
	for i := 0; i < difficulty/2; i++ {
		if digest[i] != 0 {
			return false
		}
	}

	if difficulty%2 == 1 && digest[difficulty/2]&0xf0 != 0 {
		return false
	}

	return true
}

// Replay builds the address balance mapping by applying every transaction in
// the chain in order. Coinbase transactions credit the recipient; user
// transactions debit the sender and credit the recipient. Arithmetic is
// signed and balances are never clamped.
func Replay(blocks []database.Block) map[database.AccountID]int64 {
	balances := make(map[database.AccountID]int64)
	for _, block := range blocks {
		for _, tx := range block.Transactions {
			applyTx(balances, tx)
		}
	}

	return balances
}

// ValidateBalances reports whether every user transaction in the block is
// covered by the sender balance produced by replaying the preceding chain.
// Transactions apply in block order, so later transactions in the same block
// observe the effects of earlier ones, the coinbase credit included.
func ValidateBalances(preceding []database.Block, block database.Block) bool {
	balances := Replay(preceding)

	for _, tx := range block.Transactions {
		if !tx.IsCoinbase() {
			if tx.Amount <= 0 || tx.Amount > balances[tx.FromID] {
				return false
			}
		}

		applyTx(balances, tx)
	}

	return true
}

func applyTx(balances map[database.AccountID]int64, tx database.Tx) {
	if !tx.IsCoinbase() {
		balances[tx.FromID] -= tx.Amount
	}
	balances[tx.ToID] += tx.Amount
}
