// Package mempool maintains the pool of transactions accepted by the node
// but not yet included in a block. Admission performs an advisory balance
// pre-check; the authoritative check happens when a block is appended to the
// chain under the coordinator lock.
package mempool

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/emberchain/blockchain/foundation/blockchain/database"
)

// ErrDuplicate is returned when a transaction id is already pooled.
var ErrDuplicate = errors.New("transaction already in mempool")

// BalanceFunc reports the confirmed balance for an address. The coordinator
// injects this so the mempool carries no chain dependency.
type BalanceFunc func(account database.AccountID) int64

// Mempool represents a cache of pending transactions keyed by id.
type Mempool struct {
	mu               sync.RWMutex
	pool             map[string]database.Tx
	confirmedBalance BalanceFunc
}

// New constructs a mempool with the specified confirmed balance source.
func New(confirmedBalance BalanceFunc) *Mempool {
	return &Mempool{
		pool:             make(map[string]database.Tx),
		confirmedBalance: confirmedBalance,
	}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add admits a transaction into the pool. The signature must validate and,
// for user transactions, the amount must be covered by the confirmed balance
// minus what is already pending from the same sender. The balance check is a
// best-effort pre-filter; block validation remains authoritative.
func (mp *Mempool) Add(tx database.Tx) error {
	if !tx.ValidateSignature() {
		return errors.New("invalid transaction signature")
	}

	if tx.IsCoinbase() {
		return errors.New("coinbase transactions are minted, not submitted")
	}

	// Read the confirmed balance before taking the pool lock. The injected
	// function acquires the coordinator lock, so the pool lock is never held
	// while waiting on it.
	confirmed := mp.confirmedBalance(tx.FromID)

	mp.mu.Lock()
	defer mp.mu.Unlock()

	if _, exists := mp.pool[tx.ID]; exists {
		return ErrDuplicate
	}

	var pending int64
	for _, ptx := range mp.pool {
		if ptx.FromID == tx.FromID {
			pending += ptx.Amount
		}
	}

	if available := confirmed - pending; tx.Amount > available {
		return fmt.Errorf("insufficient funds, available %d, needed %d", available, tx.Amount)
	}

	mp.pool[tx.ID] = tx

	return nil
}

// Remove deletes a transaction from the pool if present.
func (mp *Mempool) Remove(id string) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	delete(mp.pool, id)
}

// RemoveConfirmed deletes the transactions of a newly appended block from
// the pool. Best effort: ids that are not pooled are ignored.
func (mp *Mempool) RemoveConfirmed(trans []database.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for _, tx := range trans {
		delete(mp.pool, tx.ID)
	}
}

// Snapshot returns up to limit transactions. The slice is ordered by
// timestamp then id so a single snapshot is stable, but there is no
// guarantee the transactions remain pooled once the lock is released.
// A negative limit returns everything.
func (mp *Mempool) Snapshot(limit int) []database.Tx {
	mp.mu.RLock()
	trans := make([]database.Tx, 0, len(mp.pool))
	for _, tx := range mp.pool {
		trans = append(trans, tx)
	}
	mp.mu.RUnlock()

	sort.Slice(trans, func(i, j int) bool {
		if trans[i].TimeStamp != trans[j].TimeStamp {
			return trans[i].TimeStamp < trans[j].TimeStamp
		}
		return trans[i].ID < trans[j].ID
	})

	if limit >= 0 && len(trans) > limit {
		trans = trans[:limit]
	}

	return trans
}

// Clear removes every transaction from the pool.
func (mp *Mempool) Clear() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[string]database.Tx)
}
