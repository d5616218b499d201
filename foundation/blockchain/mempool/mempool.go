// Package mempool maintains the pending transactions for the blockchain.
package mempool

import (
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Mempool represents an ordered queue of pending transactions. Transactions
// are picked in the order they were added.
type Mempool struct {
	mu   sync.RWMutex
	pool []database.Tx
}

// New constructs a new, empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the end of the pool and returns the new
// size of the pool.
func (mp *Mempool) Add(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// PickBest returns up to howMany transactions from the front of the pool
// without removing them. A negative value or one larger than the pool
// returns every transaction.
func (mp *Mempool) PickBest(howMany int) []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	if howMany < 0 || howMany > len(mp.pool) {
		howMany = len(mp.pool)
	}

	txs := make([]database.Tx, howMany)
	copy(txs, mp.pool[:howMany])

	return txs
}

// Drop removes the first n transactions from the pool.
func (mp *Mempool) Drop(n int) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if n <= 0 {
		return
	}

	if n >= len(mp.pool) {
		mp.pool = nil
		return
	}

	remaining := make([]database.Tx, len(mp.pool)-n)
	copy(remaining, mp.pool[n:])
	mp.pool = remaining
}

// Copy returns every pending transaction in order.
func (mp *Mempool) Copy() []database.Tx {
	return mp.PickBest(-1)
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}
