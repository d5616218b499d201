// Package ledger maintains account balances and applies transactions and
// blocks to them.
package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/shopspring/decimal"
)

// Set of error variables for applying transactions.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("invalid amount")
)

// TransactionError reports the transaction inside a block that could not
// be applied.
type TransactionError struct {
	BlockIndex uint64
	Position   int
	Tx         database.Tx
	Err        error
}

// Error implements the error interface.
func (te *TransactionError) Error() string {
	return fmt.Sprintf("block %d: tx %d [%s]: %s", te.BlockIndex, te.Position, te.Tx, te.Err)
}

// Unwrap provides access to the underlying failure.
func (te *TransactionError) Unwrap() error {
	return te.Err
}

// =============================================================================

// Ledger manages the balance of every account that has transacted.
type Ledger struct {
	mu       sync.RWMutex
	balances map[string]decimal.Decimal
}

// New constructs a ledger seeded with the specified balances.
func New(balances map[string]decimal.Decimal) *Ledger {
	lgr := Ledger{
		balances: make(map[string]decimal.Decimal, len(balances)),
	}

	for account, balance := range balances {
		lgr.balances[account] = balance
	}

	return &lgr
}

// Balance returns the balance for the account. Unknown accounts hold zero.
func (lgr *Ledger) Balance(account string) decimal.Decimal {
	lgr.mu.RLock()
	defer lgr.mu.RUnlock()

	return lgr.balances[account]
}

// SetBalance overwrites the balance for the account.
func (lgr *Ledger) SetBalance(account string, amount decimal.Decimal) {
	lgr.mu.Lock()
	defer lgr.mu.Unlock()

	lgr.balances[account] = amount
}

// ApplyTransaction moves the amount from the sender to the recipient. Nothing
// changes when the sender can't cover the amount.
func (lgr *Ledger) ApplyTransaction(tx database.Tx) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}

	lgr.mu.Lock()
	defer lgr.mu.Unlock()

	from := lgr.balances[tx.Sender]
	if from.LessThan(tx.Amount) {
		return fmt.Errorf("%w: %s holds %s, needs %s", ErrInsufficientFunds, tx.Sender, from, tx.Amount)
	}

	lgr.balances[tx.Sender] = from.Sub(tx.Amount)
	lgr.balances[tx.Recipient] = lgr.balances[tx.Recipient].Add(tx.Amount)

	return nil
}

// ApplyBlock applies the block's transactions in order and stops at the
// first failure. Transactions applied before the failure stay applied, use
// Clone and Replace to get all or nothing.
func (lgr *Ledger) ApplyBlock(block database.Block) error {
	for i, tx := range block.Transactions {
		if err := lgr.ApplyTransaction(tx); err != nil {
			return &TransactionError{
				BlockIndex: block.Index,
				Position:   i,
				Tx:         tx,
				Err:        err,
			}
		}
	}

	return nil
}

// Clone makes a copy of the ledger.
func (lgr *Ledger) Clone() *Ledger {
	lgr.mu.RLock()
	defer lgr.mu.RUnlock()

	return New(lgr.balances)
}

// Replace updates the ledger with the balances of the specified ledger.
func (lgr *Ledger) Replace(other *Ledger) {
	balances := other.Copy()

	lgr.mu.Lock()
	defer lgr.mu.Unlock()

	lgr.balances = balances
}

// Copy makes a copy of the current balances for all accounts.
func (lgr *Ledger) Copy() map[string]decimal.Decimal {
	lgr.mu.RLock()
	defer lgr.mu.RUnlock()

	balances := make(map[string]decimal.Decimal, len(lgr.balances))
	for account, balance := range lgr.balances {
		balances[account] = balance
	}
	return balances
}

// Total returns the sum of every balance.
func (lgr *Ledger) Total() decimal.Decimal {
	lgr.mu.RLock()
	defer lgr.mu.RUnlock()

	total := decimal.Zero
	for _, balance := range lgr.balances {
		total = total.Add(balance)
	}
	return total
}
