package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidTransaction is returned when a transaction does not pass the
// basic sanity checks required before it can touch a ledger.
var ErrInvalidTransaction = errors.New("invalid transaction")

// =============================================================================

// Tx is the transactional information between two parties. The field order
// is the order used when a batch of transactions is serialized for hashing.
type Tx struct {
	Sender    string          `json:"sender"`    // Account sending the value.
	Recipient string          `json:"recipient"` // Account receiving the value.
	Amount    decimal.Decimal `json:"amount"`    // Value being transferred.
	Timestamp string          `json:"timestamp"` // Time the transaction was created.
}

// NewTx constructs a new transaction stamped with the current time. No
// validation is performed here, see Validate.
func NewTx(sender string, recipient string, amount decimal.Decimal) Tx {
	return Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
		Timestamp: timestamp(),
	}
}

// Validate checks the transaction names both parties and moves a positive
// amount of value.
func (tx Tx) Validate() error {
	if tx.Sender == "" {
		return fmt.Errorf("%w: missing sender", ErrInvalidTransaction)
	}

	if tx.Recipient == "" {
		return fmt.Errorf("%w: missing recipient", ErrInvalidTransaction)
	}

	if !tx.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidTransaction, tx.Amount)
	}

	return nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%s", tx.Sender, tx.Recipient, tx.Amount)
}

// =============================================================================

// timestamp returns the current UTC time in the format recorded
// by transactions and blocks.
func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
