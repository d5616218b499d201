// Package pow implements proof of work sealing. A block is sealed by
// searching for a nonce that gives its hash the configured number of
// leading zeros.
package pow

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// ErrNotSolved is returned when a block's hash doesn't satisfy the
// difficulty.
var ErrNotSolved = errors.New("block hash does not satisfy the difficulty")

// Config represents the settings for proof of work.
type Config struct {
	Difficulty  uint
	Beneficiary string // Account credited as producer of the blocks.
	EvHandler   func(v string, args ...any)
}

// PoW seals blocks by mining them.
type PoW struct {
	difficulty  uint
	beneficiary string
	evHandler   func(v string, args ...any)
}

// New constructs a proof of work strategy.
func New(cfg Config) *PoW {
	ev := cfg.EvHandler
	if ev == nil {
		ev = func(string, ...any) {}
	}

	return &PoW{
		difficulty:  cfg.Difficulty,
		beneficiary: cfg.Beneficiary,
		evHandler:   ev,
	}
}

// Name returns the name of the consensus strategy.
func (p *PoW) Name() string {
	return "pow"
}

// Difficulty returns the number of leading zeros required.
func (p *PoW) Difficulty() uint {
	return p.difficulty
}

// Seal records the beneficiary as producer and mines the block. The search
// stops when the context is cancelled.
func (p *PoW) Seal(ctx context.Context, block *database.Block) error {
	block.Producer = p.beneficiary
	return block.Mine(ctx, p.difficulty, p.evHandler)
}

// Verify checks the block's hash matches its content and satisfies the
// difficulty.
func (p *PoW) Verify(block database.Block) error {
	if hash := block.CalculateHash(); hash != block.Hash {
		return fmt.Errorf("%w: hash does not match content", ErrNotSolved)
	}

	if !database.IsHashSolved(p.difficulty, block.Hash) {
		return fmt.Errorf("%w: %s at difficulty %d", ErrNotSolved, block.Hash, p.difficulty)
	}

	return nil
}
