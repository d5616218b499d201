// Package consensus provides the set of strategies that can seal a block
// before it is added to the chain.
package consensus

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/consensus/dpos"
	"github.com/ardanlabs/ledger/foundation/blockchain/consensus/pow"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// List of different consensus strategies.
const (
	ProofOfWork      = "pow"
	DelegatedStaking = "dpos"
)

// Strategy represents the behavior required to seal and verify blocks.
type Strategy interface {
	Name() string
	Seal(ctx context.Context, block *database.Block) error
	Verify(block database.Block) error
}

// Config represents the settings needed to construct any strategy.
type Config struct {
	Name        string
	Difficulty  uint
	Beneficiary string
	Registry    *dpos.Registry
	EvHandler   func(v string, args ...any)
}

// New returns the strategy with the specified name.
func New(cfg Config) (Strategy, error) {
	switch cfg.Name {
	case ProofOfWork:
		return pow.New(pow.Config{
			Difficulty:  cfg.Difficulty,
			Beneficiary: cfg.Beneficiary,
			EvHandler:   cfg.EvHandler,
		}), nil

	case DelegatedStaking:
		if cfg.Registry == nil {
			return nil, errors.New("dpos strategy requires a delegate registry")
		}
		return cfg.Registry, nil
	}

	return nil, fmt.Errorf("strategy %q does not exist", cfg.Name)
}
