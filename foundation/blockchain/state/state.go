// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/consensus"
	"github.com/ardanlabs/ledger/foundation/blockchain/consensus/dpos"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/ledger"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
)

// ErrNoRegistry is returned when a delegate operation is requested on a node
// that isn't running delegated proof of stake.
var ErrNoRegistry = errors.New("node has no delegate registry")

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of producing blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for producing blocks in the background.
type Worker interface {
	Shutdown()
	SignalStartProducing()
	SignalCancelProducing() (done func())
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Genesis   genesis.Genesis
	Storage   database.Storage
	Consensus consensus.Strategy
	Registry  *dpos.Registry // Only set when running dpos.
	EvHandler EventHandler
}

// State manages the blockchain.
type State struct {
	mu        sync.RWMutex
	produceMu sync.Mutex
	evHandler EventHandler

	genesis   genesis.Genesis
	chain     *database.Blockchain
	ledger    *ledger.Ledger
	mempool   *mempool.Mempool
	consensus consensus.Strategy
	registry  *dpos.Registry

	Worker Worker
}

// New constructs a new blockchain for data management.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if cfg.Consensus == nil {
		return nil, errors.New("a consensus strategy is required")
	}

	// Access the chain, writing genesis if the storage is empty.
	chain, err := database.New(cfg.Storage, ev)
	if err != nil {
		return nil, err
	}

	// Seed the ledger with the genesis balances and replay any blocks that
	// were already in storage.
	lgr := ledger.New(cfg.Genesis.Balances)

	blocks, err := chain.Blocks()
	if err != nil {
		return nil, err
	}
	for _, block := range blocks[1:] {
		if err := lgr.ApplyBlock(block); err != nil {
			return nil, fmt.Errorf("replaying ledger: %w", err)
		}
	}

	state := State{
		evHandler: ev,
		genesis:   cfg.Genesis,
		chain:     chain,
		ledger:    lgr,
		mempool:   mempool.New(),
		consensus: cfg.Consensus,
		registry:  cfg.Registry,
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// NewRegistry constructs a delegate registry from the genesis delegates.
// Delegates start with no votes and any genesis votes are cast afterwards.
func NewRegistry(gen genesis.Genesis, evHandler EventHandler) (*dpos.Registry, error) {
	delegates := make([]dpos.Delegate, len(gen.Delegates))
	for i, d := range gen.Delegates {
		delegates[i] = dpos.NewDelegate(d.ID, d.Name)
	}

	reg, err := dpos.New(dpos.Config{
		Delegates: delegates,
		Policy:    gen.Policy,
		TopSize:   gen.TopSize,
		EvHandler: evHandler,
	})
	if err != nil {
		return nil, err
	}

	for _, d := range gen.Delegates {
		if d.Votes == 0 {
			continue
		}
		if err := reg.Vote(d.ID, d.Votes); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {

	// Stop all block production before closing storage.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return s.chain.Close()
}
