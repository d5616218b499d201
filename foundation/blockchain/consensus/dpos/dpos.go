// Package dpos implements delegated proof of stake producer election. A
// registry of delegates accumulates votes and a policy decides which
// delegate seals the next block.
package dpos

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Set of selection policies.
const (
	PolicyRotating = "rotating"
	PolicyMaxVotes = "max_votes"
)

// DefaultTopSize is the number of highest voted delegates that take part in
// a rotating round.
const DefaultTopSize = 10

// Set of error variables for the registry.
var (
	ErrNoDelegates       = errors.New("no delegates registered")
	ErrDuplicateDelegate = errors.New("duplicate delegate id")
	ErrUnknownProducer   = errors.New("block producer is not a registered delegate")
)

// DelegateNotFoundError is returned when a vote names a delegate the
// registry doesn't know.
type DelegateNotFoundError struct {
	ID uint64
}

// Error implements the error interface.
func (e *DelegateNotFoundError) Error() string {
	return fmt.Sprintf("delegate %d not found", e.ID)
}

// IsDelegateNotFound checks if an error of type DelegateNotFoundError exists.
func IsDelegateNotFound(err error) bool {
	var dnf *DelegateNotFoundError
	return errors.As(err, &dnf)
}

// =============================================================================

// Delegate represents a candidate block producer.
type Delegate struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Votes uint64 `json:"votes"`
}

// NewDelegate constructs a delegate with no votes.
func NewDelegate(id uint64, name string) Delegate {
	return Delegate{
		ID:   id,
		Name: name,
	}
}

// =============================================================================

// Config represents the settings for a registry.
type Config struct {
	Delegates []Delegate
	Policy    string // Defaults to rotating.
	TopSize   int    // Defaults to DefaultTopSize.
	EvHandler func(v string, args ...any)
}

// Registry maintains the set of delegates and elects producers.
type Registry struct {
	mu        sync.RWMutex
	delegates []Delegate
	policy    string
	topSize   int
	round     uint64
	evHandler func(v string, args ...any)
}

// New constructs a registry from the configured delegates.
func New(cfg Config) (*Registry, error) {
	policy := cfg.Policy
	if policy == "" {
		policy = PolicyRotating
	}

	switch policy {
	case PolicyRotating, PolicyMaxVotes:
	default:
		return nil, fmt.Errorf("policy %q does not exist", policy)
	}

	topSize := cfg.TopSize
	if topSize <= 0 {
		topSize = DefaultTopSize
	}

	ev := cfg.EvHandler
	if ev == nil {
		ev = func(string, ...any) {}
	}

	seen := make(map[uint64]bool, len(cfg.Delegates))
	delegates := make([]Delegate, 0, len(cfg.Delegates))
	for _, d := range cfg.Delegates {
		if seen[d.ID] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateDelegate, d.ID)
		}
		seen[d.ID] = true
		delegates = append(delegates, d)
	}

	reg := Registry{
		delegates: delegates,
		policy:    policy,
		topSize:   topSize,
		evHandler: ev,
	}

	return &reg, nil
}

// Name returns the name of the consensus strategy.
func (reg *Registry) Name() string {
	return "dpos"
}

// Policy returns the selection policy in use.
func (reg *Registry) Policy() string {
	return reg.policy
}

// Vote adds votes to the specified delegate.
func (reg *Registry) Vote(id uint64, votes uint64) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for i := range reg.delegates {
		if reg.delegates[i].ID == id {
			reg.delegates[i].Votes += votes
			reg.evHandler("dpos: Vote: delegate[%d]: votes[%d]: total[%d]", id, votes, reg.delegates[i].Votes)
			return nil
		}
	}

	return &DelegateNotFoundError{ID: id}
}

// Select elects the next producer according to the policy. The rotating
// policy advances its round on every call.
func (reg *Registry) Select() (Delegate, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if len(reg.delegates) == 0 {
		return Delegate{}, ErrNoDelegates
	}

	if reg.policy == PolicyMaxVotes {
		best := reg.delegates[0]
		for _, d := range reg.delegates[1:] {
			if d.Votes > best.Votes {
				best = d
			}
		}
		return best, nil
	}

	top := reg.top()
	d := top[reg.round%uint64(len(top))]
	reg.round++

	return d, nil
}

// Delegates returns a copy of every registered delegate in registration
// order.
func (reg *Registry) Delegates() []Delegate {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	delegates := make([]Delegate, len(reg.delegates))
	copy(delegates, reg.delegates)
	return delegates
}

// Top returns the delegates taking part in the current rotation, highest
// votes first.
func (reg *Registry) Top() []Delegate {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return reg.top()
}

// Round returns the number of rotating elections performed.
func (reg *Registry) Round() uint64 {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return reg.round
}

// Seal elects a producer and records it on the block. Sealing does not
// search for a nonce.
func (reg *Registry) Seal(ctx context.Context, block *database.Block) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d, err := reg.Select()
	if err != nil {
		return err
	}

	block.Producer = d.Name
	reg.evHandler("dpos: Seal: blk[%d]: SELECTED: delegate[%d:%s]: votes[%d]", block.Index, d.ID, d.Name, d.Votes)

	return nil
}

// Verify checks the block names a registered delegate as its producer.
func (reg *Registry) Verify(block database.Block) error {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	for _, d := range reg.delegates {
		if d.Name == block.Producer {
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrUnknownProducer, block.Producer)
}

// =============================================================================

// top ranks the delegates by votes and returns the leading topSize. Ties
// keep registration order. The caller must hold the lock.
func (reg *Registry) top() []Delegate {
	ranked := make([]Delegate, len(reg.delegates))
	copy(ranked, reg.delegates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Votes > ranked[j].Votes
	})

	if len(ranked) > reg.topSize {
		ranked = ranked[:reg.topSize]
	}

	return ranked
}
