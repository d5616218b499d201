// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

// Delegate is a block producer candidate registered at startup.
type Delegate struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Votes uint64 `json:"votes"` // Votes applied to the delegate after registration.
}

// Genesis represents the genesis file.
type Genesis struct {
	Date          time.Time                  `json:"date"`
	Consensus     string                     `json:"consensus"`       // Name of the consensus strategy: pow or dpos.
	Difficulty    uint                       `json:"difficulty"`      // How difficult it needs to be to solve the work problem.
	TransPerBlock int                        `json:"trans_per_block"` // The maximum number of transactions that can be in a block, 0 is unlimited.
	Policy        string                     `json:"policy"`          // DPoS selection policy: rotating or max_votes.
	TopSize       int                        `json:"top_size"`        // How many delegates take part in a rotating round.
	Balances      map[string]decimal.Decimal `json:"balances"`
	Delegates     []Delegate                 `json:"delegates"`
}

// =============================================================================

// Load opens and consumes the genesis file at the specified path.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	return genesis, nil
}
