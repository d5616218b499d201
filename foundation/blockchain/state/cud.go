package state

import "github.com/shopspring/decimal"

// Vote casts votes for the specified delegate.
func (s *State) Vote(id uint64, votes uint64) error {
	if s.registry == nil {
		return ErrNoRegistry
	}

	return s.registry.Vote(id, votes)
}

// SetBalance overwrites the balance of an account.
func (s *State) SetBalance(account string, amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.SetBalance(account, amount)
	s.evHandler("state: SetBalance: account[%s]: balance[%s]", account, amount)
}
