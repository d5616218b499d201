package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/consensus/dpos"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/shopspring/decimal"
)

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveBalance returns the current balance for the account.
func (s *State) RetrieveBalance(account string) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.Balance(account)
}

// RetrieveBalances returns a copy of every account balance.
func (s *State) RetrieveBalances() map[string]decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.Copy()
}

// RetrieveLatestBlock returns the tip of the chain.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.chain.LatestBlock()
}

// RetrieveBlocks returns every block in the chain.
func (s *State) RetrieveBlocks() ([]database.Block, error) {
	return s.chain.Blocks()
}

// RetrieveMempool returns a copy of the pending transactions.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.Copy()
}

// RetrieveDelegates returns the registered delegates. The list is empty when
// the node isn't running dpos.
func (s *State) RetrieveDelegates() []dpos.Delegate {
	if s.registry == nil {
		return nil
	}

	return s.registry.Delegates()
}

// RetrieveTopDelegates returns the delegates taking part in the current
// rotation, highest votes first.
func (s *State) RetrieveTopDelegates() []dpos.Delegate {
	if s.registry == nil {
		return nil
	}

	return s.registry.Top()
}

// ConsensusName returns the name of the consensus strategy in use.
func (s *State) ConsensusName() string {
	return s.consensus.Name()
}

// MempoolLength returns the current length of the mempool.
func (s *State) MempoolLength() int {
	return s.mempool.Count()
}

// ValidateChain walks the chain checking every block links to the block
// before it.
func (s *State) ValidateChain() error {
	return s.chain.Validate()
}

// QueryBlocksByAccount returns the set of blocks with a transaction sent or
// received by the account. If the account is empty, all blocks are returned.
func (s *State) QueryBlocksByAccount(account string) ([]database.Block, error) {
	blocks, err := s.chain.Blocks()
	if err != nil {
		return nil, err
	}

	if account == "" {
		return blocks, nil
	}

	var out []database.Block
	for _, block := range blocks {
		for _, tx := range block.Transactions {
			if tx.Sender == account || tx.Recipient == account {
				out = append(out, block)
				break
			}
		}
	}

	return out, nil
}
