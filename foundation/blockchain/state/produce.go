package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Set of error variables for producing blocks.
var (
	ErrNoTransactions      = errors.New("no transactions in mempool")
	ErrNoValidTransactions = errors.New("no valid transactions in mempool")
)

// =============================================================================

// ProduceBlock takes the next set of pending transactions, validates them
// against the ledger, seals a block with the consensus strategy and adds the
// block to the chain. Nothing changes when sealing fails.
func (s *State) ProduceBlock(ctx context.Context) (database.Block, error) {
	s.produceMu.Lock()
	defer s.produceMu.Unlock()

	s.evHandler("state: ProduceBlock: PRODUCE: check mempool count")

	// Are there enough transactions in the pool.
	if s.mempool.Count() == 0 {
		return database.Block{}, ErrNoTransactions
	}

	// Pick the transactions and keep the ones the ledger can cover. The
	// rejected ones are removed with the rest of the picked set once the
	// block is added.
	picked := s.mempool.PickBest(s.transPerBlock())
	valid := s.validTransactions(picked)

	if len(valid) == 0 {
		s.evHandler("state: ProduceBlock: PRODUCE: dropping %d invalid transactions", len(picked))
		s.mempool.Drop(len(picked))
		return database.Block{}, ErrNoValidTransactions
	}

	s.evHandler("state: ProduceBlock: PRODUCE: seal: consensus[%s]: txs[%d]", s.consensus.Name(), len(valid))

	// Construct the candidate on top of the tip and seal it. This can be
	// cancelled.
	tip := s.chain.LatestBlock()
	block := database.NewBlock(tip.Index+1, valid, tip.Hash)

	if err := s.consensus.Seal(ctx, &block); err != nil {
		return database.Block{}, fmt.Errorf("sealing block %d: %w", block.Index, err)
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	if err := s.consensus.Verify(block); err != nil {
		return database.Block{}, fmt.Errorf("verifying block %d: %w", block.Index, err)
	}

	s.evHandler("state: ProduceBlock: PRODUCE: update local state")

	if err := s.commitBlock(block); err != nil {
		return database.Block{}, err
	}

	s.mempool.Drop(len(picked))

	s.evHandler("viewer: block: blk[%d]: hash[%s]: producer[%s]: txs[%d]", block.Index, block.Hash, block.Producer, len(block.Transactions))

	return block, nil
}

// =============================================================================

// transPerBlock returns how many transactions to pick for a block.
func (s *State) transPerBlock() int {
	if s.genesis.TransPerBlock <= 0 {
		return -1
	}
	return s.genesis.TransPerBlock
}

// validTransactions applies the transactions in order to a copy of the
// ledger and returns the ones that succeed.
func (s *State) validTransactions(picked []database.Tx) []database.Tx {
	scratch := s.ledger.Clone()

	valid := make([]database.Tx, 0, len(picked))
	for _, tx := range picked {
		if err := scratch.ApplyTransaction(tx); err != nil {
			s.evHandler("state: ProduceBlock: REJECTED: tx[%s]: %s", tx, err)
			continue
		}
		valid = append(valid, tx)
	}

	return valid
}

// commitBlock applies the block to a copy of the ledger, adds the block to
// the chain and then swaps in the updated ledger.
func (s *State) commitBlock(block database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := s.ledger.Clone()
	if err := updated.ApplyBlock(block); err != nil {
		return err
	}

	if err := s.chain.AddValidatedBlock(block); err != nil {
		return err
	}

	s.ledger.Replace(updated)

	return nil
}
