package state

import "github.com/ardanlabs/ledger/foundation/blockchain/database"

// SubmitTransaction accepts a transaction for inclusion in a future block.
func (s *State) SubmitTransaction(tx database.Tx) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	n := s.mempool.Add(tx)
	s.evHandler("state: SubmitTransaction: tx[%s]: mempool[%d]", tx, n)

	if s.Worker != nil {
		s.Worker.SignalStartProducing()
	}

	return nil
}
