package state

import (
	"github.com/utxolab/blockchain/foundation/blockchain/database"
)

// SubmitTransaction accepts a transaction for inclusion in a future block.
// The transaction must be valid against the current chain. A transaction
// already pending is accepted again without being shared a second time so
// gossip between peers comes to an end.
func (s *State) SubmitTransaction(tx database.Tx) error {
	if err := s.ValidateTransaction(tx); err != nil {
		return err
	}

	if !s.mempool.Add(tx) {
		s.evHandler("state: SubmitTransaction: tx[%s] already pending", tx)
		return nil
	}

	s.evHandler("state: SubmitTransaction: tx[%s] added to mempool", tx)
	s.Worker.SignalShareTx(tx)

	return nil
}

// =============================================================================

// ValidateTransaction checks a pending transaction against the current chain.
func (s *State) ValidateTransaction(tx database.Tx) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.validator.ValidateUnconfirmedTx(tx, s.chain)
}

// ValidateBlock checks a block for admission to the current chain.
func (s *State) ValidateBlock(block database.Block) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.validator.ValidateBlock(&block, s.chain)
}

// ValidateChain checks the well formedness of the specified chain using
// this node's difficulty.
func (s *State) ValidateChain(chain database.Blockchain) error {
	return s.validator.ValidateChain(&chain)
}
