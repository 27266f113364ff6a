package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/utxolab/blockchain/foundation/blockchain/database"
	"github.com/utxolab/blockchain/foundation/blockchain/validate"
)

// Set of errors a mining cycle can end with.
var (
	ErrNoTransactions   = errors.New("no transactions in mempool")
	ErrMiningInProgress = errors.New("mining cycle already in progress")
	ErrTxDropped        = errors.New("pending transaction is invalid and was dropped")
	ErrTxInvalidated    = errors.New("transaction became invalid during mining")
	ErrChainReset       = errors.New("chain was invalid and reset to genesis")
)

// =============================================================================

// MineNewBlock runs one mining cycle. It picks the oldest pending
// transaction, searches for a block carrying it that meets the difficulty
// and appends that block to the chain. The resulting chain is returned so
// it can be shared with peers. Only one cycle runs at a time.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, database.Blockchain, error) {
	if !s.mining.TryLock() {
		return database.Block{}, database.Blockchain{}, ErrMiningInProgress
	}
	defer s.mining.Unlock()

	s.evHandler("state: MineNewBlock: MINING: check mempool count")

	tx, exists := s.mempool.PickFirst()
	if !exists {
		return database.Block{}, database.Blockchain{}, ErrNoTransactions
	}

	chain, generation := s.snapshot()

	tail, exists := chain.LatestBlock()
	if !exists {
		return database.Block{}, database.Blockchain{}, validate.ErrEmptyChain
	}

	if err := s.validator.ValidateUnconfirmedTx(tx, chain); err != nil {
		s.evHandler("state: MineNewBlock: MINING: drop tx[%s]: %s", tx, err)
		s.mempool.Delete(tx.ID)
		return database.Block{}, database.Blockchain{}, fmt.Errorf("%w: %w", ErrTxDropped, err)
	}

	s.evHandler("state: MineNewBlock: MINING: perform POW: tx[%s]", tx)

	// The work is stale as soon as the chain is replaced or reset.
	args := database.POWArgs{
		Miner:      s.miner,
		Difficulty: s.validator.Difficulty(),
		PrevBlock:  tail,
		Tx:         tx,
		Stale:      func() bool { return s.generation.Load() != generation },
		EvHandler:  s.evHandler,
	}

	block, err := database.POW(ctx, args)
	if err != nil {
		return database.Block{}, database.Blockchain{}, err
	}

	s.evHandler("state: MineNewBlock: MINING: commit block[%s]", block)

	return s.commitBlock(block, generation)
}

// commitBlock appends the mined block to the chain if the chain is still
// the one the block was mined on.
func (s *State) commitBlock(block database.Block, generation uint64) (database.Block, database.Blockchain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tail, _ := s.chain.LatestBlock()
	if s.generation.Load() != generation || tail.Hash != block.PrevBlockHash {
		return database.Block{}, database.Blockchain{}, database.ErrStaleWork
	}

	// With the generation and tail unchanged the chain is the one the tx was
	// validated against, so the two checks below can only fail if that
	// guarantee is broken. They stay as the last line before a bad commit.
	if err := s.validator.ValidateUnconfirmedTx(*block.Tx, s.chain); err != nil {
		return database.Block{}, database.Blockchain{}, fmt.Errorf("%w: %w", ErrTxInvalidated, err)
	}

	s.mempool.Delete(block.Tx.ID)

	next := s.chain.Copy()
	next.Blocks = append(next.Blocks, block)

	if err := s.validator.ValidateChain(&next); err != nil {
		s.evHandler("state: commitBlock: WARNING: chain invalid after commit: %s", err)
		s.resetChain()
		return database.Block{}, s.chain.Copy(), fmt.Errorf("%w: %w", ErrChainReset, err)
	}

	s.chain = next

	return block, next.Copy(), nil
}

// snapshot returns the current chain and its generation. The returned
// chain shares its committed blocks with the ledger and must not be
// modified.
func (s *State) snapshot() (database.Blockchain, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.chain, s.generation.Load()
}
