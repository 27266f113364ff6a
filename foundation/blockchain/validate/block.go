package validate

import (
	"fmt"

	"github.com/utxolab/blockchain/foundation/blockchain/database"
)

// ValidateHeader checks the proof of work of a block. The difficulty must
// be the one the node is configured with so a miner can't lower its own
// target.
func (v *Validator) ValidateHeader(block database.Block) error {
	if block.Difficulty != v.difficulty {
		return fmt.Errorf("%w: got[%d] exp[%d]", ErrDifficultyInvalid, block.Difficulty, v.difficulty)
	}

	if hash := block.CalculateHash(); block.Hash != hash {
		return fmt.Errorf("%w: got[%s] exp[%s]", ErrHashInvalid, block.Hash, hash)
	}

	if !database.IsHashSolved(block.Difficulty, block.Hash) {
		return fmt.Errorf("%w: hash[%s] difficulty[%d]", ErrDifficultyNotMet, block.Hash, block.Difficulty)
	}

	return nil
}

// ValidateBlock checks a block for admission to the specified chain. The
// transaction is checked with the confirmed rules since the block carrying
// it may already be part of the chain.
func (v *Validator) ValidateBlock(block *database.Block, chain database.Blockchain) error {
	if block == nil {
		return ErrBlockNull
	}

	if block.Tx == nil {
		return fmt.Errorf("%w: blk[%s]", ErrTransactionNull, block.Hash)
	}

	if err := v.ValidateHeader(*block); err != nil {
		v.evHandler("validate: ValidateBlock: blk[%s]: header: %s", block, err)
		return err
	}

	if err := v.ValidateBlockTx(*block.Tx, chain); err != nil {
		v.evHandler("validate: ValidateBlock: blk[%s]: tx: %s", block, err)
		return err
	}

	return nil
}
