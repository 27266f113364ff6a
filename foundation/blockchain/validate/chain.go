package validate

import (
	"fmt"

	"github.com/utxolab/blockchain/foundation/blockchain/database"
)

// ValidateChain checks the well formedness of a whole chain. The genesis
// block is exempt from the block rules. Every other block is checked
// against the whole chain, then every adjacent pair, starting with the one
// anchored at genesis, must be linked by hash.
func (v *Validator) ValidateChain(chain *database.Blockchain) error {
	if chain == nil || len(chain.Blocks) == 0 {
		return ErrEmptyChain
	}

	if len(chain.Blocks) == 1 {
		return nil
	}

	for i := 1; i < len(chain.Blocks); i++ {
		if err := v.ValidateBlock(&chain.Blocks[i], *chain); err != nil {
			return fmt.Errorf("%w: block[%d]: %w", ErrSomeBlockInvalid, i, err)
		}
	}

	for i := 1; i < len(chain.Blocks); i++ {
		prev := chain.Blocks[i-1]
		curr := chain.Blocks[i]

		if prev.Hash != curr.PrevBlockHash {
			return fmt.Errorf("%w: block[%d] prev[%s] exp[%s]", ErrBrokenLinkage, i, curr.PrevBlockHash, prev.Hash)
		}
	}

	return nil
}
