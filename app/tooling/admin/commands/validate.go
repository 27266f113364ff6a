// Package commands contains the admin commands run against a chain.
package commands

import (
	"fmt"
	"io"

	"github.com/utxolab/blockchain/foundation/blockchain/database"
	"github.com/utxolab/blockchain/foundation/blockchain/validate"
)

// Validate checks the chain with the specified difficulty and reports the
// outcome. A chain that fails validation is returned as an error.
func Validate(w io.Writer, chain database.Blockchain, difficulty int) error {
	v := validate.New(validate.Config{
		Difficulty: difficulty,
	})

	latest, _ := chain.LatestBlock()
	fmt.Fprintf(w, "Blocks: %d  LatestBlockHash: %s\n", chain.Length(), latest.Hash)

	if err := v.ValidateChain(&chain); err != nil {
		fmt.Fprintf(w, "Chain: INVALID: %s\n", err)
		return err
	}

	fmt.Fprintln(w, "Chain: VALID")
	return nil
}
