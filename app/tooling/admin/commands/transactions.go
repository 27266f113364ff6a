package commands

import (
	"fmt"
	"io"

	"github.com/utxolab/blockchain/foundation/blockchain/database"
)

// Transactions prints the transaction of every block in chain order. With
// a pub key hash only transactions paying to or spending from it are shown.
func Transactions(w io.Writer, chain database.Blockchain, pubKeyHash string) error {
	for i, block := range chain.Blocks {
		if block.Tx == nil {
			continue
		}

		if pubKeyHash != "" && !touches(chain, *block.Tx, pubKeyHash) {
			continue
		}

		fmt.Fprintf(w, "Block: %d  Miner: %s  ID: %s  Inputs: %d\n", i, block.Miner, block.Tx.ID, len(block.Tx.Inputs))
		for j, out := range block.Tx.Outputs {
			fmt.Fprintf(w, "  Output: %d  To: %s  Amount: %s\n", j, out.PubKeyHash, out.Amount)
		}
	}

	return nil
}

// touches reports if the transaction pays to the pub key hash or spends
// an output locked to it.
func touches(chain database.Blockchain, tx database.Tx, pubKeyHash string) bool {
	for _, out := range tx.Outputs {
		if out.PubKeyHash == pubKeyHash {
			return true
		}
	}

	for _, in := range tx.Inputs {
		prev, found := chain.FindTransaction(in.TransactionID)
		if !found || in.OutputIndex < 0 || in.OutputIndex >= len(prev.Outputs) {
			continue
		}
		if prev.Outputs[in.OutputIndex].PubKeyHash == pubKeyHash {
			return true
		}
	}

	return false
}
