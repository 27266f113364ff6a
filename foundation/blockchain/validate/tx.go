package validate

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/utxolab/blockchain/foundation/blockchain/database"
	"github.com/utxolab/blockchain/foundation/blockchain/signature"
)

// ValidateUnconfirmedTx checks a transaction that is waiting to be mined.
// On top of the block rules it must not already be part of the chain.
func (v *Validator) ValidateUnconfirmedTx(tx database.Tx, chain database.Blockchain) error {
	if _, exists := chain.FindTransaction(tx.ID); exists {
		return fmt.Errorf("%w: tx[%s]", ErrAlreadyInChain, tx.ID)
	}

	return v.ValidateBlockTx(tx, chain)
}

// ValidateBlockTx checks a transaction against the specified chain. The
// checks run in a fixed order and stop at the first failure so the reason
// reported for an invalid transaction is deterministic.
func (v *Validator) ValidateBlockTx(tx database.Tx, chain database.Blockchain) error {
	if id := tx.DoubleHash(); tx.ID != id {
		return fmt.Errorf("%w: got[%s] exp[%s]", ErrIDMismatch, tx.ID, id)
	}

	if len(tx.Inputs) == 0 {
		return fmt.Errorf("%w: tx[%s]", ErrMissingInputs, tx.ID)
	}

	if len(tx.Outputs) == 0 {
		return fmt.Errorf("%w: tx[%s]", ErrMissingOutputs, tx.ID)
	}

	type outpoint struct {
		txID  string
		index int
	}
	seen := make(map[outpoint]struct{}, len(tx.Inputs))

	moneyIn := decimal.Zero
	for i, in := range tx.Inputs {
		prevTx, exists := chain.FindTransaction(in.TransactionID)
		if !exists {
			return fmt.Errorf("%w: input[%d] tx[%s]", ErrUnresolvedInput, i, in.TransactionID)
		}

		if in.OutputIndex < 0 || in.OutputIndex >= len(prevTx.Outputs) {
			return fmt.Errorf("%w: input[%d] index[%d] outputs[%d]", ErrOutputIndexOutOfRange, i, in.OutputIndex, len(prevTx.Outputs))
		}
		output := prevTx.Outputs[in.OutputIndex]

		if signature.PubKeyHash(in.FullPubKey) != output.PubKeyHash {
			return fmt.Errorf("%w: input[%d]", ErrPubKeyMismatch, i)
		}

		ok, err := signature.VerifySignature(in.SpendMessage(output), in.Signature, in.FullPubKey)
		if err != nil {
			return fmt.Errorf("%w: input[%d]: %s", ErrSignatureInvalid, i, err)
		}
		if !ok {
			return fmt.Errorf("%w: input[%d]", ErrSignatureInvalid, i)
		}

		if spentBy, spent := findSpender(chain, tx.ID, in.TransactionID, in.OutputIndex); spent {
			return fmt.Errorf("%w: input[%d] tx[%s] index[%d] spentBy[%s]", ErrOutputAlreadySpent, i, in.TransactionID, in.OutputIndex, spentBy)
		}

		// An output can only be claimed once, even inside one transaction.
		op := outpoint{in.TransactionID, in.OutputIndex}
		if _, exists := seen[op]; exists {
			return fmt.Errorf("%w: input[%d] tx[%s] index[%d] spentBy[%s]", ErrOutputAlreadySpent, i, in.TransactionID, in.OutputIndex, tx.ID)
		}
		seen[op] = struct{}{}

		moneyIn = moneyIn.Add(output.Amount)
	}

	for i, out := range tx.Outputs {
		if !out.Amount.IsPositive() {
			return fmt.Errorf("%w: output[%d] amount[%s] must be positive", ErrValueMismatch, i, out.Amount)
		}
	}

	if moneyOut := tx.TotalOutput(); !moneyIn.Equal(moneyOut) {
		return fmt.Errorf("%w: in[%s] out[%s]", ErrValueMismatch, moneyIn, moneyOut)
	}

	return nil
}

// =============================================================================

// findSpender scans every block of the chain for a transaction, other than
// the one being validated, with an input spending the specified output.
func findSpender(chain database.Blockchain, selfID string, txID string, outputIndex int) (string, bool) {
	for _, block := range chain.Blocks {
		if block.Tx == nil || block.Tx.ID == selfID {
			continue
		}

		if block.Tx.Spends(txID, outputIndex) {
			return block.Tx.ID, true
		}
	}

	return "", false
}
