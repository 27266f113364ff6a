package database

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/utxolab/blockchain/foundation/blockchain/signature"
)

// Output is a claimable value locked to the double hash of a public key.
// An output is never changed once it's part of a transaction.
type Output struct {
	Amount     decimal.Decimal `json:"amount"`       // Value that can be claimed by the owner.
	PubKeyHash string          `json:"pub_key_hash"` // Double hash of the owner's public key.
}

// Input references an output created by a previous transaction and carries
// the proof of ownership required to spend it.
type Input struct {
	TransactionID string `json:"transaction_id"` // Id of the transaction holding the output.
	OutputIndex   int    `json:"output_index"`   // Index of the output in that transaction.
	FullPubKey    string `json:"full_pub_key"`   // Public key that hashes to the output's pub key hash.
	Signature     string `json:"signature"`      // Signature over the input's spend message.
}

// SpendMessage returns the message an owner needs to sign to spend the
// specified output through this input.
func (in Input) SpendMessage(output Output) string {
	return SpendMessage(in.TransactionID, in.OutputIndex, output.PubKeyHash)
}

// SpendMessage binds the exact output being spent: the id of the transaction
// holding it, its index and the pub key hash it's locked to.
func SpendMessage(txID string, outputIndex int, pubKeyHash string) string {
	return signature.Hash(fmt.Sprintf("%s%d%s", txID, outputIndex, pubKeyHash))
}

// =============================================================================

// Tx moves value from a set of previous outputs to a set of new outputs.
type Tx struct {
	ID      string   `json:"id"`
	Inputs  []Input  `json:"inputs"`
	Outputs []Output `json:"outputs"`
}

// NewTx constructs a transaction and assigns its id.
func NewTx(inputs []Input, outputs []Output) Tx {
	tx := Tx{
		Inputs:  inputs,
		Outputs: outputs,
	}
	tx.ID = tx.DoubleHash()

	return tx
}

// HashMessage returns the canonical string the transaction hashes are
// calculated from. Each input is "{txId}:{outputIndex}:{fullPubKey}{signature}"
// and each output is "{pubKeyHash}:{amount}", both comma joined and then
// joined together as "{inputs}:{outputs}".
func (tx Tx) HashMessage() string {
	inputs := make([]string, len(tx.Inputs))
	for i, in := range tx.Inputs {
		inputs[i] = fmt.Sprintf("%s:%d:%s%s", in.TransactionID, in.OutputIndex, in.FullPubKey, in.Signature)
	}

	outputs := make([]string, len(tx.Outputs))
	for i, out := range tx.Outputs {
		outputs[i] = fmt.Sprintf("%s:%s", out.PubKeyHash, out.Amount.String())
	}

	return strings.Join(inputs, ",") + ":" + strings.Join(outputs, ",")
}

// Hash returns the single round hash of the transaction. This is the value
// that gets committed into a block's hash.
func (tx Tx) Hash() string {
	return signature.Hash(tx.HashMessage())
}

// DoubleHash returns the double hash of the transaction. A well formed
// transaction carries this value as its id.
func (tx Tx) DoubleHash() string {
	return signature.DoubleHash(tx.HashMessage())
}

// TotalOutput returns the sum of all the output amounts.
func (tx Tx) TotalOutput() decimal.Decimal {
	total := decimal.Zero
	for _, out := range tx.Outputs {
		total = total.Add(out.Amount)
	}

	return total
}

// Spends reports if any input of the transaction references the
// specified output.
func (tx Tx) Spends(txID string, outputIndex int) bool {
	for _, in := range tx.Inputs {
		if in.TransactionID == txID && in.OutputIndex == outputIndex {
			return true
		}
	}

	return false
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	id := tx.ID
	if len(id) > 16 {
		id = id[:16]
	}

	return fmt.Sprintf("%s[in:%d out:%d total:%s]", id, len(tx.Inputs), len(tx.Outputs), tx.TotalOutput())
}
