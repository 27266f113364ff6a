// Package wallet builds signed transactions that move value from the
// unspent outputs of one key pair to another pub key hash.
package wallet

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/utxolab/blockchain/foundation/blockchain/database"
	"github.com/utxolab/blockchain/foundation/blockchain/signature"
)

// Set of errors the builder can return.
var (
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Build constructs a transaction paying amount to the specified pub key
// hash. Unspent outputs are consumed from the end of the list until the
// amount is covered and any remainder is paid back to the sender as
// change. Every input is signed over the output it spends.
func Build(privateKey string, utxos []database.UnspentOutput, to string, amount decimal.Decimal) (database.Tx, error) {
	if !amount.IsPositive() {
		return database.Tx{}, fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}

	publicKey, err := signature.PublicKeyFromPrivate(privateKey)
	if err != nil {
		return database.Tx{}, err
	}
	from := signature.PubKeyHash(publicKey)

	var inputs []database.Input
	total := decimal.Zero
	for i := len(utxos) - 1; i >= 0 && total.LessThan(amount); i-- {
		utxo := utxos[i]
		if utxo.PubKeyHash != "" && utxo.PubKeyHash != from {
			continue
		}

		msg := database.SpendMessage(utxo.TransactionID, utxo.OutputIndex, from)
		sig, err := signature.Sign(msg, privateKey)
		if err != nil {
			return database.Tx{}, err
		}

		in := database.Input{
			TransactionID: utxo.TransactionID,
			OutputIndex:   utxo.OutputIndex,
			FullPubKey:    publicKey,
			Signature:     sig,
		}
		inputs = append(inputs, in)
		total = total.Add(utxo.Amount)
	}

	if total.LessThan(amount) {
		return database.Tx{}, fmt.Errorf("%w: have[%s] need[%s]", ErrInsufficientFunds, total, amount)
	}

	outputs := []database.Output{
		{Amount: amount, PubKeyHash: to},
	}
	if change := total.Sub(amount); change.IsPositive() {
		outputs = append(outputs, database.Output{Amount: change, PubKeyHash: from})
	}

	return database.NewTx(inputs, outputs), nil
}
