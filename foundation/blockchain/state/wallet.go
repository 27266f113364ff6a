package state

import (
	"github.com/shopspring/decimal"
	"github.com/utxolab/blockchain/foundation/blockchain/database"
	"github.com/utxolab/blockchain/foundation/blockchain/wallet"
)

// Wallet represents the funds the chain holds for a pub key hash.
type Wallet struct {
	PubKeyHash string                   `json:"pub_key_hash"`
	Balance    decimal.Decimal          `json:"balance"`
	Unspent    []database.UnspentOutput `json:"unspent"`
}

// QueryWallet returns the unspent outputs and balance for the pub key hash.
func (s *State) QueryWallet(pubKeyHash string) Wallet {
	s.mu.RLock()
	utxos := s.chain.UnspentOutputs(pubKeyHash)
	s.mu.RUnlock()

	balance := decimal.Zero
	for _, utxo := range utxos {
		balance = balance.Add(utxo.Amount)
	}

	return Wallet{
		PubKeyHash: pubKeyHash,
		Balance:    balance,
		Unspent:    utxos,
	}
}

// SendMoney builds and submits a transaction paying amount from this
// node's funds to the specified pub key hash. Outputs already being spent
// by a pending transaction are not used.
func (s *State) SendMoney(to string, amount decimal.Decimal) (database.Tx, error) {
	s.evHandler("state: SendMoney: started: to[%s] amount[%s]", to, amount)
	defer s.evHandler("state: SendMoney: completed")

	pending := s.mempool.Copy()

	var utxos []database.UnspentOutput
	for _, utxo := range s.QueryWallet(s.pubKeyHash).Unspent {
		if !spentByAny(pending, utxo) {
			utxos = append(utxos, utxo)
		}
	}

	tx, err := wallet.Build(s.privateKey, utxos, to, amount)
	if err != nil {
		return database.Tx{}, err
	}

	if err := s.SubmitTransaction(tx); err != nil {
		return database.Tx{}, err
	}

	return tx, nil
}

// spentByAny reports if any of the transactions spends the output.
func spentByAny(txs []database.Tx, utxo database.UnspentOutput) bool {
	for _, tx := range txs {
		if tx.Spends(utxo.TransactionID, utxo.OutputIndex) {
			return true
		}
	}

	return false
}
