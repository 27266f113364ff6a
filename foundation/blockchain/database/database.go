// Package database maintains the blockchain data model: outputs, inputs,
// transactions, blocks and the ordered chain of blocks held in memory.
package database

import (
	"github.com/shopspring/decimal"
	"github.com/utxolab/blockchain/foundation/blockchain/signature"
)

// PremineAmount is the value the genesis transaction grants to the node
// that initializes the chain.
var PremineAmount = decimal.NewFromInt(500000)

// =============================================================================

// Blockchain is the ordered list of blocks starting at the genesis block.
type Blockchain struct {
	Blocks []Block `json:"blocks"`
}

// Initialize constructs a new chain holding only the genesis block. The
// genesis transaction has no inputs and one output granting the premine
// to the specified public key.
func Initialize(publicKey string) Blockchain {
	tx := NewTx([]Input{}, []Output{
		{
			Amount:     PremineAmount,
			PubKeyHash: signature.PubKeyHash(publicKey),
		},
	})

	genesis := Block{
		PrevBlockHash: "",
		Tx:            &tx,
	}
	genesis.Hash = genesis.CalculateHash()

	return Blockchain{
		Blocks: []Block{genesis},
	}
}

// Length returns the number of blocks in the chain.
func (bc Blockchain) Length() int {
	return len(bc.Blocks)
}

// LatestBlock returns the tail block of the chain.
func (bc Blockchain) LatestBlock() (Block, bool) {
	if len(bc.Blocks) == 0 {
		return Block{}, false
	}

	return bc.Blocks[len(bc.Blocks)-1], true
}

// FindTransaction performs a linear scan across all blocks for the
// transaction with the specified id.
func (bc Blockchain) FindTransaction(id string) (Tx, bool) {
	for _, block := range bc.Blocks {
		if block.Tx != nil && block.Tx.ID == id {
			return *block.Tx, true
		}
	}

	return Tx{}, false
}

// Copy returns a copy of the chain whose block list can be appended to
// without changing the original. Committed blocks are never modified so
// the blocks themselves are shared.
func (bc Blockchain) Copy() Blockchain {
	blocks := make([]Block, len(bc.Blocks))
	copy(blocks, bc.Blocks)

	return Blockchain{
		Blocks: blocks,
	}
}

// =============================================================================

// UnspentOutput identifies an output that no transaction in the chain
// has spent yet.
type UnspentOutput struct {
	TransactionID string          `json:"transaction_id"`
	OutputIndex   int             `json:"output_index"`
	Amount        decimal.Decimal `json:"amount"`
	PubKeyHash    string          `json:"pub_key_hash"`
}

// UnspentOutputs returns the outputs locked to the specified pub key hash
// that have not been spent, in chain order.
func (bc Blockchain) UnspentOutputs(pubKeyHash string) []UnspentOutput {
	type outpoint struct {
		txID  string
		index int
	}

	spent := make(map[outpoint]struct{})
	for _, block := range bc.Blocks {
		if block.Tx == nil {
			continue
		}
		for _, in := range block.Tx.Inputs {
			spent[outpoint{in.TransactionID, in.OutputIndex}] = struct{}{}
		}
	}

	var utxos []UnspentOutput
	for _, block := range bc.Blocks {
		if block.Tx == nil {
			continue
		}
		for i, out := range block.Tx.Outputs {
			if out.PubKeyHash != pubKeyHash {
				continue
			}
			if _, exists := spent[outpoint{block.Tx.ID, i}]; exists {
				continue
			}

			utxo := UnspentOutput{
				TransactionID: block.Tx.ID,
				OutputIndex:   i,
				Amount:        out.Amount,
				PubKeyHash:    out.PubKeyHash,
			}
			utxos = append(utxos, utxo)
		}
	}

	return utxos
}

// Balance returns the sum of the unspent outputs for the pub key hash.
func (bc Blockchain) Balance(pubKeyHash string) decimal.Decimal {
	total := decimal.Zero
	for _, utxo := range bc.UnspentOutputs(pubKeyHash) {
		total = total.Add(utxo.Amount)
	}

	return total
}
