package public

import (
	"github.com/shopspring/decimal"
	"github.com/utxolab/blockchain/foundation/blockchain/database"
	"github.com/utxolab/blockchain/foundation/blockchain/peer"
)

type nodeState struct {
	Host            string      `json:"host"`
	Miner           string      `json:"miner"`
	PubKeyHash      string      `json:"pub_key_hash"`
	Difficulty      int         `json:"difficulty"`
	ChainLength     int         `json:"chain_length"`
	LatestBlockHash string      `json:"latest_block_hash"`
	Uncommitted     int         `json:"uncommitted"`
	KnownPeers      []peer.Peer `json:"known_peers"`
}

type wallet struct {
	PubKeyHash string                   `json:"pub_key_hash"`
	Name       string                   `json:"name"`
	Balance    decimal.Decimal          `json:"balance"`
	Unspent    []database.UnspentOutput `json:"unspent"`
}

type walletQuery struct {
	PubKeyHash string `json:"pubkeyhash" validate:"required,hash"`
}

type sendMoney struct {
	To     string          `json:"to" validate:"required,hash"`
	Amount decimal.Decimal `json:"amount" validate:"amount"`
}

type block struct {
	Hash          string       `json:"hash"`
	PrevBlockHash string       `json:"previous_block_hash"`
	TimeStamp     int64        `json:"unix_time_stamp"`
	Difficulty    int          `json:"difficulty"`
	Nonce         string       `json:"nonce"`
	Miner         string       `json:"miner"`
	Transaction   *database.Tx `json:"transaction"`
	Outputs       []output     `json:"outputs"`
}

type output struct {
	PubKeyHash string          `json:"pub_key_hash"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
}
