package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/utxolab/blockchain/foundation/blockchain/signature"
)

// ErrStaleWork is returned from POW when the chain the block is being mined
// on top of has changed and the work can never be committed.
var ErrStaleWork = errors.New("chain changed during proof of work")

// =============================================================================

// Block represents one transaction committed to the chain along with the
// proof of work that links it to the previous block.
type Block struct {
	PrevBlockHash string `json:"previous_block_hash"` // Hash of the previous block in the chain.
	TimeStamp     int64  `json:"unix_time_stamp"`     // Time the block was mined.
	Difficulty    int    `json:"difficulty"`          // Number of 0's needed to solve the hash solution.
	Nonce         string `json:"nonce"`               // Value identified to solve the hash solution.
	Tx            *Tx    `json:"transaction"`         // The single transaction in this block.
	Hash          string `json:"hash"`                // Hash of the block as claimed by the miner.
	Miner         string `json:"miner"`               // Name of the node that mined the block.
}

// HashMessage returns the canonical string the block hash is calculated from.
func (b Block) HashMessage() string {
	var txHash string
	switch b.Tx {
	case nil:
		txHash = Tx{}.Hash()
	default:
		txHash = b.Tx.Hash()
	}

	return fmt.Sprintf("%s%d%d%s%s", b.PrevBlockHash, b.TimeStamp, b.Difficulty, b.Nonce, txHash)
}

// CalculateHash returns the hash the block should carry based on the
// current values of its committed fields.
func (b Block) CalculateHash() string {
	return signature.Hash(b.HashMessage())
}

// String implements the fmt.Stringer interface for logging.
func (b Block) String() string {
	hash := b.Hash
	if len(hash) > 16 {
		hash = hash[:16]
	}

	return fmt.Sprintf("%s[miner:%s diff:%d]", hash, b.Miner, b.Difficulty)
}

// =============================================================================

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	Miner      string
	Difficulty int
	PrevBlock  Block
	Tx         Tx
	Stale      func() bool
	EvHandler  func(v string, args ...any)
}

// POW constructs a new Block and performs the work to find a nonce that
// solves the cryptographic POW puzzle. The work stops when the context is
// cancelled or the Stale function reports the chain has moved on.
func POW(ctx context.Context, args POWArgs) (Block, error) {
	ev := args.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	stale := args.Stale
	if stale == nil {
		stale = func() bool { return false }
	}

	tx := args.Tx

	nb := Block{
		PrevBlockHash: args.PrevBlock.Hash,
		Difficulty:    args.Difficulty,
		Tx:            &tx,
		Miner:         args.Miner,
	}

	if err := nb.performPOW(ctx, stale, ev); err != nil {
		return Block{}, err
	}

	return nb, nil
}

// performPOW does the work of mining to find a valid hash for a specified
// block. Pointer semantics are being used since a nonce is being discovered.
func (b *Block) performPOW(ctx context.Context, stale func() bool, ev func(v string, args ...any)) error {
	ev("database: PerformPOW: MINING: started: tx[%s]", b.Tx)
	defer ev("database: PerformPOW: MINING: completed")

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: PerformPOW: MINING: attempts[%d]", attempts)
		}

		if ctx.Err() != nil {
			ev("database: PerformPOW: MINING: CANCELLED")
			return ctx.Err()
		}

		if stale() {
			ev("database: PerformPOW: MINING: STALE: chain changed")
			return ErrStaleWork
		}

		// Every attempt gets a fresh random nonce and the current time.
		b.Nonce = uuid.NewString()
		b.TimeStamp = time.Now().UTC().Unix()
		b.Hash = b.CalculateHash()

		if !IsHashSolved(b.Difficulty, b.Hash) {
			continue
		}

		ev("database: PerformPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: attempts[%d]", b.PrevBlockHash, b.Hash, attempts)

		return nil
	}
}

// IsHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func IsHashSolved(difficulty int, hash string) bool {
	if difficulty <= 0 {
		return true
	}

	if difficulty > len(hash) {
		return false
	}

	return strings.HasPrefix(hash, strings.Repeat("0", difficulty))
}
