// Package validate implements the consensus rules a transaction, a block and
// a whole chain must pass to be accepted by the node. A nil error means the
// value is valid. Any other error wraps one of the reason errors declared in
// this package and can be tested with errors.Is. Chain errors caused by a
// bad block also wrap ErrSomeBlockInvalid.
package validate

import (
	"errors"
)

// Set of reasons a transaction can be rejected.
var (
	ErrAlreadyInChain        = errors.New("transaction already in chain")
	ErrIDMismatch            = errors.New("transaction id does not match its hash")
	ErrMissingInputs         = errors.New("transaction has no inputs")
	ErrMissingOutputs        = errors.New("transaction has no outputs")
	ErrUnresolvedInput       = errors.New("input references an unknown transaction")
	ErrOutputIndexOutOfRange = errors.New("input references an output index out of range")
	ErrPubKeyMismatch        = errors.New("input public key does not match the output pub key hash")
	ErrSignatureInvalid      = errors.New("input signature is invalid")
	ErrOutputAlreadySpent    = errors.New("output already spent")
	ErrValueMismatch         = errors.New("value of inputs does not equal value of outputs")
)

// Set of reasons a block can be rejected.
var (
	ErrBlockNull         = errors.New("block is missing")
	ErrTransactionNull   = errors.New("block transaction is missing")
	ErrDifficultyInvalid = errors.New("block difficulty does not match the node difficulty")
	ErrHashInvalid       = errors.New("block hash does not match its content")
	ErrDifficultyNotMet  = errors.New("block hash does not meet the difficulty")
)

// Set of reasons a chain can be rejected.
var (
	ErrEmptyChain       = errors.New("chain is empty")
	ErrSomeBlockInvalid = errors.New("some block in the chain is invalid")
	ErrBrokenLinkage    = errors.New("not all blocks are linked in blockchain")
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur during validation.
type EventHandler func(v string, args ...any)

// Config represents the parameters the validator enforces.
type Config struct {
	Difficulty int
	EvHandler  EventHandler
}

// Validator applies the consensus rules using the node's configured
// difficulty. A Validator holds no mutable state and is safe for
// concurrent use.
type Validator struct {
	difficulty int
	evHandler  EventHandler
}

// New constructs a validator for the specified configuration.
func New(cfg Config) *Validator {
	ev := cfg.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	return &Validator{
		difficulty: cfg.Difficulty,
		evHandler:  ev,
	}
}

// Difficulty returns the number of leading zeros the validator requires.
func (v *Validator) Difficulty() int {
	return v.difficulty
}
