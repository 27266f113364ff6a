// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"sync"
	"sync/atomic"

	"github.com/utxolab/blockchain/foundation/blockchain/database"
	"github.com/utxolab/blockchain/foundation/blockchain/genesis"
	"github.com/utxolab/blockchain/foundation/blockchain/mempool"
	"github.com/utxolab/blockchain/foundation/blockchain/peer"
	"github.com/utxolab/blockchain/foundation/blockchain/signature"
	"github.com/utxolab/blockchain/foundation/blockchain/validate"
)

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining, peer updates, and gossip.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalShareTx(tx database.Tx)
	SignalShareChain()
	SignalSharePeers()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	PrivateKey string
	Host       string
	Miner      string
	Genesis    genesis.Genesis
	KnownPeers *peer.PeerSet
	EvHandler  EventHandler
}

// State manages the ledger: the chain, the pending transactions and the
// set of known peers.
type State struct {
	privateKey string
	publicKey  string
	pubKeyHash string
	host       string
	miner      string
	evHandler  EventHandler

	genesis   genesis.Genesis
	validator *validate.Validator

	// mu guards every read, append and replace of the chain. The generation
	// is bumped each time the chain is replaced or reset so in flight mining
	// work can tell it's building on a tail that no longer exists.
	mu         sync.RWMutex
	chain      database.Blockchain
	generation atomic.Uint64

	// mining makes a mining cycle exclusive.
	mining sync.Mutex

	knownPeers *peer.PeerSet
	mempool    *mempool.Mempool

	Worker Worker
}

// New constructs the ledger for this node, starting with a chain holding
// only the genesis block premined to the node's key.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	publicKey, err := signature.PublicKeyFromPrivate(cfg.PrivateKey)
	if err != nil {
		return nil, err
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	validator := validate.New(validate.Config{
		Difficulty: cfg.Genesis.Difficulty,
		EvHandler:  validate.EventHandler(ev),
	})

	state := State{
		privateKey: cfg.PrivateKey,
		publicKey:  publicKey,
		pubKeyHash: signature.PubKeyHash(publicKey),
		host:       cfg.Host,
		miner:      cfg.Miner,
		evHandler:  ev,

		genesis:   cfg.Genesis,
		validator: validator,
		chain:     database.Initialize(publicKey),

		knownPeers: knownPeers,
		mempool:    mempool.New(),

		Worker: nopWorker{},
	}

	// The Worker set here does nothing. The call to worker.Run will assign
	// itself and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all blockchain writing activity.
	s.Worker.Shutdown()

	return nil
}

// ResetChain drops the current chain and starts over with a fresh genesis
// block premined to this node.
func (s *State) ResetChain() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetChain()
}

// resetChain must be called with the write lock held.
func (s *State) resetChain() {
	s.evHandler("state: resetChain: WARNING: resetting chain to genesis")

	s.chain = database.Initialize(s.publicKey)
	s.generation.Add(1)
}

// =============================================================================

// nopWorker is used until a real worker registers itself.
type nopWorker struct{}

func (nopWorker) Shutdown()                    {}
func (nopWorker) SignalStartMining()           {}
func (nopWorker) SignalShareTx(tx database.Tx) {}
func (nopWorker) SignalShareChain()            {}
func (nopWorker) SignalSharePeers()            {}
