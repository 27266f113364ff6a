package state

import (
	"errors"
	"fmt"

	"github.com/utxolab/blockchain/foundation/blockchain/database"
	"github.com/utxolab/blockchain/foundation/blockchain/peer"
)

// ErrChainNotLonger is returned when a valid chain is offered that is not
// strictly longer than the chain this node holds.
var ErrChainNotLonger = errors.New("chain is not longer than the current chain")

// ReplaceChain accepts a chain from a peer. The chain replaces the current
// one only if it's valid and strictly longer. Any mining work in progress
// becomes stale and the new chain is shared with the known peers.
func (s *State) ReplaceChain(chain database.Blockchain) error {
	s.evHandler("state: ReplaceChain: started: blocks[%d]", chain.Length())
	defer s.evHandler("state: ReplaceChain: completed")

	if err := s.validator.ValidateChain(&chain); err != nil {
		return err
	}

	if err := s.swapChain(chain); err != nil {
		return err
	}

	// Pending transactions the new chain already holds can't be mined again.
	for _, tx := range s.mempool.Copy() {
		if _, exists := chain.FindTransaction(tx.ID); exists {
			s.evHandler("state: ReplaceChain: remove mined tx[%s]", tx)
			s.mempool.Delete(tx.ID)
		}
	}

	s.Worker.SignalShareChain()

	return nil
}

// swapChain installs the chain under the write lock if it's longer.
func (s *State) swapChain(chain database.Blockchain) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if chain.Length() <= s.chain.Length() {
		return fmt.Errorf("%w: got[%d] have[%d]", ErrChainNotLonger, chain.Length(), s.chain.Length())
	}

	s.chain = chain.Copy()
	s.generation.Add(1)

	s.evHandler("state: ReplaceChain: chain replaced: blocks[%d]", chain.Length())

	return nil
}

// =============================================================================

// AddKnownPeers adds the peers this node doesn't know about yet. This node
// is never added to its own set. When the set changes it's shared with the
// known peers. The number of peers added is returned.
func (s *State) AddKnownPeers(peers []peer.Peer) int {
	var added int
	for _, pr := range peers {
		if pr.Host == "" || pr.Match(s.host) {
			continue
		}

		if s.knownPeers.Add(pr) {
			s.evHandler("state: AddKnownPeers: add peer[%s]", pr.Host)
			added++
		}
	}

	if added > 0 {
		s.Worker.SignalSharePeers()
	}

	return added
}

// RemoveKnownPeer drops the peer from the set of known peers.
func (s *State) RemoveKnownPeer(pr peer.Peer) {
	s.evHandler("state: RemoveKnownPeer: remove peer[%s]", pr.Host)
	s.knownPeers.Remove(pr)
}
