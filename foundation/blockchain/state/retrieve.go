package state

import (
	"github.com/utxolab/blockchain/foundation/blockchain/database"
	"github.com/utxolab/blockchain/foundation/blockchain/genesis"
	"github.com/utxolab/blockchain/foundation/blockchain/peer"
)

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveMiner returns the name this node mines blocks under.
func (s *State) RetrieveMiner() string {
	return s.miner
}

// RetrievePublicKey returns the node's public key.
func (s *State) RetrievePublicKey() string {
	return s.publicKey
}

// RetrievePubKeyHash returns the pub key hash the node's funds are locked to.
func (s *State) RetrievePubKeyHash() string {
	return s.pubKeyHash
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveDifficulty returns the difficulty blocks must meet.
func (s *State) RetrieveDifficulty() int {
	return s.validator.Difficulty()
}

// RetrieveBlockchain returns a copy of the current chain.
func (s *State) RetrieveBlockchain() database.Blockchain {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.chain.Copy()
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	block, _ := s.chain.LatestBlock()
	return block
}

// RetrieveMempool returns a copy of the mempool.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.Copy()
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// RetrieveStatus returns the status this node reports to its peers.
func (s *State) RetrieveStatus() peer.PeerStatus {
	s.mu.RLock()
	latest, _ := s.chain.LatestBlock()
	length := s.chain.Length()
	s.mu.RUnlock()

	return peer.PeerStatus{
		LatestBlockHash: latest.Hash,
		ChainLength:     length,
		Mempool:         s.mempool.Count(),
		KnownPeers:      s.RetrieveKnownPeers(),
	}
}
