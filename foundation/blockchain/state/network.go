package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/utxolab/blockchain/foundation/blockchain/database"
	"github.com/utxolab/blockchain/foundation/blockchain/peer"
)

const baseURL = "http://%s/v1/node"

// client is shared by all gossip requests.
var client = http.Client{
	Timeout: 10 * time.Second,
}

// NetSendChainToPeers shares the chain with all known peers. Gossip is best
// effort: a peer that can't be reached is removed and nothing is retried.
func (s *State) NetSendChainToPeers(chain database.Blockchain) {
	s.evHandler("state: NetSendChainToPeers: started: blocks[%d]", chain.Length())
	defer s.evHandler("state: NetSendChainToPeers: completed")

	for _, pr := range s.RetrieveKnownPeers() {
		if err := s.netSend(pr, http.MethodPost, "/blockchain", chain, nil); err != nil {
			s.evHandler("state: NetSendChainToPeers: WARNING: %s", err)
		}
	}
}

// NetSendTxToPeers shares a pending transaction with all known peers.
func (s *State) NetSendTxToPeers(tx database.Tx) {
	s.evHandler("state: NetSendTxToPeers: started: tx[%s]", tx)
	defer s.evHandler("state: NetSendTxToPeers: completed")

	for _, pr := range s.RetrieveKnownPeers() {
		if err := s.netSend(pr, http.MethodPost, "/tx/submit", tx, nil); err != nil {
			s.evHandler("state: NetSendTxToPeers: WARNING: %s", err)
		}
	}
}

// NetSendPeersToPeers shares the known peers, including this node, with all
// known peers.
func (s *State) NetSendPeersToPeers() {
	s.evHandler("state: NetSendPeersToPeers: started")
	defer s.evHandler("state: NetSendPeersToPeers: completed")

	known := s.RetrieveKnownPeers()
	peers := append([]peer.Peer{peer.New(s.host)}, known...)

	for _, pr := range known {
		if err := s.netSend(pr, http.MethodPost, "/peers", peers, nil); err != nil {
			s.evHandler("state: NetSendPeersToPeers: WARNING: %s", err)
		}
	}
}

// NetRequestPeerStatus asks the peer for its status.
func (s *State) NetRequestPeerStatus(pr peer.Peer) (peer.PeerStatus, error) {
	s.evHandler("state: NetRequestPeerStatus: started: %s", pr.Host)
	defer s.evHandler("state: NetRequestPeerStatus: completed: %s", pr.Host)

	var ps peer.PeerStatus
	if err := s.netSend(pr, http.MethodGet, "/status", nil, &ps); err != nil {
		return peer.PeerStatus{}, err
	}

	s.evHandler("state: NetRequestPeerStatus: peer-node[%s]: chain-length[%d]: peer-list[%v]", pr.Host, ps.ChainLength, ps.KnownPeers)

	return ps, nil
}

// NetRequestPeerMempool asks the peer for the transactions in their mempool.
func (s *State) NetRequestPeerMempool(pr peer.Peer) ([]database.Tx, error) {
	s.evHandler("state: NetRequestPeerMempool: started: %s", pr.Host)
	defer s.evHandler("state: NetRequestPeerMempool: completed: %s", pr.Host)

	var txs []database.Tx
	if err := s.netSend(pr, http.MethodGet, "/tx/list", nil, &txs); err != nil {
		return nil, err
	}

	s.evHandler("state: NetRequestPeerMempool: len[%d]", len(txs))

	return txs, nil
}

// NetRequestPeerChain asks the peer for its chain.
func (s *State) NetRequestPeerChain(pr peer.Peer) (database.Blockchain, error) {
	s.evHandler("state: NetRequestPeerChain: started: %s", pr.Host)
	defer s.evHandler("state: NetRequestPeerChain: completed: %s", pr.Host)

	var chain database.Blockchain
	if err := s.netSend(pr, http.MethodGet, "/blockchain", nil, &chain); err != nil {
		return database.Blockchain{}, err
	}

	return chain, nil
}

// =============================================================================

// netSend performs the request against the peer and removes the peer from
// the known set when the request fails.
func (s *State) netSend(pr peer.Peer, method string, path string, dataSend any, dataRecv any) error {
	url := fmt.Sprintf(baseURL, pr.Host) + path

	if err := send(method, url, dataSend, dataRecv); err != nil {
		s.RemoveKnownPeer(pr)
		return fmt.Errorf("%s: %w", pr.Host, err)
	}

	return nil
}

// send is a helper function to send an HTTP request to a node.
func send(method string, url string, dataSend any, dataRecv any) error {
	var req *http.Request

	switch {
	case dataSend != nil:
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		req, err = http.NewRequest(method, url, bytes.NewReader(data))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

	default:
		var err error
		req, err = http.NewRequest(method, url, nil)
		if err != nil {
			return err
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return errors.New(string(msg))
	}

	if dataRecv != nil {
		if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
			return err
		}
	}

	return nil
}
