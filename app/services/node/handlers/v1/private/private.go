// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	v1 "github.com/utxolab/blockchain/business/web/v1"
	"github.com/utxolab/blockchain/foundation/blockchain/database"
	"github.com/utxolab/blockchain/foundation/blockchain/peer"
	"github.com/utxolab/blockchain/foundation/blockchain/state"
	"github.com/utxolab/blockchain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Health reports the node is accepting requests from peers.
func (h Handlers) Health(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Status string `json:"status"`
	}{
		Status: "ok",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveStatus(), http.StatusOK)
}

// Blockchain returns the full chain for a peer to sync from.
func (h Handlers) Blockchain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveBlockchain(), http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveMempool(), http.StatusOK)
}

// ReplaceChain takes a chain received from a peer and replaces the local
// chain with it when it's valid and longer. A rejected chain is still
// answered with a 200 so the peer is not treated as unreachable.
func (h Handlers) ReplaceChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var chain database.Blockchain
	if err := web.Decode(r, &chain); err != nil {
		return v1.NewRequestError(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	status := "accepted"
	if err := h.State.ReplaceChain(chain); err != nil {
		status = "ignored"
		if !errors.Is(err, state.ErrChainNotLonger) {
			status = "rejected"
			h.Log.Infow("replace chain", "traceid", v.TraceID, "blocks", chain.Length(), "ERROR", err)
		}
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: status,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitPeers adds the peers a node knows about to this node's set.
func (h Handlers) SubmitPeers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var peers []peer.Peer
	if err := web.Decode(r, &peers); err != nil {
		return v1.NewRequestError(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	added := h.State.AddKnownPeers(peers)

	resp := struct {
		Status string `json:"status"`
		Added  int    `json:"added"`
	}{
		Status: "peers received",
		Added:  added,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitNodeTransaction adds a transaction shared by a peer to the mempool.
// An invalid transaction is answered with a 200 so the peer is not treated
// as unreachable.
func (h Handlers) SubmitNodeTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var tx database.Tx
	if err := web.Decode(r, &tx); err != nil {
		return v1.NewRequestError(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	status := "transaction added to mempool"
	if err := h.State.SubmitTransaction(tx); err != nil {
		status = "transaction rejected"
		h.Log.Infow("node tran", "traceid", v.TraceID, "tx", tx, "ERROR", err)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: status,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
