// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/utxolab/blockchain/business/sys/validate"
	v1 "github.com/utxolab/blockchain/business/web/v1"
	"github.com/utxolab/blockchain/foundation/blockchain/database"
	"github.com/utxolab/blockchain/foundation/blockchain/state"
	"github.com/utxolab/blockchain/foundation/events"
	"github.com/utxolab/blockchain/foundation/nameservice"
	"github.com/utxolab/blockchain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// NodeState returns a summary of this node's ledger.
func (h Handlers) NodeState(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain := h.State.RetrieveBlockchain()
	latest, _ := chain.LatestBlock()

	ns := nodeState{
		Host:            h.State.RetrieveHost(),
		Miner:           h.State.RetrieveMiner(),
		PubKeyHash:      h.State.RetrievePubKeyHash(),
		Difficulty:      h.State.RetrieveDifficulty(),
		ChainLength:     chain.Length(),
		LatestBlockHash: latest.Hash,
		Uncommitted:     len(h.State.RetrieveMempool()),
		KnownPeers:      h.State.RetrieveKnownPeers(),
	}

	return web.Respond(ctx, w, ns, http.StatusOK)
}

// Blockchain returns every block in the chain with the outputs of each
// block's transaction named where the owner is known.
func (h Handlers) Blockchain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain := h.State.RetrieveBlockchain()

	blocks := make([]block, chain.Length())
	for i, blk := range chain.Blocks {
		var outputs []output
		if blk.Tx != nil {
			outputs = make([]output, len(blk.Tx.Outputs))
			for j, out := range blk.Tx.Outputs {
				outputs[j] = output{
					PubKeyHash: out.PubKeyHash,
					Name:       h.NS.Lookup(out.PubKeyHash),
					Amount:     out.Amount,
				}
			}
		}

		blocks[i] = block{
			Hash:          blk.Hash,
			PrevBlockHash: blk.PrevBlockHash,
			TimeStamp:     blk.TimeStamp,
			Difficulty:    blk.Difficulty,
			Nonce:         blk.Nonce,
			Miner:         blk.Miner,
			Transaction:   blk.Tx,
			Outputs:       outputs,
		}
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	txs := h.State.RetrieveMempool()
	return web.Respond(ctx, w, txs, http.StatusOK)
}

// SubmitTransaction adds a signed wallet transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var tx database.Tx
	if err := web.Decode(r, &tx); err != nil {
		return v1.NewRequestError(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	h.Log.Infow("submit tran", "traceid", v.TraceID, "tx", tx)
	if err := h.State.SubmitTransaction(tx); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
		ID     string `json:"id"`
	}{
		Status: "transaction added to mempool",
		ID:     tx.ID,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Wallet returns the balance and unspent outputs for a pub key hash. With
// no pub key hash the wallet of this node is returned.
func (h Handlers) Wallet(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pubKeyHash := web.Param(r, "pubkeyhash")
	if pubKeyHash == "" {
		pubKeyHash = h.State.RetrievePubKeyHash()
	}

	if err := validate.Check(walletQuery{PubKeyHash: pubKeyHash}); err != nil {
		return err
	}

	wal := h.State.QueryWallet(pubKeyHash)

	resp := wallet{
		PubKeyHash: wal.PubKeyHash,
		Name:       h.NS.Lookup(wal.PubKeyHash),
		Balance:    wal.Balance,
		Unspent:    wal.Unspent,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SendMoney pays an amount from this node's funds to a pub key hash.
func (h Handlers) SendMoney(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var sm sendMoney
	if err := web.Decode(r, &sm); err != nil {
		return v1.NewRequestError(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(sm); err != nil {
		return err
	}

	h.Log.Infow("send money", "traceid", v.TraceID, "to", sm.To, "amount", sm.Amount)
	tx, err := h.State.SendMoney(sm.To, sm.Amount)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	return web.Respond(ctx, w, tx, http.StatusOK)
}

// SignalMining asks the worker to run a mining cycle now.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.State.Worker.SignalStartMining()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "mining signalled",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
