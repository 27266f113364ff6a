// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/utxolab/blockchain/app/services/node/handlers/v1/private"
	"github.com/utxolab/blockchain/app/services/node/handlers/v1/public"
	"github.com/utxolab/blockchain/foundation/blockchain/state"
	"github.com/utxolab/blockchain/foundation/events"
	"github.com/utxolab/blockchain/foundation/nameservice"
	"github.com/utxolab/blockchain/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		NS:    cfg.NS,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/state", pbl.NodeState)
	app.Handle(http.MethodGet, version, "/blockchain", pbl.Blockchain)
	app.Handle(http.MethodGet, version, "/tx/uncommitted/list", pbl.Mempool)
	app.Handle(http.MethodPost, version, "/tx/submit", pbl.SubmitTransaction)
	app.Handle(http.MethodGet, version, "/wallet", pbl.Wallet)
	app.Handle(http.MethodGet, version, "/wallet/:pubkeyhash", pbl.Wallet)
	app.Handle(http.MethodPost, version, "/wallet/send", pbl.SendMoney)
	app.Handle(http.MethodGet, version, "/mining/signal", pbl.SignalMining)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	app.Handle(http.MethodGet, version, "/node/health", prv.Health)
	app.Handle(http.MethodGet, version, "/node/status", prv.Status)
	app.Handle(http.MethodGet, version, "/node/blockchain", prv.Blockchain)
	app.Handle(http.MethodPost, version, "/node/blockchain", prv.ReplaceChain)
	app.Handle(http.MethodPost, version, "/node/peers", prv.SubmitPeers)
	app.Handle(http.MethodPost, version, "/node/tx/submit", prv.SubmitNodeTransaction)
	app.Handle(http.MethodGet, version, "/node/tx/list", prv.Mempool)
}
