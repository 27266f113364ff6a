package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/utxolab/blockchain/app/services/node/handlers"
	v1 "github.com/utxolab/blockchain/business/web/v1"
	"github.com/utxolab/blockchain/foundation/blockchain/database"
	"github.com/utxolab/blockchain/foundation/blockchain/genesis"
	"github.com/utxolab/blockchain/foundation/blockchain/peer"
	"github.com/utxolab/blockchain/foundation/blockchain/signature"
	"github.com/utxolab/blockchain/foundation/blockchain/state"
	"github.com/utxolab/blockchain/foundation/events"
	"github.com/utxolab/blockchain/foundation/logger"
	"github.com/utxolab/blockchain/foundation/nameservice"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const minerECDSA = "0x8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0"

// =============================================================================

type muxes struct {
	st      *state.State
	public  http.Handler
	private http.Handler
}

func newMuxes(t *testing.T) muxes {
	t.Helper()

	log, err := logger.New("TEST", t.TempDir()+"/node.log")
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a logger: %v", failed, err)
	}
	t.Cleanup(func() { log.Sync() })

	st, err := state.New(state.Config{
		PrivateKey: minerECDSA,
		Host:       "localhost:9080",
		Miner:      "miner1",
		Genesis:    genesis.Genesis{Difficulty: 1, MiningInterval: time.Second},
		KnownPeers: peer.NewPeerSet(),
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
	}

	ns, err := nameservice.New(t.TempDir())
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the name service: %v", failed, err)
	}

	cfg := handlers.MuxConfig{
		Log:        log,
		CORSOrigin: "*",
		State:      st,
		NS:         ns,
		Evts:       events.New(),
	}

	return muxes{
		st:      st,
		public:  handlers.PublicMux(cfg),
		private: handlers.PrivateMux(cfg),
	}
}

func do(h http.Handler, method string, path string, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	return w
}

// =============================================================================

func Test_PublicRoutes(t *testing.T) {
	m := newMuxes(t)

	t.Log("Given the need to use the public api of a node.")
	{
		w := do(m.public, http.MethodGet, "/v1/state", "")
		if w.Code != http.StatusOK {
			t.Fatalf("\t%s\tShould get a 200 for the state: %d", failed, w.Code)
		}

		var ns struct {
			PubKeyHash  string `json:"pub_key_hash"`
			ChainLength int    `json:"chain_length"`
		}
		if err := json.NewDecoder(w.Body).Decode(&ns); err != nil {
			t.Fatalf("\t%s\tShould be able to decode the state: %v", failed, err)
		}
		if ns.ChainLength != 1 || ns.PubKeyHash != m.st.RetrievePubKeyHash() {
			t.Fatalf("\t%s\tShould see the genesis chain of this node: %+v", failed, ns)
		}
		t.Logf("\t%s\tShould see the genesis chain of this node.", success)

		w = do(m.public, http.MethodGet, "/v1/wallet/nothex", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("\t%s\tShould get a 400 for a malformed pub key hash: %d", failed, w.Code)
		}

		var er v1.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&er); err != nil {
			t.Fatalf("\t%s\tShould be able to decode the error: %v", failed, err)
		}
		if _, exists := er.Fields["pubkeyhash"]; !exists {
			t.Fatalf("\t%s\tShould name the invalid field: %+v", failed, er)
		}
		t.Logf("\t%s\tShould reject a malformed pub key hash.", success)

		_, pub, err := signature.GenerateKeyPair()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a key pair: %v", failed, err)
		}
		to := signature.PubKeyHash(pub)

		w = do(m.public, http.MethodPost, "/v1/wallet/send", `{"to":"`+to+`","amount":"0"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("\t%s\tShould get a 400 for a zero amount: %d", failed, w.Code)
		}
		t.Logf("\t%s\tShould reject a zero amount.", success)

		w = do(m.public, http.MethodPost, "/v1/wallet/send", `{"to":"`+to+`","amount":"100000"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("\t%s\tShould get a 200 sending money: %d: %s", failed, w.Code, w.Body.String())
		}

		var tx database.Tx
		if err := json.NewDecoder(w.Body).Decode(&tx); err != nil {
			t.Fatalf("\t%s\tShould be able to decode the transaction: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to send money.", success)

		w = do(m.public, http.MethodGet, "/v1/tx/uncommitted/list", "")

		var txs []database.Tx
		if err := json.NewDecoder(w.Body).Decode(&txs); err != nil {
			t.Fatalf("\t%s\tShould be able to decode the mempool: %v", failed, err)
		}
		if len(txs) != 1 || txs[0].ID != tx.ID {
			t.Fatalf("\t%s\tShould see the transaction pending: %d", failed, len(txs))
		}
		t.Logf("\t%s\tShould see the transaction pending.", success)

		w = do(m.public, http.MethodPost, "/v1/tx/submit", `{"id":"bad","inputs":[],"outputs":[]}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("\t%s\tShould get a 400 for an invalid transaction: %d", failed, w.Code)
		}
		t.Logf("\t%s\tShould reject an invalid transaction.", success)
	}
}

func Test_PrivateRoutes(t *testing.T) {
	m := newMuxes(t)

	t.Log("Given the need for peers to talk to a node.")
	{
		w := do(m.private, http.MethodGet, "/v1/node/status", "")

		var status peer.PeerStatus
		if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
			t.Fatalf("\t%s\tShould be able to decode the status: %v", failed, err)
		}
		if status.ChainLength != 1 {
			t.Fatalf("\t%s\tShould report the chain length: %d", failed, status.ChainLength)
		}
		t.Logf("\t%s\tShould report the chain length.", success)

		chain := m.st.RetrieveBlockchain()
		data, err := json.Marshal(chain)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to marshal the chain: %v", failed, err)
		}

		w = do(m.private, http.MethodPost, "/v1/node/blockchain", string(data))
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "ignored") {
			t.Fatalf("\t%s\tShould ignore a chain that isn't longer with a 200: %d: %s", failed, w.Code, w.Body.String())
		}
		t.Logf("\t%s\tShould ignore a chain that isn't longer with a 200.", success)

		w = do(m.private, http.MethodPost, "/v1/node/tx/submit", `{"id":"bad","inputs":[],"outputs":[]}`)
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "rejected") {
			t.Fatalf("\t%s\tShould reject an invalid transaction with a 200: %d", failed, w.Code)
		}
		t.Logf("\t%s\tShould reject an invalid transaction with a 200.", success)

		w = do(m.private, http.MethodPost, "/v1/node/peers", `[{"host":"localhost:9080"},{"host":"localhost:9180"}]`)
		if w.Code != http.StatusOK {
			t.Fatalf("\t%s\tShould accept peers: %d", failed, w.Code)
		}

		peers := m.st.RetrieveKnownPeers()
		if len(peers) != 1 || peers[0].Host != "localhost:9180" {
			t.Fatalf("\t%s\tShould only add the other node: %+v", failed, peers)
		}
		t.Logf("\t%s\tShould only add the other node.", success)
	}
}
