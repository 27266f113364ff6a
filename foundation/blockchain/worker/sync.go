package worker

import (
	"errors"

	"github.com/utxolab/blockchain/foundation/blockchain/state"
)

// Sync updates the peer list, mempool and chain from the known peers.
func (w *Worker) Sync() {
	w.evHandler("worker: sync: started")
	defer w.evHandler("worker: sync: completed")

	for _, pr := range w.state.RetrieveKnownPeers() {

		// Retrieve the status of this peer.
		peerStatus, err := w.state.NetRequestPeerStatus(pr)
		if err != nil {
			w.evHandler("worker: sync: queryPeerStatus: %s: ERROR: %s", pr.Host, err)
			continue
		}

		// Add new peers to this nodes list.
		w.addNewPeers(peerStatus.KnownPeers)

		// If this peer has a longer chain, try to take it.
		if peerStatus.ChainLength > w.state.RetrieveBlockchain().Length() {
			w.evHandler("worker: sync: retrievePeerChain: %s: chainLength[%d]", pr.Host, peerStatus.ChainLength)

			chain, err := w.state.NetRequestPeerChain(pr)
			if err != nil {
				w.evHandler("worker: sync: retrievePeerChain: %s: ERROR: %s", pr.Host, err)
				continue
			}

			if err := w.state.ReplaceChain(chain); err != nil && !errors.Is(err, state.ErrChainNotLonger) {
				w.evHandler("worker: sync: replaceChain: %s: ERROR: %s", pr.Host, err)
			}
		}

		// Retrieve the mempool from the peer.
		pool, err := w.state.NetRequestPeerMempool(pr)
		if err != nil {
			w.evHandler("worker: sync: retrievePeerMempool: %s: ERROR: %s", pr.Host, err)
			continue
		}
		for _, tx := range pool {
			if err := w.state.SubmitTransaction(tx); err != nil {
				w.evHandler("worker: sync: retrievePeerMempool: %s: skip tx[%s]: %s", pr.Host, tx, err)
			}
		}
	}
}
