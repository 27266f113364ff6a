package worker

// shareStateOperations handles sharing the chain and the known peers after
// either of them changes.
func (w *Worker) shareStateOperations() {
	w.evHandler("worker: shareStateOperations: G started")
	defer w.evHandler("worker: shareStateOperations: G completed")

	for {
		select {
		case <-w.chainSharing:
			if !w.isShutdown() {
				w.state.NetSendChainToPeers(w.state.RetrieveBlockchain())
			}
		case <-w.peerSharing:
			if !w.isShutdown() {
				w.state.NetSendPeersToPeers()
			}
		case <-w.shut:
			w.evHandler("worker: shareStateOperations: received shut signal")
			return
		}
	}
}
