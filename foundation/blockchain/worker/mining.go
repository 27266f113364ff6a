package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/utxolab/blockchain/foundation/blockchain/database"
	"github.com/utxolab/blockchain/foundation/blockchain/state"
)

// miningOperations runs a mining cycle on every tick of the mining interval
// and whenever a cycle is explicitly signaled.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case <-w.mineTicker.C:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-w.startMining:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation mines the oldest pending transaction into a new block
// and shares the resulting chain with the known peers.
func (w *Worker) runMiningOperation() {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	// Drain the cancel mining channel before starting.
	select {
	case <-w.cancelMining:
		w.evHandler("worker: runMiningOperation: MINING: drained cancel channel")
	default:
	}

	// Create a context so mining can be cancelled.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Can't return from this function until these G's are complete.
	var wg sync.WaitGroup
	wg.Add(2)

	// This G exists to cancel the mining operation.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		select {
		case <-w.cancelMining:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: requested")
		case <-ctx.Done():
		}
	}()

	// This G is performing the mining.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		t := time.Now()
		block, chain, err := w.state.MineNewBlock(ctx)
		duration := time.Since(t)

		w.evHandler("worker: runMiningOperation: MINING: mining duration[%v]", duration)

		switch {
		case err == nil:
			w.evHandler("worker: runMiningOperation: MINING: SOLVED: block[%s]", block)

		case errors.Is(err, state.ErrChainReset):
			w.evHandler("worker: runMiningOperation: MINING: WARNING: %s", err)

		case errors.Is(err, state.ErrNoTransactions):
			w.evHandler("worker: runMiningOperation: MINING: no transactions in mempool")
			return

		case errors.Is(err, database.ErrStaleWork):
			w.evHandler("worker: runMiningOperation: MINING: STALE: restart on the new chain")
			w.SignalStartMining()
			return

		case ctx.Err() != nil:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: complete")
			return

		default:
			w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
			return
		}

		// Share the resulting chain with the network. Peers that can't be
		// reached are dropped by the state.
		w.state.NetSendChainToPeers(chain)
	}()

	// Wait for both G's to terminate.
	wg.Wait()
}
