package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// produceOperations handles block production. A round runs when a new
// transaction is signaled and on every tick of the production cycle.
func (w *Worker) produceOperations() {
	w.evHandler("worker: produceOperations: G started")
	defer w.evHandler("worker: produceOperations: G completed")

	for {
		select {
		case <-w.startProducing:
			if !w.isShutdown() {
				w.runProduceOperation()
			}
		case <-w.tick:
			if !w.isShutdown() {
				w.runProduceOperation()
			}
		case <-w.shut:
			w.evHandler("worker: produceOperations: received shut signal")
			return
		}
	}
}

// runProduceOperation takes the next set of transactions from the mempool
// and writes a new block to the chain.
func (w *Worker) runProduceOperation() {
	w.evHandler("worker: runProduceOperation: PRODUCE: started")
	defer w.evHandler("worker: runProduceOperation: PRODUCE: completed")

	// Make sure there are transactions in the mempool.
	length := w.state.MempoolLength()
	if length == 0 {
		w.evHandler("worker: runProduceOperation: PRODUCE: no transactions to produce: Txs[%d]", length)
		return
	}

	// After a successful round, check if a new operation should be
	// signaled again.
	var produced bool
	defer func() {
		length := w.state.MempoolLength()
		if produced && length > 0 {
			w.evHandler("worker: runProduceOperation: PRODUCE: signal new operation: Txs[%d]", length)
			w.SignalStartProducing()
		}
	}()

	// If production is signaled to be cancelled, this G can't terminate
	// until it is told it can.
	var wait chan struct{}
	defer func() {
		if wait != nil {
			w.evHandler("worker: runProduceOperation: PRODUCE: termination signal: waiting")
			<-wait
			w.evHandler("worker: runProduceOperation: PRODUCE: termination signal: received")
		}
	}()

	// Drain the cancel channel before starting.
	select {
	case <-w.cancelProducing:
		w.evHandler("worker: runProduceOperation: PRODUCE: drained cancel channel")
	default:
	}

	// Create a context so production can be cancelled.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Can't return from this function until these G's are complete.
	var wg sync.WaitGroup
	wg.Add(2)

	// This G exists to cancel the production operation.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		select {
		case wait = <-w.cancelProducing:
			w.evHandler("worker: runProduceOperation: PRODUCE: CANCEL: requested")
		case <-ctx.Done():
		}
	}()

	// This G is performing the production.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		t := time.Now()
		block, err := w.state.ProduceBlock(ctx)
		duration := time.Since(t)

		w.evHandler("worker: runProduceOperation: PRODUCE: duration[%v]", duration)

		if err != nil {
			switch {
			case errors.Is(err, state.ErrNoTransactions):
				w.evHandler("worker: runProduceOperation: PRODUCE: WARNING: no transactions in mempool")
			case ctx.Err() != nil:
				w.evHandler("worker: runProduceOperation: PRODUCE: CANCEL: complete")
			default:
				w.evHandler("worker: runProduceOperation: PRODUCE: ERROR: %s", err)
			}
			return
		}

		produced = true
		w.evHandler("worker: runProduceOperation: PRODUCE: blk[%d]: hash[%s]", block.Index, block.Hash)
	}()

	// Wait for both G's to terminate.
	wg.Wait()
}
