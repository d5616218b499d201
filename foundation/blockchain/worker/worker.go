// Package worker implements background block production for the blockchain.
package worker

import (
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// =============================================================================

// Worker manages the block production workflow for the blockchain.
type Worker struct {
	state           *state.State
	wg              sync.WaitGroup
	ticker          *time.Ticker
	tick            <-chan time.Time
	shut            chan struct{}
	startProducing  chan bool
	cancelProducing chan chan struct{}
	evHandler       state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes. When cycle is greater than zero a
// production round is also attempted on every cycle.
func Run(st *state.State, cycle time.Duration, evHandler state.EventHandler) *Worker {
	if evHandler == nil {
		evHandler = func(string, ...any) {}
	}

	w := Worker{
		state:           st,
		shut:            make(chan struct{}),
		startProducing:  make(chan bool, 1),
		cancelProducing: make(chan chan struct{}, 1),
		evHandler:       evHandler,
	}

	if cycle > 0 {
		w.ticker = time.NewTicker(cycle)
		w.tick = w.ticker.C
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Load the set of operations we need to run.
	operations := []func(){
		w.produceOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for range g {
		<-hasStarted
	}

	// Pick up anything already waiting in the mempool.
	if st.MempoolLength() > 0 {
		w.SignalStartProducing()
	}

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	if w.ticker != nil {
		w.evHandler("worker: shutdown: stop ticker")
		w.ticker.Stop()
	}

	w.evHandler("worker: shutdown: signal cancel producing")
	done := w.SignalCancelProducing()
	done()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalStartProducing starts a production operation. If there is already a
// signal pending in the channel, just return since an operation will start.
func (w *Worker) SignalStartProducing() {
	select {
	case w.startProducing <- true:
	default:
	}
	w.evHandler("worker: SignalStartProducing: production signaled")
}

// SignalCancelProducing signals the G executing the runProduceOperation
// function to stop immediately. That G will not return until done is called.
func (w *Worker) SignalCancelProducing() (done func()) {
	wait := make(chan struct{})

	select {
	case w.cancelProducing <- wait:
	default:
	}
	w.evHandler("worker: SignalCancelProducing: PRODUCE: CANCEL: signaled")

	return func() { close(wait) }
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
