package dispatcher

import (
	"sync"

	"gopkg.in/tomb.v2"

	"github.com/novaex/lob/pkg/lob"
	"github.com/novaex/lob/pkg/metrics"
	"github.com/novaex/lob/pkg/obslog"
)

// defaultQueueDepth is the default per-symbol inbox capacity. A worker that
// falls behind backs its callers up rather than growing without bound.
const defaultQueueDepth = 1024

// symbolWorker owns one symbol's Engine and drains a single inbox on its
// own goroutine, so every action for a symbol is applied in submission
// order with no locking inside the engine itself.
//
// sendMu guards the handoff between enqueueing an action and enqueueing
// the stop sentinel: send takes it for reading, stop takes it for
// writing, so the sentinel can never land in the channel ahead of an
// action a caller already decided to send, and no send can land after
// the worker has exited.
type symbolWorker struct {
	symbol  string
	engine  *lob.Engine
	inbox   chan action
	logger  obslog.Logger
	metrics *metrics.Metrics
	t       tomb.Tomb

	sendMu sync.RWMutex
	closed bool
}

func newSymbolWorker(symbol string, sink lob.FillSink, logger obslog.Logger, queueDepth int, m *metrics.Metrics) *symbolWorker {
	if queueDepth <= 0 {
		queueDepth = defaultQueueDepth
	}
	w := &symbolWorker{
		symbol:  symbol,
		engine:  lob.NewEngine(symbol, sink, logger, m),
		inbox:   make(chan action, queueDepth),
		logger:  logger,
		metrics: m,
	}
	w.t.Go(w.run)
	return w
}

// stopSentinel, once read from the inbox, tells the worker to exit after
// everything enqueued ahead of it has been processed.
var stopSentinel = action{}

func (w *symbolWorker) run() error {
	for {
		select {
		case <-w.t.Dying():
			return nil
		case act := <-w.inbox:
			if act == stopSentinel {
				return nil
			}
			w.apply(act)
			w.metrics.SetQueueDepth(w.symbol, float64(len(w.inbox)))
		}
	}
}

func (w *symbolWorker) apply(act action) {
	switch {
	case act.add != nil:
		res, residual, err := w.engine.Add(act.add.order)
		if act.add.result != nil {
			act.add.result <- AddOutcome{Result: res, Residual: residual, Err: err}
		}
	case act.cancel != nil:
		res, err := w.engine.Cancel(act.cancel.id)
		if act.cancel.result != nil {
			act.cancel.result <- CancelOutcome{Result: res, Err: err}
		}
	case act.snapshot != nil:
		act.snapshot.result <- w.engine.Snapshot()
	}
}

// send enqueues act for this worker, unless the worker has already been
// stopped. The RLock/Lock pairing with stop is what makes this safe:
// stop cannot set closed and enqueue the sentinel while a send is
// in-flight here, so an accepted send is always processed before the
// worker exits, and a send that arrives after stop is always refused
// rather than left unread in the channel.
func (w *symbolWorker) send(act action) bool {
	w.sendMu.RLock()
	defer w.sendMu.RUnlock()
	if w.closed {
		return false
	}
	w.inbox <- act
	return true
}

// stop enqueues the sentinel and joins the goroutine. Anything already
// enqueued ahead of the sentinel is applied first.
func (w *symbolWorker) stop() error {
	w.sendMu.Lock()
	w.closed = true
	w.inbox <- stopSentinel
	w.sendMu.Unlock()
	return w.t.Wait()
}
