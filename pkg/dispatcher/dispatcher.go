package dispatcher

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/novaex/lob/pkg/lob"
	"github.com/novaex/lob/pkg/metrics"
	"github.com/novaex/lob/pkg/obslog"
)

// ErrStopped is returned by Submit/Cancel once Shutdown has been called.
var ErrStopped = errStopped{}

type errStopped struct{}

func (errStopped) Error() string { return "dispatcher: stopped" }

// Dispatcher routes actions to one goroutine per symbol, creating a
// worker lazily on the first action for a symbol it hasn't seen. It is
// safe for concurrent use by any number of caller goroutines.
type Dispatcher struct {
	sink       lob.FillSink
	logger     obslog.Logger
	queueDepth int
	metrics    *metrics.Metrics

	mu      sync.RWMutex
	workers map[string]*symbolWorker
	stopped bool
}

// Option configures a Dispatcher at construction time.
type Option func(*Dispatcher)

// WithQueueDepth overrides the per-symbol inbox capacity.
func WithQueueDepth(n int) Option {
	return func(d *Dispatcher) { d.queueDepth = n }
}

// WithMetrics wires a Prometheus metrics sink into every symbol worker
// this Dispatcher creates.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

func New(sink lob.FillSink, logger obslog.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = obslog.Nop()
	}
	d := &Dispatcher{
		sink:    sink,
		logger:  logger,
		workers: make(map[string]*symbolWorker),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) workerFor(symbol string) (*symbolWorker, error) {
	d.mu.RLock()
	if d.stopped {
		d.mu.RUnlock()
		return nil, ErrStopped
	}
	w, ok := d.workers[symbol]
	d.mu.RUnlock()
	if ok {
		return w, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return nil, ErrStopped
	}
	if w, ok = d.workers[symbol]; ok {
		return w, nil
	}
	w = newSymbolWorker(symbol, d.sink, d.logger.WithField("symbol", symbol), d.queueDepth, d.metrics)
	d.workers[symbol] = w
	return w, nil
}

// Submit enqueues o for matching on its symbol's worker and blocks until
// it has been processed, returning the engine's outcome.
func (d *Dispatcher) Submit(o *lob.Order) (lob.AddResult, *decimal.Decimal, error) {
	w, err := d.workerFor(o.Symbol)
	if err != nil {
		return lob.Rejected, nil, err
	}
	result := make(chan AddOutcome, 1)
	if !w.send(action{add: &addAction{order: o, result: result}}) {
		return lob.Rejected, nil, ErrStopped
	}
	out := <-result
	return out.Result, out.Residual, out.Err
}

// Cancel enqueues a cancel for id on symbol's worker and blocks until it
// has been processed.
func (d *Dispatcher) Cancel(symbol string, id uint64) (lob.CancelResult, error) {
	w, err := d.workerFor(symbol)
	if err != nil {
		return lob.NotFound, err
	}
	result := make(chan CancelOutcome, 1)
	if !w.send(action{cancel: &cancelAction{id: id, result: result}}) {
		return lob.NotFound, ErrStopped
	}
	out := <-result
	return out.Result, out.Err
}

// Snapshot returns symbol's current book depth. ok is false if the
// symbol has never had an order submitted for it, or if its worker has
// since been stopped.
func (d *Dispatcher) Snapshot(symbol string) (snap lob.BookSnapshot, ok bool) {
	d.mu.RLock()
	w, exists := d.workers[symbol]
	d.mu.RUnlock()
	if !exists {
		return lob.BookSnapshot{}, false
	}

	ch := make(chan lob.BookSnapshot, 1)
	if !w.send(action{snapshot: &snapshotAction{result: ch}}) {
		return lob.BookSnapshot{}, false
	}
	return <-ch, true
}

// Shutdown signals every symbol worker to stop after draining what's
// already queued, and waits for all of them to exit.
func (d *Dispatcher) Shutdown() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	workers := make([]*symbolWorker, 0, len(d.workers))
	for _, w := range d.workers {
		workers = append(workers, w)
	}
	d.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(len(workers))
	for _, w := range workers {
		go func(w *symbolWorker) {
			defer wg.Done()
			_ = w.stop()
		}(w)
	}
	wg.Wait()
}

// Symbols returns the set of symbols with a worker, for observability.
func (d *Dispatcher) Symbols() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.workers))
	for s := range d.workers {
		out = append(out, s)
	}
	return out
}
