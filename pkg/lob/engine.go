package lob

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/novaex/lob/pkg/metrics"
	"github.com/novaex/lob/pkg/obslog"
)

// Engine owns one symbol's Book and drives accept-time validation and the
// match loop on top of it. It is not safe for concurrent use — callers
// (the dispatcher) serialize access to a given Engine on one goroutine.
type Engine struct {
	book    *Book
	sink    FillSink
	logger  obslog.Logger
	metrics *metrics.Metrics
}

func NewEngine(symbol string, sink FillSink, logger obslog.Logger, m *metrics.Metrics) *Engine {
	if sink == nil {
		sink = FillSinkFunc(func(FillEvent) {})
	}
	if logger == nil {
		logger = obslog.Nop()
	}
	return &Engine{
		book:    NewBook(symbol),
		sink:    sink,
		logger:  logger,
		metrics: m,
	}
}

func (e *Engine) Symbol() string { return e.book.Symbol }

// Snapshot returns a read-only depth view of the book.
func (e *Engine) Snapshot() BookSnapshot { return e.book.Snapshot() }

func (e *Engine) validate(o *Order) error {
	if o.Symbol != e.book.Symbol {
		return ErrWrongSymbol
	}
	if _, exists := e.book.locations[o.ID]; exists {
		return ErrDuplicateID
	}
	if !o.Quantity.IsPositive() {
		return ErrInvalidOrder
	}
	if o.Type == Limit && o.Price.IsNegative() {
		return ErrInvalidOrder
	}
	return nil
}

// Add validates, attempts to match, and (for unfilled Limit orders) rests
// o on the book. It returns the accept/reject tag, the unfilled residual
// quantity (nil if the order filled in full), and an error when the order
// is rejected outright.
func (e *Engine) Add(o *Order) (AddResult, *decimal.Decimal, error) {
	if err := e.validate(o); err != nil {
		e.metrics.RecordRejected()
		return Rejected, nil, err
	}
	e.metrics.RecordAccepted()
	o.Remaining = o.Quantity

	start := time.Now()
	e.match(o)
	e.metrics.ObserveMatchLatency(time.Since(start).Seconds())

	if o.filled() {
		e.updateDepthMetrics()
		return Accepted, nil, nil
	}
	if o.Type == Market {
		residual := o.Remaining
		e.updateDepthMetrics()
		return Accepted, &residual, nil
	}
	e.book.rest(o)
	e.updateDepthMetrics()
	residual := o.Remaining
	return Accepted, &residual, nil
}

// updateDepthMetrics refreshes the top-of-book gauges after an Add call
// has settled.
func (e *Engine) updateDepthMetrics() {
	bidQty := decimal.Zero
	if l := e.book.Bids.best(); l != nil {
		bidQty = l.volume
	}
	askQty := decimal.Zero
	if l := e.book.Asks.best(); l != nil {
		askQty = l.volume
	}
	bq, _ := bidQty.Float64()
	aq, _ := askQty.Float64()
	e.metrics.SetBookDepth(e.book.Symbol, "buy", bq)
	e.metrics.SetBookDepth(e.book.Symbol, "sell", aq)
}

// Cancel removes a resting order by ID.
func (e *Engine) Cancel(id uint64) (CancelResult, error) {
	if e.book.cancel(id) {
		return Cancelled, nil
	}
	return NotFound, ErrOrderNotFound
}

// match crosses incoming against the opposite side until incoming is
// filled, the opposite side runs dry, or (for Limit orders) prices no
// longer cross. Matches are price-time priority: best price first, oldest
// order at that price first.
func (e *Engine) match(incoming *Order) {
	opposite := e.book.sideOf(incoming.Side.Opposite())

	for !incoming.filled() {
		l := opposite.best()
		if l == nil {
			break
		}
		if incoming.Type == Limit && !crosses(incoming.Side, incoming.Price, l.price) {
			break
		}

		resting := l.front()
		if resting == nil {
			opposite.dropIfEmpty(l)
			continue
		}

		qty := decimal.Min(incoming.Remaining, resting.Remaining)
		price := resting.Price // resting orders are always Limit; the trade prints at the maker's price

		incoming.Remaining = incoming.Remaining.Sub(qty)
		l.reduce(resting, qty)

		if resting.filled() {
			l.popFront()
			delete(e.book.locations, resting.ID)
			opposite.dropIfEmpty(l)
		}

		sign := int8(1)
		if incoming.Side == Sell {
			sign = -1
		}
		e.sink.OnFill(FillEvent{
			ExecutionID: uuid.New(),
			Symbol:      e.book.Symbol,
			Price:       price,
			Quantity:    qty,
			SideSign:    sign,
		})

		e.logger.Debug("fill",
			"symbol", e.book.Symbol,
			"price", price.String(),
			"qty", qty.String(),
			"taker_id", incoming.ID,
			"maker_id", resting.ID,
		)
	}
}
