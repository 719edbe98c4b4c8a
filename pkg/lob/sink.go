package lob

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FillEvent reports one match. SideSign is +1 when the incoming (taker)
// order was a buy, -1 when it was a sell — the minimal signed-quantity
// encoding, with no maker/taker order pointers exposed.
type FillEvent struct {
	ExecutionID uuid.UUID
	Symbol      string
	Price       decimal.Decimal
	Quantity    decimal.Decimal
	SideSign    int8
}

// FillSink receives fills as they happen. Implementations must not block
// the matching goroutine for long; a slow sink should buffer or drop
// internally rather than stall the book it's attached to.
type FillSink interface {
	OnFill(FillEvent)
}

// FillSinkFunc adapts a plain function to a FillSink.
type FillSinkFunc func(FillEvent)

func (f FillSinkFunc) OnFill(e FillEvent) { f(e) }

// MultiSink fans a fill out to every sink in order. A panic in one sink is
// not isolated from the others; sinks that can fail should handle it
// internally.
type MultiSink []FillSink

func (m MultiSink) OnFill(e FillEvent) {
	for _, s := range m {
		s.OnFill(e)
	}
}
