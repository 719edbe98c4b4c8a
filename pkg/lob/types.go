package lob

import (
	"github.com/shopspring/decimal"
)

// Side is which side of the book an order rests on or crosses into.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Opposite returns the side an order on s would match against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// OrderType distinguishes resting limit orders from immediate-or-cancel
// market orders (filled as far as liquidity allows; the rest never rests).
type OrderType int

const (
	Limit OrderType = iota
	Market
)

func (t OrderType) String() string {
	if t == Limit {
		return "LIMIT"
	}
	return "MARKET"
}

// Order is a single inbound request to buy or sell a quantity of a symbol.
// Price is ignored for Market orders. Remaining is mutated in place as the
// order is filled; Quantity is the caller's original size and never changes.
type Order struct {
	ID       uint64
	Symbol   string
	Side     Side
	Type     OrderType
	Price    decimal.Decimal
	Quantity decimal.Decimal

	Remaining decimal.Decimal
}

func (o *Order) filled() bool {
	return !o.Remaining.IsPositive()
}

// AddResult tags the outcome of Engine.Add beyond the plain error.
type AddResult int

const (
	// Accepted means the order was validated; it may have been filled in
	// full, in part, or not at all — check the returned residual.
	Accepted AddResult = iota
	Rejected
)

// CancelResult tags the outcome of Engine.Cancel.
type CancelResult int

const (
	Cancelled CancelResult = iota
	NotFound
)

// PriceLevel is a read-only view of the resting interest at one price,
// used by BookSnapshot.
type PriceLevel struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
	Orders   int
}

// BookSnapshot is a point-in-time, read-only view of a symbol's book depth.
type BookSnapshot struct {
	Symbol string
	Bids   []PriceLevel
	Asks   []PriceLevel
}
