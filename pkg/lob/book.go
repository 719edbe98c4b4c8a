package lob

import (
	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"
)

// BookSide is the price-ordered set of resting levels for one side of a
// symbol's book. Bids are ordered best (highest) price first, asks best
// (lowest) price first — the tree's own ordering does the work the
// teacher's separate max-heap/min-heap pair used to do.
type BookSide struct {
	side Side
	tree *btree.BTreeG[*level]
}

func newBookSide(side Side) *BookSide {
	var less func(a, b *level) bool
	if side == Buy {
		less = func(a, b *level) bool { return a.price.GreaterThan(b.price) }
	} else {
		less = func(a, b *level) bool { return a.price.LessThan(b.price) }
	}
	return &BookSide{
		side: side,
		tree: btree.NewBTreeG(less),
	}
}

func (bs *BookSide) levelAt(price decimal.Decimal) (*level, bool) {
	probe := &level{price: price}
	return bs.tree.Get(probe)
}

func (bs *BookSide) levelFor(price decimal.Decimal) *level {
	if l, ok := bs.levelAt(price); ok {
		return l
	}
	l := newLevel(price)
	bs.tree.Set(l)
	return l
}

func (bs *BookSide) dropIfEmpty(l *level) {
	if l.empty() {
		bs.tree.Delete(l)
	}
}

// best returns the best (top-of-book) level on this side, or nil if the
// side is empty.
func (bs *BookSide) best() *level {
	l, ok := bs.tree.Min()
	if !ok {
		return nil
	}
	return l
}

// Best returns the best price on this side and whether the side has any
// resting interest at all — replacing the sentinel-value (0 / +Inf)
// convention with an explicit bool.
func (bs *BookSide) Best() (decimal.Decimal, bool) {
	l := bs.best()
	if l == nil {
		return decimal.Zero, false
	}
	return l.price, true
}

// Len reports the number of distinct price levels resting on this side.
func (bs *BookSide) Len() int {
	return bs.tree.Len()
}

// snapshot returns a depth view of every resting level, best price first.
func (bs *BookSide) snapshot() []PriceLevel {
	out := make([]PriceLevel, 0, bs.tree.Len())
	bs.tree.Scan(func(l *level) bool {
		out = append(out, PriceLevel{
			Price:    l.price,
			Quantity: l.volume,
			Orders:   l.orders.Len(),
		})
		return true
	})
	return out
}

// Book is one symbol's full bid/ask state plus the index needed for O(1)
// cancel by ID.
type Book struct {
	Symbol string
	Bids   *BookSide
	Asks   *BookSide

	locations map[uint64]orderLocation
}

type orderLocation struct {
	side  Side
	price decimal.Decimal
}

func NewBook(symbol string) *Book {
	return &Book{
		Symbol:    symbol,
		Bids:      newBookSide(Buy),
		Asks:      newBookSide(Sell),
		locations: make(map[uint64]orderLocation),
	}
}

func (b *Book) sideOf(s Side) *BookSide {
	if s == Buy {
		return b.Bids
	}
	return b.Asks
}

// crosses reports whether a resting order at restingPrice on restingSide
// would trade against an incoming order at incomingPrice on the opposite
// side — i.e. incomingPrice at least meets restingPrice.
func crosses(incoming Side, incomingPrice, restingPrice decimal.Decimal) bool {
	if incoming == Buy {
		return incomingPrice.GreaterThanOrEqual(restingPrice)
	}
	return incomingPrice.LessThanOrEqual(restingPrice)
}

// rest inserts o, which must have Remaining > 0, onto its resting side.
func (b *Book) rest(o *Order) {
	side := b.sideOf(o.Side)
	l := side.levelFor(o.Price)
	l.push(o)
	b.locations[o.ID] = orderLocation{side: o.Side, price: o.Price}
}

// cancel removes a resting order by ID. Returns false if it was not found.
func (b *Book) cancel(id uint64) bool {
	loc, ok := b.locations[id]
	if !ok {
		return false
	}
	side := b.sideOf(loc.side)
	l, ok := side.levelAt(loc.price)
	if !ok {
		delete(b.locations, id)
		return false
	}
	if el, ok := l.byID[id]; ok {
		l.remove(el.Value.(*Order))
	}
	side.dropIfEmpty(l)
	delete(b.locations, id)
	return true
}

// Snapshot returns a read-only depth view of the book.
func (b *Book) Snapshot() BookSnapshot {
	return BookSnapshot{
		Symbol: b.Symbol,
		Bids:   b.Bids.snapshot(),
		Asks:   b.Asks.snapshot(),
	}
}
