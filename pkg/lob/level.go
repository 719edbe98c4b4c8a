package lob

import (
	"container/list"

	"github.com/shopspring/decimal"
)

// level is the resting FIFO queue of orders at a single price. Orders are
// matched oldest-first; removal by ID is O(1) via the id index rather than
// the O(k) scan a plain slice would need.
type level struct {
	price   decimal.Decimal
	orders  *list.List // of *Order, front = oldest
	byID    map[uint64]*list.Element
	volume  decimal.Decimal // sum of Remaining across all orders at this price
}

func newLevel(price decimal.Decimal) *level {
	return &level{
		price:  price,
		orders: list.New(),
		byID:   make(map[uint64]*list.Element),
		volume: decimal.Zero,
	}
}

func (l *level) empty() bool {
	return l.orders.Len() == 0
}

func (l *level) push(o *Order) {
	el := l.orders.PushBack(o)
	l.byID[o.ID] = el
	l.volume = l.volume.Add(o.Remaining)
}

func (l *level) front() *Order {
	el := l.orders.Front()
	if el == nil {
		return nil
	}
	return el.Value.(*Order)
}

// remove deletes o from the level in O(1) using the id index.
func (l *level) remove(o *Order) {
	el, ok := l.byID[o.ID]
	if !ok {
		return
	}
	l.orders.Remove(el)
	delete(l.byID, o.ID)
	l.volume = l.volume.Sub(o.Remaining)
}

// popFront removes and returns the oldest order, or nil if empty.
func (l *level) popFront() *Order {
	o := l.front()
	if o == nil {
		return nil
	}
	l.remove(o)
	return o
}

// reduce accounts for qty having just been filled off o, which must still
// be resting at the front of this level.
func (l *level) reduce(o *Order, qty decimal.Decimal) {
	o.Remaining = o.Remaining.Sub(qty)
	l.volume = l.volume.Sub(qty)
}
