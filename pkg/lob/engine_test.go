package lob

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func limitOrder(id uint64, side Side, price, qty string) *Order {
	q := dec(qty)
	return &Order{ID: id, Symbol: "BTC-USD", Side: side, Type: Limit, Price: dec(price), Quantity: q, Remaining: q}
}

func marketOrder(id uint64, side Side, qty string) *Order {
	q := dec(qty)
	return &Order{ID: id, Symbol: "BTC-USD", Side: side, Type: Market, Quantity: q, Remaining: q}
}

type recordingSink struct {
	fills []FillEvent
}

func (r *recordingSink) OnFill(e FillEvent) { r.fills = append(r.fills, e) }

func newTestEngine() (*Engine, *recordingSink) {
	sink := &recordingSink{}
	return NewEngine("BTC-USD", sink, nil, nil), sink
}

func TestAddRejectsWrongSymbol(t *testing.T) {
	e, _ := newTestEngine()
	o := &Order{ID: 1, Symbol: "ETH-USD", Side: Buy, Type: Limit, Price: dec("10"), Quantity: dec("1")}
	res, residual, err := e.Add(o)
	assert.Equal(t, Rejected, res)
	assert.Nil(t, residual)
	assert.ErrorIs(t, err, ErrWrongSymbol)
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	e, _ := newTestEngine()
	_, _, err := e.Add(limitOrder(1, Buy, "10", "0"))
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestAddRejectsDuplicateID(t *testing.T) {
	e, _ := newTestEngine()
	_, _, err := e.Add(limitOrder(1, Buy, "10", "1"))
	require.NoError(t, err)
	_, _, err = e.Add(limitOrder(1, Sell, "10", "1"))
	assert.ErrorIs(t, err, ErrDuplicateID)
}

// Resting limit order with no cross stays on the book untouched.
func TestRestingLimitOrderNoCross(t *testing.T) {
	e, sink := newTestEngine()
	res, residual, err := e.Add(limitOrder(1, Buy, "100", "5"))
	require.NoError(t, err)
	assert.Equal(t, Accepted, res)
	require.NotNil(t, residual)
	assert.True(t, residual.Equal(dec("5")))
	assert.Empty(t, sink.fills)

	best, ok := e.book.Bids.Best()
	require.True(t, ok)
	assert.True(t, best.Equal(dec("100")))
}

// A crossing limit order fully fills a single resting order at the
// resting order's price.
func TestFullFillAtMakerPrice(t *testing.T) {
	e, sink := newTestEngine()
	_, _, err := e.Add(limitOrder(1, Sell, "100", "5"))
	require.NoError(t, err)

	res, residual, err := e.Add(limitOrder(2, Buy, "101", "5"))
	require.NoError(t, err)
	assert.Equal(t, Accepted, res)
	assert.Nil(t, residual)

	require.Len(t, sink.fills, 1)
	f := sink.fills[0]
	assert.True(t, f.Price.Equal(dec("100")))
	assert.True(t, f.Quantity.Equal(dec("5")))
	assert.Equal(t, int8(1), f.SideSign)

	_, ok := e.book.Asks.Best()
	assert.False(t, ok)
}

// A partial fill leaves the taker's residual resting and the maker's
// level consumed.
func TestPartialFillRestsResidual(t *testing.T) {
	e, sink := newTestEngine()
	_, _, err := e.Add(limitOrder(1, Sell, "100", "3"))
	require.NoError(t, err)

	res, residual, err := e.Add(limitOrder(2, Buy, "100", "10"))
	require.NoError(t, err)
	assert.Equal(t, Accepted, res)
	require.NotNil(t, residual)
	assert.True(t, residual.Equal(dec("7")))
	require.Len(t, sink.fills, 1)
	assert.True(t, sink.fills[0].Quantity.Equal(dec("3")))

	best, ok := e.book.Bids.Best()
	require.True(t, ok)
	assert.True(t, best.Equal(dec("100")))
}

// Price-time priority: best price first, then oldest order at that price.
func TestPriceTimePriority(t *testing.T) {
	e, sink := newTestEngine()
	require.NoError(t, errOf(e.Add(limitOrder(1, Sell, "101", "5"))))
	require.NoError(t, errOf(e.Add(limitOrder(2, Sell, "100", "5"))))
	require.NoError(t, errOf(e.Add(limitOrder(3, Sell, "100", "5"))))

	_, _, err := e.Add(limitOrder(4, Buy, "101", "8"))
	require.NoError(t, err)

	require.Len(t, sink.fills, 2)
	assert.True(t, sink.fills[0].Price.Equal(dec("100")))
	assert.True(t, sink.fills[0].Quantity.Equal(dec("5")))
	assert.True(t, sink.fills[1].Price.Equal(dec("100")))
	assert.True(t, sink.fills[1].Quantity.Equal(dec("3")))
}

// A market order with no resting liquidity on the opposite side fills
// nothing and reports its full quantity as residual, without resting.
func TestMarketOrderNoLiquidity(t *testing.T) {
	e, sink := newTestEngine()
	res, residual, err := e.Add(marketOrder(1, Buy, "10"))
	require.NoError(t, err)
	assert.Equal(t, Accepted, res)
	require.NotNil(t, residual)
	assert.True(t, residual.Equal(dec("10")))
	assert.Empty(t, sink.fills)

	_, ok := e.book.Bids.Best()
	assert.False(t, ok)
}

// A market order exhausts the book and reports the shortfall rather than
// resting or erroring.
func TestMarketOrderPartialLiquidity(t *testing.T) {
	e, sink := newTestEngine()
	require.NoError(t, errOf(e.Add(limitOrder(1, Sell, "100", "4"))))

	res, residual, err := e.Add(marketOrder(2, Buy, "10"))
	require.NoError(t, err)
	assert.Equal(t, Accepted, res)
	require.NotNil(t, residual)
	assert.True(t, residual.Equal(dec("6")))
	require.Len(t, sink.fills, 1)
	assert.True(t, sink.fills[0].Quantity.Equal(dec("4")))
}

func TestCancelRestingOrder(t *testing.T) {
	e, _ := newTestEngine()
	require.NoError(t, errOf(e.Add(limitOrder(1, Buy, "100", "5"))))

	res, err := e.Cancel(1)
	require.NoError(t, err)
	assert.Equal(t, Cancelled, res)

	_, ok := e.book.Bids.Best()
	assert.False(t, ok)
}

func TestCancelUnknownOrder(t *testing.T) {
	e, _ := newTestEngine()
	res, err := e.Cancel(999)
	assert.Equal(t, NotFound, res)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCancelledOrderDoesNotMatch(t *testing.T) {
	e, sink := newTestEngine()
	require.NoError(t, errOf(e.Add(limitOrder(1, Sell, "100", "5"))))
	_, err := e.Cancel(1)
	require.NoError(t, err)

	_, _, err = e.Add(limitOrder(2, Buy, "100", "5"))
	require.NoError(t, err)
	assert.Empty(t, sink.fills)
}

func errOf(_ AddResult, _ *decimal.Decimal, err error) error { return err }
