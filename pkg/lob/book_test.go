package lob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookSideOrdering(t *testing.T) {
	bids := newBookSide(Buy)
	bids.levelFor(dec("100"))
	bids.levelFor(dec("102"))
	bids.levelFor(dec("101"))

	best, ok := bids.Best()
	require.True(t, ok)
	assert.True(t, best.Equal(dec("102")), "bids should order best (highest) price first")

	asks := newBookSide(Sell)
	asks.levelFor(dec("100"))
	asks.levelFor(dec("98"))
	asks.levelFor(dec("99"))

	best, ok = asks.Best()
	require.True(t, ok)
	assert.True(t, best.Equal(dec("98")), "asks should order best (lowest) price first")
}

func TestBookSideEmptyHasNoBest(t *testing.T) {
	bids := newBookSide(Buy)
	_, ok := bids.Best()
	assert.False(t, ok)
}

func TestBookRestAndCancel(t *testing.T) {
	b := NewBook("BTC-USD")
	o := limitOrder(1, Buy, "100", "5")
	b.rest(o)

	best, ok := b.Bids.Best()
	require.True(t, ok)
	assert.True(t, best.Equal(dec("100")))

	assert.True(t, b.cancel(1))
	_, ok = b.Bids.Best()
	assert.False(t, ok)
}

func TestBookCancelUnknown(t *testing.T) {
	b := NewBook("BTC-USD")
	assert.False(t, b.cancel(42))
}

func TestBookSnapshot(t *testing.T) {
	b := NewBook("BTC-USD")
	b.rest(limitOrder(1, Buy, "100", "5"))
	b.rest(limitOrder(2, Buy, "100", "3"))
	b.rest(limitOrder(3, Sell, "101", "7"))

	snap := b.Snapshot()
	require.Len(t, snap.Bids, 1)
	assert.True(t, snap.Bids[0].Quantity.Equal(dec("8")))
	assert.Equal(t, 2, snap.Bids[0].Orders)
	require.Len(t, snap.Asks, 1)
	assert.True(t, snap.Asks[0].Quantity.Equal(dec("7")))
}
