package lob

import "errors"

var (
	// ErrInvalidOrder covers accept-time validation failures: zero/negative
	// quantity, or a negative price on a Limit order.
	ErrInvalidOrder = errors.New("lob: invalid order")

	// ErrDuplicateID is returned when Add is called with an ID already
	// resting on the book.
	ErrDuplicateID = errors.New("lob: duplicate order id")

	// ErrWrongSymbol is returned when an order's Symbol does not match the
	// book it was submitted to.
	ErrWrongSymbol = errors.New("lob: symbol mismatch")

	// ErrOrderNotFound is returned by Cancel for an ID that is not resting.
	ErrOrderNotFound = errors.New("lob: order not found")
)
