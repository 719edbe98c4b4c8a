// Package dispatcher shards symbols across one goroutine each, so one
// book is always processed serially while many books progress in
// parallel. Within a symbol, actions are applied in the order they were
// submitted; across symbols, no ordering is guaranteed.
package dispatcher

import (
	"github.com/shopspring/decimal"

	"github.com/novaex/lob/pkg/lob"
)

// AddOutcome is the reply to an addAction, delivered on its Result channel.
type AddOutcome struct {
	Result   lob.AddResult
	Residual *decimal.Decimal
	Err      error
}

// CancelOutcome is the reply to a cancelAction.
type CancelOutcome struct {
	Result lob.CancelResult
	Err    error
}

// action is the unit of work a symbol worker goroutine consumes from its
// inbox. Exactly one of the fields is populated per action.
type action struct {
	add      *addAction
	cancel   *cancelAction
	snapshot *snapshotAction
}

type addAction struct {
	order  *lob.Order
	result chan<- AddOutcome
}

type cancelAction struct {
	id     uint64
	result chan<- CancelOutcome
}

type snapshotAction struct {
	result chan<- lob.BookSnapshot
}
