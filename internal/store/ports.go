// Package store defines the ports every bill backend must satisfy, and the
// persistence side of the error taxonomy.
package store

import (
	"context"
	"errors"
	"fmt"

	"contas/internal/core"
)

type (
	// BillInserter persists a batch of sibling records as a single
	// all-or-nothing operation. On failure zero records become visible,
	// never a partial prefix. The returned slice carries the identities
	// assigned by the store, in input order.
	BillInserter interface {
		InsertMany(ctx context.Context, bills []core.Bill) ([]core.Bill, error)
	}

	// BillQuerier returns records whose due date falls inside [from, to],
	// bounds inclusive, ordered by due date then creation order.
	BillQuerier interface {
		QueryByDueRange(ctx context.Context, from, to core.Date) ([]core.Bill, error)
	}

	// BillUpdater mutates a single record: a full-field edit or the
	// pending -> paid transition with the settled amount.
	BillUpdater interface {
		Update(ctx context.Context, id string, fields core.BillUpdate) error
		MarkPaid(ctx context.Context, id string, paidCents int64) error
	}

	BillDeleter interface {
		Delete(ctx context.Context, id string) error
	}

	// BillStore is the full contract the backend factory hands out.
	BillStore interface {
		BillInserter
		BillQuerier
		BillUpdater
		BillDeleter
	}
)

// ErrNotFound reports an id that no record carries.
var ErrNotFound = errors.New("bill not found")

// PersistenceError wraps a store operation failure. It is surfaced to the
// caller as-is: the core never retries, and local optimistic state is
// reconciled on the next fetch rather than assumed correct.
type PersistenceError struct {
	Op  string // "insert", "query", "update", "delete"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NewPersistenceError wraps err, passing nil through.
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
