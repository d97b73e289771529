// Package memory provides an in-memory bill store. It is the default backend
// for local development and the fixture backend for tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"contas/internal/core"
	"contas/internal/store"
)

var _ store.BillStore = (*Store)(nil)

type Store struct {
	mu    sync.Mutex
	bills []core.Bill
	now   func() time.Time
}

func New() *Store {
	return &Store{now: time.Now}
}

// InsertMany validates and appends the whole batch under one lock, so a batch
// is never partially visible. IDs are assigned here; input records are not
// mutated.
func (s *Store) InsertMany(_ context.Context, bills []core.Bill) ([]core.Bill, error) {
	if len(bills) == 0 {
		return nil, nil
	}
	inserted := make([]core.Bill, len(bills))
	now := s.now()
	for i, b := range bills {
		if err := b.DueDate.Validate(); err != nil {
			return nil, store.NewPersistenceError("insert", err)
		}
		b.ID = uuid.New().String()
		b.CreatedAt = now
		inserted[i] = b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bills = append(s.bills, inserted...)

	out := make([]core.Bill, len(inserted))
	copy(out, inserted)
	return out, nil
}

// QueryByDueRange returns bills due inside [from, to], inclusive, ordered by
// due date then insertion order.
func (s *Store) QueryByDueRange(_ context.Context, from, to core.Date) ([]core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Bill
	for _, b := range s.bills {
		if b.DueDate.Before(from.Time) || b.DueDate.After(to.Time) {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate.Time)
	})
	return out, nil
}

func (s *Store) Update(_ context.Context, id string, fields core.BillUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.bills {
		if s.bills[i].ID != id {
			continue
		}
		s.bills[i].Title = fields.Title
		s.bills[i].EstimatedCents = fields.EstimatedCents
		s.bills[i].PaidCents = fields.PaidCents
		s.bills[i].DueDate = fields.DueDate
		s.bills[i].CategoryID = fields.CategoryID
		s.bills[i].Status = fields.Status
		return nil
	}
	return store.NewPersistenceError("update", store.ErrNotFound)
}

func (s *Store) MarkPaid(_ context.Context, id string, paidCents int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.bills {
		if s.bills[i].ID != id {
			continue
		}
		s.bills[i].Status = core.StatusPaid
		s.bills[i].PaidCents = paidCents
		return nil
	}
	return store.NewPersistenceError("update", store.ErrNotFound)
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.bills {
		if s.bills[i].ID == id {
			s.bills = append(s.bills[:i], s.bills[i+1:]...)
			return nil
		}
	}
	return store.NewPersistenceError("delete", store.ErrNotFound)
}
