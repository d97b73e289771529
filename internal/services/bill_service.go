// Package services orchestrates bill operations across the local store and
// the remote mirror queue.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"contas/internal/amqp"
	"contas/internal/core"
	"contas/internal/store"
)

// EventPublisher pushes bill mutation events toward the remote mirror.
// *amqp.Client satisfies it; tests use fakes.
type EventPublisher interface {
	PublishBillEvent(ctx context.Context, msg *amqp.BillEventMessage) error
}

// BillService applies mutations to the local store first and then emits a
// mirror event. Local writes are authoritative for the UI; a failed publish
// is logged, never rolled back — the remote copy reconciles on the worker's
// next successful pass. This eventual-consistency gap is accepted by design
// of the persistence model, not a bug.
type BillService struct {
	store     store.BillStore
	publisher EventPublisher
	closer    func() error
}

func NewBillService(st store.BillStore, publisher EventPublisher) *BillService {
	return &BillService{store: st, publisher: publisher}
}

// WithCloser attaches a cleanup function invoked by Close.
func (s *BillService) WithCloser(fn func() error) *BillService {
	s.closer = fn
	return s
}

// CreateBills expands a draft and persists all resulting installments in one
// atomic batch. Validation failures surface before any persistence attempt.
func (s *BillService) CreateBills(ctx context.Context, draft core.BillDraft) ([]core.Bill, error) {
	expanded, err := core.Expand(draft)
	if err != nil {
		return nil, err
	}

	inserted, err := s.store.InsertMany(ctx, expanded)
	if err != nil {
		return nil, fmt.Errorf("persist bills: %w", err)
	}

	slog.InfoContext(ctx, "Bills created",
		"title", draft.Title,
		"count", len(inserted),
		"amount_cents", draft.Amount.Cents,
		"category", draft.CategoryID,
		"recurring", draft.Recurrence != nil)

	for _, b := range inserted {
		s.publish(ctx, amqp.NewBillEvent(amqp.EventCreated, b.ID))
	}
	return inserted, nil
}

// MonthBills returns the records whose due date falls in the given month.
func (s *BillService) MonthBills(ctx context.Context, year int, month time.Month) ([]core.Bill, error) {
	from, to := core.NewDate(year, month, 1).MonthWindow()
	bills, err := s.store.QueryByDueRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("query month window: %w", err)
	}
	return bills, nil
}

// Pay performs the pending -> paid transition with the settled amount.
func (s *BillService) Pay(ctx context.Context, id string, paidCents int64) error {
	if paidCents <= 0 {
		return core.ErrInvalidAmount
	}
	if err := s.store.MarkPaid(ctx, id, paidCents); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Bill paid", "id", id, "paid_cents", paidCents)
	s.publish(ctx, amqp.NewBillPaidEvent(id, paidCents))
	return nil
}

// Edit applies a full-field update to a single installment. Siblings of a
// recurring batch are untouched; recurrence is never regenerated.
func (s *BillService) Edit(ctx context.Context, id string, fields core.BillUpdate) error {
	if err := fields.Validate(); err != nil {
		return err
	}
	if err := s.store.Update(ctx, id, fields); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Bill edited", "id", id)
	s.publish(ctx, amqp.NewBillEvent(amqp.EventUpdated, id))
	return nil
}

// Remove deletes a single installment.
func (s *BillService) Remove(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Bill deleted", "id", id)
	s.publish(ctx, amqp.NewBillEvent(amqp.EventDeleted, id))
	return nil
}

func (s *BillService) publish(ctx context.Context, msg *amqp.BillEventMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishBillEvent(ctx, msg); err != nil {
		// The local write already succeeded; the remote mirror catches up
		// from a later event or a manual resync.
		slog.ErrorContext(ctx, "Failed to publish bill event",
			"type", msg.Type, "id", msg.ID, "error", err)
	}
}

// Close releases backend resources, if any were attached.
func (s *BillService) Close() error {
	if s.closer != nil {
		return s.closer()
	}
	return nil
}
