// Package worker mirrors local bill writes onto the remote spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"contas/internal/amqp"
	"contas/internal/core"
	"contas/internal/store"
)

// LocalReader loads the authoritative copy of a bill from local storage.
type LocalReader interface {
	GetBill(ctx context.Context, id string) (core.Bill, error)
}

// RemoteMirror is the write surface of the remote copy.
type RemoteMirror interface {
	Upsert(ctx context.Context, b core.Bill) error
	Delete(ctx context.Context, id string) error
}

// SyncWorker applies bill events to the remote mirror. Events carry only the
// bill ID; the current record is always re-read from local storage, so
// replayed or reordered events converge on the latest state.
type SyncWorker struct {
	local  LocalReader
	remote RemoteMirror
}

func NewSyncWorker(local LocalReader, remote RemoteMirror) *SyncWorker {
	return &SyncWorker{local: local, remote: remote}
}

// HandleBillEvent processes one event. A non-nil return requeues the message.
func (w *SyncWorker) HandleBillEvent(ctx context.Context, msg *amqp.BillEventMessage) error {
	slog.InfoContext(ctx, "Processing bill event", "type", msg.Type, "id", msg.ID)

	switch msg.Type {
	case amqp.EventCreated, amqp.EventUpdated, amqp.EventPaid:
		return w.mirror(ctx, msg.ID)
	case amqp.EventDeleted:
		return w.remove(ctx, msg.ID)
	default:
		// Unknown types are dropped, requeueing them would loop forever.
		slog.WarnContext(ctx, "Dropping bill event of unknown type", "type", msg.Type, "id", msg.ID)
		return nil
	}
}

func (w *SyncWorker) mirror(ctx context.Context, id string) error {
	bill, err := w.local.GetBill(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		// Deleted locally before this event was consumed; the delete event
		// that follows cleans up the remote row.
		slog.WarnContext(ctx, "Bill no longer in local storage, skipping mirror", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get bill from storage: %w", err)
	}

	if err := w.remote.Upsert(ctx, bill); err != nil {
		return fmt.Errorf("mirror bill %s: %w", id, err)
	}

	slog.InfoContext(ctx, "Bill mirrored", "id", id, "status", bill.Status)
	return nil
}

func (w *SyncWorker) remove(ctx context.Context, id string) error {
	err := w.remote.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		slog.WarnContext(ctx, "Bill already absent from remote, nothing to delete", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete bill %s from remote: %w", id, err)
	}

	slog.InfoContext(ctx, "Bill deleted from remote", "id", id)
	return nil
}
