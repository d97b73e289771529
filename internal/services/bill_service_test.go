package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"contas/internal/amqp"
	"contas/internal/core"
	"contas/internal/store"
)

type fakeStore struct {
	bills      []core.Bill
	insertErr  error
	markedID   string
	markedPaid int64
	updatedID  string
	deletedID  string
	writeErr   error
}

func (f *fakeStore) InsertMany(ctx context.Context, bills []core.Bill) ([]core.Bill, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	out := make([]core.Bill, len(bills))
	for i, b := range bills {
		b.ID = fmt.Sprintf("id-%d", len(f.bills)+i+1)
		out[i] = b
	}
	f.bills = append(f.bills, out...)
	return out, nil
}

func (f *fakeStore) QueryByDueRange(ctx context.Context, from, to core.Date) ([]core.Bill, error) {
	var out []core.Bill
	for _, b := range f.bills {
		if !b.DueDate.Before(from.Time) && !b.DueDate.After(to.Time) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) Update(ctx context.Context, id string, fields core.BillUpdate) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.updatedID = id
	return nil
}

func (f *fakeStore) MarkPaid(ctx context.Context, id string, paidCents int64) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.markedID = id
	f.markedPaid = paidCents
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.deletedID = id
	return nil
}

type fakePublisher struct {
	events []*amqp.BillEventMessage
	err    error
}

func (f *fakePublisher) PublishBillEvent(ctx context.Context, msg *amqp.BillEventMessage) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, msg)
	return nil
}

func draft(title string) core.BillDraft {
	return core.BillDraft{
		Title:      title,
		Amount:     core.Money{Cents: 15000},
		DueDate:    core.NewDate(2026, time.March, 10),
		CategoryID: "moradia",
		Status:     core.StatusPending,
	}
}

func TestCreateBillsPublishesPerInstallment(t *testing.T) {
	st := &fakeStore{}
	pub := &fakePublisher{}
	svc := NewBillService(st, pub)

	d := draft("Aluguel")
	d.Recurrence = &core.RecurrencePolicy{Every: core.Monthly, Count: 3}

	bills, err := svc.CreateBills(context.Background(), d)
	if err != nil {
		t.Fatalf("CreateBills: %v", err)
	}
	if len(bills) != 3 {
		t.Fatalf("expected 3 installments, got %d", len(bills))
	}
	if len(pub.events) != 3 {
		t.Fatalf("expected 3 created events, got %d", len(pub.events))
	}
	for i, ev := range pub.events {
		if ev.Type != amqp.EventCreated {
			t.Errorf("event %d: type = %q, want %q", i, ev.Type, amqp.EventCreated)
		}
		if ev.ID != bills[i].ID {
			t.Errorf("event %d: id = %q, want %q", i, ev.ID, bills[i].ID)
		}
	}
}

func TestCreateBillsValidationSkipsStore(t *testing.T) {
	st := &fakeStore{}
	svc := NewBillService(st, &fakePublisher{})

	d := draft("")
	if _, err := svc.CreateBills(context.Background(), d); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(st.bills) != 0 {
		t.Fatalf("store should be untouched, holds %d bills", len(st.bills))
	}
}

func TestPayPublishesSettledAmount(t *testing.T) {
	st := &fakeStore{}
	pub := &fakePublisher{}
	svc := NewBillService(st, pub)

	if err := svc.Pay(context.Background(), "id-7", 14200); err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if st.markedID != "id-7" || st.markedPaid != 14200 {
		t.Fatalf("store marked (%q, %d), want (id-7, 14200)", st.markedID, st.markedPaid)
	}
	if len(pub.events) != 1 || pub.events[0].Type != amqp.EventPaid || pub.events[0].PaidCents != 14200 {
		t.Fatalf("unexpected events: %+v", pub.events)
	}
}

func TestPayRejectsNonPositiveAmount(t *testing.T) {
	st := &fakeStore{}
	svc := NewBillService(st, &fakePublisher{})

	if err := svc.Pay(context.Background(), "id-7", 0); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if st.markedID != "" {
		t.Fatal("store should not be touched on invalid amount")
	}
}

func TestPayLocalWriteSurvivesPublishFailure(t *testing.T) {
	st := &fakeStore{}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewBillService(st, pub)

	if err := svc.Pay(context.Background(), "id-3", 5000); err != nil {
		t.Fatalf("Pay must not fail on publish error, got %v", err)
	}
	if st.markedID != "id-3" {
		t.Fatal("local write should have happened")
	}
}

func TestEditValidatesBeforeStore(t *testing.T) {
	st := &fakeStore{}
	svc := NewBillService(st, &fakePublisher{})

	bad := core.BillUpdate{Title: "x", EstimatedCents: 0}
	if err := svc.Edit(context.Background(), "id-1", bad); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if st.updatedID != "" {
		t.Fatal("store should not be touched on invalid update")
	}
}

func TestRemovePropagatesNotFound(t *testing.T) {
	st := &fakeStore{writeErr: store.NewPersistenceError("delete", store.ErrNotFound)}
	pub := &fakePublisher{}
	svc := NewBillService(st, pub)

	if err := svc.Remove(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatal("no event should be published on failed delete")
	}
}

func TestMonthBillsUsesInclusiveWindow(t *testing.T) {
	st := &fakeStore{}
	svc := NewBillService(st, nil)

	d := draft("Internet")
	d.DueDate = core.NewDate(2026, time.February, 28)
	if _, err := svc.CreateBills(context.Background(), d); err != nil {
		t.Fatalf("CreateBills: %v", err)
	}

	bills, err := svc.MonthBills(context.Background(), 2026, time.February)
	if err != nil {
		t.Fatalf("MonthBills: %v", err)
	}
	if len(bills) != 1 {
		t.Fatalf("expected 1 bill in February, got %d", len(bills))
	}

	march, err := svc.MonthBills(context.Background(), 2026, time.March)
	if err != nil {
		t.Fatalf("MonthBills: %v", err)
	}
	if len(march) != 0 {
		t.Fatalf("expected no bills in March, got %d", len(march))
	}
}
