// Package storage provides the SQLite-backed bill store. It is the local,
// durable side of the two-phase persistence model: mutations land here
// synchronously and are mirrored to the remote backend asynchronously.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure Go driver, no CGO

	"contas/internal/core"
	"contas/internal/store"
)

var _ store.BillStore = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const insertBillSQL = `
INSERT INTO bills (id, title, estimated_cents, paid_cents, due_date, category_id,
                   installment, installments, recurrence, status, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// InsertMany writes the whole batch inside one transaction; the recurrence
// siblings of a draft either all commit or none do.
func (r *SQLiteRepository) InsertMany(ctx context.Context, bills []core.Bill) ([]core.Bill, error) {
	if len(bills) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, store.NewPersistenceError("insert", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertBillSQL)
	if err != nil {
		return nil, store.NewPersistenceError("insert", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	inserted := make([]core.Bill, len(bills))
	for i, b := range bills {
		b.ID = uuid.New().String()
		b.CreatedAt = now
		if _, err := stmt.ExecContext(ctx,
			b.ID, b.Title, b.EstimatedCents, b.PaidCents, b.DueDate.String(),
			b.CategoryID, b.Installment, b.Installments, string(b.Recurrence),
			string(b.Status), b.CreatedAt,
		); err != nil {
			return nil, store.NewPersistenceError("insert", err)
		}
		inserted[i] = b
	}

	if err := tx.Commit(); err != nil {
		return nil, store.NewPersistenceError("insert", err)
	}

	slog.InfoContext(ctx, "Bills saved to SQLite",
		"count", len(inserted),
		"first_due", inserted[0].DueDate.String(),
		"installments", inserted[0].Installments)

	return inserted, nil
}

const queryByDueRangeSQL = `
SELECT id, title, estimated_cents, paid_cents, due_date, category_id,
       installment, installments, recurrence, status, created_at
FROM bills
WHERE due_date >= ? AND due_date <= ?
ORDER BY due_date, created_at, installment`

func (r *SQLiteRepository) QueryByDueRange(ctx context.Context, from, to core.Date) ([]core.Bill, error) {
	rows, err := r.db.QueryContext(ctx, queryByDueRangeSQL, from.String(), to.String())
	if err != nil {
		return nil, store.NewPersistenceError("query", err)
	}
	defer rows.Close()

	var out []core.Bill
	for rows.Next() {
		var (
			b       core.Bill
			due     string
			rec     string
			status  string
			created time.Time
		)
		if err := rows.Scan(&b.ID, &b.Title, &b.EstimatedCents, &b.PaidCents, &due,
			&b.CategoryID, &b.Installment, &b.Installments, &rec, &status, &created); err != nil {
			return nil, store.NewPersistenceError("query", err)
		}
		d, err := core.ParseDate(due)
		if err != nil {
			return nil, store.NewPersistenceError("query", fmt.Errorf("corrupt due_date %q for bill %s", due, b.ID))
		}
		b.DueDate = d
		b.Recurrence = core.Frequency(rec)
		b.Status = core.Status(status)
		b.CreatedAt = created
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewPersistenceError("query", err)
	}
	return out, nil
}

// GetBill fetches one record by id. The sync worker uses it to mirror a
// freshly written bill to the remote backend.
func (r *SQLiteRepository) GetBill(ctx context.Context, id string) (core.Bill, error) {
	const q = `
SELECT id, title, estimated_cents, paid_cents, due_date, category_id,
       installment, installments, recurrence, status, created_at
FROM bills WHERE id = ?`

	var (
		b       core.Bill
		due     string
		rec     string
		status  string
		created time.Time
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.Title, &b.EstimatedCents, &b.PaidCents, &due,
		&b.CategoryID, &b.Installment, &b.Installments, &rec, &status, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Bill{}, store.NewPersistenceError("query", store.ErrNotFound)
	}
	if err != nil {
		return core.Bill{}, store.NewPersistenceError("query", err)
	}
	d, err := core.ParseDate(due)
	if err != nil {
		return core.Bill{}, store.NewPersistenceError("query", fmt.Errorf("corrupt due_date %q for bill %s", due, b.ID))
	}
	b.DueDate = d
	b.Recurrence = core.Frequency(rec)
	b.Status = core.Status(status)
	b.CreatedAt = created
	return b, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id string, fields core.BillUpdate) error {
	const q = `
UPDATE bills
SET title = ?, estimated_cents = ?, paid_cents = ?, due_date = ?, category_id = ?, status = ?
WHERE id = ?`

	res, err := r.db.ExecContext(ctx, q,
		fields.Title, fields.EstimatedCents, fields.PaidCents,
		fields.DueDate.String(), fields.CategoryID, string(fields.Status), id)
	if err != nil {
		return store.NewPersistenceError("update", err)
	}
	return rowTouched(res, "update")
}

func (r *SQLiteRepository) MarkPaid(ctx context.Context, id string, paidCents int64) error {
	const q = `UPDATE bills SET status = 'paid', paid_cents = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, q, paidCents, id)
	if err != nil {
		return store.NewPersistenceError("update", err)
	}
	if err := rowTouched(res, "update"); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Bill marked paid", "id", id, "paid_cents", paidCents)
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bills WHERE id = ?`, id)
	if err != nil {
		return store.NewPersistenceError("delete", err)
	}
	return rowTouched(res, "delete")
}

func rowTouched(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return store.NewPersistenceError(op, err)
	}
	if n == 0 {
		return store.NewPersistenceError(op, store.ErrNotFound)
	}
	return nil
}
