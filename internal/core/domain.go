package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// MaxInstallments bounds how many records a single recurring draft may expand to.
const MaxInstallments = 360

type (
	Frequency string

	Status string

	// Date is a calendar date with no time-of-day meaning. It is normalized
	// to midnight UTC exactly once, at construction, so serializing it to a
	// timestamp can never shift the calendar day.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// RecurrencePolicy describes how a bill draft repeats.
	RecurrencePolicy struct {
		Every Frequency
		Count int // total installments, 2..MaxInstallments
	}

	// BillDraft is the ephemeral form submission before expansion.
	BillDraft struct {
		Title      string
		Amount     Money
		DueDate    Date
		CategoryID string
		Status     Status
		Recurrence *RecurrencePolicy // nil for a one-off bill
	}

	// Bill is one persisted installment. The store assigns ID on insert;
	// after creation each installment is an independent record.
	Bill struct {
		ID             string
		Title          string
		EstimatedCents int64
		PaidCents      int64
		DueDate        Date
		CategoryID     string
		Installment    int       // 1-based
		Installments   int       // 1 for non-recurring
		Recurrence     Frequency // empty for non-recurring
		Status         Status
		CreatedAt      time.Time
	}

	// BillUpdate carries a full-field edit. Editing one installment never
	// regenerates its recurrence siblings.
	BillUpdate struct {
		Title          string
		EstimatedCents int64
		PaidCents      int64
		DueDate        Date
		CategoryID     string
		Status         Status
	}
)

// ErrValidation is the base of the validation error taxonomy. Every bad-input
// error matches it via errors.Is, so callers can reject a submission before
// any persistence attempt.
var ErrValidation = errors.New("validation failed")

var (
	ErrEmptyTitle       = fmt.Errorf("%w: empty title", ErrValidation)
	ErrTitleTooLong     = fmt.Errorf("%w: title too long (max 200 characters)", ErrValidation)
	ErrInvalidAmount    = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrInvalidDate      = fmt.Errorf("%w: invalid due date", ErrValidation)
	ErrEmptyCategory    = fmt.Errorf("%w: empty category", ErrValidation)
	ErrInvalidFrequency = fmt.Errorf("%w: unknown frequency", ErrValidation)
	ErrInvalidCount     = fmt.Errorf("%w: installment count out of range", ErrValidation)
	ErrInvalidStatus    = fmt.Errorf("%w: unknown status", ErrValidation)
)

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), time.UTC)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// AddDays returns a new Date n days after d.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// AddMonths returns a new Date n months after d. When the base day-of-month
// does not exist in the target month, the result clamps to the last valid day
// of that month (Jan 31 +1 month is Feb 29 in a leap year, Feb 28 otherwise).
// time.AddDate would silently roll Feb 31 into March, so the clamp is explicit.
func (d Date) AddMonths(n int) Date {
	year, month, day := d.Date()
	total := int(month) - 1 + n
	year += total / 12
	month = time.Month(total%12 + 1)
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return NewDate(year, month, day)
}

// AddYears returns a new Date n years after d, clamping Feb 29 to Feb 28
// in non-leap target years.
func (d Date) AddYears(n int) Date {
	year, month, day := d.Date()
	year += n
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return NewDate(year, month, day)
}

// MonthWindow returns the first and last calendar day of the month containing d.
func (d Date) MonthWindow() (from, to Date) {
	year, month, _ := d.Date()
	return NewDate(year, month, 1), NewDate(year, month, lastDayOfMonth(year, month))
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day zero of the next month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (f Frequency) Validate() error {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return nil
	default:
		return ErrInvalidFrequency
	}
}

func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusPaid:
		return nil
	default:
		return ErrInvalidStatus
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (p RecurrencePolicy) Validate() error {
	if err := p.Every.Validate(); err != nil {
		return err
	}
	if p.Count < 2 || p.Count > MaxInstallments {
		return ErrInvalidCount
	}
	return nil
}

func (d BillDraft) Validate() error {
	if len(strings.TrimSpace(d.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(d.Title) > 200 {
		return ErrTitleTooLong
	}
	if err := d.Amount.Validate(); err != nil {
		return err
	}
	if err := d.DueDate.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(d.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if err := d.Status.Validate(); err != nil {
		return err
	}
	if d.Recurrence != nil {
		if err := d.Recurrence.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (u BillUpdate) Validate() error {
	if len(strings.TrimSpace(u.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(u.Title) > 200 {
		return ErrTitleTooLong
	}
	if u.EstimatedCents <= 0 {
		return ErrInvalidAmount
	}
	if u.PaidCents < 0 {
		return ErrInvalidAmount
	}
	if err := u.DueDate.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(u.CategoryID) == "" {
		return ErrEmptyCategory
	}
	return u.Status.Validate()
}
