package core

// Expand turns a validated bill draft into the ordered sequence of concrete
// records to persist. It is a pure function: it performs no I/O and leaves
// identity assignment to the store.
//
// A draft without a recurrence policy yields a single record (installment 1 of
// 1). A recurring draft with count N yields N records sharing Installments=N,
// with Installment running 1..N in generation order. The due date of
// installment i is always derived from the original base date by adding
// (i-1) frequency steps, never from the previously generated date, so monthly
// clamping cannot drift (Jan 31, Feb 29, Mar 31 — not Jan 31, Feb 29, Mar 29).
//
// A draft submitted as paid marks every generated installment paid with
// PaidCents equal to the estimated amount. Callers wanting only the first
// installment paid must submit a pending draft and pay installments
// individually.
func Expand(draft BillDraft) ([]Bill, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	count := 1
	var every Frequency
	if draft.Recurrence != nil {
		count = draft.Recurrence.Count
		every = draft.Recurrence.Every
	}

	var paid int64
	if draft.Status == StatusPaid {
		paid = draft.Amount.Cents
	}

	bills := make([]Bill, 0, count)
	for i := 1; i <= count; i++ {
		bills = append(bills, Bill{
			Title:          draft.Title,
			EstimatedCents: draft.Amount.Cents,
			PaidCents:      paid,
			DueDate:        installmentDueDate(draft.DueDate, every, i),
			CategoryID:     draft.CategoryID,
			Installment:    i,
			Installments:   count,
			Recurrence:     every,
			Status:         draft.Status,
		})
	}
	return bills, nil
}

// installmentDueDate advances base by (i-1) frequency steps.
func installmentDueDate(base Date, every Frequency, i int) Date {
	switch every {
	case Daily:
		return base.AddDays(i - 1)
	case Weekly:
		return base.AddDays((i - 1) * 7)
	case Monthly:
		return base.AddMonths(i - 1)
	case Yearly:
		return base.AddYears(i - 1)
	default:
		// Non-recurring: a single installment due on the base date.
		return base
	}
}
