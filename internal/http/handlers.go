package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"contas/internal/catalog"
	"contas/internal/core"
	"contas/internal/store"
)

// monthNames holds the pt-BR month labels used across the UI.
var monthNames = [13]string{"",
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

type indexData struct {
	State      ViewState
	MonthLabel string
	Categories []catalog.Category
	HasMore    bool
	Today      string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	v := parseViewState(r.URL.Query())
	data := indexData{
		State:      v,
		MonthLabel: monthNames[v.Month],
		Categories: s.visibleCategories(v),
		HasMore:    s.catalog.Len() > catalog.PrimaryCount,
		Today:      core.NewDate(time.Now().Year(), time.Now().Month(), time.Now().Day()).String(),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) visibleCategories(v ViewState) []catalog.Category {
	if v.ShowAllCategories {
		return s.catalog.All()
	}
	return s.catalog.Primary()
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	v := parseViewState(r.Form)

	cents, err := core.ParseDecimalToCents(r.Form.Get("amount"))
	if err != nil {
		UnprocessableEntityError("Valor inválido").Write(w)
		return
	}
	dueDate, err := core.ParseDate(r.Form.Get("due_date"))
	if err != nil {
		UnprocessableEntityError("Data de vencimento inválida").Write(w)
		return
	}

	status := core.StatusPending
	if r.Form.Get("paid") == "1" {
		status = core.StatusPaid
	}

	draft := core.BillDraft{
		Title:      sanitizeInput(r.Form.Get("title")),
		Amount:     core.Money{Cents: cents},
		DueDate:    dueDate,
		CategoryID: sanitizeInput(r.Form.Get("category")),
		Status:     status,
	}
	if _, known := s.catalog.Lookup(draft.CategoryID); !known {
		UnprocessableEntityError("Categoria desconhecida").Write(w)
		return
	}
	if r.Form.Get("recurring") == "1" {
		count, err := strconv.Atoi(r.Form.Get("installments"))
		if err != nil {
			UnprocessableEntityError("Número de parcelas inválido").Write(w)
			return
		}
		draft.Recurrence = &core.RecurrencePolicy{
			Every: core.Frequency(r.Form.Get("frequency")),
			Count: count,
		}
	}

	bills, err := s.svc.CreateBills(r.Context(), draft)
	if err != nil {
		s.writeBillError(w, r, err, "Erro ao salvar a conta")
		return
	}

	billsCreatedTotal.Add(float64(len(bills)))
	s.invalidateMonthViews()

	NewHTMXResponse().
		TriggerBillCreated(v, len(bills)).
		TriggerSummaryRefresh(v).
		TriggerFormReset().
		BodyHTML(`<div class="success">Conta registrada: ` +
			template.HTMLEscapeString(draft.Title) +
			` — ` + core.FormatReais(draft.Amount.Cents) +
			` (` + strconv.Itoa(len(bills)) + `x)</div>`).
		Write(w)
}

func (s *Server) handlePayBill(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	id := r.PathValue("id")
	v := parseViewState(r.Form)

	cents, err := core.ParseDecimalToCents(r.Form.Get("paid_amount"))
	if err != nil {
		UnprocessableEntityError("Valor pago inválido").Write(w)
		return
	}

	if err := s.svc.Pay(r.Context(), id, cents); err != nil {
		s.writeBillError(w, r, err, "Erro ao registrar o pagamento")
		return
	}

	billsPaidTotal.Inc()
	s.invalidateMonthViews()

	NewHTMXResponse().
		TriggerBillPaid(v).
		TriggerSummaryRefresh(v).
		BodyHTML(`<div class="success">Pagamento registrado: ` + core.FormatReais(cents) + `</div>`).
		Write(w)
}

func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	id := r.PathValue("id")
	v := parseViewState(r.Form)

	cents, err := core.ParseDecimalToCents(r.Form.Get("amount"))
	if err != nil {
		UnprocessableEntityError("Valor inválido").Write(w)
		return
	}
	dueDate, err := core.ParseDate(r.Form.Get("due_date"))
	if err != nil {
		UnprocessableEntityError("Data de vencimento inválida").Write(w)
		return
	}

	fields := core.BillUpdate{
		Title:          sanitizeInput(r.Form.Get("title")),
		EstimatedCents: cents,
		DueDate:        dueDate,
		CategoryID:     sanitizeInput(r.Form.Get("category")),
		Status:         core.StatusPending,
	}
	if r.Form.Get("paid") == "1" {
		fields.Status = core.StatusPaid
		paidCents, err := core.ParseDecimalToCents(r.Form.Get("paid_amount"))
		if err != nil {
			UnprocessableEntityError("Valor pago inválido").Write(w)
			return
		}
		fields.PaidCents = paidCents
	}

	if err := s.svc.Edit(r.Context(), id, fields); err != nil {
		s.writeBillError(w, r, err, "Erro ao atualizar a conta")
		return
	}

	s.invalidateMonthViews()

	NewHTMXResponse().
		TriggerSummaryRefresh(v).
		BodyHTML(`<div class="success">Conta atualizada</div>`).
		Write(w)
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	v := parseViewState(r.URL.Query())

	if err := s.svc.Remove(r.Context(), id); err != nil {
		s.writeBillError(w, r, err, "Erro ao excluir a conta")
		return
	}

	s.invalidateMonthViews()

	NewHTMXResponse().
		TriggerBillDeleted(v).
		TriggerSummaryRefresh(v).
		BodyHTML(`<div class="success">Conta excluída</div>`).
		Write(w)
}

// writeBillError maps service errors onto HTTP status codes. Validation
// failures are the user's to fix; everything else is logged server-side.
func (s *Server) writeBillError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, core.ErrValidation):
		UnprocessableEntityError("Dados inválidos: " + err.Error()).Write(w)
	case errors.Is(err, store.ErrNotFound):
		NotFoundError("Conta não encontrada").Write(w)
	default:
		slog.ErrorContext(r.Context(), "Bill operation failed", "error", err, "url", r.URL.Path)
		InternalServerError(fallback).Write(w)
	}
}

type summaryRow struct {
	Label   string
	Amount  string
	Percent int
	Width   int
}

type summaryData struct {
	State       ViewState
	MonthLabel  string
	Forecast    string
	Paid        string
	Outstanding string
	Rows        []summaryRow
}

func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	v := parseViewState(r.URL.Query())

	sum, err := s.monthSummary(r.Context(), v)
	if err != nil {
		slog.ErrorContext(r.Context(), "Month summary error", "error", err, "year", v.Year, "month", v.Month)
		_, _ = w.Write([]byte(`<section id="month-summary" class="month-summary"><div class="placeholder">Erro ao carregar o resumo</div></section>`))
		return
	}

	var maxCents int64
	for _, row := range sum.ByCategory {
		if row.Cents > maxCents {
			maxCents = row.Cents
		}
	}

	data := summaryData{
		State:       v,
		MonthLabel:  monthNames[v.Month],
		Forecast:    core.FormatReais(sum.ForecastCents),
		Paid:        core.FormatReais(sum.PaidCents),
		Outstanding: core.FormatReais(sum.OutstandingCents),
	}
	for _, row := range sum.ByCategory {
		width := 0
		if maxCents > 0 && row.Cents > 0 {
			width = int((row.Cents*100 + maxCents/2) / maxCents)
			if width < 2 {
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		data.Rows = append(data.Rows, summaryRow{
			Label:   s.catalog.Label(row.CategoryID),
			Amount:  core.FormatReais(row.Cents),
			Percent: row.PercentOfForecast,
			Width:   width,
		})
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="month-summary" class="month-summary"><div class="placeholder">Previsto: ` + data.Forecast + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "month_summary.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "month_summary.html")
		_, _ = w.Write([]byte(`<section id="month-summary" class="month-summary"><div class="placeholder">Erro ao renderizar o resumo</div></section>`))
	}
}

type billRow struct {
	ID          string
	Title       string
	DueDay      int
	DueDate     string
	Category    string
	Estimated   string
	Paid        string
	Installment string
	IsPaid      bool
}

type billListData struct {
	State ViewState
	Rows  []billRow
	Empty bool
}

func (s *Server) handleBillList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	v := parseViewState(r.URL.Query())

	bills, err := s.monthBills(r.Context(), v)
	if err != nil {
		slog.ErrorContext(r.Context(), "Bill list error", "error", err, "year", v.Year, "month", v.Month)
		_, _ = w.Write([]byte(`<section id="bill-list" class="bill-list"><div class="placeholder">Erro ao carregar as contas</div></section>`))
		return
	}

	data := billListData{State: v}
	for _, b := range bills {
		if v.SelectedCategory != "" && b.CategoryID != v.SelectedCategory {
			continue
		}
		row := billRow{
			ID:        b.ID,
			Title:     b.Title,
			DueDay:    b.DueDate.Day(),
			DueDate:   b.DueDate.String(),
			Category:  s.catalog.Label(b.CategoryID),
			Estimated: core.FormatReais(b.EstimatedCents),
			IsPaid:    b.Status == core.StatusPaid,
		}
		if b.Status == core.StatusPaid {
			row.Paid = core.FormatReais(b.PaidCents)
		}
		if b.Installments > 1 {
			row.Installment = strconv.Itoa(b.Installment) + "/" + strconv.Itoa(b.Installments)
		}
		data.Rows = append(data.Rows, row)
	}
	data.Empty = len(data.Rows) == 0

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="bill-list" class="bill-list"><div class="placeholder">` + strconv.Itoa(len(data.Rows)) + ` contas</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "bill_list.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "bill_list.html")
		_, _ = w.Write([]byte(`<section id="bill-list" class="bill-list"><div class="placeholder">Erro ao renderizar as contas</div></section>`))
	}
}

func (s *Server) handleCategoryOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	v := parseViewState(r.URL.Query())

	data := indexData{
		State:      v,
		Categories: s.visibleCategories(v),
		HasMore:    s.catalog.Len() > catalog.PrimaryCount,
	}
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, "category_options.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "category_options.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
