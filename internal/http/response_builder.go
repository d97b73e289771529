package http

import (
	"encoding/json"
	"html/template"
	"net/http"
)

// HTMXResponseBuilder assembles HX-Trigger headers and response bodies with a
// fluent API, keeping trigger names consistent across handlers.
type HTMXResponseBuilder struct {
	triggers   map[string]any
	statusCode int
	body       []byte
	headers    map[string]string
}

func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

func (b *HTMXResponseBuilder) Trigger(name string, data any) *HTMXResponseBuilder {
	b.triggers[name] = data
	return b
}

// TriggerBillCreated signals that one or more installments were created.
func (b *HTMXResponseBuilder) TriggerBillCreated(v ViewState, count int) *HTMXResponseBuilder {
	return b.Trigger("bill:created", map[string]int{
		"year": v.Year, "month": int(v.Month), "count": count,
	})
}

// TriggerBillPaid signals that a bill transitioned to paid.
func (b *HTMXResponseBuilder) TriggerBillPaid(v ViewState) *HTMXResponseBuilder {
	return b.Trigger("bill:paid", map[string]int{"year": v.Year, "month": int(v.Month)})
}

// TriggerBillDeleted signals a removed installment.
func (b *HTMXResponseBuilder) TriggerBillDeleted(v ViewState) *HTMXResponseBuilder {
	return b.Trigger("bill:deleted", map[string]int{"year": v.Year, "month": int(v.Month)})
}

// TriggerSummaryRefresh tells the KPI partial to reload itself.
func (b *HTMXResponseBuilder) TriggerSummaryRefresh(v ViewState) *HTMXResponseBuilder {
	return b.Trigger("summary:refresh", map[string]int{"year": v.Year, "month": int(v.Month)})
}

// TriggerFormReset clears the bill form after a successful submit.
func (b *HTMXResponseBuilder) TriggerFormReset() *HTMXResponseBuilder {
	return b.Trigger("form:reset", struct{}{})
}

func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.headers[name] = value
	return b
}

func (b *HTMXResponseBuilder) BodyHTML(html string) *HTMXResponseBuilder {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = []byte(html)
	return b
}

// Write sends the built response.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if len(b.triggers) > 0 {
		if triggerJSON, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}
	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse builds an HTML error fragment; the message is escaped.
func ErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(statusCode).
		BodyHTML(`<div class="error">` + template.HTMLEscapeString(message) + `</div>`)
}

func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func UnprocessableEntityError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

func InternalServerError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

func NotFoundError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func MethodNotAllowedError(allowedMethods string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(http.StatusMethodNotAllowed).
		Header("Allow", allowedMethods)
}
