package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"bizdash/internal/core"
	"bizdash/internal/reporting"
)

const (
	defaultListLimit = 100
	maxBodyBytes     = 1 << 20
)

var errInvalidBody = errors.New("invalid request body")

// ListParams are the query parameters of the transaction list.
type ListParams struct {
	Query  string
	Type   string
	Limit  int
	Offset int
}

// Filter converts the params to a store filter.
func (p ListParams) Filter() core.TransactionFilter {
	return core.TransactionFilter{Query: p.Query, Type: p.Type, Limit: p.Limit, Offset: p.Offset}
}

// ParseListParams reads q, type, limit and offset. q and type are used as sent;
// limit defaults to 100 and is clamped to [1, maxLimit]; a bad or negative
// offset becomes 0.
func ParseListParams(r *http.Request, maxLimit int) ListParams {
	q := r.URL.Query()
	p := ListParams{
		Query:  q.Get("q"),
		Type:   q.Get("type"),
		Limit:  defaultListLimit,
		Offset: 0,
	}

	if v, err := strconv.Atoi(strings.TrimSpace(q.Get("limit"))); err == nil {
		p.Limit = v
	}
	if p.Limit < 1 {
		p.Limit = 1
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}

	if v, err := strconv.Atoi(strings.TrimSpace(q.Get("offset"))); err == nil && v > 0 {
		p.Offset = v
	}
	return p
}

// ParseMonthsParam reads the series window; missing or non-numeric means 6.
// Bounds are applied by the engine.
func ParseMonthsParam(r *http.Request) int {
	if v, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("months"))); err == nil {
		return v
	}
	return reporting.DefaultSeriesMonths
}

// ParseMonthParam returns the trimmed month key; empty means current month.
func ParseMonthParam(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("month"))
}

// ParseIDParam reads the {id} path parameter.
func ParseIDParam(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, core.Invalid("id", core.ErrInvalidID)
	}
	return id, nil
}

// decodeJSON reads a single JSON document into dst. Any decode failure is a
// validation error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return core.Invalid("", errInvalidBody)
	}
	return nil
}

// ParseTransactionInput decodes a transaction body. Fields are stored exactly as
// sent; presence of the required ones is checked by the service.
func ParseTransactionInput(w http.ResponseWriter, r *http.Request) (core.TransactionInput, error) {
	var in core.TransactionInput
	err := decodeJSON(w, r, &in)
	return in, err
}

// ParseInventoryUpdate decodes and validates an inventory update body.
func ParseInventoryUpdate(w http.ResponseWriter, r *http.Request) (core.InventoryUpdate, error) {
	var u core.InventoryUpdate
	if err := decodeJSON(w, r, &u); err != nil {
		return u, err
	}
	return u, u.Validate()
}
