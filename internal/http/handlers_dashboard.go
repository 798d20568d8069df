package http

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"bizdash/internal/charts"
	applog "bizdash/internal/log"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.reporter.Stats(r.Context())
	if err != nil {
		s.fail(w, r, applog.ComponentReporting, applog.OpStats, err)
		return
	}
	OK(stats).Write(w)
}

func (s *Server) handleRevenueSeries(w http.ResponseWriter, r *http.Request) {
	months := ParseMonthsParam(r)
	series, err := s.reporter.RevenueSeries(r.Context(), months)
	if err != nil {
		s.fail(w, r, applog.ComponentReporting, applog.OpSeries, err, applog.FieldMonths, months)
		return
	}
	OK(series).Write(w)
}

func (s *Server) handleCategorySales(w http.ResponseWriter, r *http.Request) {
	month := ParseMonthParam(r)
	totals, err := s.reporter.CategoryBreakdown(r.Context(), month)
	if err != nil {
		s.fail(w, r, applog.ComponentReporting, applog.OpCategory, err, applog.FieldMonth, month)
		return
	}
	OK(totals).Write(w)
}

func (s *Server) handleRevenueChart(w http.ResponseWriter, r *http.Request) {
	months := ParseMonthsParam(r)
	series, err := s.reporter.RevenueSeries(r.Context(), months)
	if err != nil {
		s.fail(w, r, applog.ComponentReporting, applog.OpSeries, err, applog.FieldMonths, months)
		return
	}

	var buf bytes.Buffer
	if err := charts.RenderRevenue(&buf, series); err != nil {
		s.chartFailed(w, r, err)
		return
	}
	writePNG(w, buf.Bytes())
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	month := ParseMonthParam(r)
	if month == "" {
		month = s.reporter.CurrentMonth()
	}
	totals, err := s.reporter.CategoryBreakdown(r.Context(), month)
	if err != nil {
		s.fail(w, r, applog.ComponentReporting, applog.OpCategory, err, applog.FieldMonth, month)
		return
	}

	var buf bytes.Buffer
	if err := charts.RenderCategorySales(&buf, month, totals); err != nil {
		if errors.Is(err, charts.ErrNoData) {
			NotFoundError().Message("No categories").Write(w)
			return
		}
		s.chartFailed(w, r, err)
		return
	}
	writePNG(w, buf.Bytes())
}

func (s *Server) chartFailed(w http.ResponseWriter, r *http.Request, err error) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentReporting).ErrorContext(r.Context(), "Chart rendering failed",
		applog.FieldOperation, applog.OpChart,
		applog.FieldErrorType, applog.ErrorTypeInternal,
		applog.FieldError, err)
	InternalServerError().Write(w)
}

func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", charts.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
