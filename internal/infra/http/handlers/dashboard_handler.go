package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/xavierca1/ligue-convenios/internal/usecase"
)

type reportService interface {
	Summary(ctx context.Context, scope *usecase.Scope, from, to time.Time) (*usecase.Summary, error)
	Monthly(ctx context.Context, scope *usecase.Scope, year int) ([]usecase.MonthlyRevenue, error)
}

type DashboardHandler struct {
	Scopes   ScopeResolver
	Reports  reportService
	Location *time.Location
	now      func() time.Time
}

func NewDashboardHandler(scopes ScopeResolver, reports reportService, loc *time.Location) *DashboardHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardHandler{Scopes: scopes, Reports: reports, Location: loc, now: time.Now}
}

// SummaryHandler (GET /dashboard/summary?from=YYYY-MM-DD&to=YYYY-MM-DD)
// defaults to the current month; "to" includes the whole day.
func (h *DashboardHandler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r, h.Scopes)
	if !ok {
		return
	}

	now := h.now().In(h.Location)
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, h.Location)
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.Location)

	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		d, err := time.ParseInLocation("2006-01-02", v, h.Location)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "from deve estar no formato YYYY-MM-DD")
			return
		}
		from = d
	}
	if v := q.Get("to"); v != "" {
		d, err := time.ParseInLocation("2006-01-02", v, h.Location)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "to deve estar no formato YYYY-MM-DD")
			return
		}
		to = d
	}
	to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)

	summary, err := h.Reports.Summary(r.Context(), scope, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// MonthlyHandler (GET /dashboard/monthly?year=YYYY) defaults to the current year.
func (h *DashboardHandler) MonthlyHandler(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r, h.Scopes)
	if !ok {
		return
	}

	year := h.now().In(h.Location).Year()
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "year deve ser numérico")
			return
		}
		year = y
	}

	months, err := h.Reports.Monthly(r.Context(), scope, year)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"year": year, "months": months})
}
