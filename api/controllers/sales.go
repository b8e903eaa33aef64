package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/dashcase/salesboard-backend/api/responses"
	"github.com/dashcase/salesboard-backend/api/validators"
	"github.com/dashcase/salesboard-backend/internal/sales"
	"github.com/dashcase/salesboard-backend/pkg/datewindow"
	pkgerrors "github.com/dashcase/salesboard-backend/pkg/errors"
	"github.com/dashcase/salesboard-backend/pkg/logger"
)

type monthlyWindowParams struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// MonthlySales aggregates paid orders in a caller-chosen date window. The
// end date is inclusive through the last instant of that day.
func MonthlySales(svc sales.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		params := monthlyWindowParams{
			StartDate: strings.TrimSpace(r.URL.Query().Get("start_date")),
			EndDate:   strings.TrimSpace(r.URL.Query().Get("end_date")),
		}
		if err := validators.ValidateParams(params); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		start, _ := time.ParseInLocation("2006-01-02", params.StartDate, loc)
		end, _ := time.ParseInLocation("2006-01-02", params.EndDate, loc)
		end = endOfDay(end)

		rows, err := svc.MonthlySales(r.Context(), start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// SalesDashboard summarizes the selected month and the month before it.
// Without a month parameter it anchors on the current month in loc.
func SalesDashboard(svc sales.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		anchor, err := parseAnchorMonth(r, loc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vendorID, err := validators.ParseQueryUUID(r, "vendor_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.Dashboard(r.Context(), anchor, vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// SalesChart returns the trailing-months bar chart series ending at the
// anchor month.
func SalesChart(svc sales.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		anchor, err := parseAnchorMonth(r, loc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		months, err := validators.ParseQueryInt(r, "months", 0, 1, 120)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vendorID, err := validators.ParseQueryUUID(r, "vendor_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.Chart(r.Context(), anchor, months, vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

func parseAnchorMonth(r *http.Request, loc *time.Location) (datewindow.MonthKey, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("month"))
	if raw == "" {
		return datewindow.CurrentMonth(time.Now(), loc), nil
	}
	return datewindow.ParseMonthKey(raw)
}

func endOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(999*time.Millisecond), day.Location())
}
