package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/dashcase/salesboard-backend/api/responses"
	"github.com/dashcase/salesboard-backend/api/validators"
	"github.com/dashcase/salesboard-backend/internal/orders"
	pkgerrors "github.com/dashcase/salesboard-backend/pkg/errors"
	"github.com/dashcase/salesboard-backend/pkg/logger"
	"github.com/dashcase/salesboard-backend/pkg/pagination"
)

// ListOrders pages through the raw order ledger, newest payment first.
// Optional from/to dates narrow the payment window.
func ListOrders(svc orders.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		filters, err := parseOrderFilters(r, loc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListOrders(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func parseOrderFilters(r *http.Request, loc *time.Location) (orders.Filters, error) {
	var filters orders.Filters
	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		from, err := validators.ParseQueryDate(r, "from", loc)
		if err != nil {
			return orders.Filters{}, err
		}
		filters.From = from
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("to")); raw != "" {
		to, err := validators.ParseQueryDate(r, "to", loc)
		if err != nil {
			return orders.Filters{}, err
		}
		filters.To = time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, int(999*time.Millisecond), to.Location())
	}
	return filters, nil
}
