package controllers

import (
	"net/http"

	"github.com/dashcase/salesboard-backend/api/responses"
	"github.com/dashcase/salesboard-backend/internal/vendors"
	pkgerrors "github.com/dashcase/salesboard-backend/pkg/errors"
	"github.com/dashcase/salesboard-backend/pkg/logger"
)

// ListVendors returns every vendor, sorted by name.
func ListVendors(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		out, err := svc.ListVendors(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}
