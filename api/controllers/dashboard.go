package controllers

import (
	"net/http"

	"github.com/tsrs-robotics/robolab-backend/api/responses"
	"github.com/tsrs-robotics/robolab-backend/internal/dashboard"
	pkgerrors "github.com/tsrs-robotics/robolab-backend/pkg/errors"
	"github.com/tsrs-robotics/robolab-backend/pkg/logger"
)

// DashboardSummary returns the lab-wide inventory snapshot: catalog totals,
// stock volume, low-stock items and the per-category breakdown.
func DashboardSummary(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}
