package reports

import (
	"net/http"

	"github.com/amazingstor/backend/api/responses"
	"github.com/amazingstor/backend/api/validators"
	reportsvc "github.com/amazingstor/backend/internal/reports"
	pkgerrors "github.com/amazingstor/backend/pkg/errors"
	"github.com/amazingstor/backend/pkg/logger"
)

// CartSums returns per-user cart totals grouped by day. Both date bounds are
// optional and inclusive.
func CartSums(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		start, err := validators.ParseQueryDate(r, "start_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := validators.ParseQueryDate(r, "end_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if start != nil && end != nil && end.Before(*start) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "end_date must not precede start_date"))
			return
		}

		days, err := svc.SumByDay(r.Context(), start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, days)
	}
}
