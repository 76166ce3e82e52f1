package validators

import (
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/amazingstor/backend/pkg/errors"
)

const queryDateLayout = "2006-01-02"

// ParseQueryDate reads an optional YYYY-MM-DD query parameter. Returns nil
// when the parameter is absent.
func ParseQueryDate(r *http.Request, key string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := time.ParseInLocation(queryDateLayout, raw, time.UTC)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a date (YYYY-MM-DD)").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}
