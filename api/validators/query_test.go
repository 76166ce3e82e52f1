package validators

import (
	"net/http/httptest"
	"testing"
	"time"

	pkgerrors "github.com/amazingstor/backend/pkg/errors"
)

func TestParseQueryDate(t *testing.T) {
	req := httptest.NewRequest("GET", "/reports?start_date=2026-03-01", nil)
	value, err := ParseQueryDate(req, "start_date")
	if err != nil {
		t.Fatalf("ParseQueryDate: %v", err)
	}
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if value == nil || !value.Equal(want) {
		t.Fatalf("expected %v, got %v", want, value)
	}
}

func TestParseQueryDateAbsent(t *testing.T) {
	req := httptest.NewRequest("GET", "/reports", nil)
	value, err := ParseQueryDate(req, "start_date")
	if err != nil {
		t.Fatalf("ParseQueryDate: %v", err)
	}
	if value != nil {
		t.Fatalf("expected nil for absent parameter, got %v", value)
	}
}

func TestParseQueryDateMalformed(t *testing.T) {
	for _, raw := range []string{"01-03-2026", "2026/03/01", "yesterday"} {
		req := httptest.NewRequest("GET", "/reports?start_date="+raw, nil)
		_, err := ParseQueryDate(req, "start_date")
		if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", raw, err)
		}
	}
}
