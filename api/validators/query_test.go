package validators

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgerrors "github.com/dashcase/salesboard-backend/pkg/errors"
)

func request(t *testing.T, target string) *http.Request {
	t.Helper()
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func TestParseQueryInt(t *testing.T) {
	got, err := ParseQueryInt(request(t, "/?limit=10"), "limit", 25, 1, 100)
	if err != nil || got != 10 {
		t.Fatalf("got %d, %v", got, err)
	}

	got, err = ParseQueryInt(request(t, "/"), "limit", 25, 1, 100)
	if err != nil || got != 25 {
		t.Fatalf("default: got %d, %v", got, err)
	}

	if _, err := ParseQueryInt(request(t, "/?limit=abc"), "limit", 25, 1, 100); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
	if _, err := ParseQueryInt(request(t, "/?limit=101"), "limit", 25, 1, 100); err == nil {
		t.Fatal("expected error for out-of-range value")
	}
}

func TestParseQueryDate(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatal(err)
	}

	got, err := ParseQueryDate(request(t, "/?start_date=2024-01-15"), "start_date", loc)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, time.January, 15, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if _, err := ParseQueryDate(request(t, "/"), "start_date", loc); err == nil {
		t.Fatal("expected error for missing value")
	}
	if _, err := ParseQueryDate(request(t, "/?start_date=15-01-2024"), "start_date", loc); err == nil {
		t.Fatal("expected error for wrong layout")
	}
}

func TestParseQueryUUID(t *testing.T) {
	got, err := ParseQueryUUID(request(t, "/"), "vendor_id")
	if err != nil || got != nil {
		t.Fatalf("missing value should be nil, got %v, %v", got, err)
	}

	got, err = ParseQueryUUID(request(t, "/?vendor_id=6e7cdb2b-6b6e-4f0e-9639-0c8a1d5c6a01"), "vendor_id")
	if err != nil || got == nil {
		t.Fatalf("got %v, %v", got, err)
	}

	if _, err := ParseQueryUUID(request(t, "/?vendor_id=nope"), "vendor_id"); err == nil {
		t.Fatal("expected error for malformed uuid")
	}
}

func TestValidateParams(t *testing.T) {
	type params struct {
		StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
		EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	}

	if err := ValidateParams(params{StartDate: "2024-01-01", EndDate: "2024-01-31"}); err != nil {
		t.Fatalf("valid params rejected: %v", err)
	}

	err := ValidateParams(params{StartDate: "2024-01-01"})
	if err == nil {
		t.Fatal("expected error for missing end_date")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["end_date"] == "" {
		t.Fatalf("expected end_date detail keyed by json name, got %v", typed.Details())
	}

	if err := ValidateParams(params{StartDate: "Jan 1", EndDate: "2024-01-31"}); err == nil {
		t.Fatal("expected error for malformed date")
	}
}
