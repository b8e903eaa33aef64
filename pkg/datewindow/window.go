// Package datewindow computes the calendar-month windows that drive sales
// reporting. Callers pass the report location explicitly; the same location
// must be used when bucketing payment timestamps, otherwise month boundaries
// drift between the window and the aggregation.
package datewindow

import (
	"fmt"
	"time"

	pkgerrors "github.com/dashcase/salesboard-backend/pkg/errors"
)

// MonthKey identifies one calendar month.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthWindow pairs a month key with its human label ("Jan 2006").
type MonthWindow struct {
	Key   MonthKey
	Label string
}

// String renders the key in the YYYY-MM form used on the query surface.
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Label renders the display form, e.g. "Feb 2024".
func (k MonthKey) Label() string {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
}

// Valid reports whether the key names a real month.
func (k MonthKey) Valid() bool {
	return k.Month >= time.January && k.Month <= time.December && k.Year > 0
}

// ParseMonthKey parses the YYYY-MM query form.
func ParseMonthKey(value string) (MonthKey, error) {
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return MonthKey{}, pkgerrors.New(pkgerrors.CodeValidation, "month must be in YYYY-MM form").
			WithDetails(map[string]string{"month": value})
	}
	return MonthKey{Year: t.Year(), Month: t.Month()}, nil
}

// CurrentMonth returns the calendar month containing now in loc.
func CurrentMonth(now time.Time, loc *time.Location) MonthKey {
	local := now.In(loc)
	return MonthKey{Year: local.Year(), Month: local.Month()}
}

// MonthRange returns the closed interval covering the whole month in loc:
// day 1 00:00:00.000 through the last day 23:59:59.999. Queries treat both
// bounds as inclusive.
func MonthRange(key MonthKey, loc *time.Location) (time.Time, time.Time, error) {
	if !key.Valid() {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "month out of range").
			WithDetails(map[string]string{"month": key.String()})
	}

	start := time.Date(key.Year, key.Month, 1, 0, 0, 0, 0, loc)
	// Day 0 of the following month normalizes to this month's last day,
	// which handles 28/29/30/31-day months uniformly.
	end := time.Date(key.Year, key.Month+1, 0, 23, 59, 59, int(999*time.Millisecond), loc)
	return start, end, nil
}

// TrailingMonths returns n consecutive months ending at anchor, oldest
// first; anchor itself is the last element. Year boundaries roll over.
func TrailingMonths(anchor MonthKey, n int) ([]MonthWindow, error) {
	if !anchor.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "month out of range").
			WithDetails(map[string]string{"month": anchor.String()})
	}
	if n < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "months must be at least 1")
	}

	windows := make([]MonthWindow, n)
	for i := 0; i < n; i++ {
		// time.Date normalizes out-of-range months, e.g. 2024-(-1) → 2023-11.
		t := time.Date(anchor.Year, anchor.Month-time.Month(n-1-i), 1, 0, 0, 0, 0, time.UTC)
		key := MonthKey{Year: t.Year(), Month: t.Month()}
		windows[i] = MonthWindow{Key: key, Label: key.Label()}
	}
	return windows, nil
}
