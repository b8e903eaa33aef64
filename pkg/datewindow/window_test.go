package datewindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthRangeBoundaries(t *testing.T) {
	for year := 2023; year <= 2025; year++ {
		for month := time.January; month <= time.December; month++ {
			start, end, err := MonthRange(MonthKey{Year: year, Month: month}, time.UTC)
			require.NoError(t, err)

			assert.Equal(t, 1, start.Day())
			assert.Equal(t, 0, start.Hour())
			assert.Equal(t, 0, start.Minute())
			assert.Equal(t, 0, start.Second())
			assert.Equal(t, 0, start.Nanosecond())

			assert.Equal(t, 23, end.Hour())
			assert.Equal(t, 59, end.Minute())
			assert.Equal(t, 59, end.Second())
			assert.Equal(t, int(999*time.Millisecond), end.Nanosecond())

			assert.True(t, end.After(start))
			// The millisecond after end must land in the next month.
			assert.NotEqual(t, end.Month(), end.Add(time.Millisecond).Month())
		}
	}
}

func TestMonthRangeLeapYear(t *testing.T) {
	_, end, err := MonthRange(MonthKey{Year: 2024, Month: time.February}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 29, end.Day())

	_, end, err = MonthRange(MonthKey{Year: 2023, Month: time.February}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 28, end.Day())
}

func TestMonthRangeInvalidMonth(t *testing.T) {
	_, _, err := MonthRange(MonthKey{Year: 2024, Month: 13}, time.UTC)
	require.Error(t, err)

	_, _, err = MonthRange(MonthKey{Year: 2024, Month: 0}, time.UTC)
	require.Error(t, err)
}

func TestMonthRangeHonorsLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	start, end, err := MonthRange(MonthKey{Year: 2024, Month: time.January}, loc)
	require.NoError(t, err)
	assert.Equal(t, loc, start.Location())
	assert.Equal(t, loc, end.Location())
}

func TestTrailingMonthsRollsOverYears(t *testing.T) {
	windows, err := TrailingMonths(MonthKey{Year: 2024, Month: time.February}, 4)
	require.NoError(t, err)
	require.Len(t, windows, 4)

	assert.Equal(t, MonthKey{Year: 2023, Month: time.November}, windows[0].Key)
	assert.Equal(t, "Nov 2023", windows[0].Label)
	assert.Equal(t, MonthKey{Year: 2023, Month: time.December}, windows[1].Key)
	assert.Equal(t, "Dec 2023", windows[1].Label)
	assert.Equal(t, MonthKey{Year: 2024, Month: time.January}, windows[2].Key)
	assert.Equal(t, "Jan 2024", windows[2].Label)
	assert.Equal(t, MonthKey{Year: 2024, Month: time.February}, windows[3].Key)
	assert.Equal(t, "Feb 2024", windows[3].Label)
}

func TestTrailingMonthsSingle(t *testing.T) {
	windows, err := TrailingMonths(MonthKey{Year: 2024, Month: time.July}, 1)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, MonthKey{Year: 2024, Month: time.July}, windows[0].Key)
}

func TestTrailingMonthsRejectsBadInput(t *testing.T) {
	_, err := TrailingMonths(MonthKey{Year: 2024, Month: time.July}, 0)
	require.Error(t, err)

	_, err = TrailingMonths(MonthKey{Year: 2024, Month: 14}, 3)
	require.Error(t, err)
}

func TestParseMonthKey(t *testing.T) {
	key, err := ParseMonthKey("2024-02")
	require.NoError(t, err)
	assert.Equal(t, MonthKey{Year: 2024, Month: time.February}, key)
	assert.Equal(t, "2024-02", key.String())

	_, err = ParseMonthKey("2024-13")
	require.Error(t, err)

	_, err = ParseMonthKey("Feb 2024")
	require.Error(t, err)
}

func TestCurrentMonthUsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("Pacific/Auckland")
	require.NoError(t, err)

	// 23:30 UTC on Jan 31 is already February in Auckland.
	now := time.Date(2024, time.January, 31, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, MonthKey{Year: 2024, Month: time.February}, CurrentMonth(now, loc))
	assert.Equal(t, MonthKey{Year: 2024, Month: time.January}, CurrentMonth(now, time.UTC))
}
