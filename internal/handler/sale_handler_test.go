package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustmentDateRangeCoversFullEndDay(t *testing.T) {
	t.Parallel()

	start, err := time.Parse("2006-01-02", "2026-03-01")
	require.NoError(t, err)
	end, err := time.Parse("2006-01-02", "2026-03-05")
	require.NoError(t, err)

	lo, hi := adjustmentDateRange(start, end)

	assert.Equal(t, start, lo)

	// The last instant of the end date is inside the half-open range, the
	// next midnight is not.
	lastInstant := time.Date(2026, 3, 5, 23, 59, 59, 999999999, time.UTC)
	assert.True(t, lastInstant.Before(hi))
	assert.Equal(t, time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC), hi)
}

func TestAdjustmentDateRangeSingleDay(t *testing.T) {
	t.Parallel()

	day, err := time.Parse("2006-01-02", "2026-03-01")
	require.NoError(t, err)

	lo, hi := adjustmentDateRange(day, day)

	assert.Equal(t, day, lo)
	assert.Equal(t, day.AddDate(0, 0, 1), hi)
	assert.True(t, lo.Before(hi))
}
