package leave_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miftaudeen/leaveapp-backend/leave"
)

// =============================================================================
// LEAVE PERIOD RESOLVER TESTS
// =============================================================================

func TestResolvePeriod_CalendarYear(t *testing.T) {
	// GIVEN: A period starting in January
	// WHEN: Resolving from a mid-year reference date
	// THEN: The period is the calendar year of the reference date

	ref := leave.NewDate(2024, time.March, 15)

	period, err := leave.ResolvePeriod(ref, 1)
	require.NoError(t, err)
	assert.Equal(t, leave.NewDate(2024, time.January, 1), period.Start)
	assert.Equal(t, leave.NewDate(2024, time.December, 31), period.End)
}

func TestResolvePeriod_ReferenceBeforeStartMonth_PreviousYear(t *testing.T) {
	// GIVEN: A fiscal period starting in April and a reference in March
	// WHEN: Resolving the period
	// THEN: The period began in April of the previous year

	ref := leave.NewDate(2024, time.March, 15)

	period, err := leave.ResolvePeriod(ref, 4)
	require.NoError(t, err)
	assert.Equal(t, leave.NewDate(2023, time.April, 1), period.Start)
	assert.Equal(t, leave.NewDate(2024, time.March, 31), period.End)
}

func TestResolvePeriod_ReferenceAfterStartMonth_CurrentYear(t *testing.T) {
	// GIVEN: A fiscal period starting in April and a reference in June
	// WHEN: Resolving the period
	// THEN: The period began in April of the reference year

	ref := leave.NewDate(2024, time.June, 15)

	period, err := leave.ResolvePeriod(ref, 4)
	require.NoError(t, err)
	assert.Equal(t, leave.NewDate(2024, time.April, 1), period.Start)
	assert.Equal(t, leave.NewDate(2025, time.March, 31), period.End)
}

func TestResolvePeriod_ReferenceInStartMonth_CurrentYear(t *testing.T) {
	// GIVEN: A reference date inside the start month itself
	// WHEN: Resolving the period
	// THEN: The period began this year; the start month belongs to the new period

	ref := leave.NewDate(2024, time.April, 1)

	period, err := leave.ResolvePeriod(ref, 4)
	require.NoError(t, err)
	assert.Equal(t, leave.NewDate(2024, time.April, 1), period.Start)
}

func TestResolvePeriod_InvalidStartMonth(t *testing.T) {
	ref := leave.NewDate(2024, time.March, 15)

	for _, month := range []int{0, 13, -1} {
		_, err := leave.ResolvePeriod(ref, month)
		assert.ErrorIs(t, err, leave.ErrInvalidStartMonth, "month %d", month)
	}
}

func TestResolvePeriod_Deterministic(t *testing.T) {
	// GIVEN: The same reference date and start month
	// WHEN: Resolving twice
	// THEN: Both resolutions are identical

	ref := leave.NewDate(2024, time.August, 20)

	first, err := leave.ResolvePeriod(ref, 7)
	require.NoError(t, err)
	second, err := leave.ResolvePeriod(ref, 7)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolvePeriod_ContainsReference(t *testing.T) {
	// Every resolved period contains the reference date it was resolved from.
	refs := []leave.Date{
		leave.NewDate(2024, time.January, 1),
		leave.NewDate(2024, time.June, 30),
		leave.NewDate(2024, time.December, 31),
	}
	for _, ref := range refs {
		for month := 1; month <= 12; month++ {
			period, err := leave.ResolvePeriod(ref, month)
			require.NoError(t, err)
			assert.True(t, period.Contains(ref), "period %s, ref %s, month %d", period, ref, month)
		}
	}
}

func TestPeriod_Previous(t *testing.T) {
	// GIVEN: The 2024 calendar-year period
	// WHEN: Stepping back one period
	// THEN: The 2023 calendar year is returned

	period, err := leave.ResolvePeriod(leave.NewDate(2024, time.May, 1), 1)
	require.NoError(t, err)

	prev := period.Previous()
	assert.Equal(t, leave.NewDate(2023, time.January, 1), prev.Start)
	assert.Equal(t, leave.NewDate(2023, time.December, 31), prev.End)
}
