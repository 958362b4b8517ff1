package leave_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miftaudeen/leaveapp-backend/leave"
)

// =============================================================================
// WORKING DAY COUNTER TESTS
// =============================================================================

func TestCountWorkingDays_EmptyRange_Rejected(t *testing.T) {
	// GIVEN: A range whose end equals its start
	// WHEN: Counting working days
	// THEN: The count fails with ErrInvalidRange

	d := leave.NewDate(2024, time.March, 4)

	_, err := leave.CountWorkingDays(d, d)
	assert.ErrorIs(t, err, leave.ErrInvalidRange)
}

func TestCountWorkingDays_ReversedRange_Rejected(t *testing.T) {
	// GIVEN: An end date before the start date
	// WHEN: Counting working days
	// THEN: The count fails with ErrInvalidRange

	start := leave.NewDate(2024, time.March, 8)
	end := leave.NewDate(2024, time.March, 4)

	_, err := leave.CountWorkingDays(start, end)
	assert.ErrorIs(t, err, leave.ErrInvalidRange)
}

func TestCountWorkingDays_FullWeek_FiveDays(t *testing.T) {
	// GIVEN: Monday to the following Monday (one full calendar week)
	// WHEN: Counting working days
	// THEN: Exactly 5; the end Monday is excluded and the weekend skipped

	monday := leave.NewDate(2024, time.March, 4)

	days, err := leave.CountWorkingDays(monday, monday.AddDays(7))
	require.NoError(t, err)
	assert.Equal(t, 5, days)
}

func TestCountWorkingDays_WeekendStart_OnlyMondayCounts(t *testing.T) {
	// GIVEN: A range starting Saturday and ending Tuesday (exclusive)
	// WHEN: Counting working days
	// THEN: Only the Monday counts

	saturday := leave.NewDate(2024, time.March, 2)
	tuesday := leave.NewDate(2024, time.March, 5)

	days, err := leave.CountWorkingDays(saturday, tuesday)
	require.NoError(t, err)
	assert.Equal(t, 1, days)
}

func TestCountWorkingDays_EndDateExcluded(t *testing.T) {
	// GIVEN: Monday through Friday, Friday exclusive
	// WHEN: Counting working days
	// THEN: 4 days; the employee is back at work on Friday

	monday := leave.NewDate(2024, time.March, 4)
	friday := leave.NewDate(2024, time.March, 8)

	days, err := leave.CountWorkingDays(monday, friday)
	require.NoError(t, err)
	assert.Equal(t, 4, days)
}

func TestCountWorkingDays_TwoWeeksSpanningWeekends(t *testing.T) {
	cases := []struct {
		name  string
		start leave.Date
		end   leave.Date
		want  int
	}{
		{"two full weeks", leave.NewDate(2024, time.March, 4), leave.NewDate(2024, time.March, 18), 10},
		{"wednesday to wednesday", leave.NewDate(2024, time.March, 6), leave.NewDate(2024, time.March, 13), 5},
		{"single weekday", leave.NewDate(2024, time.March, 6), leave.NewDate(2024, time.March, 7), 1},
		{"weekend only", leave.NewDate(2024, time.March, 2), leave.NewDate(2024, time.March, 4), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			days, err := leave.CountWorkingDays(tc.start, tc.end)
			require.NoError(t, err)
			assert.Equal(t, tc.want, days)
		})
	}
}
