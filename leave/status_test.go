package leave_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miftaudeen/leaveapp-backend/leave"
)

// =============================================================================
// STATUS LIFECYCLE TESTS
// =============================================================================

func TestTransition_AllowedMoves(t *testing.T) {
	cases := []struct {
		from leave.Status
		to   leave.Status
	}{
		{leave.StatusPending, leave.StatusApproved},
		{leave.StatusPending, leave.StatusRejected},
		{leave.StatusApproved, leave.StatusRunning},
		{leave.StatusApproved, leave.StatusCancelled},
		{leave.StatusRunning, leave.StatusReturned},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			change, err := leave.Transition(tc.from, tc.to, "manager-1")
			require.NoError(t, err)
			assert.Equal(t, tc.from, change.From)
			assert.Equal(t, tc.to, change.To)
			assert.Equal(t, leave.EmployeeID("manager-1"), change.ChangedBy)
			assert.False(t, change.ChangedAt.IsZero())
		})
	}
}

func TestTransition_ForbiddenMoves(t *testing.T) {
	cases := []struct {
		from leave.Status
		to   leave.Status
	}{
		{leave.StatusPending, leave.StatusRunning},
		{leave.StatusPending, leave.StatusReturned},
		{leave.StatusApproved, leave.StatusRejected},
		{leave.StatusApproved, leave.StatusPending},
		{leave.StatusRunning, leave.StatusCancelled},
		{leave.StatusReturned, leave.StatusRunning},
		{leave.StatusCancelled, leave.StatusApproved},
		{leave.StatusRejected, leave.StatusApproved},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			_, err := leave.Transition(tc.from, tc.to, "manager-1")
			require.ErrorIs(t, err, leave.ErrInvalidTransition)

			var te *leave.TransitionError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tc.from, te.From)
			assert.Equal(t, tc.to, te.To)
		})
	}
}

func TestStatus_Qualifying(t *testing.T) {
	// Only leave that actually consumed balance qualifies.
	assert.True(t, leave.StatusRunning.Qualifying())
	assert.True(t, leave.StatusReturned.Qualifying())
	assert.True(t, leave.StatusApproved.Qualifying())

	assert.False(t, leave.StatusPending.Qualifying())
	assert.False(t, leave.StatusCancelled.Qualifying())
	assert.False(t, leave.StatusRejected.Qualifying())
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range []leave.Status{
		leave.StatusPending, leave.StatusApproved, leave.StatusRunning,
		leave.StatusReturned, leave.StatusCancelled, leave.StatusRejected,
	} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, leave.Status("archived").Valid())
	assert.False(t, leave.Status("").Valid())
}
