package leave_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miftaudeen/leaveapp-backend/leave"
	"github.com/Miftaudeen/leaveapp-backend/leave/store"
)

// =============================================================================
// BALANCE SERVICE TESTS
// =============================================================================

func newTestService(t *testing.T) (*leave.BalanceService, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	svc := leave.NewBalanceService(mem, mem, mem, store.FixedSettings(1))
	svc.Clock = func() leave.Date { return leave.NewDate(2024, time.March, 1) }
	return svc, mem
}

func TestSubmitLeaveRequest_FirstLeaveOfTheYear(t *testing.T) {
	// GIVEN: An employee hired in 2020 with no leave history, entitled to
	//        20 days with a carry-over cap of 5
	// WHEN: Requesting Monday through Friday (exclusive)
	// THEN: 4 working days are taken from an opening balance of 25

	svc, mem := newTestService(t)
	mem.PutEmployee(leave.Employee{ID: "emp-1", Name: "Ada", HireDate: leave.NewDate(2020, time.January, 1)})
	policy := annualPolicy(20, 5)
	mem.PutPolicy(policy)

	result, err := svc.SubmitLeaveRequest(context.Background(), "emp-1", policy,
		leave.NewDate(2024, time.March, 4), leave.NewDate(2024, time.March, 8))
	require.NoError(t, err)

	assert.Equal(t, 4, result.DaysTaken)
	assert.True(t, decimal.NewFromInt(21).Equal(result.LeaveBalance), "got %s", result.LeaveBalance)
	assert.Equal(t, leave.NewDate(2024, time.January, 1), result.Period.Start)
}

func TestSubmitLeaveRequest_ExactBalance_Allowed(t *testing.T) {
	// GIVEN: An opening balance of exactly 4 days
	// WHEN: Requesting exactly 4 working days
	// THEN: The request succeeds and leaves a zero balance

	svc, mem := newTestService(t)
	mem.PutEmployee(leave.Employee{ID: "emp-1", HireDate: leave.NewDate(2024, time.February, 1)})
	policy := annualPolicy(4, 0)
	mem.PutPolicy(policy)

	result, err := svc.SubmitLeaveRequest(context.Background(), "emp-1", policy,
		leave.NewDate(2024, time.March, 4), leave.NewDate(2024, time.March, 8))
	require.NoError(t, err)
	assert.True(t, result.LeaveBalance.IsZero(), "got %s", result.LeaveBalance)
}

func TestSubmitLeaveRequest_InsufficientBalance(t *testing.T) {
	// GIVEN: An opening balance of 4 days
	// WHEN: Requesting 5 working days
	// THEN: The request is declined, reporting the 4 days available

	svc, mem := newTestService(t)
	mem.PutEmployee(leave.Employee{ID: "emp-1", HireDate: leave.NewDate(2024, time.February, 1)})
	policy := annualPolicy(4, 0)
	mem.PutPolicy(policy)

	_, err := svc.SubmitLeaveRequest(context.Background(), "emp-1", policy,
		leave.NewDate(2024, time.March, 4), leave.NewDate(2024, time.March, 11))
	require.ErrorIs(t, err, leave.ErrInsufficientBalance)

	var ibe *leave.InsufficientBalanceError
	require.True(t, errors.As(err, &ibe))
	assert.Equal(t, 4, ibe.DaysLeft)
	assert.Equal(t, "annual", ibe.LeaveType)
	assert.Equal(t, "you only have 4 days left on annual leave type", err.Error())
}

func TestSubmitLeaveRequest_ConsecutiveRequestsDrawDown(t *testing.T) {
	// GIVEN: An approved leave earlier in the period that left a balance of 21
	// WHEN: Requesting 5 more working days
	// THEN: The new balance continues from 21, not from the full entitlement

	svc, mem := newTestService(t)
	mem.PutEmployee(leave.Employee{ID: "emp-1", HireDate: leave.NewDate(2020, time.January, 1)})
	policy := annualPolicy(20, 5)
	mem.PutPolicy(policy)

	require.NoError(t, mem.InsertLeave(context.Background(), leave.LeaveRecord{
		ID:           "leave-1",
		EmployeeID:   "emp-1",
		PolicyID:     policy.ID,
		StartDate:    leave.NewDate(2024, time.January, 8),
		EndDate:      leave.NewDate(2024, time.January, 15),
		DaysTaken:    4,
		LeaveBalance: decimal.NewFromInt(21),
		Status:       leave.StatusReturned,
	}))

	result, err := svc.SubmitLeaveRequest(context.Background(), "emp-1", policy,
		leave.NewDate(2024, time.March, 4), leave.NewDate(2024, time.March, 11))
	require.NoError(t, err)
	assert.Equal(t, 5, result.DaysTaken)
	assert.True(t, decimal.NewFromInt(16).Equal(result.LeaveBalance), "got %s", result.LeaveBalance)
}

func TestSubmitLeaveRequest_NonQualifyingHistoryIgnored(t *testing.T) {
	// GIVEN: Only pending, cancelled and rejected records in the history
	// WHEN: Computing a new request
	// THEN: The employee is treated as having no history at all

	svc, mem := newTestService(t)
	mem.PutEmployee(leave.Employee{ID: "emp-1", HireDate: leave.NewDate(2020, time.January, 1)})
	policy := annualPolicy(20, 5)
	mem.PutPolicy(policy)

	for i, status := range []leave.Status{leave.StatusPending, leave.StatusCancelled, leave.StatusRejected} {
		require.NoError(t, mem.InsertLeave(context.Background(), leave.LeaveRecord{
			ID:           leave.LeaveID("leave-" + string(rune('a'+i))),
			EmployeeID:   "emp-1",
			PolicyID:     policy.ID,
			StartDate:    leave.NewDate(2024, time.January, 8),
			LeaveBalance: decimal.NewFromInt(1),
			Status:       status,
		}))
	}

	opening, _, err := svc.OpeningBalance(context.Background(), "emp-1", policy)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(25).Equal(opening), "got %s", opening)
}

func TestSubmitLeaveRequest_UnknownEmployee(t *testing.T) {
	svc, mem := newTestService(t)
	policy := annualPolicy(20, 5)
	mem.PutPolicy(policy)

	_, err := svc.SubmitLeaveRequest(context.Background(), "nobody", policy,
		leave.NewDate(2024, time.March, 4), leave.NewDate(2024, time.March, 8))
	assert.ErrorIs(t, err, leave.ErrEmployeeNotFound)
}

func TestSubmitLeaveRequest_PriorPolicyMissing(t *testing.T) {
	// GIVEN: A qualifying record pinned to a policy the store can no longer
	//        resolve
	// WHEN: Submitting a new request
	// THEN: The request fails with the missing-policy error naming both IDs

	svc, mem := newTestService(t)
	mem.PutEmployee(leave.Employee{ID: "emp-1", HireDate: leave.NewDate(2020, time.January, 1)})
	policy := annualPolicy(20, 5)
	mem.PutPolicy(policy)

	require.NoError(t, mem.InsertLeave(context.Background(), leave.LeaveRecord{
		ID:           "leave-1",
		EmployeeID:   "emp-1",
		PolicyID:     policy.ID,
		StartDate:    leave.NewDate(2024, time.January, 8),
		LeaveBalance: decimal.NewFromInt(21),
		Status:       leave.StatusApproved,
	}))

	// Resolve history through a policy lookup that knows nothing.
	svc.Policies = emptyPolicies{}

	_, err := svc.SubmitLeaveRequest(context.Background(), "emp-1", policy,
		leave.NewDate(2024, time.March, 4), leave.NewDate(2024, time.March, 8))
	require.ErrorIs(t, err, leave.ErrMissingPolicyContext)

	var mpe *leave.MissingPolicyError
	require.True(t, errors.As(err, &mpe))
	assert.Equal(t, policy.ID, mpe.PolicyID)
	assert.Equal(t, leave.LeaveID("leave-1"), mpe.LeaveID)
}

func TestSubmitLeaveRequest_InvalidRangePropagates(t *testing.T) {
	svc, mem := newTestService(t)
	mem.PutEmployee(leave.Employee{ID: "emp-1", HireDate: leave.NewDate(2020, time.January, 1)})
	policy := annualPolicy(20, 5)
	mem.PutPolicy(policy)

	d := leave.NewDate(2024, time.March, 4)
	_, err := svc.SubmitLeaveRequest(context.Background(), "emp-1", policy, d, d)
	assert.ErrorIs(t, err, leave.ErrInvalidRange)
}

func TestSubmitLeaveRequest_BadStartMonthConfiguration(t *testing.T) {
	svc, mem := newTestService(t)
	mem.PutEmployee(leave.Employee{ID: "emp-1", HireDate: leave.NewDate(2020, time.January, 1)})
	policy := annualPolicy(20, 5)
	mem.PutPolicy(policy)

	svc.Settings = store.FixedSettings(13)

	_, err := svc.SubmitLeaveRequest(context.Background(), "emp-1", policy,
		leave.NewDate(2024, time.March, 4), leave.NewDate(2024, time.March, 8))
	assert.ErrorIs(t, err, leave.ErrInvalidStartMonth)
}

// emptyPolicies resolves nothing; used to simulate a lost policy snapshot.
type emptyPolicies struct{}

func (emptyPolicies) PolicyByID(context.Context, leave.PolicyID) (*leave.LeavePolicy, error) {
	return nil, leave.ErrPolicyNotFound
}
