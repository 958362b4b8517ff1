/*
balance.go - Leave balance orchestration

PURPOSE:
  Ties the period resolver, the accrual engine and the working-day counter
  together to evaluate a new leave request. The service consumes narrow
  collaborator interfaces for everything stateful; it holds no state of
  its own and may be called from any number of request-handling goroutines.

FLOW:
  SubmitLeaveRequest
    -> History.LatestQualifying      most recent balance-consuming record
    -> Policies.PolicyByID           the prior record's policy snapshot
    -> Directory.HireDate            employment start
    -> Settings.PeriodStartMonth     leave year anchor (default January)
    -> ResolvePeriod                 current leave year
    -> AccrualEngine.OpeningBalance  accrual + carry-over
    -> CountWorkingDays              days requested, [start, end)
    -> balance = opening - days

  A negative result fails with InsufficientBalanceError reporting the days
  actually available and the leave type name. Persisting the record (and
  defaulting its status to pending) is the caller's responsibility.

CONCURRENCY:
  The lookup-then-write sequence spans the collaborator boundary: two
  concurrent submissions for the same employee+policy must not both read
  the same prior balance and overcommit. That isolation belongs to the
  store, not here.

SEE ALSO:
  - accrual.go: The opening-balance rule
  - store/sqlite: Production collaborator implementations
  - leave/store: In-memory collaborators for tests
*/
package leave

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// =============================================================================
// COLLABORATOR CONTRACTS
// =============================================================================

// History looks up balance-consuming leave records. Implementations filter
// by status in {running, returned, approved}, order by start date
// descending, and return the first match, or nil without error when the
// employee has no qualifying history for the policy.
type History interface {
	LatestQualifying(ctx context.Context, employeeID EmployeeID, policyID PolicyID) (*LeaveRecord, error)
}

// Policies resolves policy snapshots by ID. Historical policies must stay
// resolvable indefinitely; records pin the policy active when they were
// granted.
type Policies interface {
	PolicyByID(ctx context.Context, id PolicyID) (*LeavePolicy, error)
}

// Directory answers employee questions the engine needs.
type Directory interface {
	HireDate(ctx context.Context, id EmployeeID) (Date, error)
}

// Settings supplies leave configuration from an external, hot-reloadable
// source. PeriodStartMonth returns 1 (January) when unset; an out-of-range
// value is surfaced by ResolvePeriod as a configuration defect.
type Settings interface {
	PeriodStartMonth() int
}

// =============================================================================
// BALANCE SERVICE
// =============================================================================

// RequestResult is the computed outcome of a leave request, ready for the
// caller to persist.
type RequestResult struct {
	DaysTaken    int
	LeaveBalance decimal.Decimal
	Period       Period
}

// BalanceService evaluates leave requests.
type BalanceService struct {
	History   History
	Policies  Policies
	Directory Directory
	Settings  Settings

	// Clock returns the reference date for period resolution. Defaults to
	// Today; tests pin it.
	Clock func() Date
}

func NewBalanceService(history History, policies Policies, directory Directory, settings Settings) *BalanceService {
	return &BalanceService{
		History:   history,
		Policies:  policies,
		Directory: directory,
		Settings:  settings,
		Clock:     Today,
	}
}

func (s *BalanceService) now() Date {
	if s.Clock != nil {
		return s.Clock()
	}
	return Today()
}

// SubmitLeaveRequest computes days taken and the resulting balance for a
// leave request over [start, end). It never writes; on success the caller
// persists a pending record carrying the returned values.
func (s *BalanceService) SubmitLeaveRequest(
	ctx context.Context,
	employeeID EmployeeID,
	policy LeavePolicy,
	start, end Date,
) (RequestResult, error) {

	opening, period, err := s.openingBalance(ctx, employeeID, policy)
	if err != nil {
		return RequestResult{}, err
	}

	days, err := CountWorkingDays(start, end)
	if err != nil {
		return RequestResult{}, err
	}

	balance := opening.Sub(decimal.NewFromInt(int64(days)))
	if balance.IsNegative() {
		// days + balance is what could actually have been taken.
		available := decimal.NewFromInt(int64(days)).Add(balance)
		return RequestResult{}, &InsufficientBalanceError{
			EmployeeID: employeeID,
			LeaveType:  policy.LeaveType,
			DaysLeft:   int(available.IntPart()),
		}
	}

	return RequestResult{DaysTaken: days, LeaveBalance: balance, Period: period}, nil
}

// OpeningBalance reports the balance available right now, before any days
// are subtracted. Used by balance-preview endpoints and reporting tools.
func (s *BalanceService) OpeningBalance(
	ctx context.Context,
	employeeID EmployeeID,
	policy LeavePolicy,
) (decimal.Decimal, Period, error) {
	return s.openingBalance(ctx, employeeID, policy)
}

func (s *BalanceService) openingBalance(
	ctx context.Context,
	employeeID EmployeeID,
	policy LeavePolicy,
) (decimal.Decimal, Period, error) {

	prior, err := s.History.LatestQualifying(ctx, employeeID, policy.ID)
	if err != nil {
		return decimal.Zero, Period{}, err
	}

	var priorPolicy *LeavePolicy
	if prior != nil {
		priorPolicy, err = s.Policies.PolicyByID(ctx, prior.PolicyID)
		if errors.Is(err, ErrPolicyNotFound) {
			return decimal.Zero, Period{}, &MissingPolicyError{PolicyID: prior.PolicyID, LeaveID: prior.ID}
		}
		if err != nil {
			return decimal.Zero, Period{}, err
		}
	}

	hireDate, err := s.Directory.HireDate(ctx, employeeID)
	if err != nil {
		return decimal.Zero, Period{}, err
	}

	period, err := ResolvePeriod(s.now(), s.Settings.PeriodStartMonth())
	if err != nil {
		return decimal.Zero, Period{}, err
	}

	opening, err := AccrualEngine{}.OpeningBalance(policy, prior, priorPolicy, period, hireDate)
	if err != nil {
		return decimal.Zero, Period{}, err
	}

	return opening, period, nil
}
