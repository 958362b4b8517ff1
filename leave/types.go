/*
Package leave implements the leave balance engine.

PURPOSE:
  Computes an employee's available leave balance from their leave policy,
  their leave history, and a reference date: annual accrual, period
  rollover, and carry-over of unused days across policy years. A working
  day counter (Mon-Fri, end date excluded) feeds the calculation.

KEY CONCEPTS IN THIS FILE (types.go):
  - LeaveType: Leave category reference data (annual, sick, maternity...)
  - LeavePolicy: Entitlement per annum plus carry-over cap
  - LeaveRecord: One leave taken or requested, with its derived balance
  - Period: The 12-month accounting window (period.go)
  - Typed IDs: EmployeeID/PolicyID/LeaveID prevent mixing identifiers

DESIGN PRINCIPLES:
  1. Purity: Balance calculation has no side effects and holds no state;
     persistence happens behind narrow collaborator interfaces (balance.go)
  2. Precision: Balances use decimal.Decimal, never float arithmetic
  3. History is append-only: records are never deleted, a new request is
     always computed from the most recent qualifying record

SEE ALSO:
  - accrual.go: Opening-balance algorithm (the core business rule)
  - balance.go: Orchestration and collaborator contracts
  - workdays.go: Working day counter
*/
package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type PolicyID string
type LeaveID string
type LeaveTypeID string

// =============================================================================
// REFERENCE DATA
// =============================================================================

// LeaveType is a leave category, e.g. annual, sick, maternity.
// Administered out-of-band; immutable once created.
type LeaveType struct {
	ID   LeaveTypeID
	Name string // unique
	Paid bool
}

// LeavePolicy defines the entitlement for one leave type. Several policies
// may exist per leave type over time (policy revisions); a leave record
// pins the policy that was active when it was granted, so policies are
// retained forever.
type LeavePolicy struct {
	ID          PolicyID
	LeaveTypeID LeaveTypeID
	LeaveType   string // denormalized name, used in error messages

	// Days the employee is entitled to per annum. Always >= 1.
	NumDays int

	// Days that may roll over into the next period. Always >= 0.
	MaxCarryOver int

	// Optional organizational group scope. Empty means company-wide.
	Group string
}

// Entitlement returns NumDays as a decimal for balance arithmetic.
func (p LeavePolicy) Entitlement() decimal.Decimal {
	return decimal.NewFromInt(int64(p.NumDays))
}

// CarryOverCap returns MaxCarryOver as a decimal.
func (p LeavePolicy) CarryOverCap() decimal.Decimal {
	return decimal.NewFromInt(int64(p.MaxCarryOver))
}

// =============================================================================
// EMPLOYEE - Collaborator-owned; the engine only needs the hire date
// =============================================================================

type Employee struct {
	ID       EmployeeID
	Name     string
	Email    string
	HireDate Date
}

// =============================================================================
// LEAVE RECORD
// =============================================================================

// LeaveRecord is one leave request and its computed outcome. Records are
// never deleted; balance history depends on them indefinitely. The only
// mutation a record ever sees is a status change (status.go).
type LeaveRecord struct {
	ID         LeaveID
	EmployeeID EmployeeID
	PolicyID   PolicyID

	SubmittedAt time.Time
	StartDate   Date
	EndDate     Date // exclusive for working-day purposes

	// Derived at creation, never recomputed.
	DaysTaken    int
	LeaveBalance decimal.Decimal // balance remaining after this leave, >= 0

	Status    Status
	ChangedBy EmployeeID // last status-change actor, empty until first change

	// Optional extras carried through from the request.
	ReliefID     EmployeeID // colleague covering during the leave
	Remarks      string
	HandoverNote string // stored path of the handover document
}

// Qualifying reports whether this record counts toward balance history.
// Only leave that actually consumed balance qualifies; pending, cancelled
// and rejected requests never did.
func (r LeaveRecord) Qualifying() bool {
	return r.Status.Qualifying()
}
