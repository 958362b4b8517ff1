/*
errors.go - Centralized error types for the leave engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Outer layers (store, api) wrap these errors with additional context.

ERROR CATEGORIES:
  1. Input errors - malformed ranges and configuration
  2. Business errors - balance and status rule violations
  3. Data-integrity errors - unresolvable references

PROPAGATION POLICY:
  The core never retries and never logs. Every failure is a typed return
  for the caller to translate into a user-facing response.

USAGE:
  if errors.Is(err, leave.ErrInsufficientBalance) {
      var ibe *leave.InsufficientBalanceError
      errors.As(err, &ibe)
      // ibe.DaysLeft, ibe.LeaveType
  }

SEE ALSO:
  - balance.go: Produces InsufficientBalanceError and MissingPolicyError
  - status.go: Produces TransitionError
*/
package leave

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is returned when a working-day count is requested over
	// a range whose end is not strictly after its start.
	ErrInvalidRange = errors.New("invalid range: end date must be after start date")

	// ErrInvalidStartMonth is returned when the configured leave period start
	// month falls outside 1-12. A configuration defect, never transient.
	ErrInvalidStartMonth = errors.New("invalid configuration: period start month outside 1-12")

	// ErrInsufficientBalance is returned when a requested range would drive
	// the leave balance negative.
	ErrInsufficientBalance = errors.New("insufficient leave balance")

	// ErrMissingPolicyContext is returned when a prior leave record references
	// a policy that can no longer be resolved. A data-integrity gap; the
	// calculation fails rather than guessing a default.
	ErrMissingPolicyContext = errors.New("prior leave references unresolvable policy")

	// ErrInvalidTransition is returned for a status change the leave
	// lifecycle does not permit.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNegativeBalance is returned when persisting a record whose balance
	// is negative. The write must not occur.
	ErrNegativeBalance = errors.New("leave balance must not be negative")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrPolicyNotFound is returned when a referenced policy doesn't exist.
	ErrPolicyNotFound = errors.New("leave policy not found")

	// ErrLeaveNotFound is returned when a referenced leave record doesn't exist.
	ErrLeaveNotFound = errors.New("leave record not found")

	// ErrLeaveTypeNotFound is returned when a referenced leave type doesn't exist.
	ErrLeaveTypeNotFound = errors.New("leave type not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientBalanceError reports how many days the employee could actually
// have taken, and on which leave type. The message mirrors what the employee
// sees when a request is declined.
type InsufficientBalanceError struct {
	EmployeeID EmployeeID
	LeaveType  string
	DaysLeft   int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("you only have %d days left on %s leave type", e.DaysLeft, e.LeaveType)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// MissingPolicyError identifies the policy a prior leave record points at
// that could not be resolved.
type MissingPolicyError struct {
	PolicyID PolicyID
	LeaveID  LeaveID
}

func (e *MissingPolicyError) Error() string {
	return fmt.Sprintf("leave %s references policy %s which cannot be resolved", e.LeaveID, e.PolicyID)
}

func (e *MissingPolicyError) Unwrap() error { return ErrMissingPolicyContext }

// TransitionError describes a rejected status change.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move leave from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input
// rather than a server-side failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrNegativeBalance)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrPolicyNotFound) ||
		errors.Is(err, ErrLeaveNotFound) ||
		errors.Is(err, ErrLeaveTypeNotFound)
}
