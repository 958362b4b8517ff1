/*
accrual.go - Opening balance calculation

PURPOSE:
  Computes the balance available to an employee at the start of a leave
  request, before the requested days are subtracted. This is the core
  business rule of the engine: annual entitlement, carry-over from the
  previous leave year, and mid-period policy revisions.

THE ALGORITHM:
  The employee's most recent qualifying leave (latest start date among
  running/returned/approved records for this policy) anchors the
  calculation. Three cases:

  1. No history:
       opening = policy entitlement
       + min(carry-over cap, entitlement) if the employee was already
         employed before the current period began (an assumed carry-over
         from an unobserved prior period)

  2. History inside the current period:
       opening = the prior record's stored balance, adjusted by the
       entitlement delta between the current policy and the prior
       record's policy (handles mid-period policy revisions)

  3. History in an earlier period:
       opening = policy entitlement (fresh year) + carry-over, where
       carry-over is capped by the PRIOR policy:
         - prior leave in the immediately preceding period:
             min(prior cap, prior stored balance)
         - prior leave two or more periods back:
             min(prior cap, prior entitlement)
           the stored balance is stale by then and no longer trusted

  The asymmetry between the last two caps is intentional and preserved.

NOT IMPLEMENTED (deferred):
  Pro-rated entitlement for partial-year employment.

SEE ALSO:
  - balance.go: Orchestrates this with the working-day counter
  - period.go: Period resolution
*/
package leave

import "github.com/shopspring/decimal"

// AccrualEngine computes opening balances. Stateless and pure; safe for
// concurrent use.
type AccrualEngine struct{}

// OpeningBalance returns the balance available at the start of the current
// period for the given policy.
//
// prior is the employee's most recent qualifying leave record for this
// policy, or nil when no history exists. priorPolicy is the policy the
// prior record was granted under; it must be resolvable whenever prior is
// non-nil, otherwise the calculation fails with ErrMissingPolicyContext.
func (AccrualEngine) OpeningBalance(
	policy LeavePolicy,
	prior *LeaveRecord,
	priorPolicy *LeavePolicy,
	period Period,
	hireDate Date,
) (decimal.Decimal, error) {

	if prior == nil {
		// No observed history. Full entitlement, plus an assumed carry-over
		// when the employee predates this period.
		balance := policy.Entitlement()
		if period.Start.After(hireDate) {
			balance = balance.Add(decimal.Min(policy.CarryOverCap(), policy.Entitlement()))
		}
		return balance, nil
	}

	if priorPolicy == nil {
		return decimal.Zero, &MissingPolicyError{PolicyID: prior.PolicyID, LeaveID: prior.ID}
	}

	if period.Contains(prior.StartDate) {
		// Same period: continue from the stored balance, shifted by any
		// policy revision since the prior leave was granted.
		delta := policy.Entitlement().Sub(priorPolicy.Entitlement())
		return prior.LeaveBalance.Add(delta), nil
	}

	// Prior leave belongs to an earlier period: fresh entitlement plus
	// carry-over under the prior policy's cap.
	balance := policy.Entitlement()

	var carryOver decimal.Decimal
	if period.Previous().Contains(prior.StartDate) {
		carryOver = decimal.Min(priorPolicy.CarryOverCap(), prior.LeaveBalance)
	} else {
		// Two or more periods stale: cap by entitlement, not the recorded
		// balance, which is no longer meaningful.
		carryOver = decimal.Min(priorPolicy.CarryOverCap(), priorPolicy.Entitlement())
	}

	return balance.Add(carryOver), nil
}
