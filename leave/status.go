package leave

import "time"

// =============================================================================
// STATUS - Leave record lifecycle
// =============================================================================

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRunning   Status = "running"
	StatusReturned  Status = "returned"
	StatusCancelled Status = "cancelled"
	StatusRejected  Status = "rejected"
)

// Qualifying reports whether a record in this status counts toward balance
// history. Exactly {running, returned, approved}.
func (s Status) Qualifying() bool {
	switch s {
	case StatusRunning, StatusReturned, StatusApproved:
		return true
	}
	return false
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRunning, StatusReturned, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// transitions is the full lifecycle:
//
//	pending  -> approved | rejected
//	approved -> running  | cancelled
//	running  -> returned
//
// Terminal states (returned, cancelled, rejected) go nowhere.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusRunning, StatusCancelled},
	StatusRunning:  {StatusReturned},
}

// StatusChange is the audit stamp produced by a transition. Status changes
// never recompute the record's balance; the balance was fixed at creation.
type StatusChange struct {
	From      Status
	To        Status
	ChangedBy EmployeeID
	ChangedAt time.Time
}

// Transition validates a status change and returns its audit stamp.
// Pure; callers persist the new status and the stamp.
func Transition(current, next Status, actor EmployeeID) (StatusChange, error) {
	for _, allowed := range transitions[current] {
		if next == allowed {
			return StatusChange{
				From:      current,
				To:        next,
				ChangedBy: actor,
				ChangedAt: time.Now().UTC(),
			}, nil
		}
	}
	return StatusChange{}, &TransitionError{From: current, To: next}
}
