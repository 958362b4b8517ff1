/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for communication with clients. These decouple the
  domain model from the wire contract: balances travel as floats here
  while the engine keeps decimals internally.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/Miftaudeen/leaveapp-backend/leave"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

type EmployeeDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	HireDate string `json:"hire_date"`
}

type CreateEmployeeRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	HireDate string `json:"hire_date"`
}

// =============================================================================
// LEAVE TYPES AND POLICIES
// =============================================================================

type LeaveTypeDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Paid bool   `json:"paid"`
}

type CreateLeaveTypeRequest struct {
	Name string `json:"name"`
	Paid bool   `json:"paid"`
}

type PolicyDTO struct {
	ID           string `json:"id"`
	LeaveTypeID  string `json:"leave_type_id"`
	LeaveType    string `json:"leave_type"`
	NumDays      int    `json:"num_days"`
	MaxCarryOver int    `json:"max_carry_over"`
	Group        string `json:"group,omitempty"`
}

type CreatePolicyRequest struct {
	LeaveTypeID  string `json:"leave_type_id"`
	NumDays      int    `json:"num_days"`
	MaxCarryOver int    `json:"max_carry_over"`
	Group        string `json:"group"`
}

// =============================================================================
// LEAVE RECORDS
// =============================================================================

type LeaveDTO struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	PolicyID     string  `json:"policy_id"`
	SubmittedAt  string  `json:"submitted_at"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	DaysTaken    int     `json:"days_taken"`
	LeaveBalance float64 `json:"leave_balance"`
	Status       string  `json:"status"`
	ChangedBy    string  `json:"changed_by,omitempty"`
	ReliefID     string  `json:"relief_id,omitempty"`
	Remarks      string  `json:"remarks,omitempty"`
	HandoverNote string  `json:"handover_note,omitempty"`
}

// SubmitLeaveRequest is the body of a leave submission. Days taken, balance
// and status are computed server-side, never accepted from the client.
type SubmitLeaveRequest struct {
	PolicyID     string `json:"policy_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	ReliefID     string `json:"relief_id,omitempty"`
	Remarks      string `json:"remarks,omitempty"`
	HandoverNote string `json:"handover_note,omitempty"`
}

// ChangeStatusRequest moves a leave record through its lifecycle.
type ChangeStatusRequest struct {
	Status    string `json:"status"`
	ChangedBy string `json:"changed_by"`
}

// =============================================================================
// BALANCE AND WORKING DAYS
// =============================================================================

type BalanceDTO struct {
	EmployeeID  string  `json:"employee_id"`
	PolicyID    string  `json:"policy_id"`
	LeaveType   string  `json:"leave_type"`
	Available   float64 `json:"available"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	AsOf        string  `json:"as_of"`
}

type WorkingDaysDTO struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	WorkingDays int    `json:"working_days"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toLeaveDTO(r leave.LeaveRecord) LeaveDTO {
	return LeaveDTO{
		ID:           string(r.ID),
		EmployeeID:   string(r.EmployeeID),
		PolicyID:     string(r.PolicyID),
		SubmittedAt:  r.SubmittedAt.UTC().Format(time.RFC3339),
		StartDate:    r.StartDate.String(),
		EndDate:      r.EndDate.String(),
		DaysTaken:    r.DaysTaken,
		LeaveBalance: r.LeaveBalance.InexactFloat64(),
		Status:       string(r.Status),
		ChangedBy:    string(r.ChangedBy),
		ReliefID:     string(r.ReliefID),
		Remarks:      r.Remarks,
		HandoverNote: r.HandoverNote,
	}
}

func toPolicyDTO(p leave.LeavePolicy) PolicyDTO {
	return PolicyDTO{
		ID:           string(p.ID),
		LeaveTypeID:  string(p.LeaveTypeID),
		LeaveType:    p.LeaveType,
		NumDays:      p.NumDays,
		MaxCarryOver: p.MaxCarryOver,
		Group:        p.Group,
	}
}
