/*
handlers.go - HTTP API handlers for the leave backend

PURPOSE:
  Exposes the leave engine via REST. Handles HTTP request/response, JSON
  serialization, and error translation; all computation lives in the
  leave package.

ENDPOINTS:
  Employees:
    GET    /api/employees                     List employees
    POST   /api/employees                     Create employee
    GET    /api/employees/{id}                Get employee
    GET    /api/employees/{id}/leaves         Leave history
    POST   /api/employees/{id}/leaves         Submit leave request
    GET    /api/employees/{id}/balance        Balance preview (?policy_id=)

  Leave lifecycle:
    POST   /api/leaves/{id}/status            Change status (audit actor)

  Reference data:
    GET|POST /api/leave-types
    GET|POST /api/policies

  Tooling:
    GET    /api/working-days?start=&end=      Standalone working-day count

ERROR HANDLING:
  Typed errors from the leave package map to HTTP statuses:
  - 400: invalid ranges, configuration defects, malformed input
  - 404: unknown employee/policy/leave
  - 409: insufficient balance, invalid status transitions
  - 500: everything else

SEE ALSO:
  - dto.go: Request/response structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Miftaudeen/leaveapp-backend/leave"
	"github.com/Miftaudeen/leaveapp-backend/store/sqlite"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Balance *leave.BalanceService
}

// NewHandler wires the store into a balance service and returns the handler.
func NewHandler(store *sqlite.Store, settings leave.Settings) *Handler {
	return &Handler{
		Store:   store,
		Balance: leave.NewBalanceService(store, store, store, settings),
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = EmployeeDTO{
			ID:       string(e.ID),
			Name:     e.Name,
			Email:    e.Email,
			HireDate: e.HireDate.String(),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	hireDate, err := leave.ParseDate(req.HireDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "hire_date must be YYYY-MM-DD", err)
		return
	}

	e := leave.Employee{
		ID:       leave.EmployeeID(uuid.NewString()),
		Name:     req.Name,
		Email:    req.Email,
		HireDate: hireDate,
	}
	if err := h.Store.CreateEmployee(r.Context(), e); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}

	writeJSON(w, http.StatusCreated, EmployeeDTO{
		ID:       string(e.ID),
		Name:     e.Name,
		Email:    e.Email,
		HireDate: e.HireDate.String(),
	})
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := leave.EmployeeID(chi.URLParam(r, "id"))

	e, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to load employee", err)
		return
	}

	writeJSON(w, http.StatusOK, EmployeeDTO{
		ID:       string(e.ID),
		Name:     e.Name,
		Email:    e.Email,
		HireDate: e.HireDate.String(),
	})
}

// =============================================================================
// LEAVE SUBMISSION AND HISTORY
// =============================================================================

func (h *Handler) ListLeaves(w http.ResponseWriter, r *http.Request) {
	id := leave.EmployeeID(chi.URLParam(r, "id"))

	records, err := h.Store.ListLeavesByEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leave records", err)
		return
	}

	dtos := make([]LeaveDTO, len(records))
	for i, rec := range records {
		dtos[i] = toLeaveDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SubmitLeave evaluates and persists a new leave request. The computed
// days taken and balance come back in the response; the record starts
// life pending.
func (h *Handler) SubmitLeave(w http.ResponseWriter, r *http.Request) {
	employeeID := leave.EmployeeID(chi.URLParam(r, "id"))

	var req SubmitLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := leave.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD", err)
		return
	}
	end, err := leave.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD", err)
		return
	}

	policy, err := h.Store.PolicyByID(r.Context(), leave.PolicyID(req.PolicyID))
	if err != nil {
		writeDomainError(w, "Failed to load policy", err)
		return
	}

	record := leave.LeaveRecord{
		ID:           leave.LeaveID(uuid.NewString()),
		EmployeeID:   employeeID,
		PolicyID:     policy.ID,
		SubmittedAt:  time.Now().UTC(),
		StartDate:    start,
		EndDate:      end,
		ReliefID:     leave.EmployeeID(req.ReliefID),
		Remarks:      req.Remarks,
		HandoverNote: req.HandoverNote,
	}

	saved, err := h.Store.SubmitAndInsert(r.Context(), h.Balance, record, *policy)
	if err != nil {
		writeDomainError(w, "Failed to submit leave request", err)
		return
	}

	writeJSON(w, http.StatusCreated, toLeaveDTO(saved))
}

// ChangeStatus moves a record through its lifecycle with an audit actor.
// Balance is never recomputed here.
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id := leave.LeaveID(chi.URLParam(r, "id"))

	var req ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	next := leave.Status(req.Status)
	if !next.Valid() {
		writeError(w, http.StatusBadRequest, "unknown status", nil)
		return
	}
	if req.ChangedBy == "" {
		writeError(w, http.StatusBadRequest, "changed_by is required", nil)
		return
	}

	record, err := h.Store.GetLeave(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to load leave record", err)
		return
	}

	change, err := leave.Transition(record.Status, next, leave.EmployeeID(req.ChangedBy))
	if err != nil {
		writeDomainError(w, "Status change rejected", err)
		return
	}

	if err := h.Store.UpdateLeaveStatus(r.Context(), id, change); err != nil {
		writeDomainError(w, "Failed to update status", err)
		return
	}

	record.Status = change.To
	record.ChangedBy = change.ChangedBy
	writeJSON(w, http.StatusOK, toLeaveDTO(*record))
}

// GetBalance previews the opening balance for an employee+policy as of
// today, before any new request is submitted.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	employeeID := leave.EmployeeID(chi.URLParam(r, "id"))
	policyID := leave.PolicyID(r.URL.Query().Get("policy_id"))
	if policyID == "" {
		writeError(w, http.StatusBadRequest, "policy_id query parameter is required", nil)
		return
	}

	policy, err := h.Store.PolicyByID(r.Context(), policyID)
	if err != nil {
		writeDomainError(w, "Failed to load policy", err)
		return
	}

	available, period, err := h.Balance.OpeningBalance(r.Context(), employeeID, *policy)
	if err != nil {
		writeDomainError(w, "Failed to compute balance", err)
		return
	}

	writeJSON(w, http.StatusOK, BalanceDTO{
		EmployeeID:  string(employeeID),
		PolicyID:    string(policy.ID),
		LeaveType:   policy.LeaveType,
		Available:   available.InexactFloat64(),
		PeriodStart: period.Start.String(),
		PeriodEnd:   period.End.String(),
		AsOf:        leave.Today().String(),
	})
}

// =============================================================================
// REFERENCE DATA HANDLERS
// =============================================================================

func (h *Handler) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Store.ListLeaveTypes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leave types", err)
		return
	}

	dtos := make([]LeaveTypeDTO, len(types))
	for i, t := range types {
		dtos[i] = LeaveTypeDTO{ID: string(t.ID), Name: t.Name, Paid: t.Paid}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateLeaveType(w http.ResponseWriter, r *http.Request) {
	var req CreateLeaveTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	t := leave.LeaveType{
		ID:   leave.LeaveTypeID(uuid.NewString()),
		Name: req.Name,
		Paid: req.Paid,
	}
	if err := h.Store.CreateLeaveType(r.Context(), t); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create leave type", err)
		return
	}
	writeJSON(w, http.StatusCreated, LeaveTypeDTO{ID: string(t.ID), Name: t.Name, Paid: t.Paid})
}

func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := h.Store.ListPolicies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list policies", err)
		return
	}

	dtos := make([]PolicyDTO, len(policies))
	for i, p := range policies {
		dtos[i] = toPolicyDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var req CreatePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.NumDays < 1 {
		writeError(w, http.StatusBadRequest, "num_days must be at least 1", nil)
		return
	}
	if req.MaxCarryOver < 0 {
		writeError(w, http.StatusBadRequest, "max_carry_over must not be negative", nil)
		return
	}

	p := leave.LeavePolicy{
		ID:           leave.PolicyID(uuid.NewString()),
		LeaveTypeID:  leave.LeaveTypeID(req.LeaveTypeID),
		NumDays:      req.NumDays,
		MaxCarryOver: req.MaxCarryOver,
		Group:        req.Group,
	}
	if err := h.Store.CreatePolicy(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create policy", err)
		return
	}

	// Re-read to pick up the denormalized leave type name.
	created, err := h.Store.PolicyByID(r.Context(), p.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load created policy", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPolicyDTO(*created))
}

// =============================================================================
// WORKING DAYS - standalone counter for reporting/admin tooling
// =============================================================================

func (h *Handler) GetWorkingDays(w http.ResponseWriter, r *http.Request) {
	start, err := leave.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be YYYY-MM-DD", err)
		return
	}
	end, err := leave.ParseDate(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "end must be YYYY-MM-DD", err)
		return
	}

	days, err := leave.CountWorkingDays(start, end)
	if err != nil {
		writeDomainError(w, "Failed to count working days", err)
		return
	}

	writeJSON(w, http.StatusOK, WorkingDaysDTO{
		StartDate:   start.String(),
		EndDate:     end.String(),
		WorkingDays: days,
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps typed leave errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, leave.ErrInsufficientBalance),
		errors.Is(err, leave.ErrInvalidTransition),
		errors.Is(err, leave.ErrNegativeBalance):
		writeError(w, http.StatusConflict, message, err)
	case leave.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, leave.ErrInvalidRange),
		errors.Is(err, leave.ErrInvalidStartMonth):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
