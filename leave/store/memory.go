// Package store provides in-memory collaborator implementations
// (for testing/dev).
package store

import (
	"context"
	"sync"

	"github.com/Miftaudeen/leaveapp-backend/leave"
)

// =============================================================================
// MEMORY STORE - In-memory implementation of the leave collaborators
// =============================================================================

// Memory implements leave.History, leave.Policies and leave.Directory over
// plain maps. It enforces the same write-time invariants as the production
// store: negative balances are rejected and records are never deleted.
type Memory struct {
	mu        sync.RWMutex
	employees map[leave.EmployeeID]leave.Employee
	policies  map[leave.PolicyID]leave.LeavePolicy
	records   []leave.LeaveRecord
}

func NewMemory() *Memory {
	return &Memory{
		employees: make(map[leave.EmployeeID]leave.Employee),
		policies:  make(map[leave.PolicyID]leave.LeavePolicy),
	}
}

func (m *Memory) PutEmployee(e leave.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = e
}

func (m *Memory) PutPolicy(p leave.LeavePolicy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policies[p.ID] = p
}

// InsertLeave appends a record. Fails with ErrNegativeBalance rather than
// persisting a record that violates the balance invariant.
func (m *Memory) InsertLeave(_ context.Context, r leave.LeaveRecord) error {
	if r.LeaveBalance.IsNegative() {
		return leave.ErrNegativeBalance
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return nil
}

// UpdateLeaveStatus mutates status and audit actor only.
func (m *Memory) UpdateLeaveStatus(_ context.Context, id leave.LeaveID, change leave.StatusChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].ID == id {
			m.records[i].Status = change.To
			m.records[i].ChangedBy = change.ChangedBy
			return nil
		}
	}
	return leave.ErrLeaveNotFound
}

// LatestQualifying returns the qualifying record with the latest start date,
// or nil when the employee has no balance history for the policy.
func (m *Memory) LatestQualifying(_ context.Context, employeeID leave.EmployeeID, policyID leave.PolicyID) (*leave.LeaveRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *leave.LeaveRecord
	for i := range m.records {
		r := m.records[i]
		if r.EmployeeID != employeeID || r.PolicyID != policyID || !r.Qualifying() {
			continue
		}
		if latest == nil || r.StartDate.After(latest.StartDate) {
			cp := r
			latest = &cp
		}
	}
	return latest, nil
}

func (m *Memory) PolicyByID(_ context.Context, id leave.PolicyID) (*leave.LeavePolicy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.policies[id]
	if !ok {
		return nil, leave.ErrPolicyNotFound
	}
	return &p, nil
}

func (m *Memory) HireDate(_ context.Context, id leave.EmployeeID) (leave.Date, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	if !ok {
		return leave.Date{}, leave.ErrEmployeeNotFound
	}
	return e.HireDate, nil
}

// FixedSettings is a Settings implementation with a pinned start month.
type FixedSettings int

func (f FixedSettings) PeriodStartMonth() int { return int(f) }
