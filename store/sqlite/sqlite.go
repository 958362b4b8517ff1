/*
Package sqlite provides the SQLite-backed collaborator for the leave engine.

PURPOSE:
  Implements the leave package's collaborator contracts (History, Policies,
  Directory) plus the record/reference-data persistence the API layer needs.
  In production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

WRITE DISCIPLINE:
  leave_records is append-plus-status-update only:
  - InsertLeave is the only way a record appears
  - UpdateLeaveStatus touches status and changed_by, nothing else
  - No DELETE exists; balance history depends on old records indefinitely
  - A record whose balance is negative is rejected before it reaches the
    database, and a CHECK constraint backs that up

  leave_policies are never deleted either: historical records pin the
  policy active when they were granted, and the accrual engine fails hard
  when that snapshot is gone.

ISOLATION:
  The lookup-then-write sequence for a submission (latest qualifying read,
  then insert) runs under the store's write lock, so two concurrent
  submissions for the same employee+policy cannot both read the same prior
  balance. SubmitAndInsert is the entry point that provides this.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened in WAL mode for
  better read concurrency and crash recovery.

SEE ALSO:
  - leave/balance.go: Contract definitions
  - leave/store/memory.go: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/Miftaudeen/leaveapp-backend/leave"
)

// Store implements the leave collaborator interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps :memory: databases coherent (each pooled
	// connection would otherwise get its own empty database) and sidesteps
	// SQLITE_BUSY under write contention.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		hire_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS leave_types (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		paid BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	-- Policies are retained forever: leave_records pin the policy that was
	-- active when they were granted.
	CREATE TABLE IF NOT EXISTS leave_policies (
		id TEXT PRIMARY KEY,
		leave_type_id TEXT NOT NULL REFERENCES leave_types(id),
		num_days INTEGER NOT NULL CHECK (num_days >= 1),
		max_carry_over INTEGER NOT NULL DEFAULT 0 CHECK (max_carry_over >= 0),
		org_group TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_policies_leave_type
		ON leave_policies(leave_type_id);

	-- Leave history. Never deleted; status and changed_by are the only
	-- mutable columns.
	CREATE TABLE IF NOT EXISTS leave_records (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		policy_id TEXT NOT NULL REFERENCES leave_policies(id),
		submitted_at TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		days_taken INTEGER NOT NULL CHECK (days_taken >= 0),
		leave_balance TEXT NOT NULL CHECK (CAST(leave_balance AS REAL) >= 0),
		status TEXT NOT NULL DEFAULT 'pending',
		changed_by TEXT,
		relief_id TEXT,
		remarks TEXT,
		handover_note TEXT,
		created_at TEXT NOT NULL
	);

	-- Hot path: latest qualifying record per employee+policy.
	CREATE INDEX IF NOT EXISTS idx_records_employee_policy_start
		ON leave_records(employee_id, policy_id, start_date DESC);
	CREATE INDEX IF NOT EXISTS idx_records_status
		ON leave_records(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES (leave.Directory)
// =============================================================================

func (s *Store) CreateEmployee(ctx context.Context, e leave.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO employees (id, name, email, hire_date, created_at) VALUES (?, ?, ?, ?, ?)`,
		string(e.ID), e.Name, e.Email, e.HireDate.String(), nowISO(),
	)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

// GetEmployee is deliberately lock-free, like the other collaborator reads
// (PolicyByID, LatestQualifying, HireDate): the balance service calls them
// while SubmitAndInsert holds the write lock, and database/sql already
// serializes the underlying reads.
func (s *Store) GetEmployee(ctx context.Context, id leave.EmployeeID) (*leave.Employee, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, hire_date FROM employees WHERE id = ?`, string(id))

	var e leave.Employee
	var hireDate string
	if err := row.Scan(&e.ID, &e.Name, &e.Email, &hireDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, leave.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to load employee: %w", err)
	}

	d, err := leave.ParseDate(hireDate)
	if err != nil {
		return nil, fmt.Errorf("corrupt hire date for employee %s: %w", id, err)
	}
	e.HireDate = d
	return &e, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]leave.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, hire_date FROM employees ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var out []leave.Employee
	for rows.Next() {
		var e leave.Employee
		var hireDate string
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &hireDate); err != nil {
			return nil, err
		}
		d, err := leave.ParseDate(hireDate)
		if err != nil {
			return nil, fmt.Errorf("corrupt hire date for employee %s: %w", e.ID, err)
		}
		e.HireDate = d
		out = append(out, e)
	}
	return out, rows.Err()
}

// HireDate implements leave.Directory.
func (s *Store) HireDate(ctx context.Context, id leave.EmployeeID) (leave.Date, error) {
	e, err := s.GetEmployee(ctx, id)
	if err != nil {
		return leave.Date{}, err
	}
	return e.HireDate, nil
}

// =============================================================================
// LEAVE TYPES
// =============================================================================

func (s *Store) CreateLeaveType(ctx context.Context, t leave.LeaveType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leave_types (id, name, paid, created_at) VALUES (?, ?, ?, ?)`,
		string(t.ID), t.Name, t.Paid, nowISO(),
	)
	if err != nil {
		return fmt.Errorf("failed to create leave type: %w", err)
	}
	return nil
}

func (s *Store) ListLeaveTypes(ctx context.Context) ([]leave.LeaveType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, paid FROM leave_types ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	defer rows.Close()

	var out []leave.LeaveType
	for rows.Next() {
		var t leave.LeaveType
		if err := rows.Scan(&t.ID, &t.Name, &t.Paid); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// =============================================================================
// POLICIES (leave.Policies)
// =============================================================================

func (s *Store) CreatePolicy(ctx context.Context, p leave.LeavePolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leave_policies (id, leave_type_id, num_days, max_carry_over, org_group, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(p.ID), string(p.LeaveTypeID), p.NumDays, p.MaxCarryOver, p.Group, nowISO(),
	)
	if err != nil {
		return fmt.Errorf("failed to create policy: %w", err)
	}
	return nil
}

// PolicyByID implements leave.Policies. Historical policies stay resolvable
// because the table has no delete path.
func (s *Store) PolicyByID(ctx context.Context, id leave.PolicyID) (*leave.LeavePolicy, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.leave_type_id, t.name, p.num_days, p.max_carry_over, p.org_group
		FROM leave_policies p
		JOIN leave_types t ON t.id = p.leave_type_id
		WHERE p.id = ?`, string(id))

	var p leave.LeavePolicy
	if err := row.Scan(&p.ID, &p.LeaveTypeID, &p.LeaveType, &p.NumDays, &p.MaxCarryOver, &p.Group); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, leave.ErrPolicyNotFound
		}
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}
	return &p, nil
}

func (s *Store) ListPolicies(ctx context.Context) ([]leave.LeavePolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.leave_type_id, t.name, p.num_days, p.max_carry_over, p.org_group
		FROM leave_policies p
		JOIN leave_types t ON t.id = p.leave_type_id
		ORDER BY t.name ASC, p.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}
	defer rows.Close()

	var out []leave.LeavePolicy
	for rows.Next() {
		var p leave.LeavePolicy
		if err := rows.Scan(&p.ID, &p.LeaveTypeID, &p.LeaveType, &p.NumDays, &p.MaxCarryOver, &p.Group); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// =============================================================================
// LEAVE RECORDS (leave.History)
// =============================================================================

const recordColumns = `id, employee_id, policy_id, submitted_at, start_date, end_date,
	days_taken, leave_balance, status, changed_by, relief_id, remarks, handover_note`

// InsertLeave persists a new record. The non-negative balance invariant is
// enforced here: a negative balance fails with ErrNegativeBalance and
// nothing is written.
func (s *Store) InsertLeave(ctx context.Context, r leave.LeaveRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertLeave(ctx, r)
}

func (s *Store) insertLeave(ctx context.Context, r leave.LeaveRecord) error {
	if r.LeaveBalance.IsNegative() {
		return leave.ErrNegativeBalance
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_records
		(id, employee_id, policy_id, submitted_at, start_date, end_date,
		 days_taken, leave_balance, status, changed_by, relief_id, remarks, handover_note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(r.ID),
		string(r.EmployeeID),
		string(r.PolicyID),
		r.SubmittedAt.UTC().Format(time.RFC3339),
		r.StartDate.String(),
		r.EndDate.String(),
		r.DaysTaken,
		r.LeaveBalance.String(),
		string(r.Status),
		nullString(string(r.ChangedBy)),
		nullString(string(r.ReliefID)),
		nullString(r.Remarks),
		nullString(r.HandoverNote),
		nowISO(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert leave record: %w", err)
	}
	return nil
}

// SubmitAndInsert evaluates a request and persists the resulting pending
// record under the store's write lock, so concurrent submissions for the
// same employee+policy serialize on the lookup-then-write sequence.
func (s *Store) SubmitAndInsert(
	ctx context.Context,
	svc *leave.BalanceService,
	record leave.LeaveRecord,
	policy leave.LeavePolicy,
) (leave.LeaveRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := svc.SubmitLeaveRequest(ctx, record.EmployeeID, policy, record.StartDate, record.EndDate)
	if err != nil {
		return leave.LeaveRecord{}, err
	}

	record.DaysTaken = result.DaysTaken
	record.LeaveBalance = result.LeaveBalance
	record.Status = leave.StatusPending

	if err := s.insertLeave(ctx, record); err != nil {
		return leave.LeaveRecord{}, err
	}
	return record, nil
}

// LatestQualifying implements leave.History: the record with the latest
// start date among running/returned/approved, or nil without error when
// the employee has no balance history for the policy.
func (s *Store) LatestQualifying(ctx context.Context, employeeID leave.EmployeeID, policyID leave.PolicyID) (*leave.LeaveRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM leave_records
		WHERE employee_id = ? AND policy_id = ?
		  AND status IN ('running', 'returned', 'approved')
		ORDER BY start_date DESC
		LIMIT 1`,
		string(employeeID), string(policyID))

	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) GetLeave(ctx context.Context, id leave.LeaveID) (*leave.LeaveRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM leave_records WHERE id = ?`, string(id))

	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, leave.ErrLeaveNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) ListLeavesByEmployee(ctx context.Context, employeeID leave.EmployeeID) ([]leave.LeaveRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM leave_records
		WHERE employee_id = ?
		ORDER BY start_date DESC, submitted_at DESC`,
		string(employeeID))
	if err != nil {
		return nil, fmt.Errorf("failed to list leave records: %w", err)
	}
	defer rows.Close()

	var out []leave.LeaveRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// UpdateLeaveStatus applies a validated status change. Status and the audit
// actor are the only columns ever touched after insert.
func (s *Store) UpdateLeaveStatus(ctx context.Context, id leave.LeaveID, change leave.StatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE leave_records SET status = ?, changed_by = ? WHERE id = ?`,
		string(change.To), string(change.ChangedBy), string(id))
	if err != nil {
		return fmt.Errorf("failed to update leave status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return leave.ErrLeaveNotFound
	}
	return nil
}

// =============================================================================
// SCANNING HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*leave.LeaveRecord, error) {
	var (
		r                       leave.LeaveRecord
		submittedAt, start, end string
		balanceStr              string
		changedBy, relief       sql.NullString
		remarks, handover       sql.NullString
	)

	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.PolicyID, &submittedAt, &start, &end,
		&r.DaysTaken, &balanceStr, &r.Status, &changedBy, &relief, &remarks, &handover,
	)
	if err != nil {
		return nil, err
	}

	if r.SubmittedAt, err = time.Parse(time.RFC3339, submittedAt); err != nil {
		return nil, fmt.Errorf("corrupt submitted_at on leave %s: %w", r.ID, err)
	}
	if r.StartDate, err = leave.ParseDate(start); err != nil {
		return nil, fmt.Errorf("corrupt start_date on leave %s: %w", r.ID, err)
	}
	if r.EndDate, err = leave.ParseDate(end); err != nil {
		return nil, fmt.Errorf("corrupt end_date on leave %s: %w", r.ID, err)
	}
	if r.LeaveBalance, err = decimal.NewFromString(balanceStr); err != nil {
		return nil, fmt.Errorf("corrupt leave_balance on leave %s: %w", r.ID, err)
	}

	r.ChangedBy = leave.EmployeeID(changedBy.String)
	r.ReliefID = leave.EmployeeID(relief.String)
	r.Remarks = remarks.String
	r.HandoverNote = handover.String
	return &r, nil
}

func nullString(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
