package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements DataSource and SnapshotStore against Postgres. All reads
// go through the pool; the engine never writes except for snapshots.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

func (s *Store) Employee(ctx context.Context, employeeID string) (Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, first_name, last_name, status, COALESCE(team_id::text, ''), COALESCE(department_id::text, '')
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(&emp.ID, &emp.FirstName, &emp.LastName, &emp.Status, &emp.TeamID, &emp.DepartmentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Store) Team(ctx context.Context, teamID string) (Team, error) {
	var team Team
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, COALESCE(lead_id::text, '')
    FROM teams
    WHERE id = $1
  `, teamID).Scan(&team.ID, &team.Name, &team.LeadID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Team{}, ErrTeamNotFound
	}
	if err != nil {
		return Team{}, err
	}
	return team, nil
}

func (s *Store) Department(ctx context.Context, departmentID string) (Department, error) {
	var dept Department
	err := s.DB.QueryRow(ctx, `
    SELECT id, name
    FROM departments
    WHERE id = $1
  `, departmentID).Scan(&dept.ID, &dept.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Department{}, ErrDepartmentNotFound
	}
	if err != nil {
		return Department{}, err
	}
	return dept, nil
}

func (s *Store) Departments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `SELECT id, name FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []Department
	for rows.Next() {
		var dept Department
		if err := rows.Scan(&dept.ID, &dept.Name); err != nil {
			return nil, err
		}
		departments = append(departments, dept)
	}
	return departments, rows.Err()
}

func (s *Store) TeamMembers(ctx context.Context, teamID string) ([]Employee, error) {
	return s.listEmployees(ctx, `
    SELECT id, first_name, last_name, status, COALESCE(team_id::text, ''), COALESCE(department_id::text, '')
    FROM employees
    WHERE team_id = $1 AND status = 'active'
    ORDER BY last_name, first_name
  `, teamID)
}

func (s *Store) DepartmentMembers(ctx context.Context, departmentID string) ([]Employee, error) {
	return s.listEmployees(ctx, `
    SELECT id, first_name, last_name, status, COALESCE(team_id::text, ''), COALESCE(department_id::text, '')
    FROM employees
    WHERE department_id = $1 AND status = 'active'
    ORDER BY last_name, first_name
  `, departmentID)
}

// ActiveEmployees returns every active employee, used by the weekly report
// scheduler.
func (s *Store) ActiveEmployees(ctx context.Context) ([]Employee, error) {
	return s.listEmployees(ctx, `
    SELECT id, first_name, last_name, status, COALESCE(team_id::text, ''), COALESCE(department_id::text, '')
    FROM employees
    WHERE status = 'active'
    ORDER BY last_name, first_name
  `)
}

func (s *Store) listEmployees(ctx context.Context, query string, args ...any) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(&emp.ID, &emp.FirstName, &emp.LastName, &emp.Status, &emp.TeamID, &emp.DepartmentID); err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (s *Store) GoalsInRange(ctx context.Context, employeeIDs []string, start, end time.Time) ([]Goal, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, title, status, COALESCE(priority, ''), COALESCE(category, ''),
           start_date, target_date, completion_date
    FROM goals
    WHERE employee_id = ANY($1)
      AND (start_date BETWEEN $2 AND $3
        OR target_date BETWEEN $2 AND $3
        OR (start_date < $2 AND target_date > $3))
    ORDER BY start_date
  `, employeeIDs, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.EmployeeID, &g.Title, &g.Status, &g.Priority, &g.Category, &g.StartDate, &g.TargetDate, &g.CompletionDate); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *Store) CheckpointsForGoals(ctx context.Context, goalIDs []string) ([]Checkpoint, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, goal_id, title, completed
    FROM goal_checkpoints
    WHERE goal_id = ANY($1)
  `, goalIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checkpoints []Checkpoint
	for rows.Next() {
		var c Checkpoint
		if err := rows.Scan(&c.ID, &c.GoalID, &c.Title, &c.Completed); err != nil {
			return nil, err
		}
		checkpoints = append(checkpoints, c)
	}
	return checkpoints, rows.Err()
}

func (s *Store) FeedbackInRange(ctx context.Context, employeeIDs []string, start, end time.Time) ([]Feedback, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, subject, type, COALESCE(author_name, ''), rating, given_at
    FROM feedback
    WHERE employee_id = ANY($1) AND given_at::date BETWEEN $2 AND $3
    ORDER BY given_at DESC
  `, employeeIDs, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Feedback
	for rows.Next() {
		var f Feedback
		if err := rows.Scan(&f.ID, &f.EmployeeID, &f.Subject, &f.Type, &f.AuthorName, &f.Rating, &f.GivenAt); err != nil {
			return nil, err
		}
		entries = append(entries, f)
	}
	return entries, rows.Err()
}

func (s *Store) AttendanceInRange(ctx context.Context, employeeIDs []string, start, end time.Time) ([]AttendanceRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, day, status
    FROM attendance_records
    WHERE employee_id = ANY($1) AND day BETWEEN $2 AND $3
    ORDER BY day
  `, employeeIDs, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []AttendanceRecord
	for rows.Next() {
		var r AttendanceRecord
		if err := rows.Scan(&r.EmployeeID, &r.Day, &r.Status); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// EnrollmentsInRange returns enrollments either started or completed in the
// range; the aggregator applies the exact per-count date bases.
func (s *Store) EnrollmentsInRange(ctx context.Context, employeeIDs []string, start, end time.Time) ([]Enrollment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT te.employee_id, tm.title, COALESCE(tm.skill_area, ''), te.started_at, te.completed_at
    FROM training_enrollments te
    JOIN training_modules tm ON te.module_id = tm.id
    WHERE te.employee_id = ANY($1)
      AND (te.started_at::date BETWEEN $2 AND $3
        OR (te.completed_at IS NOT NULL AND te.completed_at::date BETWEEN $2 AND $3))
    ORDER BY te.started_at
  `, employeeIDs, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []Enrollment
	for rows.Next() {
		var e Enrollment
		if err := rows.Scan(&e.EmployeeID, &e.ModuleTitle, &e.SkillArea, &e.StartedAt, &e.CompletedAt); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

func (s *Store) GoalCommentsInRange(ctx context.Context, authorIDs []string, start, end time.Time) ([]GoalComment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT goal_id, author_id, COALESCE(category, 'update'), created_at
    FROM goal_comments
    WHERE author_id = ANY($1) AND created_at::date BETWEEN $2 AND $3
    ORDER BY created_at
  `, authorIDs, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []GoalComment
	for rows.Next() {
		var c GoalComment
		if err := rows.Scan(&c.GoalID, &c.AuthorID, &c.Category, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
