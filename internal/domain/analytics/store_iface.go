package analytics

import (
	"context"
	"time"
)

// DataSource is the read-only query capability the engine aggregates over.
// Range parameters let implementations prefilter in the query; the
// aggregators still apply the precise window predicates themselves, so a
// source may safely return a superset of the requested range.
type DataSource interface {
	Employee(ctx context.Context, employeeID string) (Employee, error)
	Team(ctx context.Context, teamID string) (Team, error)
	Department(ctx context.Context, departmentID string) (Department, error)
	Departments(ctx context.Context) ([]Department, error)

	// TeamMembers and DepartmentMembers return active employees only.
	TeamMembers(ctx context.Context, teamID string) ([]Employee, error)
	DepartmentMembers(ctx context.Context, departmentID string) ([]Employee, error)

	GoalsInRange(ctx context.Context, employeeIDs []string, start, end time.Time) ([]Goal, error)
	CheckpointsForGoals(ctx context.Context, goalIDs []string) ([]Checkpoint, error)
	FeedbackInRange(ctx context.Context, employeeIDs []string, start, end time.Time) ([]Feedback, error)
	AttendanceInRange(ctx context.Context, employeeIDs []string, start, end time.Time) ([]AttendanceRecord, error)
	EnrollmentsInRange(ctx context.Context, employeeIDs []string, start, end time.Time) ([]Enrollment, error)
	GoalCommentsInRange(ctx context.Context, authorIDs []string, start, end time.Time) ([]GoalComment, error)
}

// SnapshotStore persists at most one report envelope per employee per day.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, employeeID string, day time.Time, envelope Envelope) error
}

// NarrativeProvider turns an assembled prompt context into report prose.
type NarrativeProvider interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}
