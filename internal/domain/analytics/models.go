package analytics

import "time"

// Window is a resolved reporting period. It is immutable once resolved;
// End is never before Start.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// Contains reports whether the calendar day of t falls inside the window,
// both bounds inclusive.
func (w Window) Contains(t time.Time) bool {
	day := dateOf(t)
	return !day.Before(dateOf(w.Start)) && !day.After(dateOf(w.End))
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type Employee struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Status       string `json:"status"`
	TeamID       string `json:"teamId"`
	DepartmentID string `json:"departmentId"`
}

func (e Employee) FullName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

type Team struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	LeadID string `json:"leadId"`
}

type Department struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Goal struct {
	ID             string     `json:"id"`
	EmployeeID     string     `json:"employeeId"`
	Title          string     `json:"title"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	Category       string     `json:"category"`
	StartDate      time.Time  `json:"startDate"`
	TargetDate     time.Time  `json:"targetDate"`
	CompletionDate *time.Time `json:"completionDate,omitempty"`
}

type Checkpoint struct {
	ID        string `json:"id"`
	GoalID    string `json:"goalId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type Feedback struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Subject    string    `json:"subject"`
	Type       string    `json:"type"`
	AuthorName string    `json:"authorName"`
	Rating     *float64  `json:"rating,omitempty"`
	GivenAt    time.Time `json:"givenAt"`
}

type AttendanceRecord struct {
	EmployeeID string    `json:"employeeId"`
	Day        time.Time `json:"day"`
	Status     string    `json:"status"`
}

type Enrollment struct {
	EmployeeID  string     `json:"employeeId"`
	ModuleTitle string     `json:"moduleTitle"`
	SkillArea   string     `json:"skillArea"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type GoalComment struct {
	GoalID    string    `json:"goalId"`
	AuthorID  string    `json:"authorId"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

// Metrics is a flat map of metric name to value. Aggregators write disjoint
// key sets, so merging partial maps never overwrites a key.
type Metrics map[string]any

// Merge copies every entry of other into m.
func (m Metrics) Merge(other Metrics) {
	for k, v := range other {
		m[k] = v
	}
}

type FeedbackExample struct {
	Subject string   `json:"subject"`
	Rating  *float64 `json:"rating,omitempty"`
	Type    string   `json:"type"`
	Author  string   `json:"author"`
	Date    string   `json:"date"`
}

type Sufficiency struct {
	Tier     string   `json:"tier"`
	Warnings []string `json:"warnings"`
}

// MemberSummary is the per-person view used for team and department reports.
type MemberSummary struct {
	EmployeeID         string  `json:"employeeId"`
	Name               string  `json:"name"`
	TotalGoals         int     `json:"totalGoals"`
	CompletedGoals     int     `json:"completedGoals"`
	OverdueGoals       int     `json:"overdueGoals"`
	CompletionRate     float64 `json:"completionRate"`
	FeedbackCount      int     `json:"feedbackCount"`
	AvgRating          float64 `json:"avgRating"`
	AttendanceRate     float64 `json:"attendanceRate"`
	TrainingsCompleted int     `json:"trainingsCompleted"`
	Highlight          string  `json:"highlight"`
	Challenge          string  `json:"challenge"`
}

type DepartmentSummary struct {
	DepartmentID   string  `json:"departmentId"`
	Name           string  `json:"name"`
	Headcount      int     `json:"headcount"`
	TotalGoals     int     `json:"totalGoals"`
	CompletedGoals int     `json:"completedGoals"`
	CompletionRate float64 `json:"completionRate"`
	AvgRating      float64 `json:"avgRating"`
	AttendanceRate float64 `json:"attendanceRate"`
	Status         string  `json:"status"`
}

// Envelope is the unit returned to the caller. It is built once per request
// and never mutated afterwards.
type Envelope struct {
	ID           string              `json:"id"`
	Scope        Scope               `json:"scope"`
	EmployeeID   string              `json:"employeeId,omitempty"`
	TeamID       string              `json:"teamId,omitempty"`
	DepartmentID string              `json:"departmentId,omitempty"`
	SubjectName  string              `json:"subjectName"`
	Window       Window              `json:"window"`
	Template     string              `json:"template"`
	MetricGroups []string            `json:"metricGroups"`
	Metrics      Metrics             `json:"metrics"`
	Members      []MemberSummary     `json:"members,omitempty"`
	Departments  []DepartmentSummary `json:"departments,omitempty"`
	Sufficiency  Sufficiency         `json:"sufficiency"`
	Narrative    string              `json:"narrative"`
	GeneratedAt  time.Time           `json:"generatedAt"`
}
