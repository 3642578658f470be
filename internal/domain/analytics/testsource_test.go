package analytics

import (
	"context"
	"time"
)

// fakeSource preloads rows in memory and filters by subject only; the
// aggregators are responsible for precise window filtering.
type fakeSource struct {
	employees     map[string]Employee
	teams         map[string]Team
	departments   []Department
	membersByTeam map[string][]Employee
	membersByDept map[string][]Employee
	goals         []Goal
	checkpoints   []Checkpoint
	feedback      []Feedback
	attendance    []AttendanceRecord
	enrollments   []Enrollment
	comments      []GoalComment
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		employees:     map[string]Employee{},
		teams:         map[string]Team{},
		membersByTeam: map[string][]Employee{},
		membersByDept: map[string][]Employee{},
	}
}

func (f *fakeSource) addEmployee(emp Employee) {
	f.employees[emp.ID] = emp
	if emp.TeamID != "" {
		f.membersByTeam[emp.TeamID] = append(f.membersByTeam[emp.TeamID], emp)
	}
	if emp.DepartmentID != "" {
		f.membersByDept[emp.DepartmentID] = append(f.membersByDept[emp.DepartmentID], emp)
	}
}

func (f *fakeSource) Employee(_ context.Context, employeeID string) (Employee, error) {
	emp, ok := f.employees[employeeID]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeSource) Team(_ context.Context, teamID string) (Team, error) {
	team, ok := f.teams[teamID]
	if !ok {
		return Team{}, ErrTeamNotFound
	}
	return team, nil
}

func (f *fakeSource) Department(_ context.Context, departmentID string) (Department, error) {
	for _, d := range f.departments {
		if d.ID == departmentID {
			return d, nil
		}
	}
	return Department{}, ErrDepartmentNotFound
}

func (f *fakeSource) Departments(_ context.Context) ([]Department, error) {
	return f.departments, nil
}

func (f *fakeSource) TeamMembers(_ context.Context, teamID string) ([]Employee, error) {
	return activeOnly(f.membersByTeam[teamID]), nil
}

func (f *fakeSource) DepartmentMembers(_ context.Context, departmentID string) ([]Employee, error) {
	return activeOnly(f.membersByDept[departmentID]), nil
}

func activeOnly(members []Employee) []Employee {
	var out []Employee
	for _, m := range members {
		if m.Status == "active" {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeSource) GoalsInRange(_ context.Context, employeeIDs []string, _, _ time.Time) ([]Goal, error) {
	ids := idSet(employeeIDs)
	var out []Goal
	for _, g := range f.goals {
		if ids[g.EmployeeID] {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeSource) CheckpointsForGoals(_ context.Context, goalIDs []string) ([]Checkpoint, error) {
	ids := idSet(goalIDs)
	var out []Checkpoint
	for _, c := range f.checkpoints {
		if ids[c.GoalID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeSource) FeedbackInRange(_ context.Context, employeeIDs []string, _, _ time.Time) ([]Feedback, error) {
	ids := idSet(employeeIDs)
	var out []Feedback
	for _, fb := range f.feedback {
		if ids[fb.EmployeeID] {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (f *fakeSource) AttendanceInRange(_ context.Context, employeeIDs []string, _, _ time.Time) ([]AttendanceRecord, error) {
	ids := idSet(employeeIDs)
	var out []AttendanceRecord
	for _, a := range f.attendance {
		if ids[a.EmployeeID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeSource) EnrollmentsInRange(_ context.Context, employeeIDs []string, _, _ time.Time) ([]Enrollment, error) {
	ids := idSet(employeeIDs)
	var out []Enrollment
	for _, e := range f.enrollments {
		if ids[e.EmployeeID] {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeSource) GoalCommentsInRange(_ context.Context, authorIDs []string, _, _ time.Time) ([]GoalComment, error) {
	ids := idSet(authorIDs)
	var out []GoalComment
	for _, c := range f.comments {
		if ids[c.AuthorID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(t time.Time) *time.Time {
	return &t
}

func ratingPtr(v float64) *float64 {
	return &v
}
