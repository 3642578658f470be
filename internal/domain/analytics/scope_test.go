package analytics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func addMemberData(src *fakeSource, employeeID string, completed, total, presentDays int) {
	for i := 0; i < total; i++ {
		g := Goal{
			ID:         fmt.Sprintf("%s-g%d", employeeID, i),
			EmployeeID: employeeID,
			Status:     GoalStatusInProgress,
			StartDate:  day(2025, time.June, 2),
			TargetDate: day(2025, time.July, 15),
		}
		if i < completed {
			g.Status = GoalStatusCompleted
			g.CompletionDate = datePtr(day(2025, time.June, 20))
		}
		src.goals = append(src.goals, g)
	}
	for i := 0; i < presentDays; i++ {
		src.attendance = append(src.attendance, AttendanceRecord{
			EmployeeID: employeeID,
			Day:        day(2025, time.June, 1+i),
			Status:     AttendancePresent,
		})
	}
}

func TestRankMembersStableOnTies(t *testing.T) {
	summaries := []MemberSummary{
		{EmployeeID: "a", CompletionRate: 50},
		{EmployeeID: "b", CompletionRate: 80},
		{EmployeeID: "c", CompletionRate: 50},
		{EmployeeID: "d", CompletionRate: 90},
		{EmployeeID: "e", CompletionRate: 50},
	}
	RankMembers(summaries)

	want := []string{"d", "b", "a", "c", "e"}
	for i, id := range want {
		if summaries[i].EmployeeID != id {
			t.Fatalf("rank %d = %s, want %s (ties must keep input order)", i, summaries[i].EmployeeID, id)
		}
	}
}

func TestMemberHighlightAndChallenge(t *testing.T) {
	cases := []struct {
		name      string
		summary   MemberSummary
		highlight string
		challenge string
	}{
		{
			"high completion wins",
			MemberSummary{CompletionRate: 85, AvgRating: 4.5, AttendanceRate: 95},
			"High goal completion", "No major challenges",
		},
		{
			"rating highlight when completion is middling",
			MemberSummary{CompletionRate: 60, AvgRating: 4.2, AttendanceRate: 95},
			"Excellent feedback ratings", "No major challenges",
		},
		{
			"training highlight",
			MemberSummary{CompletionRate: 60, AvgRating: 3.8, TrainingsCompleted: 4, AttendanceRate: 95},
			"Strong learning commitment", "No major challenges",
		},
		{
			"overdue challenge takes priority",
			MemberSummary{CompletionRate: 30, OverdueGoals: 4, AttendanceRate: 50},
			"Consistent performance", "4 overdue goals need attention",
		},
		{
			"low completion challenge",
			MemberSummary{CompletionRate: 40, AttendanceRate: 95},
			"Consistent performance", "Goal completion below expectations",
		},
		{
			"low rating only counts with feedback present",
			MemberSummary{CompletionRate: 60, AvgRating: 0, FeedbackCount: 0, AttendanceRate: 95},
			"Consistent performance", "No major challenges",
		},
		{
			"low rating challenge",
			MemberSummary{CompletionRate: 60, AvgRating: 3.0, FeedbackCount: 2, AttendanceRate: 95},
			"Consistent performance", "Feedback ratings need attention",
		},
		{
			"attendance challenge",
			MemberSummary{CompletionRate: 60, AvgRating: 4.0, FeedbackCount: 2, AttendanceRate: 70},
			"Excellent feedback ratings", "Attendance needs attention",
		},
	}
	for _, tc := range cases {
		if got := memberHighlight(tc.summary); got != tc.highlight {
			t.Fatalf("%s: highlight = %q, want %q", tc.name, got, tc.highlight)
		}
		if got := memberChallenge(tc.summary); got != tc.challenge {
			t.Fatalf("%s: challenge = %q, want %q", tc.name, got, tc.challenge)
		}
	}
}

func TestCollaborationScore(t *testing.T) {
	cases := []struct {
		comments, size int
		want           string
	}{
		{31, 6, "High"},     // > 5x
		{30, 6, "Moderate"}, // exactly 5x is not High
		{13, 6, "Moderate"}, // > 2x
		{12, 6, "Low"},      // exactly 2x is not Moderate
		{0, 6, "Low"},
	}
	for _, tc := range cases {
		if got := collaborationScore(tc.comments, tc.size); got != tc.want {
			t.Fatalf("collaborationScore(%d, %d) = %q, want %q", tc.comments, tc.size, got, tc.want)
		}
	}
}

func TestDepartmentStatus(t *testing.T) {
	cases := []struct {
		completion, rating float64
		want               string
	}{
		{80, 4.2, StatusHighPerforming},
		{75, 4.0, StatusHighPerforming},
		{30, 4.5, StatusNeedsSupport}, // low completion overrides rating
		{60, 2.5, StatusNeedsSupport},
		{60, 3.8, StatusPerformingWell},
		{45, 3.2, StatusAverage},
	}
	for _, tc := range cases {
		if got := departmentStatus(tc.completion, tc.rating); got != tc.want {
			t.Fatalf("departmentStatus(%v, %v) = %q, want %q", tc.completion, tc.rating, got, tc.want)
		}
	}
}

func TestTeamReportUnionRollup(t *testing.T) {
	src := newFakeSource()
	src.teams["t1"] = Team{ID: "t1", Name: "Platform"}
	src.addEmployee(Employee{ID: "e1", FirstName: "Ada", Status: "active", TeamID: "t1"})
	src.addEmployee(Employee{ID: "e2", FirstName: "Grace", Status: "active", TeamID: "t1"})
	// Inactive members never enter the cohort.
	src.addEmployee(Employee{ID: "e3", FirstName: "Gone", Status: "terminated", TeamID: "t1"})

	// e1: 1 of 10 completed (10%). e2: 1 of 2 completed (50%). The union is
	// 2 of 12 (16.7%), not the 30% an average of member rates would give.
	addMemberData(src, "e1", 1, 10, 20)
	addMemberData(src, "e2", 1, 2, 10)

	engine := NewEngine(src, 2)
	team, metrics, summaries, err := engine.TeamReport(context.Background(), "t1", testWindow(), day(2025, time.June, 30))
	if err != nil {
		t.Fatalf("TeamReport: %v", err)
	}
	if team.Name != "Platform" {
		t.Fatalf("team = %q, want Platform", team.Name)
	}
	if got := metrics["team_size"]; got != 2 {
		t.Fatalf("team_size = %v, want 2 (active members only)", got)
	}
	if got := metrics["total_goals"]; got != 12 {
		t.Fatalf("total_goals = %v, want 12", got)
	}
	if got := metrics["goal_completion_rate"]; got != 16.7 {
		t.Fatalf("goal_completion_rate = %v, want the union rate 16.7", got)
	}
	if got := metrics["collaboration_score"]; got != "Low" {
		t.Fatalf("collaboration_score = %v, want Low", got)
	}

	if len(summaries) != 2 {
		t.Fatalf("summaries = %d entries, want 2", len(summaries))
	}
	// Ranked best first.
	if summaries[0].EmployeeID != "e2" || summaries[0].CompletionRate != 50.0 {
		t.Fatalf("summaries[0] = %+v, want e2 at 50.0", summaries[0])
	}
	if summaries[1].EmployeeID != "e1" {
		t.Fatalf("summaries[1] = %+v, want e1", summaries[1])
	}
}

func TestTeamReportUnknownTeam(t *testing.T) {
	engine := NewEngine(newFakeSource(), 2)
	_, _, _, err := engine.TeamReport(context.Background(), "nope", testWindow(), day(2025, time.June, 30))
	if !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("err = %v, want ErrTeamNotFound", err)
	}
}

func TestDepartmentReportRequiresID(t *testing.T) {
	engine := NewEngine(newFakeSource(), 2)
	_, _, _, err := engine.DepartmentReport(context.Background(), "", testWindow(), day(2025, time.June, 30))
	if !errors.Is(err, ErrMissingDepartment) {
		t.Fatalf("err = %v, want ErrMissingDepartment", err)
	}
}

func TestDepartmentReport(t *testing.T) {
	src := newFakeSource()
	src.departments = []Department{{ID: "d1", Name: "Engineering"}}
	src.addEmployee(Employee{ID: "e1", FirstName: "Ada", Status: "active", DepartmentID: "d1"})
	src.addEmployee(Employee{ID: "e2", FirstName: "Grace", Status: "active", DepartmentID: "d1"})
	addMemberData(src, "e1", 3, 4, 15)
	addMemberData(src, "e2", 1, 4, 15)

	engine := NewEngine(src, 2)
	dept, metrics, summaries, err := engine.DepartmentReport(context.Background(), "d1", testWindow(), day(2025, time.June, 30))
	if err != nil {
		t.Fatalf("DepartmentReport: %v", err)
	}
	if dept.Name != "Engineering" {
		t.Fatalf("department = %q, want Engineering", dept.Name)
	}
	if got := metrics["headcount"]; got != 2 {
		t.Fatalf("headcount = %v, want 2", got)
	}
	if got := metrics["goal_completion_rate"]; got != 50.0 {
		t.Fatalf("goal_completion_rate = %v, want 50.0", got)
	}
	if len(summaries) != 2 || summaries[0].EmployeeID != "e1" {
		t.Fatalf("summaries = %+v, want e1 ranked first", summaries)
	}
}

func TestOrganizationReport(t *testing.T) {
	src := newFakeSource()
	src.departments = []Department{
		{ID: "d1", Name: "Engineering"},
		{ID: "d2", Name: "Sales"},
	}
	src.addEmployee(Employee{ID: "e1", FirstName: "Ada", Status: "active", DepartmentID: "d1"})
	src.addEmployee(Employee{ID: "e2", FirstName: "Grace", Status: "active", DepartmentID: "d1"})
	src.addEmployee(Employee{ID: "e3", FirstName: "Erin", Status: "active", DepartmentID: "d2"})

	// Engineering: 8 of 10 completed (80%). Sales: 1 of 4 (25%).
	addMemberData(src, "e1", 5, 5, 20)
	addMemberData(src, "e2", 3, 5, 20)
	addMemberData(src, "e3", 1, 4, 20)

	engine := NewEngine(src, 2)
	metrics, departments, err := engine.OrganizationReport(context.Background(), testWindow(), day(2025, time.June, 30))
	if err != nil {
		t.Fatalf("OrganizationReport: %v", err)
	}
	if got := metrics["total_departments"]; got != 2 {
		t.Fatalf("total_departments = %v, want 2", got)
	}
	if got := metrics["total_employees"]; got != 3 {
		t.Fatalf("total_employees = %v, want 3", got)
	}
	// Union across all departments: 9 of 14.
	if got := metrics["goal_completion_rate"]; got != 64.3 {
		t.Fatalf("goal_completion_rate = %v, want 64.3", got)
	}

	if len(departments) != 2 {
		t.Fatalf("departments = %d entries, want 2", len(departments))
	}
	if departments[0].Name != "Engineering" || departments[0].CompletionRate != 80.0 {
		t.Fatalf("departments[0] = %+v, want Engineering at 80.0", departments[0])
	}
	// No ratings anywhere, so high completion is not enough for
	// high_performing.
	if departments[0].Status != StatusNeedsSupport {
		t.Fatalf("departments[0].Status = %q, want %q with no ratings", departments[0].Status, StatusNeedsSupport)
	}
	if departments[1].Name != "Sales" || departments[1].Status != StatusNeedsSupport {
		t.Fatalf("departments[1] = %+v, want Sales needing support", departments[1])
	}
}

func TestMemberSummariesFromCohortRows(t *testing.T) {
	rows := cohortRows{
		goals: []Goal{
			{ID: "g1", EmployeeID: "e1", Status: GoalStatusCompleted, StartDate: day(2025, time.June, 2), TargetDate: day(2025, time.June, 20), CompletionDate: datePtr(day(2025, time.June, 18))},
			{ID: "g2", EmployeeID: "e2", Status: GoalStatusInProgress, StartDate: day(2025, time.June, 2), TargetDate: day(2025, time.June, 10)},
		},
		checkpoints: []Checkpoint{{ID: "c1", GoalID: "g1", Completed: true}},
		feedback: []Feedback{
			{ID: "f1", EmployeeID: "e1", Rating: ratingPtr(4.5), GivenAt: day(2025, time.June, 5)},
		},
	}
	members := []Employee{
		{ID: "e1", FirstName: "Ada", LastName: "Lovelace"},
		{ID: "e2", FirstName: "Grace", LastName: "Hopper"},
	}
	summaries := memberSummaries(members, rows, testWindow(), day(2025, time.June, 30))
	if len(summaries) != 2 {
		t.Fatalf("summaries = %d entries, want 2", len(summaries))
	}
	ada := summaries[0]
	if ada.Name != "Ada Lovelace" || ada.TotalGoals != 1 || ada.CompletionRate != 100.0 || ada.AvgRating != 4.5 {
		t.Fatalf("ada = %+v", ada)
	}
	grace := summaries[1]
	if grace.TotalGoals != 1 || grace.OverdueGoals != 1 || grace.CompletionRate != 0.0 {
		t.Fatalf("grace = %+v", grace)
	}
}
