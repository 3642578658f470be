package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// cohortRows holds every signal for a set of employees in one place so that
// per-member summaries and the rollup are computed from the same snapshot.
type cohortRows struct {
	goals       []Goal
	checkpoints []Checkpoint
	feedback    []Feedback
	attendance  []AttendanceRecord
	enrollments []Enrollment
	comments    []GoalComment
}

func (e *Engine) fetchCohort(ctx context.Context, ids []string, w Window) (cohortRows, error) {
	var rows cohortRows
	if len(ids) == 0 {
		return rows, nil
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(e.Workers)
	group.Go(func() error {
		goals, err := e.Source.GoalsInRange(gctx, ids, w.Start, w.End)
		if err != nil {
			return fmt.Errorf("%w: cohort goals: %v", ErrAggregation, err)
		}
		rows.goals = selectGoals(goals, w)
		if len(rows.goals) == 0 {
			return nil
		}
		goalIDs := make([]string, 0, len(rows.goals))
		for _, g := range rows.goals {
			goalIDs = append(goalIDs, g.ID)
		}
		rows.checkpoints, err = e.Source.CheckpointsForGoals(gctx, goalIDs)
		if err != nil {
			return fmt.Errorf("%w: cohort checkpoints: %v", ErrAggregation, err)
		}
		return nil
	})
	group.Go(func() error {
		feedback, err := e.Source.FeedbackInRange(gctx, ids, w.Start, w.End)
		if err != nil {
			return fmt.Errorf("%w: cohort feedback: %v", ErrAggregation, err)
		}
		rows.feedback = feedback
		return nil
	})
	group.Go(func() error {
		attendance, err := e.Source.AttendanceInRange(gctx, ids, w.Start, w.End)
		if err != nil {
			return fmt.Errorf("%w: cohort attendance: %v", ErrAggregation, err)
		}
		rows.attendance = attendance
		return nil
	})
	group.Go(func() error {
		enrollments, err := e.Source.EnrollmentsInRange(gctx, ids, w.Start, w.End)
		if err != nil {
			return fmt.Errorf("%w: cohort enrollments: %v", ErrAggregation, err)
		}
		rows.enrollments = enrollments
		return nil
	})
	group.Go(func() error {
		comments, err := e.Source.GoalCommentsInRange(gctx, ids, w.Start, w.End)
		if err != nil {
			return fmt.Errorf("%w: cohort comments: %v", ErrAggregation, err)
		}
		rows.comments = comments
		return nil
	})
	if err := group.Wait(); err != nil {
		return cohortRows{}, err
	}
	return rows, nil
}

func (r cohortRows) forMember(employeeID string) cohortRows {
	var out cohortRows
	goalIDs := map[string]bool{}
	for _, g := range r.goals {
		if g.EmployeeID == employeeID {
			out.goals = append(out.goals, g)
			goalIDs[g.ID] = true
		}
	}
	for _, c := range r.checkpoints {
		if goalIDs[c.GoalID] {
			out.checkpoints = append(out.checkpoints, c)
		}
	}
	for _, f := range r.feedback {
		if f.EmployeeID == employeeID {
			out.feedback = append(out.feedback, f)
		}
	}
	for _, a := range r.attendance {
		if a.EmployeeID == employeeID {
			out.attendance = append(out.attendance, a)
		}
	}
	for _, e := range r.enrollments {
		if e.EmployeeID == employeeID {
			out.enrollments = append(out.enrollments, e)
		}
	}
	for _, c := range r.comments {
		if c.AuthorID == employeeID {
			out.comments = append(out.comments, c)
		}
	}
	return out
}

// rollupMetrics aggregates over the union of the cohort's rows: one
// numerator/denominator division per rate, never an average of per-member
// rates.
func rollupMetrics(rows cohortRows, w Window, asOf time.Time) Metrics {
	metrics := Metrics{}
	metrics.Merge(computeGoalMetrics(rows.goals, rows.checkpoints, asOf))
	metrics.Merge(computeFeedbackMetrics(rows.feedback, w))
	metrics.Merge(computeAttendanceMetrics(rows.attendance, w))
	metrics.Merge(computeTrainingMetrics(rows.enrollments, w))
	metrics.Merge(computeCollaborationMetrics(rows.comments, w))
	return metrics
}

func memberSummaries(members []Employee, rows cohortRows, w Window, asOf time.Time) []MemberSummary {
	summaries := make([]MemberSummary, 0, len(members))
	for _, member := range members {
		own := rows.forMember(member.ID)
		goals := computeGoalMetrics(own.goals, own.checkpoints, asOf)
		feedback := computeFeedbackMetrics(own.feedback, w)
		attendance := computeAttendanceMetrics(own.attendance, w)
		training := computeTrainingMetrics(own.enrollments, w)

		s := MemberSummary{
			EmployeeID:         member.ID,
			Name:               member.FullName(),
			TotalGoals:         metricInt(goals, "total_goals"),
			CompletedGoals:     metricInt(goals, "completed_goals"),
			OverdueGoals:       metricInt(goals, "overdue_goals"),
			FeedbackCount:      metricInt(feedback, "total_feedback"),
			TrainingsCompleted: metricInt(training, "trainings_completed"),
		}
		s.CompletionRate, _ = metricFloat(goals, "goal_completion_rate")
		s.AvgRating, _ = metricFloat(feedback, "avg_feedback_rating")
		s.AttendanceRate, _ = metricFloat(attendance, "attendance_rate")
		s.Highlight = memberHighlight(s)
		s.Challenge = memberChallenge(s)
		summaries = append(summaries, s)
	}
	return summaries
}

// First matching rule wins.
func memberHighlight(s MemberSummary) string {
	switch {
	case s.CompletionRate >= 80:
		return "High goal completion"
	case s.AvgRating >= 4.0:
		return "Excellent feedback ratings"
	case s.TrainingsCompleted >= 3:
		return "Strong learning commitment"
	default:
		return "Consistent performance"
	}
}

func memberChallenge(s MemberSummary) string {
	switch {
	case s.OverdueGoals >= 3:
		return fmt.Sprintf("%d overdue goals need attention", s.OverdueGoals)
	case s.CompletionRate < 50:
		return "Goal completion below expectations"
	case s.AvgRating < 3.5 && s.FeedbackCount > 0:
		return "Feedback ratings need attention"
	case s.AttendanceRate < 80:
		return "Attendance needs attention"
	default:
		return "No major challenges"
	}
}

// RankMembers orders summaries by completion rate, best first. The sort is
// stable so exact ties keep their original relative order.
func RankMembers(summaries []MemberSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].CompletionRate > summaries[j].CompletionRate
	})
}

// RankDepartments orders department summaries by completion rate, best
// first, with stable tie order.
func RankDepartments(summaries []DepartmentSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].CompletionRate > summaries[j].CompletionRate
	})
}

// TeamReport aggregates every active member of a team into ranked member
// summaries and a union rollup with a collaboration tier.
func (e *Engine) TeamReport(ctx context.Context, teamID string, w Window, asOf time.Time) (Team, Metrics, []MemberSummary, error) {
	team, err := e.Source.Team(ctx, teamID)
	if err != nil {
		return Team{}, nil, nil, err
	}
	members, err := e.Source.TeamMembers(ctx, teamID)
	if err != nil {
		return Team{}, nil, nil, err
	}
	metrics, summaries, err := e.cohortReport(ctx, members, w, asOf)
	if err != nil {
		return Team{}, nil, nil, err
	}
	metrics["team_size"] = len(members)
	metrics["collaboration_score"] = collaborationScore(metricInt(metrics, "total_comments"), len(members))
	return team, metrics, summaries, nil
}

// DepartmentReport is the team report one level up, over a department's
// active employees.
func (e *Engine) DepartmentReport(ctx context.Context, departmentID string, w Window, asOf time.Time) (Department, Metrics, []MemberSummary, error) {
	if departmentID == "" {
		return Department{}, nil, nil, ErrMissingDepartment
	}
	dept, err := e.Source.Department(ctx, departmentID)
	if err != nil {
		return Department{}, nil, nil, err
	}
	members, err := e.Source.DepartmentMembers(ctx, departmentID)
	if err != nil {
		return Department{}, nil, nil, err
	}
	metrics, summaries, err := e.cohortReport(ctx, members, w, asOf)
	if err != nil {
		return Department{}, nil, nil, err
	}
	metrics["headcount"] = len(members)
	return dept, metrics, summaries, nil
}

func (e *Engine) cohortReport(ctx context.Context, members []Employee, w Window, asOf time.Time) (Metrics, []MemberSummary, error) {
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	rows, err := e.fetchCohort(ctx, ids, w)
	if err != nil {
		return nil, nil, err
	}
	summaries := memberSummaries(members, rows, w, asOf)
	RankMembers(summaries)
	return rollupMetrics(rows, w, asOf), summaries, nil
}

func collaborationScore(totalComments, teamSize int) string {
	switch {
	case totalComments > 5*teamSize:
		return "High"
	case totalComments > 2*teamSize:
		return "Moderate"
	default:
		return "Low"
	}
}

// OrganizationReport aggregates each department over its active employees,
// classifies it, and rolls the whole organization up from the union of all
// departments' rows.
func (e *Engine) OrganizationReport(ctx context.Context, w Window, asOf time.Time) (Metrics, []DepartmentSummary, error) {
	departments, err := e.Source.Departments(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: departments: %v", ErrAggregation, err)
	}

	summaries := make([]DepartmentSummary, len(departments))
	deptRows := make([]cohortRows, len(departments))
	headcounts := make([]int, len(departments))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(e.Workers)
	for i, dept := range departments {
		i, dept := i, dept
		group.Go(func() error {
			members, err := e.Source.DepartmentMembers(gctx, dept.ID)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(members))
			for _, m := range members {
				ids = append(ids, m.ID)
			}
			rows, err := e.fetchCohort(gctx, ids, w)
			if err != nil {
				return err
			}
			goals := computeGoalMetrics(rows.goals, rows.checkpoints, asOf)
			feedback := computeFeedbackMetrics(rows.feedback, w)
			attendance := computeAttendanceMetrics(rows.attendance, w)

			s := DepartmentSummary{
				DepartmentID:   dept.ID,
				Name:           dept.Name,
				Headcount:      len(members),
				TotalGoals:     metricInt(goals, "total_goals"),
				CompletedGoals: metricInt(goals, "completed_goals"),
			}
			s.CompletionRate, _ = metricFloat(goals, "goal_completion_rate")
			s.AvgRating, _ = metricFloat(feedback, "avg_feedback_rating")
			s.AttendanceRate, _ = metricFloat(attendance, "attendance_rate")
			s.Status = departmentStatus(s.CompletionRate, s.AvgRating)

			summaries[i] = s
			deptRows[i] = rows
			headcounts[i] = len(members)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	var union cohortRows
	employees := 0
	for i := range deptRows {
		union.goals = append(union.goals, deptRows[i].goals...)
		union.checkpoints = append(union.checkpoints, deptRows[i].checkpoints...)
		union.feedback = append(union.feedback, deptRows[i].feedback...)
		union.attendance = append(union.attendance, deptRows[i].attendance...)
		union.enrollments = append(union.enrollments, deptRows[i].enrollments...)
		union.comments = append(union.comments, deptRows[i].comments...)
		employees += headcounts[i]
	}

	metrics := rollupMetrics(union, w, asOf)
	metrics["total_departments"] = len(departments)
	metrics["total_employees"] = employees

	RankDepartments(summaries)
	return metrics, summaries, nil
}

func departmentStatus(completionRate, avgRating float64) string {
	switch {
	case completionRate >= 75 && avgRating >= 4.0:
		return StatusHighPerforming
	case completionRate < 40 || avgRating < 3.0:
		return StatusNeedsSupport
	case completionRate >= 50 && avgRating >= 3.5:
		return StatusPerformingWell
	default:
		return StatusAverage
	}
}
