package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"
)

const maxExamples = 5

// Engine runs the metric aggregators against a DataSource. All aggregation
// is read-only and idempotent: the same source rows, window and asOf always
// produce the same metrics.
type Engine struct {
	Source  DataSource
	Workers int
}

func NewEngine(source DataSource, workers int) *Engine {
	if workers <= 0 {
		workers = 8
	}
	return &Engine{Source: source, Workers: workers}
}

// AggregateEmployee runs the aggregators needed by the given metric groups
// and merges their partial maps. Key sets are disjoint across aggregators.
func (e *Engine) AggregateEmployee(ctx context.Context, employeeID string, groups []string, w Window, asOf time.Time) (Metrics, error) {
	metrics := Metrics{}
	for _, name := range aggregatorsFor(groups) {
		var (
			part Metrics
			err  error
		)
		switch name {
		case aggregatorGoals:
			part, err = e.AggregateGoals(ctx, employeeID, w, asOf)
		case aggregatorFeedback:
			part, err = e.AggregateFeedback(ctx, employeeID, w)
		case aggregatorAttendance:
			part, err = e.AggregateAttendance(ctx, employeeID, w)
		case aggregatorTraining:
			part, err = e.AggregateTraining(ctx, employeeID, w)
		case aggregatorCollaboration:
			part, err = e.AggregateCollaboration(ctx, employeeID, w)
		}
		if err != nil {
			return nil, err
		}
		metrics.Merge(part)
	}
	return metrics, nil
}

// AggregateGoals selects the subject's goals whose date range intersects the
// window and computes counts, rates, breakdowns, exemplars and checkpoint
// stats. Overdue is always judged against asOf, not the window end.
func (e *Engine) AggregateGoals(ctx context.Context, employeeID string, w Window, asOf time.Time) (Metrics, error) {
	rows, err := e.Source.GoalsInRange(ctx, []string{employeeID}, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("%w: goals for %s: %v", ErrAggregation, employeeID, err)
	}
	goals := selectGoals(rows, w)

	var checkpoints []Checkpoint
	if len(goals) > 0 {
		ids := make([]string, 0, len(goals))
		for _, g := range goals {
			ids = append(ids, g.ID)
		}
		checkpoints, err = e.Source.CheckpointsForGoals(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("%w: checkpoints for %s: %v", ErrAggregation, employeeID, err)
		}
	}
	return computeGoalMetrics(goals, checkpoints, asOf), nil
}

func (e *Engine) AggregateFeedback(ctx context.Context, employeeID string, w Window) (Metrics, error) {
	rows, err := e.Source.FeedbackInRange(ctx, []string{employeeID}, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("%w: feedback for %s: %v", ErrAggregation, employeeID, err)
	}
	return computeFeedbackMetrics(rows, w), nil
}

func (e *Engine) AggregateAttendance(ctx context.Context, employeeID string, w Window) (Metrics, error) {
	rows, err := e.Source.AttendanceInRange(ctx, []string{employeeID}, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("%w: attendance for %s: %v", ErrAggregation, employeeID, err)
	}
	return computeAttendanceMetrics(rows, w), nil
}

func (e *Engine) AggregateTraining(ctx context.Context, employeeID string, w Window) (Metrics, error) {
	rows, err := e.Source.EnrollmentsInRange(ctx, []string{employeeID}, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("%w: enrollments for %s: %v", ErrAggregation, employeeID, err)
	}
	return computeTrainingMetrics(rows, w), nil
}

func (e *Engine) AggregateCollaboration(ctx context.Context, employeeID string, w Window) (Metrics, error) {
	rows, err := e.Source.GoalCommentsInRange(ctx, []string{employeeID}, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("%w: goal comments for %s: %v", ErrAggregation, employeeID, err)
	}
	return computeCollaborationMetrics(rows, w), nil
}

// selectGoals keeps goals whose [start, target] range intersects the window:
// started in range, due in range, or spanning the whole window.
func selectGoals(rows []Goal, w Window) []Goal {
	var goals []Goal
	for _, g := range rows {
		if goalIntersects(g, w) {
			goals = append(goals, g)
		}
	}
	return goals
}

func goalIntersects(g Goal, w Window) bool {
	if w.Contains(g.StartDate) || w.Contains(g.TargetDate) {
		return true
	}
	return dateOf(g.StartDate).Before(dateOf(w.Start)) && dateOf(g.TargetDate).After(dateOf(w.End))
}

func goalOverdue(g Goal, asOf time.Time) bool {
	return g.Status != GoalStatusCompleted && dateOf(g.TargetDate).Before(dateOf(asOf))
}

func computeGoalMetrics(goals []Goal, checkpoints []Checkpoint, asOf time.Time) Metrics {
	total := len(goals)
	completed := 0
	inProgress := 0
	overdue := 0

	var completionDaysSum float64
	completionDaysCount := 0
	onTime := 0
	datedCompletions := 0

	type breakdown struct{ total, completed int }
	byPriority := map[string]*breakdown{}
	byCategory := map[string]*breakdown{}

	var completedGoals []Goal
	var overdueGoals []Goal

	for _, g := range goals {
		switch g.Status {
		case GoalStatusCompleted:
			completed++
			completedGoals = append(completedGoals, g)
			if g.CompletionDate != nil {
				datedCompletions++
				completionDaysSum += dateOf(*g.CompletionDate).Sub(dateOf(g.StartDate)).Hours() / 24
				completionDaysCount++
				if !dateOf(*g.CompletionDate).After(dateOf(g.TargetDate)) {
					onTime++
				}
			}
		case GoalStatusInProgress:
			inProgress++
		}
		if goalOverdue(g, asOf) {
			overdue++
			overdueGoals = append(overdueGoals, g)
		}

		if g.Priority != "" {
			b := byPriority[g.Priority]
			if b == nil {
				b = &breakdown{}
				byPriority[g.Priority] = b
			}
			b.total++
			if g.Status == GoalStatusCompleted {
				b.completed++
			}
		}
		if g.Category != "" {
			b := byCategory[g.Category]
			if b == nil {
				b = &breakdown{}
				byCategory[g.Category] = b
			}
			b.total++
			if g.Status == GoalStatusCompleted {
				b.completed++
			}
		}
	}

	formatBreakdown := func(src map[string]*breakdown) map[string]string {
		out := make(map[string]string, len(src))
		for key, b := range src {
			out[key] = fmt.Sprintf("%d/%d (%.1f%%)", b.completed, b.total, rate(b.completed, b.total))
		}
		return out
	}

	// Most recently completed first; goals without a completion date sink to
	// the end.
	sort.SliceStable(completedGoals, func(i, j int) bool {
		a, b := completedGoals[i].CompletionDate, completedGoals[j].CompletionDate
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
	// Most overdue first.
	sort.SliceStable(overdueGoals, func(i, j int) bool {
		return overdueGoals[i].TargetDate.Before(overdueGoals[j].TargetDate)
	})

	var completedExamples []string
	for _, g := range completedGoals {
		if len(completedExamples) == maxExamples {
			break
		}
		if g.CompletionDate != nil {
			completedExamples = append(completedExamples, fmt.Sprintf("%s (completed %s)", g.Title, g.CompletionDate.Format("2006-01-02")))
		} else {
			completedExamples = append(completedExamples, g.Title)
		}
	}
	var overdueExamples []string
	for _, g := range overdueGoals {
		if len(overdueExamples) == maxExamples {
			break
		}
		days := int(dateOf(asOf).Sub(dateOf(g.TargetDate)).Hours() / 24)
		overdueExamples = append(overdueExamples, fmt.Sprintf("%s (%d days overdue)", g.Title, days))
	}

	checkpointTotal := len(checkpoints)
	checkpointDone := 0
	for _, c := range checkpoints {
		if c.Completed {
			checkpointDone++
		}
	}

	avgCompletionDays := 0.0
	if completionDaysCount > 0 {
		avgCompletionDays = round1(completionDaysSum / float64(completionDaysCount))
	}

	return Metrics{
		"total_goals":                total,
		"completed_goals":            completed,
		"in_progress_goals":          inProgress,
		"overdue_goals":              overdue,
		"goal_completion_rate":       rate(completed, total),
		"avg_completion_days":        avgCompletionDays,
		"on_time_completion_rate":    rate(onTime, datedCompletions),
		"goals_by_priority":          formatBreakdown(byPriority),
		"goals_by_category":          formatBreakdown(byCategory),
		"completed_goal_examples":    completedExamples,
		"overdue_goal_examples":      overdueExamples,
		"total_checkpoints":          checkpointTotal,
		"completed_checkpoints":      checkpointDone,
		"checkpoint_completion_rate": rate(checkpointDone, checkpointTotal),
	}
}

func computeFeedbackMetrics(rows []Feedback, w Window) Metrics {
	var entries []Feedback
	for _, f := range rows {
		if w.Contains(f.GivenAt) {
			entries = append(entries, f)
		}
	}

	byType := map[string]int{}
	var ratingSum float64
	rated := 0
	for _, f := range entries {
		byType[f.Type]++
		if f.Rating != nil {
			ratingSum += *f.Rating
			rated++
		}
	}
	avgRating := 0.0
	if rated > 0 {
		avgRating = round1(ratingSum / float64(rated))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].GivenAt.After(entries[j].GivenAt)
	})
	var examples []FeedbackExample
	for _, f := range entries {
		if len(examples) == maxExamples {
			break
		}
		examples = append(examples, FeedbackExample{
			Subject: f.Subject,
			Rating:  f.Rating,
			Type:    f.Type,
			Author:  f.AuthorName,
			Date:    f.GivenAt.Format("2006-01-02"),
		})
	}

	return Metrics{
		"total_feedback":           len(entries),
		"avg_feedback_rating":      avgRating,
		"feedback_by_type":         byType,
		"recent_feedback_examples": examples,
	}
}

func computeAttendanceMetrics(rows []AttendanceRecord, w Window) Metrics {
	total := 0
	present := 0
	absent := 0
	wfh := 0
	for _, r := range rows {
		if !w.Contains(r.Day) {
			continue
		}
		total++
		switch r.Status {
		case AttendancePresent:
			present++
		case AttendanceAbsent:
			absent++
		case AttendanceWFH:
			wfh++
		}
	}
	return Metrics{
		"total_attendance_records": total,
		"present_days":             present,
		"absent_days":              absent,
		"wfh_days":                 wfh,
		"attendance_rate":          rate(present+wfh, total),
	}
}

// computeTrainingMetrics intentionally filters the two counts on different
// date fields: completions by completion date in window, enrollments by
// start date in window.
func computeTrainingMetrics(rows []Enrollment, w Window) Metrics {
	completed := 0
	enrolled := 0
	skillSet := map[string]bool{}
	for _, e := range rows {
		if e.CompletedAt != nil && w.Contains(*e.CompletedAt) {
			completed++
			if e.SkillArea != "" {
				skillSet[e.SkillArea] = true
			}
		}
		if w.Contains(e.StartedAt) {
			enrolled++
		}
	}
	skills := make([]string, 0, len(skillSet))
	for s := range skillSet {
		skills = append(skills, s)
	}
	sort.Strings(skills)
	return Metrics{
		"trainings_completed":      completed,
		"trainings_enrolled":       enrolled,
		"training_completion_rate": rate(completed, enrolled),
		"skills_acquired":          skills,
	}
}

func computeCollaborationMetrics(rows []GoalComment, w Window) Metrics {
	byCategory := map[string]int{}
	total := 0
	for _, c := range rows {
		if !w.Contains(c.CreatedAt) {
			continue
		}
		total++
		byCategory[c.Category]++
	}
	return Metrics{
		"total_comments":       total,
		"comments_by_category": byCategory,
	}
}

func rate(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return round1(float64(numerator) / float64(denominator) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func metricInt(m Metrics, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func metricFloat(m Metrics, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}
