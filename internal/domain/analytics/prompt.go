package analytics

import (
	"fmt"
	"sort"
	"strings"
)

// PromptInput is everything the narrative provider needs to know about one
// report: the subject, the window, the selected metric sections and their
// values, and how much data backs them.
type PromptInput struct {
	Scope       Scope
	SubjectName string
	Window      Window
	Groups      []string
	Metrics     Metrics
	Members     []MemberSummary
	Departments []DepartmentSummary
	Sufficiency Sufficiency
}

// BuildPromptContext renders the report data as labeled sections framed by a
// reviewer persona and explicit formatting instructions. The provider only
// ever sees this string; it has no access to the data store.
func BuildPromptContext(in PromptInput) string {
	var b strings.Builder

	b.WriteString("You are an experienced HR performance analyst. Write a performance narrative based strictly on the data below. ")
	b.WriteString("Do not invent numbers, names or events that are not present in the data.\n\n")

	switch in.Scope {
	case ScopeTeam:
		fmt.Fprintf(&b, "Report type: team performance review\nTeam: %s\n", in.SubjectName)
	case ScopeDepartment:
		fmt.Fprintf(&b, "Report type: department performance review\nDepartment: %s\n", in.SubjectName)
	case ScopeOrganization:
		b.WriteString("Report type: organization performance review\n")
	default:
		fmt.Fprintf(&b, "Report type: individual performance review\nEmployee: %s\n", in.SubjectName)
	}
	fmt.Fprintf(&b, "Period: %s\n\n", in.Window.Label)

	for _, group := range in.Groups {
		writeGroupSection(&b, group, in.Metrics)
	}

	if in.Scope == ScopeTeam || in.Scope == ScopeDepartment {
		writeTeamExtras(&b, in.Metrics)
		writeMemberSection(&b, in.Members)
	}
	if in.Scope == ScopeOrganization {
		writeOrgExtras(&b, in.Metrics)
		writeDepartmentSection(&b, in.Departments)
	}

	fmt.Fprintf(&b, "## Data Sufficiency\nTier: %s\n", in.Sufficiency.Tier)
	for _, warning := range in.Sufficiency.Warnings {
		fmt.Fprintf(&b, "Warning: %s\n", warning)
	}
	b.WriteString("\n")

	b.WriteString("Instructions: write 3 to 4 short paragraphs in a professional, constructive tone. ")
	b.WriteString("Open with overall performance, then cover strengths, then areas to improve. ")
	b.WriteString("If the data sufficiency tier is limited or insufficient, say so explicitly and qualify your conclusions. ")
	b.WriteString("Do not use bullet points or headings in your answer.\n")

	return b.String()
}

func writeGroupSection(b *strings.Builder, group string, m Metrics) {
	switch group {
	case GroupGoalsSummary:
		b.WriteString("## Goals\n")
		writeLine(b, "Total goals", m, "total_goals")
		writeLine(b, "Completed", m, "completed_goals")
		writeLine(b, "In progress", m, "in_progress_goals")
		writeLine(b, "Overdue", m, "overdue_goals")
		writePercent(b, "Completion rate", m, "goal_completion_rate")
		writePercent(b, "On-time completion rate", m, "on_time_completion_rate")
		writeLine(b, "Average days to complete", m, "avg_completion_days")
	case GroupGoalsBreakdowns:
		b.WriteString("## Goal Breakdowns\n")
		writeStringMap(b, "By priority", m, "goals_by_priority")
		writeStringMap(b, "By category", m, "goals_by_category")
	case GroupGoalsExamples:
		b.WriteString("## Goal Examples\n")
		writeStringList(b, "Recently completed", m, "completed_goal_examples")
		writeStringList(b, "Overdue", m, "overdue_goal_examples")
	case GroupCheckpoints:
		b.WriteString("## Checkpoints\n")
		writeLine(b, "Total checkpoints", m, "total_checkpoints")
		writeLine(b, "Completed checkpoints", m, "completed_checkpoints")
		writePercent(b, "Checkpoint completion rate", m, "checkpoint_completion_rate")
	case GroupFeedback:
		b.WriteString("## Feedback\n")
		writeLine(b, "Feedback entries", m, "total_feedback")
		writeLine(b, "Average rating", m, "avg_feedback_rating")
		writeIntMap(b, "By type", m, "feedback_by_type")
	case GroupFeedbackExamples:
		b.WriteString("## Recent Feedback\n")
		if examples, ok := m["recent_feedback_examples"].([]FeedbackExample); ok {
			for _, ex := range examples {
				if ex.Rating != nil {
					fmt.Fprintf(b, "- %q (%s, rated %.1f) by %s on %s\n", ex.Subject, ex.Type, *ex.Rating, ex.Author, ex.Date)
				} else {
					fmt.Fprintf(b, "- %q (%s) by %s on %s\n", ex.Subject, ex.Type, ex.Author, ex.Date)
				}
			}
		}
	case GroupAttendance:
		b.WriteString("## Attendance\n")
		writeLine(b, "Records", m, "total_attendance_records")
		writeLine(b, "Present days", m, "present_days")
		writeLine(b, "Work-from-home days", m, "wfh_days")
		writeLine(b, "Absent days", m, "absent_days")
		writePercent(b, "Attendance rate", m, "attendance_rate")
	case GroupTraining:
		b.WriteString("## Training\n")
		writeLine(b, "Enrollments started", m, "trainings_enrolled")
		writeLine(b, "Modules completed", m, "trainings_completed")
		writePercent(b, "Completion rate", m, "training_completion_rate")
	case GroupSkills:
		b.WriteString("## Skills\n")
		writeStringList(b, "Skill areas acquired", m, "skills_acquired")
	case GroupCollaboration:
		b.WriteString("## Collaboration\n")
		writeLine(b, "Goal comments", m, "total_comments")
		writeIntMap(b, "By category", m, "comments_by_category")
	case GroupComparisons:
		b.WriteString("## Comparisons\n")
		writePercent(b, "Team average completion rate", m, "team_avg_completion_rate")
		writeSigned(b, "Completion vs team", m, "completion_vs_team")
		writeLine(b, "Team average rating", m, "team_avg_feedback_rating")
		writeSigned(b, "Rating vs team", m, "rating_vs_team")
		writePercent(b, "Team average attendance", m, "team_avg_attendance_rate")
		writeSigned(b, "Attendance vs team", m, "attendance_vs_team")
		writeLine(b, "Previous period", m, "previous_period")
		writePercent(b, "Previous completion rate", m, "previous_completion_rate")
		writeSigned(b, "Completion trend", m, "completion_trend")
		writeLine(b, "Previous average rating", m, "previous_avg_rating")
		writeSigned(b, "Rating trend", m, "rating_trend")
	default:
		return
	}
	b.WriteString("\n")
}

func writeTeamExtras(b *strings.Builder, m Metrics) {
	b.WriteString("## Team Rollup\n")
	writeLine(b, "Team size", m, "team_size")
	writeLine(b, "Headcount", m, "headcount")
	writeLine(b, "Collaboration level", m, "collaboration_score")
	b.WriteString("\n")
}

func writeOrgExtras(b *strings.Builder, m Metrics) {
	b.WriteString("## Organization Rollup\n")
	writeLine(b, "Departments", m, "total_departments")
	writeLine(b, "Employees", m, "total_employees")
	b.WriteString("\n")
}

func writeMemberSection(b *strings.Builder, members []MemberSummary) {
	if len(members) == 0 {
		return
	}
	b.WriteString("## Members (ranked by goal completion)\n")
	for _, m := range members {
		fmt.Fprintf(b, "- %s: %d/%d goals completed (%.1f%%), %d overdue, rating %.1f, attendance %.1f%%. Highlight: %s. Challenge: %s.\n",
			m.Name, m.CompletedGoals, m.TotalGoals, m.CompletionRate, m.OverdueGoals, m.AvgRating, m.AttendanceRate, m.Highlight, m.Challenge)
	}
	b.WriteString("\n")
}

func writeDepartmentSection(b *strings.Builder, departments []DepartmentSummary) {
	if len(departments) == 0 {
		return
	}
	b.WriteString("## Departments (ranked by goal completion)\n")
	for _, d := range departments {
		fmt.Fprintf(b, "- %s (%d people): %d/%d goals completed (%.1f%%), rating %.1f, attendance %.1f%%, status %s\n",
			d.Name, d.Headcount, d.CompletedGoals, d.TotalGoals, d.CompletionRate, d.AvgRating, d.AttendanceRate, d.Status)
	}
	b.WriteString("\n")
}

func writeLine(b *strings.Builder, label string, m Metrics, key string) {
	value, ok := m[key]
	if !ok {
		return
	}
	fmt.Fprintf(b, "%s: %v\n", label, value)
}

func writePercent(b *strings.Builder, label string, m Metrics, key string) {
	value, ok := metricFloat(m, key)
	if _, present := m[key]; !present || !ok {
		return
	}
	fmt.Fprintf(b, "%s: %.1f%%\n", label, value)
}

func writeSigned(b *strings.Builder, label string, m Metrics, key string) {
	value, ok := metricFloat(m, key)
	if _, present := m[key]; !present || !ok {
		return
	}
	fmt.Fprintf(b, "%s: %+.1f\n", label, value)
}

func writeStringList(b *strings.Builder, label string, m Metrics, key string) {
	items, ok := m[key].([]string)
	if !ok || len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", label)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func writeStringMap(b *strings.Builder, label string, m Metrics, key string) {
	values, ok := m[key].(map[string]string)
	if !ok || len(values) == 0 {
		return
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(b, "%s:\n", label)
	for _, k := range keys {
		fmt.Fprintf(b, "- %s: %s\n", k, values[k])
	}
}

func writeIntMap(b *strings.Builder, label string, m Metrics, key string) {
	values, ok := m[key].(map[string]int)
	if !ok || len(values) == 0 {
		return
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(b, "%s:\n", label)
	for _, k := range keys {
		fmt.Fprintf(b, "- %s: %d\n", k, values[k])
	}
}
