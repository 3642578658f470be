package analytics

type Period string

const (
	PeriodLastWeek       Period = "last_week"
	PeriodLastMonth      Period = "last_month"
	PeriodLast90Days     Period = "last_90_days"
	PeriodLastYear       Period = "last_year"
	PeriodCurrentQuarter Period = "current_quarter"
	PeriodLastQuarter    Period = "last_quarter"
	PeriodCustom         Period = "custom"
)

type Scope string

const (
	ScopeEmployee     Scope = "employee"
	ScopeTeam         Scope = "team"
	ScopeDepartment   Scope = "department"
	ScopeOrganization Scope = "organization"
)

const (
	GoalStatusCompleted  = "completed"
	GoalStatusInProgress = "in_progress"
	GoalStatusNotStarted = "not_started"
)

const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceWFH     = "wfh"
	AttendanceLeave   = "leave"
)

const (
	CommentQuestion  = "question"
	CommentBlocker   = "blocker"
	CommentMilestone = "milestone"
	CommentUpdate    = "update"
)

const (
	TierSufficient   = "sufficient"
	TierLimited      = "limited"
	TierInsufficient = "insufficient"
)

const (
	StatusHighPerforming = "high_performing"
	StatusNeedsSupport   = "needs_support"
	StatusPerformingWell = "performing_well"
	StatusAverage        = "average"
)

const (
	TemplateQuickSummary        = "quick_summary"
	TemplateStandardReview      = "standard_review"
	TemplateComprehensiveReview = "comprehensive_review"
	TemplateGoalFocused         = "goal_focused"
)

// Metric groups are the selectable units of a report template. Each group
// maps to the aggregator that produces its keys.
const (
	GroupGoalsSummary     = "goals_summary"
	GroupGoalsBreakdowns  = "goals_breakdowns"
	GroupGoalsExamples    = "goals_examples"
	GroupCheckpoints      = "checkpoints"
	GroupFeedback         = "feedback"
	GroupFeedbackExamples = "feedback_examples"
	GroupAttendance       = "attendance"
	GroupTraining         = "training"
	GroupSkills           = "skills"
	GroupCollaboration    = "collaboration"
	GroupComparisons      = "comparisons"
)

const (
	aggregatorGoals         = "goals"
	aggregatorFeedback      = "feedback"
	aggregatorAttendance    = "attendance"
	aggregatorTraining      = "training"
	aggregatorCollaboration = "collaboration"
)

var templateGroups = map[string][]string{
	TemplateQuickSummary: {
		GroupGoalsSummary,
		GroupFeedback,
		GroupAttendance,
	},
	TemplateStandardReview: {
		GroupGoalsSummary,
		GroupGoalsBreakdowns,
		GroupGoalsExamples,
		GroupFeedback,
		GroupFeedbackExamples,
		GroupAttendance,
	},
	TemplateComprehensiveReview: {
		GroupGoalsSummary,
		GroupGoalsBreakdowns,
		GroupGoalsExamples,
		GroupCheckpoints,
		GroupFeedback,
		GroupFeedbackExamples,
		GroupAttendance,
		GroupTraining,
		GroupSkills,
		GroupCollaboration,
		GroupComparisons,
	},
	TemplateGoalFocused: {
		GroupGoalsSummary,
		GroupGoalsBreakdowns,
		GroupGoalsExamples,
		GroupCheckpoints,
	},
}

var groupAggregators = map[string]string{
	GroupGoalsSummary:     aggregatorGoals,
	GroupGoalsBreakdowns:  aggregatorGoals,
	GroupGoalsExamples:    aggregatorGoals,
	GroupCheckpoints:      aggregatorGoals,
	GroupFeedback:         aggregatorFeedback,
	GroupFeedbackExamples: aggregatorFeedback,
	GroupAttendance:       aggregatorAttendance,
	GroupTraining:         aggregatorTraining,
	GroupSkills:           aggregatorTraining,
	GroupCollaboration:    aggregatorCollaboration,
	// GroupComparisons is produced by the comparison overlays, not an
	// aggregator.
}

// MetricGroupsFor returns the ordered metric groups for a report. A custom
// list overrides the template; unknown group names are dropped. An unknown
// template name selects the standard review set rather than failing.
func MetricGroupsFor(template string, custom []string) []string {
	if len(custom) > 0 {
		groups := make([]string, 0, len(custom))
		for _, g := range custom {
			if _, ok := groupAggregators[g]; ok || g == GroupComparisons {
				groups = append(groups, g)
			}
		}
		if len(groups) > 0 {
			return groups
		}
	}
	switch template {
	case TemplateQuickSummary, TemplateStandardReview, TemplateComprehensiveReview, TemplateGoalFocused:
		return templateGroups[template]
	default:
		return templateGroups[TemplateStandardReview]
	}
}

// aggregatorsFor maps metric groups to the distinct aggregators to run,
// preserving first-seen order.
func aggregatorsFor(groups []string) []string {
	seen := map[string]bool{}
	var aggs []string
	for _, g := range groups {
		name, ok := groupAggregators[g]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		aggs = append(aggs, name)
	}
	return aggs
}
