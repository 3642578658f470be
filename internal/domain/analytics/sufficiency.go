package analytics

import "fmt"

const (
	sufficientPoints = 50
	limitedPoints    = 20

	minGoals      = 3
	minFeedback   = 2
	minAttendance = 10
)

// AssessSufficiency classifies how much underlying data backs a metrics map.
// It reads counts already present in the map and never mutates it. Low data
// is reported through warnings, not errors: a low-confidence report is still
// a report.
func AssessSufficiency(m Metrics) Sufficiency {
	goals := metricInt(m, "total_goals")
	feedback := metricInt(m, "total_feedback")
	attendance := metricInt(m, "total_attendance_records")
	points := goals + feedback + attendance

	var result Sufficiency
	switch {
	case points >= sufficientPoints:
		result.Tier = TierSufficient
	case points >= limitedPoints:
		result.Tier = TierLimited
		result.Warnings = append(result.Warnings, fmt.Sprintf("limited data available (%d data points); treat conclusions with caution", points))
	default:
		result.Tier = TierInsufficient
		result.Warnings = append(result.Warnings, fmt.Sprintf("insufficient data (%d data points); the report may not be representative", points))
	}

	if goals < minGoals {
		result.Warnings = append(result.Warnings, fmt.Sprintf("fewer than %d goals in the period", minGoals))
	}
	if feedback < minFeedback {
		result.Warnings = append(result.Warnings, fmt.Sprintf("fewer than %d feedback entries in the period", minFeedback))
	}
	if attendance < minAttendance {
		result.Warnings = append(result.Warnings, fmt.Sprintf("fewer than %d attendance records in the period", minAttendance))
	}
	return result
}
