package analytics

import (
	"strings"
	"testing"
)

func sufficiencyInput(goals, feedback, attendance int) Metrics {
	return Metrics{
		"total_goals":              goals,
		"total_feedback":           feedback,
		"total_attendance_records": attendance,
	}
}

func TestAssessSufficiencyTiers(t *testing.T) {
	cases := []struct {
		goals, feedback, attendance int
		want                        string
	}{
		{10, 10, 30, TierSufficient},   // 50 points, boundary
		{10, 10, 31, TierSufficient},   // 51 points
		{10, 9, 30, TierLimited},       // 49 points, boundary
		{5, 5, 10, TierLimited},        // 20 points, boundary
		{5, 4, 10, TierInsufficient},   // 19 points, boundary
		{0, 0, 0, TierInsufficient},    // nothing at all
	}
	for _, tc := range cases {
		got := AssessSufficiency(sufficiencyInput(tc.goals, tc.feedback, tc.attendance))
		if got.Tier != tc.want {
			t.Fatalf("(%d,%d,%d): tier = %q, want %q", tc.goals, tc.feedback, tc.attendance, got.Tier, tc.want)
		}
	}
}

func TestAssessSufficiencyWarningsIndependent(t *testing.T) {
	// High enough total for the sufficient tier, but goals and feedback are
	// each below their own minimum; both warnings must appear.
	result := AssessSufficiency(sufficiencyInput(2, 1, 60))
	if result.Tier != TierSufficient {
		t.Fatalf("tier = %q, want %q", result.Tier, TierSufficient)
	}
	if len(result.Warnings) != 2 {
		t.Fatalf("warnings = %v, want exactly two", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], "goals") {
		t.Fatalf("warnings[0] = %q, want a goals warning", result.Warnings[0])
	}
	if !strings.Contains(result.Warnings[1], "feedback") {
		t.Fatalf("warnings[1] = %q, want a feedback warning", result.Warnings[1])
	}
}

func TestAssessSufficiencyNoWarnings(t *testing.T) {
	result := AssessSufficiency(sufficiencyInput(5, 3, 45))
	if result.Tier != TierSufficient {
		t.Fatalf("tier = %q, want %q", result.Tier, TierSufficient)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("warnings = %v, want none", result.Warnings)
	}
}

func TestAssessSufficiencyLimitedTierWarning(t *testing.T) {
	// 10 + 3 + 20 = 33 points: limited tier plus the tier warning itself.
	result := AssessSufficiency(sufficiencyInput(10, 3, 20))
	if result.Tier != TierLimited {
		t.Fatalf("tier = %q, want %q", result.Tier, TierLimited)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("warnings = %v, want the tier warning only", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], "33 data points") {
		t.Fatalf("warnings[0] = %q, want the point count", result.Warnings[0])
	}
}
