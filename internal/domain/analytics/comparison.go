package analytics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

type peerStats struct {
	completionRate float64
	hasGoals       bool
	avgRating      float64
	hasRating      bool
	attendanceRate float64
	hasAttendance  bool
}

// TeamComparison computes team-average baselines from the subject's active
// team peers and signed deltas against the subject's own metrics. Peers with
// no data for a dimension are excluded from that dimension's average rather
// than counted as zero. Returns nil when the subject has no team or no
// peers; the overlay is strictly additive.
func (e *Engine) TeamComparison(ctx context.Context, subject Employee, w Window, subjectMetrics Metrics, asOf time.Time) (Metrics, error) {
	if subject.TeamID == "" {
		return nil, nil
	}
	members, err := e.Source.TeamMembers(ctx, subject.TeamID)
	if err != nil {
		return nil, err
	}
	var peers []Employee
	for _, m := range members {
		if m.ID != subject.ID {
			peers = append(peers, m)
		}
	}
	if len(peers) == 0 {
		return nil, nil
	}

	stats := make([]peerStats, len(peers))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(e.Workers)
	for i, peer := range peers {
		i, peer := i, peer
		group.Go(func() error {
			goals, err := e.AggregateGoals(gctx, peer.ID, w, asOf)
			if err != nil {
				return err
			}
			feedback, err := e.AggregateFeedback(gctx, peer.ID, w)
			if err != nil {
				return err
			}
			attendance, err := e.AggregateAttendance(gctx, peer.ID, w)
			if err != nil {
				return err
			}

			var s peerStats
			if metricInt(goals, "total_goals") > 0 {
				s.hasGoals = true
				s.completionRate, _ = metricFloat(goals, "goal_completion_rate")
			}
			if avg, _ := metricFloat(feedback, "avg_feedback_rating"); metricInt(feedback, "total_feedback") > 0 && avg > 0 {
				s.hasRating = true
				s.avgRating = avg
			}
			if metricInt(attendance, "total_attendance_records") > 0 {
				s.hasAttendance = true
				s.attendanceRate, _ = metricFloat(attendance, "attendance_rate")
			}
			stats[i] = s
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	overlay := Metrics{"team_peer_count": len(peers)}

	var completionSum, ratingSum, attendanceSum float64
	completionN, ratingN, attendanceN := 0, 0, 0
	for _, s := range stats {
		if s.hasGoals {
			completionSum += s.completionRate
			completionN++
		}
		if s.hasRating {
			ratingSum += s.avgRating
			ratingN++
		}
		if s.hasAttendance {
			attendanceSum += s.attendanceRate
			attendanceN++
		}
	}

	if completionN > 0 {
		avg := round1(completionSum / float64(completionN))
		overlay["team_avg_completion_rate"] = avg
		if own, ok := metricFloat(subjectMetrics, "goal_completion_rate"); ok {
			overlay["completion_vs_team"] = round1(own - avg)
		}
	}
	if ratingN > 0 {
		avg := round1(ratingSum / float64(ratingN))
		overlay["team_avg_feedback_rating"] = avg
		if own, ok := metricFloat(subjectMetrics, "avg_feedback_rating"); ok {
			overlay["rating_vs_team"] = round1(own - avg)
		}
	}
	if attendanceN > 0 {
		avg := round1(attendanceSum / float64(attendanceN))
		overlay["team_avg_attendance_rate"] = avg
		if own, ok := metricFloat(subjectMetrics, "attendance_rate"); ok {
			overlay["attendance_vs_team"] = round1(own - avg)
		}
	}
	return overlay, nil
}

// PeriodComparison re-aggregates goals and feedback over the window of
// identical length immediately preceding w and emits the previous values
// with signed trend deltas.
func (e *Engine) PeriodComparison(ctx context.Context, employeeID string, w Window, subjectMetrics Metrics, asOf time.Time) (Metrics, error) {
	prev := PreviousWindow(w)

	goals, err := e.AggregateGoals(ctx, employeeID, prev, asOf)
	if err != nil {
		return nil, err
	}
	feedback, err := e.AggregateFeedback(ctx, employeeID, prev)
	if err != nil {
		return nil, err
	}

	overlay := Metrics{"previous_period": prev.Label}

	prevCompletion, _ := metricFloat(goals, "goal_completion_rate")
	overlay["previous_completion_rate"] = prevCompletion
	if own, ok := metricFloat(subjectMetrics, "goal_completion_rate"); ok {
		overlay["completion_trend"] = round1(own - prevCompletion)
	}

	prevRating, _ := metricFloat(feedback, "avg_feedback_rating")
	overlay["previous_avg_rating"] = prevRating
	if own, ok := metricFloat(subjectMetrics, "avg_feedback_rating"); ok {
		overlay["rating_trend"] = round1(own - prevRating)
	}
	return overlay, nil
}
