package analytics

import (
	"fmt"
	"time"
)

// ResolvePeriod converts a period selector into a concrete window relative
// to asOf. Custom periods require both explicit dates. Every other selector
// ends on asOf except last_quarter, which ends on the last calendar day of
// the previous quarter. An unrecognized selector deliberately resolves to
// the last 90 days instead of failing.
func ResolvePeriod(selector Period, explicitStart, explicitEnd *time.Time, asOf time.Time) (Window, error) {
	today := dateOf(asOf)

	switch selector {
	case PeriodCustom:
		if explicitStart == nil || explicitEnd == nil {
			return Window{}, ErrInvalidPeriod
		}
		start := dateOf(*explicitStart)
		end := dateOf(*explicitEnd)
		if end.Before(start) {
			return Window{}, fmt.Errorf("%w: end date before start date", ErrInvalidPeriod)
		}
		return Window{Start: start, End: end, Label: rangeLabel("Custom Period", start, end)}, nil
	case PeriodLastWeek:
		start := today.AddDate(0, 0, -7)
		return Window{Start: start, End: today, Label: rangeLabel("Last 7 Days", start, today)}, nil
	case PeriodLastMonth:
		start := today.AddDate(0, 0, -30)
		return Window{Start: start, End: today, Label: rangeLabel("Last 30 Days", start, today)}, nil
	case PeriodLastYear:
		start := today.AddDate(0, 0, -365)
		return Window{Start: start, End: today, Label: rangeLabel("Last 12 Months", start, today)}, nil
	case PeriodCurrentQuarter:
		quarter := (int(today.Month()) - 1) / 3
		start := time.Date(today.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, time.UTC)
		return Window{Start: start, End: today, Label: rangeLabel(quarterName(today.Year(), quarter), start, today)}, nil
	case PeriodLastQuarter:
		year := today.Year()
		quarter := (int(today.Month())-1)/3 - 1
		if quarter < 0 {
			quarter = 3
			year--
		}
		start := time.Date(year, time.Month(quarter*3+1), 1, 0, 0, 0, 0, time.UTC)
		var end time.Time
		if quarter == 3 {
			end = time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
		} else {
			end = time.Date(year, time.Month(quarter*3+4), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
		}
		return Window{Start: start, End: end, Label: rangeLabel(quarterName(year, quarter), start, end)}, nil
	case PeriodLast90Days:
		// fall through to the default window below
	default:
		// Unknown selectors resolve to the default window by policy.
	}

	start := today.AddDate(0, 0, -90)
	return Window{Start: start, End: today, Label: rangeLabel("Last 90 Days", start, today)}, nil
}

// PreviousWindow returns the window of identical day-length immediately
// preceding w.
func PreviousWindow(w Window) Window {
	days := int(dateOf(w.End).Sub(dateOf(w.Start)).Hours() / 24)
	end := dateOf(w.Start).AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -days)
	return Window{Start: start, End: end, Label: rangeLabel("Previous Period", start, end)}
}

func rangeLabel(name string, start, end time.Time) string {
	return fmt.Sprintf("%s (%s to %s)", name, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

func quarterName(year, quarter int) string {
	return fmt.Sprintf("Q%d %d", quarter+1, year)
}
