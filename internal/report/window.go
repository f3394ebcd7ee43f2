package report

import "time"

// Resolve maps "today" (plus an optional explicit start override) to the
// date window the automatic calendar logic selects. It is pure: no clock,
// file, or network access.
//
//   - explicitStart set: [explicitStart, today+1) so all of today is included
//     under the half-open convention.
//   - day of month <= 5: the run closes out the previous month, so the window
//     is [first of previous month, first of current month).
//   - otherwise: month-to-date, [first of current month, today+1).
func Resolve(today time.Time, explicitStart time.Time) DateWindow {
	today = truncateToDay(today)
	if !explicitStart.IsZero() {
		return DateWindow{Start: truncateToDay(explicitStart), End: today.AddDate(0, 0, 1)}
	}
	if today.Day() <= 5 {
		return DateWindow{Start: monthStart(today).AddDate(0, -1, 0), End: monthStart(today)}
	}
	return MonthToDate(today)
}

// MonthToDate returns [first of today's month, today+1).
func MonthToDate(today time.Time) DateWindow {
	today = truncateToDay(today)
	return DateWindow{Start: monthStart(today), End: today.AddDate(0, 0, 1)}
}

// PreviousMonthLastDay returns the last calendar day of the month preceding
// today's month. This is the date that keys the previous month's archive
// artifact.
func PreviousMonthLastDay(today time.Time) time.Time {
	return monthStart(truncateToDay(today)).AddDate(0, 0, -1)
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
