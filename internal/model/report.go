package model

import "time"

// DateRange is an inclusive range of calendar dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Bounds returns the half-open instant range [from, to) covering the
// calendar dates of r in loc.
func (r DateRange) Bounds(loc *time.Location) (from, to time.Time) {
	sy, sm, sd := r.Start.Date()
	ey, em, ed := r.End.Date()
	from = time.Date(sy, sm, sd, 0, 0, 0, 0, loc)
	to = time.Date(ey, em, ed, 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	return from, to
}

// DefaultReportRange is used when a report request leaves the range open
func DefaultReportRange() DateRange {
	return DateRange{
		Start: time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// SportCount is the number of sessions scheduled for one sport
type SportCount struct {
	Name  string `db:"name"`
	Count int    `db:"session_count"`
}

// Report aggregates sessions scheduled within a date range
type Report struct {
	Range           DateRange
	TotalSessions   int
	SportPopularity []SportCount
}
