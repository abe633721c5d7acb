// FilePath: internal/schedule/schedule.go
package schedule

import (
	"time"

	"github.com/itsatony/headcount/internal/models"
)

// Project maps the schedule's time-of-day onto the calendar date of date in loc.
func Project(s *models.Schedule, date time.Time, loc *time.Location) (start, end time.Time) {
	y, m, d := date.In(loc).Date()
	hour, min, sec := s.TimeOfDay(loc)
	start = time.Date(y, m, d, hour, min, sec, 0, loc)
	return start, start.Add(s.Duration())
}

// Status evaluates the schedule on date at instant now. Both ends of the
// projected window count as active.
//
// When date is not now's calendar day the state comes from the date alone:
// an earlier day is completed, a later one upcoming. Start and End are still
// the projected instants for that date.
func Status(s *models.Schedule, date, now time.Time, loc *time.Location) models.ScheduleStatus {
	start, end := Project(s, date, loc)
	status := models.ScheduleStatus{Start: start, End: end}

	switch cmp := compareDays(date, now, loc); {
	case cmp < 0:
		status.State = models.ScheduleCompleted
		return status
	case cmp > 0:
		status.State = models.ScheduleUpcoming
		return status
	}

	switch {
	case now.Before(start):
		status.State = models.ScheduleUpcoming
	case !now.After(end):
		status.State = models.ScheduleActive
		status.Remaining = end.Sub(now)
	default:
		status.State = models.ScheduleCompleted
	}
	return status
}

// Overlaps is half-open interval overlap; touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return compareDays(a, b, loc) == 0
}

func compareDays(a, b time.Time, loc *time.Location) int {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC).Compare(time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC))
}
