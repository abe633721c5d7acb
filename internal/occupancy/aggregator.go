package occupancy

import (
	"context"
	"time"

	"github.com/itsatony/headcount/internal/errors"
	"github.com/itsatony/headcount/internal/models"
	"github.com/itsatony/headcount/internal/schedule"
	nuts "github.com/vaudience/go-nuts"
)

// ObservationReader sums observations with from <= start_time < to.
type ObservationReader interface {
	SumRange(ctx context.Context, cameraIDs []int64, from, to time.Time) (models.Totals, error)
}

type ScheduleGetter interface {
	Get(ctx context.Context, id int64) (*models.CameraSchedule, error)
}

// Aggregator computes totals and breakdowns over the occupancy store. Every
// breakdown is the Totals primitive applied per slice.
type Aggregator struct {
	observations ObservationReader
	schedules    ScheduleGetter
	location     *time.Location
}

func NewAggregator(observations ObservationReader, schedules ScheduleGetter, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{
		observations: observations,
		schedules:    schedules,
		location:     loc,
	}
}

// Totals sums in/out for the cameras over [from, to). Invalid input returns
// zero totals without touching storage.
func (a *Aggregator) Totals(ctx context.Context, cameraIDs []int64, from, to time.Time) (models.Totals, models.ReadOutcome) {
	ids := validIDs(cameraIDs)
	if len(ids) == 0 || !from.Before(to) {
		return models.Totals{}, models.ReadEmpty
	}
	return a.sum(ctx, ids, from, to)
}

// Hourly returns 24 entries for the local calendar day of date, zero-filled for empty hours.
func (a *Aggregator) Hourly(ctx context.Context, cameraIDs []int64, date time.Time) ([]models.HourlyCount, models.ReadOutcome) {
	hours := make([]models.HourlyCount, 24)
	for h := range hours {
		hours[h].Hour = h
	}

	ids := validIDs(cameraIDs)
	if len(ids) == 0 {
		return hours, models.ReadEmpty
	}

	y, m, d := date.In(a.location).Date()
	for h := range hours {
		from := time.Date(y, m, d, h, 0, 0, 0, a.location)
		to := time.Date(y, m, d, h+1, 0, 0, 0, a.location)
		if !from.Before(to) {
			// hour skipped by a DST change
			continue
		}
		totals, outcome := a.sum(ctx, ids, from, to)
		if outcome.Degraded() {
			return []models.HourlyCount{}, outcome
		}
		hours[h].In, hours[h].Out = totals.In, totals.Out
	}
	return hours, models.ReadOK
}

// Intervals splits [start, start+count*intervalMinutes) into count slices.
func (a *Aggregator) Intervals(ctx context.Context, cameraIDs []int64, start time.Time, intervalMinutes, count int) ([]models.IntervalCount, models.ReadOutcome) {
	if intervalMinutes <= 0 || count <= 0 {
		return []models.IntervalCount{}, models.ReadEmpty
	}

	step := time.Duration(intervalMinutes) * time.Minute
	slices := make([]models.IntervalCount, count)
	for i := range slices {
		slices[i].Start = start.Add(time.Duration(i) * step)
		slices[i].End = slices[i].Start.Add(step)
	}

	ids := validIDs(cameraIDs)
	if len(ids) == 0 {
		return slices, models.ReadEmpty
	}

	for i := range slices {
		totals, outcome := a.sum(ctx, ids, slices[i].Start, slices[i].End)
		if outcome.Degraded() {
			return []models.IntervalCount{}, outcome
		}
		slices[i].In, slices[i].Out = totals.In, totals.Out
	}
	return slices, models.ReadOK
}

// ScheduleTotals sums the schedule's camera over the schedule's window projected onto date.
func (a *Aggregator) ScheduleTotals(ctx context.Context, scheduleID int64, date time.Time) (models.Totals, models.ReadOutcome) {
	if scheduleID <= 0 {
		return models.Totals{}, models.ReadNotFound
	}
	s, err := a.schedules.Get(ctx, scheduleID)
	if err != nil {
		if errors.IsNotFound(err) {
			return models.Totals{}, models.ReadNotFound
		}
		nuts.L.Warnf("[Occupancy] Loading schedule %d failed: %v", scheduleID, err)
		return models.Totals{}, models.ReadStorageFailure
	}
	start, end := schedule.Project(&s.Schedule, date, a.location)
	return a.Totals(ctx, []int64{s.CameraID}, start, end)
}

// CurrentOccupancy sums the cameras from local midnight of now up to now.
func (a *Aggregator) CurrentOccupancy(ctx context.Context, cameraIDs []int64, now time.Time) (models.Totals, models.ReadOutcome) {
	y, m, d := now.In(a.location).Date()
	return a.Totals(ctx, cameraIDs, time.Date(y, m, d, 0, 0, 0, 0, a.location), now)
}

func (a *Aggregator) sum(ctx context.Context, ids []int64, from, to time.Time) (models.Totals, models.ReadOutcome) {
	totals, err := a.observations.SumRange(ctx, ids, from, to)
	if err != nil {
		nuts.L.Warnf("[Occupancy] Sum over [%d, %d) degraded: %v", from.Unix(), to.Unix(), err)
		return models.Totals{}, models.ReadStorageFailure
	}
	return totals, models.ReadOK
}

// validIDs drops non-positive and repeated ids
func validIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
