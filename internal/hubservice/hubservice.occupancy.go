package hubservice

import (
	"context"
	"time"

	"github.com/itsatony/headcount/internal/models"
)

// OccupancyTotals is the totals view handed to the presentation layer.
type OccupancyTotals struct {
	CameraIDs []int64            `json:"camera_ids"`
	From      time.Time          `json:"from"`
	To        time.Time          `json:"to"`
	In        int64              `json:"in"`
	Out       int64              `json:"out"`
	Present   int64              `json:"present"`
	Outcome   models.ReadOutcome `json:"outcome"`
}

func newOccupancyTotals(ids []int64, from, to time.Time, totals models.Totals, outcome models.ReadOutcome) OccupancyTotals {
	return OccupancyTotals{
		CameraIDs: ids,
		From:      from,
		To:        to,
		In:        totals.In,
		Out:       totals.Out,
		Present:   totals.Present(),
		Outcome:   outcome,
	}
}

func (s *HubService) Totals(ctx context.Context, cameraIDs []int64, from, to time.Time) OccupancyTotals {
	totals, outcome := s.Aggregator.Totals(ctx, cameraIDs, from, to)
	return newOccupancyTotals(cameraIDs, from, to, totals, outcome)
}

// CurrentOccupancy covers local midnight up to now.
func (s *HubService) CurrentOccupancy(ctx context.Context, cameraIDs []int64) OccupancyTotals {
	now := s.Now()
	totals, outcome := s.Aggregator.CurrentOccupancy(ctx, cameraIDs, now)
	y, m, d := now.Date()
	return newOccupancyTotals(cameraIDs, time.Date(y, m, d, 0, 0, 0, 0, s.location), now, totals, outcome)
}

// ScheduleOccupancy scopes the totals to a schedule's window on date; a zero date means today.
func (s *HubService) ScheduleOccupancy(ctx context.Context, scheduleID int64, date time.Time) (models.Totals, models.ReadOutcome) {
	if date.IsZero() {
		date = s.Now()
	}
	return s.Aggregator.ScheduleTotals(ctx, scheduleID, date)
}

func (s *HubService) Hourly(ctx context.Context, cameraIDs []int64, date time.Time) ([]models.HourlyCount, models.ReadOutcome) {
	if date.IsZero() {
		date = s.Now()
	}
	return s.Aggregator.Hourly(ctx, cameraIDs, date)
}

func (s *HubService) Intervals(ctx context.Context, cameraIDs []int64, start time.Time, intervalMinutes, count int) ([]models.IntervalCount, models.ReadOutcome) {
	return s.Aggregator.Intervals(ctx, cameraIDs, start, intervalMinutes, count)
}
