// FilePath: internal/schedule/evaluator.go
package schedule

import (
	"context"
	"time"

	"github.com/itsatony/headcount/internal/errors"
	"github.com/itsatony/headcount/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// ScheduleReader is the read side of the schedule registry.
type ScheduleReader interface {
	Get(ctx context.Context, id int64) (*models.CameraSchedule, error)
	List(ctx context.Context, cameraID int64) ([]*models.CameraSchedule, error)
}

// Evaluator answers status, active and conflict questions against the registry.
// Storage errors never leave the evaluator; each call reports a ReadOutcome instead.
type Evaluator struct {
	schedules ScheduleReader
	location  *time.Location
}

func NewEvaluator(schedules ScheduleReader, loc *time.Location) *Evaluator {
	if loc == nil {
		loc = time.UTC
	}
	return &Evaluator{
		schedules: schedules,
		location:  loc,
	}
}

func (e *Evaluator) Location() *time.Location {
	return e.location
}

// CurrentActive returns the first schedule, in registry order, that is active at now.
// cameraID 0 considers every camera.
//
// Overlapping active schedules are not ranked; the lowest id wins. This is kept
// for compatibility with existing dashboards and is likely not what users expect.
func (e *Evaluator) CurrentActive(ctx context.Context, cameraID int64, now time.Time) (*models.CameraSchedule, models.ReadOutcome) {
	if cameraID < 0 {
		return nil, models.ReadEmpty
	}
	schedules, err := e.schedules.List(ctx, cameraID)
	if err != nil {
		nuts.L.Warnf("[Schedule] Active lookup for camera %d degraded: %v", cameraID, err)
		return nil, models.ReadStorageFailure
	}
	for _, s := range schedules {
		if Status(&s.Schedule, now, now, e.location).State == models.ScheduleActive {
			return s, models.ReadOK
		}
	}
	return nil, models.ReadEmpty
}

// Conflicts returns every schedule, other than excludeID, whose window projected
// onto the proposed start's date overlaps [proposedStart, proposedStart+duration).
func (e *Evaluator) Conflicts(ctx context.Context, proposedStart time.Time, durationSeconds int64, excludeID int64) ([]*models.CameraSchedule, models.ReadOutcome) {
	if durationSeconds <= 0 {
		return nil, models.ReadEmpty
	}
	schedules, err := e.schedules.List(ctx, 0)
	if err != nil {
		nuts.L.Warnf("[Schedule] Conflict check degraded: %v", err)
		return nil, models.ReadStorageFailure
	}

	proposedEnd := proposedStart.Add(time.Duration(durationSeconds) * time.Second)
	var conflicts []*models.CameraSchedule
	for _, s := range schedules {
		if excludeID != 0 && s.ID == excludeID {
			continue
		}
		start, end := Project(&s.Schedule, proposedStart, e.location)
		if Overlaps(proposedStart, proposedEnd, start, end) {
			conflicts = append(conflicts, s)
		}
	}
	if len(conflicts) == 0 {
		return nil, models.ReadEmpty
	}
	return conflicts, models.ReadOK
}

// HasConflict reports whether Conflicts found anything. A storage failure reads as no conflict;
// callers guarding writes should check the outcome.
func (e *Evaluator) HasConflict(ctx context.Context, proposedStart time.Time, durationSeconds int64, excludeID int64) (bool, models.ReadOutcome) {
	conflicts, outcome := e.Conflicts(ctx, proposedStart, durationSeconds, excludeID)
	return len(conflicts) > 0, outcome
}

// StatusFor evaluates one schedule on date at now.
func (e *Evaluator) StatusFor(ctx context.Context, scheduleID int64, date, now time.Time) (*models.ScheduleWithStatus, models.ReadOutcome) {
	if scheduleID <= 0 {
		return nil, models.ReadNotFound
	}
	s, err := e.schedules.Get(ctx, scheduleID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, models.ReadNotFound
		}
		nuts.L.Warnf("[Schedule] Status of schedule %d degraded: %v", scheduleID, err)
		return nil, models.ReadStorageFailure
	}
	return &models.ScheduleWithStatus{
		CameraSchedule: *s,
		Status:         Status(&s.Schedule, date, now, e.location),
	}, models.ReadOK
}

// StatusesFor evaluates every schedule of a camera (0 = all cameras) for the day view.
func (e *Evaluator) StatusesFor(ctx context.Context, cameraID int64, date, now time.Time) ([]models.ScheduleWithStatus, models.ReadOutcome) {
	if cameraID < 0 {
		return []models.ScheduleWithStatus{}, models.ReadEmpty
	}
	schedules, err := e.schedules.List(ctx, cameraID)
	if err != nil {
		nuts.L.Warnf("[Schedule] Day view for camera %d degraded: %v", cameraID, err)
		return []models.ScheduleWithStatus{}, models.ReadStorageFailure
	}

	result := make([]models.ScheduleWithStatus, 0, len(schedules))
	for _, s := range schedules {
		result = append(result, models.ScheduleWithStatus{
			CameraSchedule: *s,
			Status:         Status(&s.Schedule, date, now, e.location),
		})
	}
	if len(result) == 0 {
		return result, models.ReadEmpty
	}
	return result, models.ReadOK
}
