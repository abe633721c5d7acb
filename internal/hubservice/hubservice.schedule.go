package hubservice

import (
	"context"
	"fmt"
	"time"

	"github.com/itsatony/headcount/internal/errors"
	"github.com/itsatony/headcount/internal/events"
	"github.com/itsatony/headcount/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// CreateSchedule stores a schedule unless its window overlaps an existing one.
func (s *HubService) CreateSchedule(ctx context.Context, sched *models.Schedule) error {
	if err := s.checkSchedule(ctx, sched, 0); err != nil {
		return err
	}

	nuts.L.Infof("[ScheduleService] Creating schedule %q for camera %d", sched.Name, sched.CameraID)
	if err := s.Schedules.Create(ctx, sched); err != nil {
		return err
	}
	s.Events.EmitEntity(events.ScheduleCreated, sched.ID)
	return nil
}

// UpdateSchedule replaces a schedule; the conflict check skips the schedule itself.
func (s *HubService) UpdateSchedule(ctx context.Context, sched *models.Schedule) error {
	existing, err := s.Schedules.Get(ctx, sched.ID)
	if err != nil {
		return err
	}
	sched.CreatedAt = existing.CreatedAt

	if err := s.checkSchedule(ctx, sched, sched.ID); err != nil {
		return err
	}

	nuts.L.Infof("[ScheduleService] Updating schedule %d", sched.ID)
	if err := s.Schedules.Update(ctx, sched); err != nil {
		return err
	}
	s.Events.EmitEntity(events.ScheduleUpdated, sched.ID)
	return nil
}

func (s *HubService) GetSchedule(ctx context.Context, id int64) (*models.CameraSchedule, error) {
	return s.Schedules.Get(ctx, id)
}

func (s *HubService) ListSchedules(ctx context.Context, cameraID int64) ([]*models.CameraSchedule, error) {
	return s.Schedules.List(ctx, cameraID)
}

func (s *HubService) DeleteSchedule(ctx context.Context, id int64) error {
	if err := s.Schedules.Delete(ctx, id); err != nil {
		return err
	}
	s.Events.EmitEntity(events.ScheduleDeleted, id)
	return nil
}

func (s *HubService) checkSchedule(ctx context.Context, sched *models.Schedule, excludeID int64) error {
	if sched.Name == "" {
		return errors.NewValidationError("schedule name is required", nil)
	}
	if sched.DurationSeconds <= 0 {
		return errors.NewValidationError("schedule duration must be positive", nil)
	}
	if sched.StartTime.IsZero() {
		return errors.NewValidationError("schedule start time is required", nil)
	}
	if _, err := s.Cameras.Get(ctx, sched.CameraID); err != nil {
		if errors.IsNotFound(err) {
			return errors.NewValidationError(fmt.Sprintf("camera %d does not exist", sched.CameraID), err)
		}
		return err
	}

	conflicts, outcome := s.Evaluator.Conflicts(ctx, sched.StartTime, sched.DurationSeconds, excludeID)
	if outcome.Degraded() {
		return errors.NewUnavailableError("could not check schedule conflicts", nil)
	}
	if len(conflicts) > 0 {
		ids := make([]int64, 0, len(conflicts))
		for _, c := range conflicts {
			ids = append(ids, c.ID)
		}
		return errors.NewConflictError("schedule overlaps an existing schedule", nil).
			WithDetails(map[string]any{"conflicting_ids": ids})
	}
	return nil
}

// ScheduleStatus evaluates one schedule on date; a zero date means today.
func (s *HubService) ScheduleStatus(ctx context.Context, id int64, date time.Time) (*models.ScheduleWithStatus, models.ReadOutcome) {
	now := s.Now()
	if date.IsZero() {
		date = now
	}
	return s.Evaluator.StatusFor(ctx, id, date, now)
}

// DaySchedules lists the schedules of a camera with their status on date.
func (s *HubService) DaySchedules(ctx context.Context, cameraID int64, date time.Time) ([]models.ScheduleWithStatus, models.ReadOutcome) {
	now := s.Now()
	if date.IsZero() {
		date = now
	}
	return s.Evaluator.StatusesFor(ctx, cameraID, date, now)
}

// ActiveSchedule returns the first schedule active right now; cameraID 0 means any camera.
func (s *HubService) ActiveSchedule(ctx context.Context, cameraID int64) (*models.CameraSchedule, models.ReadOutcome) {
	return s.Evaluator.CurrentActive(ctx, cameraID, s.Now())
}

func (s *HubService) ScheduleConflicts(ctx context.Context, start time.Time, durationSeconds, excludeID int64) ([]*models.CameraSchedule, models.ReadOutcome) {
	return s.Evaluator.Conflicts(ctx, start, durationSeconds, excludeID)
}
