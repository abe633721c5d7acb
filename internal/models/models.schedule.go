// FilePath: internal/models/models.schedule.go
package models

import "time"

// Schedule is a named capture window for one camera. Only the local time-of-day of
// StartTime is meaningful; the window recurs on whatever date it is evaluated for.
type Schedule struct {
	ID              int64     `json:"id"`
	CameraID        int64     `json:"camera_id"`
	Name            string    `json:"name"`
	StartTime       time.Time `json:"start_time"`
	DurationSeconds int64     `json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Duration returns DurationSeconds as a time.Duration
func (s *Schedule) Duration() time.Duration {
	return time.Duration(s.DurationSeconds) * time.Second
}

// TimeOfDay returns the hour, minute and second of StartTime in loc.
func (s *Schedule) TimeOfDay(loc *time.Location) (hour, min, sec int) {
	return s.StartTime.In(loc).Clock()
}

// CameraSchedule joins a schedule with the name of its camera.
type CameraSchedule struct {
	Schedule
	CameraName string `json:"camera_name"`
}

// ScheduleState is the activity of a schedule on a given date at a given instant.
type ScheduleState string

const (
	ScheduleUpcoming  ScheduleState = "upcoming"
	ScheduleActive    ScheduleState = "active"
	ScheduleCompleted ScheduleState = "completed"
)

// ScheduleStatus is derived and never persisted.
type ScheduleStatus struct {
	State     ScheduleState `json:"state"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	Remaining time.Duration `json:"remaining"`
}

// ScheduleWithStatus pairs a schedule with its status for one evaluation.
type ScheduleWithStatus struct {
	CameraSchedule
	Status ScheduleStatus `json:"status"`
}
