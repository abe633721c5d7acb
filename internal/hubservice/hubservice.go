package hubservice

import (
	"time"

	"github.com/itsatony/headcount/internal/errors"
	"github.com/itsatony/headcount/internal/events"
	"github.com/itsatony/headcount/internal/occupancy"
	"github.com/itsatony/headcount/internal/repository"
	"github.com/itsatony/headcount/internal/schedule"
)

// HubService contains all repositories and service-wide dependencies
type HubService struct {
	Cameras      repository.CameraRepository
	Observations repository.ObservationRepository
	Schedules    repository.ScheduleRepository
	Evaluator    *schedule.Evaluator
	Aggregator   *occupancy.Aggregator
	Events       *events.Bus

	location *time.Location
	clock    func() time.Time
}

// New creates a new HubService instance
func New(
	cameras repository.CameraRepository,
	observations repository.ObservationRepository,
	schedules repository.ScheduleRepository,
	loc *time.Location,
	bus *events.Bus,
) *HubService {
	if loc == nil {
		loc = time.UTC
	}
	return &HubService{
		Cameras:      cameras,
		Observations: observations,
		Schedules:    schedules,
		Evaluator:    schedule.NewEvaluator(schedules, loc),
		Aggregator:   occupancy.NewAggregator(observations, schedules, loc),
		Events:       bus,
		location:     loc,
		clock:        time.Now,
	}
}

// SetClock replaces the wall clock used for "now" in status and occupancy reads.
func (s *HubService) SetClock(clock func() time.Time) {
	s.clock = clock
}

func (s *HubService) Now() time.Time {
	return s.clock().In(s.location)
}

func (s *HubService) Location() *time.Location {
	return s.location
}

// Validate checks if all required repositories are initialized
func (s *HubService) Validate() error {
	if s.Cameras == nil {
		return ErrMissingRepository("cameras")
	}
	if s.Observations == nil {
		return ErrMissingRepository("observations")
	}
	if s.Schedules == nil {
		return ErrMissingRepository("schedules")
	}
	return nil
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}
