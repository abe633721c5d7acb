// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/itsatony/headcount/internal/database"
	"github.com/itsatony/headcount/internal/models"
)

var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidInput indicates that the input data is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// CameraRepository is the camera registry
type CameraRepository interface {
	database.Repository
	Create(ctx context.Context, camera *models.Camera) error
	Get(ctx context.Context, id int64) (*models.Camera, error)
	Update(ctx context.Context, camera *models.Camera) error
	Delete(ctx context.Context, id int64) error
	// List returns every camera ordered by id; the scheduler filters in memory.
	List(ctx context.Context) ([]*models.Camera, error)
	// AdvanceLastRefresh sets last_refresh for all ids in one statement.
	AdvanceLastRefresh(ctx context.Context, ids []int64, at time.Time) error
}

// ObservationRepository is the occupancy store
type ObservationRepository interface {
	database.Repository
	// InsertBatch persists all observations or none of them.
	InsertBatch(ctx context.Context, observations []*models.CountObservation) error
	// ListRange returns observations of the cameras with from <= start_time < to.
	ListRange(ctx context.Context, cameraIDs []int64, from, to time.Time) ([]*models.CountObservation, error)
	// SumRange totals observations of the cameras with from <= start_time < to.
	SumRange(ctx context.Context, cameraIDs []int64, from, to time.Time) (models.Totals, error)
}

// ScheduleRepository is the schedule registry
type ScheduleRepository interface {
	database.Repository
	Create(ctx context.Context, schedule *models.Schedule) error
	Get(ctx context.Context, id int64) (*models.CameraSchedule, error)
	Update(ctx context.Context, schedule *models.Schedule) error
	Delete(ctx context.Context, id int64) error
	// List returns schedules joined with their camera names in registry (id) order.
	// cameraID 0 lists the schedules of every camera.
	List(ctx context.Context, cameraID int64) ([]*models.CameraSchedule, error)
}
