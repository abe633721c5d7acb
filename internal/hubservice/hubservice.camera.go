package hubservice

import (
	"context"
	"time"

	"github.com/itsatony/headcount/internal/errors"
	"github.com/itsatony/headcount/internal/events"
	"github.com/itsatony/headcount/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// CreateCamera registers a camera. A new camera has never been refreshed, so it is due on the next tick.
func (s *HubService) CreateCamera(ctx context.Context, camera *models.Camera) error {
	if camera.Name == "" {
		return errors.NewValidationError("camera name is required", nil)
	}
	if camera.RefreshRateSeconds < 0 {
		return errors.NewValidationError("refresh rate must not be negative", nil)
	}
	if camera.LastRefresh.IsZero() {
		camera.LastRefresh = time.Unix(0, 0)
	}

	nuts.L.Infof("[CameraService] Creating camera %s (every %ds)", camera.Name, camera.RefreshRateSeconds)
	if err := s.Cameras.Create(ctx, camera); err != nil {
		return err
	}
	s.Events.EmitEntity(events.CameraCreated, camera.ID)
	return nil
}

func (s *HubService) GetCamera(ctx context.Context, id int64) (*models.Camera, error) {
	return s.Cameras.Get(ctx, id)
}

func (s *HubService) ListCameras(ctx context.Context) ([]*models.Camera, error) {
	return s.Cameras.List(ctx)
}

// UpdateCamera changes name, cadence and endpoint. The refresh marker is left to the scheduler.
func (s *HubService) UpdateCamera(ctx context.Context, camera *models.Camera) error {
	existing, err := s.Cameras.Get(ctx, camera.ID)
	if err != nil {
		return err
	}

	camera.LastRefresh = existing.LastRefresh
	camera.CreatedAt = existing.CreatedAt

	nuts.L.Infof("[CameraService] Updating camera %d", camera.ID)
	if err := s.Cameras.Update(ctx, camera); err != nil {
		return err
	}
	s.Events.EmitEntity(events.CameraUpdated, camera.ID)
	return nil
}

// DeleteCamera removes the camera with its schedules and observations.
func (s *HubService) DeleteCamera(ctx context.Context, id int64) error {
	if err := s.Cameras.Delete(ctx, id); err != nil {
		return err
	}
	nuts.L.Infof("[CameraService] Camera %d and all associated data deleted", id)
	s.Events.EmitEntity(events.CameraDeleted, id)
	return nil
}
