// FilePath: internal/repository/sqlrepo/sqlrepo.camera.go
package sqlrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/itsatony/headcount/internal/database"
	"github.com/itsatony/headcount/internal/errors"
	"github.com/itsatony/headcount/internal/models"
)

type cameraRow struct {
	ID                 int64  `db:"id"`
	Name               string `db:"name"`
	RefreshRateSeconds int64  `db:"refresh_rate_seconds"`
	LastRefresh        int64  `db:"last_refresh"`
	Endpoint           string `db:"endpoint"`
	CreatedAt          int64  `db:"created_at"`
	UpdatedAt          int64  `db:"updated_at"`
}

func (row cameraRow) model() *models.Camera {
	return &models.Camera{
		ID:                 row.ID,
		Name:               row.Name,
		RefreshRateSeconds: row.RefreshRateSeconds,
		LastRefresh:        fromEpoch(row.LastRefresh),
		Endpoint:           row.Endpoint,
		CreatedAt:          fromEpoch(row.CreatedAt),
		UpdatedAt:          fromEpoch(row.UpdatedAt),
	}
}

const cameraColumns = `id, name, refresh_rate_seconds, last_refresh, endpoint, created_at, updated_at`

type CameraRepo struct {
	BaseRepo
}

func NewCameraRepository(db database.DB) *CameraRepo {
	return &CameraRepo{BaseRepo: BaseRepo{db: db}}
}

func validateCamera(camera *models.Camera) error {
	if camera.Name == "" {
		return errors.NewValidationError("camera name is required", nil)
	}
	if camera.RefreshRateSeconds < 0 {
		return errors.NewValidationError("refresh rate must not be negative", nil)
	}
	return nil
}

func (r *CameraRepo) Create(ctx context.Context, camera *models.Camera) error {
	if err := validateCamera(camera); err != nil {
		return err
	}

	now := time.Now()
	camera.CreatedAt = now
	camera.UpdatedAt = now

	query := r.rebind(`
		INSERT INTO cameras (name, refresh_rate_seconds, last_refresh, endpoint, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`)

	err := r.conn().QueryRowxContext(ctx, query,
		camera.Name,
		camera.RefreshRateSeconds,
		camera.LastRefresh.Unix(),
		camera.Endpoint,
		now.Unix(),
		now.Unix(),
	).Scan(&camera.ID)
	if err != nil {
		return errors.NewDatabaseError("failed to create camera", err)
	}
	return nil
}

func (r *CameraRepo) Get(ctx context.Context, id int64) (*models.Camera, error) {
	var row cameraRow
	query := r.rebind(`SELECT ` + cameraColumns + ` FROM cameras WHERE id = ?`)

	err := r.conn().GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("camera not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get camera", err)
	}
	return row.model(), nil
}

// Update changes the administrative fields. last_refresh belongs to the scheduler.
func (r *CameraRepo) Update(ctx context.Context, camera *models.Camera) error {
	if err := validateCamera(camera); err != nil {
		return err
	}
	camera.UpdatedAt = time.Now()

	query := `
		UPDATE cameras SET
			name = ?,
			refresh_rate_seconds = ?,
			endpoint = ?,
			updated_at = ?
		WHERE id = ?`

	result, err := r.ExecContext(ctx, query,
		camera.Name, camera.RefreshRateSeconds, camera.Endpoint, camera.UpdatedAt.Unix(), camera.ID)
	if err != nil {
		return errors.NewDatabaseError("failed to update camera", err)
	}
	return requireAffected(result, "camera")
}

func (r *CameraRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx, `DELETE FROM cameras WHERE id = ?`, id)
	if err != nil {
		return errors.NewDatabaseError("failed to delete camera", err)
	}
	return requireAffected(result, "camera")
}

func (r *CameraRepo) List(ctx context.Context) ([]*models.Camera, error) {
	rows := []cameraRow{}
	query := `SELECT ` + cameraColumns + ` FROM cameras ORDER BY id`

	if err := r.conn().SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.NewDatabaseError("failed to list cameras", err)
	}

	cameras := make([]*models.Camera, 0, len(rows))
	for _, row := range rows {
		cameras = append(cameras, row.model())
	}
	return cameras, nil
}

func (r *CameraRepo) AdvanceLastRefresh(ctx context.Context, ids []int64, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := r.in(`UPDATE cameras SET last_refresh = ? WHERE id IN (?)`, at.Unix(), ids)
	if err != nil {
		return err
	}
	if _, err := r.conn().ExecContext(ctx, query, args...); err != nil {
		return errors.NewDatabaseError("failed to advance last refresh", err)
	}
	return nil
}
