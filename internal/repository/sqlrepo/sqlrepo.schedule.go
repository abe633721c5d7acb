// FilePath: internal/repository/sqlrepo/sqlrepo.schedule.go
package sqlrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/itsatony/headcount/internal/database"
	"github.com/itsatony/headcount/internal/errors"
	"github.com/itsatony/headcount/internal/models"
)

type scheduleRow struct {
	ID              int64  `db:"id"`
	CameraID        int64  `db:"camera_id"`
	Name            string `db:"name"`
	StartTime       int64  `db:"start_time"`
	DurationSeconds int64  `db:"duration_seconds"`
	CreatedAt       int64  `db:"created_at"`
	UpdatedAt       int64  `db:"updated_at"`
	CameraName      string `db:"camera_name"`
}

func (row scheduleRow) model() *models.CameraSchedule {
	return &models.CameraSchedule{
		Schedule: models.Schedule{
			ID:              row.ID,
			CameraID:        row.CameraID,
			Name:            row.Name,
			StartTime:       fromEpoch(row.StartTime),
			DurationSeconds: row.DurationSeconds,
			CreatedAt:       fromEpoch(row.CreatedAt),
			UpdatedAt:       fromEpoch(row.UpdatedAt),
		},
		CameraName: row.CameraName,
	}
}

const scheduleSelect = `
	SELECT s.id, s.camera_id, s.name, s.start_time, s.duration_seconds,
		s.created_at, s.updated_at, c.name AS camera_name
	FROM schedules s
	JOIN cameras c ON c.id = s.camera_id`

type ScheduleRepo struct {
	BaseRepo
}

func NewScheduleRepository(db database.DB) *ScheduleRepo {
	return &ScheduleRepo{BaseRepo: BaseRepo{db: db}}
}

func validateSchedule(schedule *models.Schedule) error {
	if schedule.CameraID <= 0 {
		return errors.NewValidationError("schedule camera is required", nil)
	}
	if schedule.DurationSeconds <= 0 {
		return errors.NewValidationError("schedule duration must be positive", nil)
	}
	return nil
}

func (r *ScheduleRepo) Create(ctx context.Context, schedule *models.Schedule) error {
	if err := validateSchedule(schedule); err != nil {
		return err
	}

	now := time.Now()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	query := r.rebind(`
		INSERT INTO schedules (camera_id, name, start_time, duration_seconds, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`)

	err := r.conn().QueryRowxContext(ctx, query,
		schedule.CameraID,
		schedule.Name,
		schedule.StartTime.Unix(),
		schedule.DurationSeconds,
		now.Unix(),
		now.Unix(),
	).Scan(&schedule.ID)
	if err != nil {
		return errors.NewDatabaseError("failed to create schedule", err)
	}
	return nil
}

func (r *ScheduleRepo) Get(ctx context.Context, id int64) (*models.CameraSchedule, error) {
	var row scheduleRow
	query := r.rebind(scheduleSelect + ` WHERE s.id = ?`)

	err := r.conn().GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("schedule not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get schedule", err)
	}
	return row.model(), nil
}

func (r *ScheduleRepo) Update(ctx context.Context, schedule *models.Schedule) error {
	if err := validateSchedule(schedule); err != nil {
		return err
	}
	schedule.UpdatedAt = time.Now()

	query := `
		UPDATE schedules SET
			camera_id = ?,
			name = ?,
			start_time = ?,
			duration_seconds = ?,
			updated_at = ?
		WHERE id = ?`

	result, err := r.ExecContext(ctx, query,
		schedule.CameraID,
		schedule.Name,
		schedule.StartTime.Unix(),
		schedule.DurationSeconds,
		schedule.UpdatedAt.Unix(),
		schedule.ID,
	)
	if err != nil {
		return errors.NewDatabaseError("failed to update schedule", err)
	}
	return requireAffected(result, "schedule")
}

func (r *ScheduleRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return errors.NewDatabaseError("failed to delete schedule", err)
	}
	return requireAffected(result, "schedule")
}

func (r *ScheduleRepo) List(ctx context.Context, cameraID int64) ([]*models.CameraSchedule, error) {
	rows := []scheduleRow{}
	var err error
	if cameraID > 0 {
		err = r.conn().SelectContext(ctx, &rows, r.rebind(scheduleSelect+` WHERE s.camera_id = ? ORDER BY s.id`), cameraID)
	} else {
		err = r.conn().SelectContext(ctx, &rows, scheduleSelect+` ORDER BY s.id`)
	}
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list schedules", err)
	}

	schedules := make([]*models.CameraSchedule, 0, len(rows))
	for _, row := range rows {
		schedules = append(schedules, row.model())
	}
	return schedules, nil
}
