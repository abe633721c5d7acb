// FilePath: internal/repository/sqlrepo/sqlrepo.observation.go
package sqlrepo

import (
	"context"
	"time"

	"github.com/itsatony/headcount/internal/database"
	"github.com/itsatony/headcount/internal/errors"
	"github.com/itsatony/headcount/internal/models"
)

type observationRow struct {
	ID           int64  `db:"id"`
	CameraID     int64  `db:"camera_id"`
	In           int64  `db:"count_in"`
	Out          int64  `db:"count_out"`
	StartTime    int64  `db:"start_time"`
	EndTime      int64  `db:"end_time"`
	ObservedDate string `db:"observed_date"`
	ObservedTime string `db:"observed_time"`
	CreatedAt    int64  `db:"created_at"`
}

func (row observationRow) model() *models.CountObservation {
	return &models.CountObservation{
		ID:           row.ID,
		CameraID:     row.CameraID,
		In:           row.In,
		Out:          row.Out,
		StartTime:    fromEpoch(row.StartTime),
		EndTime:      fromEpoch(row.EndTime),
		ObservedDate: row.ObservedDate,
		ObservedTime: row.ObservedTime,
		CreatedAt:    fromEpoch(row.CreatedAt),
	}
}

type ObservationRepo struct {
	BaseRepo
}

func NewObservationRepository(db database.DB) *ObservationRepo {
	return &ObservationRepo{BaseRepo: BaseRepo{db: db}}
}

func (r *ObservationRepo) InsertBatch(ctx context.Context, observations []*models.CountObservation) error {
	if len(observations) == 0 {
		return nil
	}
	for _, o := range observations {
		if o.CameraID <= 0 || o.In < 0 || o.Out < 0 {
			return errors.NewValidationError("invalid count observation", nil)
		}
		if o.ObservedDate == "" || o.ObservedTime == "" {
			return errors.NewValidationError("count observation is missing derived date/time", nil)
		}
	}

	tx, err := r.conn().BeginTxx(ctx, nil)
	if err != nil {
		return errors.NewDatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := r.rebind(`
		INSERT INTO count_observations (
			camera_id, count_in, count_out, start_time, end_time,
			observed_date, observed_time, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	now := time.Now()
	for _, o := range observations {
		err := tx.QueryRowxContext(ctx, query,
			o.CameraID,
			o.In,
			o.Out,
			o.StartTime.Unix(),
			o.EndTime.Unix(),
			o.ObservedDate,
			o.ObservedTime,
			now.Unix(),
		).Scan(&o.ID)
		if err != nil {
			return errors.NewDatabaseError("failed to insert count observation", err)
		}
		o.CreatedAt = fromEpoch(now.Unix())
	}

	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseError("failed to commit count observations", err)
	}
	return nil
}

func (r *ObservationRepo) ListRange(ctx context.Context, cameraIDs []int64, from, to time.Time) ([]*models.CountObservation, error) {
	if len(cameraIDs) == 0 {
		return []*models.CountObservation{}, nil
	}

	query, args, err := r.in(`
		SELECT id, camera_id, count_in, count_out, start_time, end_time,
			observed_date, observed_time, created_at
		FROM count_observations
		WHERE camera_id IN (?) AND start_time >= ? AND start_time < ?
		ORDER BY start_time, id`, cameraIDs, from.Unix(), to.Unix())
	if err != nil {
		return nil, err
	}

	rows := []observationRow{}
	if err := r.conn().SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.NewDatabaseError("failed to list count observations", err)
	}

	observations := make([]*models.CountObservation, 0, len(rows))
	for _, row := range rows {
		observations = append(observations, row.model())
	}
	return observations, nil
}

func (r *ObservationRepo) SumRange(ctx context.Context, cameraIDs []int64, from, to time.Time) (models.Totals, error) {
	if len(cameraIDs) == 0 {
		return models.Totals{}, nil
	}

	query, args, err := r.in(`
		SELECT COALESCE(SUM(count_in), 0) AS total_in, COALESCE(SUM(count_out), 0) AS total_out
		FROM count_observations
		WHERE camera_id IN (?) AND start_time >= ? AND start_time < ?`, cameraIDs, from.Unix(), to.Unix())
	if err != nil {
		return models.Totals{}, err
	}

	var totals struct {
		In  int64 `db:"total_in"`
		Out int64 `db:"total_out"`
	}
	if err := r.conn().GetContext(ctx, &totals, query, args...); err != nil {
		return models.Totals{}, errors.NewDatabaseError("failed to sum count observations", err)
	}
	return models.Totals{In: totals.In, Out: totals.Out}, nil
}
