package sqlrepo

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/itsatony/headcount/internal/config"
	"github.com/itsatony/headcount/internal/database"
	"github.com/itsatony/headcount/internal/errors"
	"github.com/itsatony/headcount/internal/models"
)

func openTestDB(t *testing.T) database.DB {
	t.Helper()
	cfg := config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}
	db, err := database.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createCamera(t *testing.T, repo *CameraRepo, name string, rate int64) *models.Camera {
	t.Helper()
	cam := &models.Camera{Name: name, RefreshRateSeconds: rate, LastRefresh: time.Unix(0, 0)}
	if err := repo.Create(context.Background(), cam); err != nil {
		t.Fatalf("Failed to create camera %s: %v", name, err)
	}
	return cam
}

func observation(cameraID, in, out, start int64) *models.CountObservation {
	o := &models.CountObservation{
		CameraID:  cameraID,
		In:        in,
		Out:       out,
		StartTime: time.Unix(start, 0),
		EndTime:   time.Unix(start+60, 0),
	}
	o.Derive(time.UTC)
	return o
}

func TestCameraRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewCameraRepository(openTestDB(t))

	cam := createCamera(t, repo, "entrance", 60)
	if cam.ID == 0 {
		t.Fatal("expected an id after Create")
	}

	got, err := repo.Get(ctx, cam.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Name != "entrance" || got.RefreshRateSeconds != 60 || got.LastRefresh.Unix() != 0 {
		t.Errorf("unexpected camera: %+v", got)
	}

	got.Name = "main entrance"
	got.RefreshRateSeconds = 120
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	again, _ := repo.Get(ctx, cam.ID)
	if again.Name != "main entrance" || again.RefreshRateSeconds != 120 {
		t.Errorf("update not persisted: %+v", again)
	}

	if err := repo.Delete(ctx, cam.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := repo.Get(ctx, cam.ID); !errors.IsNotFound(err) {
		t.Errorf("Get() after delete = %v, want not found", err)
	}
	if err := repo.Delete(ctx, cam.ID); !errors.IsNotFound(err) {
		t.Errorf("second Delete() = %v, want not found", err)
	}
}

func TestCameraRepo_Validation(t *testing.T) {
	repo := NewCameraRepository(openTestDB(t))

	err := repo.Create(context.Background(), &models.Camera{Name: "bad", RefreshRateSeconds: -1})
	if !errors.IsValidation(err) {
		t.Errorf("Create() with negative rate = %v, want validation error", err)
	}
	err = repo.Create(context.Background(), &models.Camera{RefreshRateSeconds: 10})
	if !errors.IsValidation(err) {
		t.Errorf("Create() without name = %v, want validation error", err)
	}
}

func TestCameraRepo_AdvanceLastRefresh(t *testing.T) {
	ctx := context.Background()
	repo := NewCameraRepository(openTestDB(t))

	a := createCamera(t, repo, "a", 60)
	b := createCamera(t, repo, "b", 120)
	c := createCamera(t, repo, "c", 30)

	at := time.Unix(3600, 0)
	if err := repo.AdvanceLastRefresh(ctx, []int64{a.ID, b.ID}, at); err != nil {
		t.Fatalf("AdvanceLastRefresh() error: %v", err)
	}
	if err := repo.AdvanceLastRefresh(ctx, nil, at); err != nil {
		t.Fatalf("AdvanceLastRefresh(nil) error: %v", err)
	}

	cameras, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(cameras) != 3 {
		t.Fatalf("expected 3 cameras, got %d", len(cameras))
	}
	want := map[int64]int64{a.ID: 3600, b.ID: 3600, c.ID: 0}
	for _, cam := range cameras {
		if cam.LastRefresh.Unix() != want[cam.ID] {
			t.Errorf("camera %d last refresh = %d, want %d", cam.ID, cam.LastRefresh.Unix(), want[cam.ID])
		}
	}
	if cameras[0].ID != a.ID || cameras[2].ID != c.ID {
		t.Error("List() should order by id")
	}
}

func TestObservationRepo_RoundTripHalfOpen(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	cameras := NewCameraRepository(db)
	repo := NewObservationRepository(db)

	cam := createCamera(t, cameras, "lobby", 60)
	obs := observation(cam.ID, 5, 2, 1000)
	if err := repo.InsertBatch(ctx, []*models.CountObservation{obs}); err != nil {
		t.Fatalf("InsertBatch() error: %v", err)
	}
	if obs.ID == 0 {
		t.Fatal("expected id to be set")
	}

	tests := []struct {
		name     string
		from, to int64
		want     int
	}{
		{"spanning", 900, 1100, 1},
		{"from equals start", 1000, 1001, 1},
		{"to equals start", 900, 1000, 0},
		{"after", 1001, 2000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ListRange(ctx, []int64{cam.ID}, time.Unix(tt.from, 0), time.Unix(tt.to, 0))
			if err != nil {
				t.Fatalf("ListRange() error: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("ListRange() returned %d observations, want %d", len(got), tt.want)
			}
			if tt.want == 1 {
				o := got[0]
				if o.ID != obs.ID || o.In != 5 || o.Out != 2 || o.StartTime.Unix() != 1000 || o.EndTime.Unix() != 1060 {
					t.Errorf("unexpected observation: %+v", o)
				}
				if o.ObservedDate != "1970-01-01" || o.ObservedTime != "00:16:40" {
					t.Errorf("derived fields = %s %s", o.ObservedDate, o.ObservedTime)
				}
			}
		})
	}
}

func TestObservationRepo_SumRange(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	cameras := NewCameraRepository(db)
	repo := NewObservationRepository(db)

	a := createCamera(t, cameras, "a", 60)
	b := createCamera(t, cameras, "b", 60)
	c := createCamera(t, cameras, "c", 60)

	batch := []*models.CountObservation{
		observation(a.ID, 10, 1, 100),
		observation(a.ID, 3, 4, 200),
		observation(b.ID, 7, 7, 150),
		observation(c.ID, 100, 0, 150),
		observation(a.ID, 50, 50, 300), // outside [100, 300)
	}
	if err := repo.InsertBatch(ctx, batch); err != nil {
		t.Fatalf("InsertBatch() error: %v", err)
	}

	totals, err := repo.SumRange(ctx, []int64{a.ID, b.ID}, time.Unix(100, 0), time.Unix(300, 0))
	if err != nil {
		t.Fatalf("SumRange() error: %v", err)
	}
	if totals.In != 20 || totals.Out != 12 {
		t.Errorf("SumRange() = %+v, want in=20 out=12", totals)
	}

	empty, err := repo.SumRange(ctx, []int64{a.ID}, time.Unix(5000, 0), time.Unix(6000, 0))
	if err != nil {
		t.Fatalf("SumRange() on empty window error: %v", err)
	}
	if empty != (models.Totals{}) {
		t.Errorf("SumRange() on empty window = %+v", empty)
	}
}

func TestObservationRepo_InsertBatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	cameras := NewCameraRepository(db)
	repo := NewObservationRepository(db)

	cam := createCamera(t, cameras, "a", 60)
	batch := []*models.CountObservation{
		observation(cam.ID, 1, 0, 100),
		observation(cam.ID+999, 1, 0, 110), // violates the camera foreign key
	}
	if err := repo.InsertBatch(ctx, batch); !errors.IsDatabase(err) {
		t.Fatalf("InsertBatch() = %v, want database error", err)
	}

	got, err := repo.ListRange(ctx, []int64{cam.ID}, time.Unix(0, 0), time.Unix(1000, 0))
	if err != nil {
		t.Fatalf("ListRange() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no observations after failed batch, got %d", len(got))
	}
}

func TestScheduleRepo_ListJoinsCameraNames(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	cameras := NewCameraRepository(db)
	repo := NewScheduleRepository(db)

	a := createCamera(t, cameras, "front", 60)
	b := createCamera(t, cameras, "back", 60)

	for _, s := range []*models.Schedule{
		{CameraID: a.ID, Name: "morning", StartTime: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), DurationSeconds: 3600},
		{CameraID: b.ID, Name: "noon", StartTime: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), DurationSeconds: 1800},
		{CameraID: a.ID, Name: "evening", StartTime: time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC), DurationSeconds: 600},
	} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create(%s) error: %v", s.Name, err)
		}
	}

	all, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("List(0) error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List(0) returned %d schedules", len(all))
	}
	if all[0].Name != "morning" || all[1].CameraName != "back" || all[2].Name != "evening" {
		t.Errorf("unexpected order or join: %+v %+v %+v", all[0], all[1], all[2])
	}

	front, err := repo.List(ctx, a.ID)
	if err != nil {
		t.Fatalf("List(a) error: %v", err)
	}
	if len(front) != 2 || front[0].CameraName != "front" {
		t.Errorf("List(a) = %+v", front)
	}

	err = repo.Create(ctx, &models.Schedule{CameraID: a.ID, Name: "zero", DurationSeconds: 0})
	if !errors.IsValidation(err) {
		t.Errorf("Create() with zero duration = %v, want validation error", err)
	}
}

func TestObservationRepo_ReadsDoNotWaitForWriters(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	cameras := NewCameraRepository(db)
	repo := NewObservationRepository(db)

	cam := createCamera(t, cameras, "hall", 60)
	if err := repo.InsertBatch(ctx, []*models.CountObservation{observation(cam.ID, 4, 1, 100)}); err != nil {
		t.Fatalf("InsertBatch() error: %v", err)
	}

	tx, err := db.GetDB().BeginTxx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTxx() error: %v", err)
	}
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx, `INSERT INTO count_observations
		(camera_id, count_in, count_out, start_time, end_time, observed_date, observed_time, created_at)
		VALUES (?, 50, 0, 110, 170, '1970-01-01', '00:01:50', 0)`, cam.ID)
	if err != nil {
		t.Fatalf("insert inside open tx: %v", err)
	}

	readCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	totals, err := repo.SumRange(readCtx, []int64{cam.ID}, time.Unix(0, 0), time.Unix(1000, 0))
	if err != nil {
		t.Fatalf("SumRange() while a write is open: %v", err)
	}
	if totals.In != 4 || totals.Out != 1 {
		t.Errorf("SumRange() = %+v, want only the committed row", totals)
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	totals, err = repo.SumRange(ctx, []int64{cam.ID}, time.Unix(0, 0), time.Unix(1000, 0))
	if err != nil {
		t.Fatalf("SumRange() after commit: %v", err)
	}
	if totals.In != 54 {
		t.Errorf("SumRange() after commit in = %d, want 54", totals.In)
	}
}
