package occupancy

import (
	"context"
	"testing"
	"time"

	"github.com/itsatony/headcount/internal/errors"
	"github.com/itsatony/headcount/internal/models"
)

// MockObservationReader sums an in-memory observation list with the store's half-open predicate.
type MockObservationReader struct {
	observations []models.CountObservation
	err          error
	calls        int
}

func (m *MockObservationReader) SumRange(ctx context.Context, cameraIDs []int64, from, to time.Time) (models.Totals, error) {
	m.calls++
	if m.err != nil {
		return models.Totals{}, m.err
	}
	var totals models.Totals
	for _, o := range m.observations {
		if !containsID(cameraIDs, o.CameraID) {
			continue
		}
		if o.StartTime.Unix() >= from.Unix() && o.StartTime.Unix() < to.Unix() {
			totals.Add(models.Totals{In: o.In, Out: o.Out})
		}
	}
	return totals, nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type MockScheduleGetter struct {
	schedule *models.CameraSchedule
	err      error
}

func (m *MockScheduleGetter) Get(ctx context.Context, id int64) (*models.CameraSchedule, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.schedule == nil || m.schedule.ID != id {
		return nil, errors.NewNotFoundError("schedule not found", nil)
	}
	return m.schedule, nil
}

func obs(cameraID, in, out int64, start time.Time) models.CountObservation {
	return models.CountObservation{CameraID: cameraID, In: in, Out: out, StartTime: start, EndTime: start.Add(time.Minute)}
}

func day(hour, min int) time.Time {
	return time.Date(2024, 5, 14, hour, min, 0, 0, time.UTC)
}

func TestTotals_ShortCircuits(t *testing.T) {
	reader := &MockObservationReader{}
	a := NewAggregator(reader, nil, time.UTC)
	ctx := context.Background()

	tests := []struct {
		name     string
		ids      []int64
		from, to time.Time
	}{
		{"no cameras", nil, day(0, 0), day(1, 0)},
		{"only invalid ids", []int64{0, -3}, day(0, 0), day(1, 0)},
		{"from equals to", []int64{1}, day(1, 0), day(1, 0)},
		{"inverted", []int64{1}, day(2, 0), day(1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, outcome := a.Totals(ctx, tt.ids, tt.from, tt.to)
			if totals != (models.Totals{}) || outcome != models.ReadEmpty {
				t.Errorf("Totals() = %+v (%s)", totals, outcome)
			}
		})
	}
	if reader.calls != 0 {
		t.Errorf("expected no storage calls, got %d", reader.calls)
	}
}

func TestTotals_HalfOpenAndPresentFloor(t *testing.T) {
	reader := &MockObservationReader{observations: []models.CountObservation{
		obs(1, 10, 0, day(9, 0)),
		obs(2, 0, 15, day(9, 30)),
		obs(1, 99, 99, day(10, 0)),
		obs(3, 7, 0, day(9, 15)),
	}}
	a := NewAggregator(reader, nil, time.UTC)

	totals, outcome := a.Totals(context.Background(), []int64{1, 2, -1, 2}, day(9, 0), day(10, 0))
	if outcome != models.ReadOK {
		t.Fatalf("outcome = %s", outcome)
	}
	if totals.In != 10 || totals.Out != 15 {
		t.Errorf("Totals() = %+v, want in=10 out=15", totals)
	}
	if totals.Present() != 0 {
		t.Errorf("Present() = %d, want 0", totals.Present())
	}
}

func TestHourly_SingleObservation(t *testing.T) {
	reader := &MockObservationReader{observations: []models.CountObservation{obs(1, 5, 2, day(14, 20))}}
	a := NewAggregator(reader, nil, time.UTC)

	hours, outcome := a.Hourly(context.Background(), []int64{1}, day(0, 0))
	if outcome != models.ReadOK || len(hours) != 24 {
		t.Fatalf("Hourly() returned %d entries (%s)", len(hours), outcome)
	}
	for _, h := range hours {
		want := models.HourlyCount{Hour: h.Hour}
		if h.Hour == 14 {
			want.In, want.Out = 5, 2
		}
		if h != want {
			t.Errorf("hour %d = %+v, want %+v", h.Hour, h, want)
		}
	}
	if reader.calls != 24 {
		t.Errorf("expected one sum per hour, got %d", reader.calls)
	}
}

func TestHourly_InvalidAndFailure(t *testing.T) {
	a := NewAggregator(&MockObservationReader{}, nil, time.UTC)
	hours, outcome := a.Hourly(context.Background(), []int64{0}, day(0, 0))
	if len(hours) != 24 || outcome != models.ReadEmpty {
		t.Errorf("Hourly(no cameras) = %d entries (%s)", len(hours), outcome)
	}

	failing := NewAggregator(&MockObservationReader{err: errors.NewDatabaseError("timeout", nil)}, nil, time.UTC)
	hours, outcome = failing.Hourly(context.Background(), []int64{1}, day(0, 0))
	if len(hours) != 0 || outcome != models.ReadStorageFailure {
		t.Errorf("Hourly(failing) = %d entries (%s)", len(hours), outcome)
	}
}

func TestIntervals(t *testing.T) {
	reader := &MockObservationReader{observations: []models.CountObservation{
		obs(1, 1, 0, day(8, 0)),
		obs(1, 2, 1, day(8, 14)),
		obs(1, 4, 0, day(8, 15)),
		obs(1, 8, 3, day(8, 45)),
	}}
	a := NewAggregator(reader, nil, time.UTC)

	slices, outcome := a.Intervals(context.Background(), []int64{1}, day(8, 0), 15, 3)
	if outcome != models.ReadOK || len(slices) != 3 {
		t.Fatalf("Intervals() = %d slices (%s)", len(slices), outcome)
	}
	want := []models.Totals{{In: 3, Out: 1}, {In: 4}, {}}
	for i, s := range slices {
		if s.In != want[i].In || s.Out != want[i].Out {
			t.Errorf("slice %d = %+v, want %+v", i, s, want[i])
		}
		if !s.Start.Equal(day(8, 15*i)) || !s.End.Equal(day(8, 15*(i+1))) {
			t.Errorf("slice %d bounds = [%s, %s)", i, s.Start, s.End)
		}
	}

	for _, args := range [][2]int{{0, 3}, {15, 0}, {-5, 2}} {
		if got, outcome := a.Intervals(context.Background(), []int64{1}, day(8, 0), args[0], args[1]); len(got) != 0 || outcome != models.ReadEmpty {
			t.Errorf("Intervals(%v) = %v (%s)", args, got, outcome)
		}
	}
}

func TestScheduleTotals(t *testing.T) {
	reader := &MockObservationReader{observations: []models.CountObservation{
		obs(1, 3, 1, day(9, 10)),
		obs(1, 5, 0, day(10, 0)),
		obs(2, 9, 9, day(9, 20)),
	}}
	getter := &MockScheduleGetter{schedule: &models.CameraSchedule{Schedule: models.Schedule{
		ID:              5,
		CameraID:        1,
		StartTime:       time.Date(2021, 1, 1, 9, 0, 0, 0, time.UTC),
		DurationSeconds: 3600,
	}}}
	a := NewAggregator(reader, getter, time.UTC)

	totals, outcome := a.ScheduleTotals(context.Background(), 5, day(0, 0))
	if outcome != models.ReadOK || totals != (models.Totals{In: 3, Out: 1}) {
		t.Errorf("ScheduleTotals() = %+v (%s)", totals, outcome)
	}
	if _, outcome := a.ScheduleTotals(context.Background(), 6, day(0, 0)); outcome != models.ReadNotFound {
		t.Errorf("ScheduleTotals(missing) outcome = %s", outcome)
	}

	getter.err = errors.NewDatabaseError("down", nil)
	if _, outcome := a.ScheduleTotals(context.Background(), 5, day(0, 0)); outcome != models.ReadStorageFailure {
		t.Errorf("ScheduleTotals(failing) outcome = %s", outcome)
	}
}

func TestCurrentOccupancy(t *testing.T) {
	reader := &MockObservationReader{observations: []models.CountObservation{
		obs(1, 50, 0, day(0, 0).Add(-time.Minute)),
		obs(1, 12, 4, day(7, 0)),
		obs(1, 1, 1, day(12, 0)),
	}}
	a := NewAggregator(reader, nil, time.UTC)

	totals, outcome := a.CurrentOccupancy(context.Background(), []int64{1}, day(11, 0))
	if outcome != models.ReadOK || totals.Present() != 8 {
		t.Errorf("CurrentOccupancy() = %+v (%s), want present 8", totals, outcome)
	}
}
