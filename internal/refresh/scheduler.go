package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/itsatony/headcount/internal/counting"
	"github.com/itsatony/headcount/internal/errors"
	"github.com/itsatony/headcount/internal/events"
	"github.com/itsatony/headcount/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// CameraStore is the part of the camera registry the scheduler needs.
type CameraStore interface {
	List(ctx context.Context) ([]*models.Camera, error)
	AdvanceLastRefresh(ctx context.Context, ids []int64, at time.Time) error
}

// ObservationStore is the part of the occupancy store the scheduler needs.
type ObservationStore interface {
	InsertBatch(ctx context.Context, observations []*models.CountObservation) error
}

// CountFetcher issues one batched request to the counting service.
type CountFetcher interface {
	FetchCounts(ctx context.Context, batch []counting.Request) (*counting.Response, error)
}

// TickReport describes what a single tick did.
type TickReport struct {
	At       time.Time `json:"at"`
	Skipped  bool      `json:"skipped"`
	Due      []int64   `json:"due"`
	Ingested int       `json:"ingested"`
	Err      error     `json:"-"`
	Error    string    `json:"error,omitempty"`
}

type Option func(*Scheduler)

func WithInterval(interval time.Duration) Option {
	return func(s *Scheduler) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithTickTimeout bounds the storage and network work of one tick.
func WithTickTimeout(timeout time.Duration) Option {
	return func(s *Scheduler) {
		if timeout > 0 {
			s.tickTimeout = timeout
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(s *Scheduler) {
		s.clock = clock
	}
}

// WithLocation sets the zone used to derive observed date and time-of-day.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithEvents(bus *events.Bus) Option {
	return func(s *Scheduler) {
		s.events = bus
	}
}

// Scheduler polls the counting service for every camera whose cadence has elapsed.
// Only one tick runs at a time; overlapping ticks are skipped.
type Scheduler struct {
	cameras      CameraStore
	observations ObservationStore
	client       CountFetcher

	interval    time.Duration
	tickTimeout time.Duration
	clock       func() time.Time
	location    *time.Location
	events      *events.Bus

	mu sync.Mutex
}

func New(cameras CameraStore, observations ObservationStore, client CountFetcher, opts ...Option) *Scheduler {
	s := &Scheduler{
		cameras:      cameras,
		observations: observations,
		client:       client,
		interval:     time.Second,
		tickTimeout:  30 * time.Second,
		clock:        time.Now,
		location:     time.UTC,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run ticks until ctx is cancelled. It returns once no tick is in flight.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	nuts.L.Infof("[Refresh] Scheduler started (interval %s)", s.interval)

	for {
		select {
		case <-ctx.Done():
			// wait for a manual tick that may still be running
			s.mu.Lock()
			s.mu.Unlock()
			nuts.L.Infof("[Refresh] Scheduler stopped")
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				continue
			}
			s.Tick(ctx)
		}
	}
}

// Tick runs one refresh cycle. The work is detached from ctx cancellation so a
// stop signal never interrupts a batch mid-write.
func (s *Scheduler) Tick(ctx context.Context) (report TickReport) {
	if !s.mu.TryLock() {
		nuts.L.Warnf("[Refresh] Previous tick still running, skipping")
		return TickReport{At: s.clock(), Skipped: true}
	}
	defer s.mu.Unlock()

	now := s.clock()
	report.At = now

	defer func() {
		if r := recover(); r != nil {
			s.fail(&report, "tick", fmt.Errorf("panic: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.tickTimeout)
	defer cancel()

	cameras, err := s.cameras.List(ctx)
	if err != nil {
		s.fail(&report, "listing cameras", err)
		return report
	}

	batch := DueBatch(cameras, now)
	if len(batch) == 0 {
		return report
	}
	report.Due = batchIDs(batch)

	// Advance before calling out: a failed call is not retried until the
	// camera's next cadence, so windows are never fetched twice.
	if err := s.cameras.AdvanceLastRefresh(ctx, report.Due, now); err != nil {
		s.fail(&report, "advancing last refresh", err)
		return report
	}
	s.events.EmitCameraRefreshed(report.Due)

	resp, err := s.client.FetchCounts(ctx, batch)
	if err != nil {
		s.fail(&report, "fetching counts", err)
		return report
	}
	if !resp.Succeeded() {
		s.fail(&report, "fetching counts", errors.NewUpstreamError(fmt.Sprintf("counting service returned status %q", resp.Status), nil))
		return report
	}
	if len(resp.Data) == 0 {
		nuts.L.Infof("[Refresh] No counts returned for %d camera(s)", len(batch))
		return report
	}

	observations := s.toObservations(resp.Data, report.Due)
	if len(observations) == 0 {
		nuts.L.Warnf("[Refresh] None of %d returned count(s) matched the requested cameras", len(resp.Data))
		return report
	}
	if err := s.observations.InsertBatch(ctx, observations); err != nil {
		s.fail(&report, "persisting observations", err)
		return report
	}

	report.Ingested = len(observations)
	nuts.L.Infof("[Refresh] Ingested %d observation(s) for %d camera(s)", len(observations), len(batch))
	s.events.EmitObservationsIngested(observations)
	return report
}

// DueBatch builds one request per camera due at now, each covering [now-rate, now).
func DueBatch(cameras []*models.Camera, now time.Time) []counting.Request {
	var batch []counting.Request
	for _, cam := range cameras {
		if cam == nil || !cam.IsDue(now) {
			continue
		}
		from, to := cam.Window(now)
		batch = append(batch, counting.Request{
			CameraName: cam.Name,
			CameraID:   cam.ID,
			StartTime:  from.Unix(),
			EndTime:    to.Unix(),
		})
	}
	return batch
}

func batchIDs(batch []counting.Request) []int64 {
	ids := make([]int64, 0, len(batch))
	for _, req := range batch {
		ids = append(ids, req.CameraID)
	}
	return ids
}

// toObservations keeps non-negative counts of the requested cameras only.
func (s *Scheduler) toObservations(counts []counting.Count, due []int64) []*models.CountObservation {
	requested := make(map[int64]bool, len(due))
	for _, id := range due {
		requested[id] = true
	}

	observations := make([]*models.CountObservation, 0, len(counts))
	for _, c := range counts {
		if !requested[c.CameraID] {
			nuts.L.Warnf("[Refresh] Dropping counts for camera %d, which was not requested", c.CameraID)
			continue
		}
		if c.In < 0 || c.Out < 0 {
			nuts.L.Warnf("[Refresh] Dropping negative counts for camera %d (in=%d out=%d)", c.CameraID, c.In, c.Out)
			continue
		}
		obs := &models.CountObservation{
			CameraID:  c.CameraID,
			In:        c.In,
			Out:       c.Out,
			StartTime: c.StartTime.Time(),
			EndTime:   c.EndTime.Time(),
		}
		obs.Derive(s.location)
		observations = append(observations, obs)
	}
	return observations
}

func (s *Scheduler) fail(report *TickReport, stage string, err error) {
	nuts.L.Errorf("[Refresh] Tick failed while %s: %v", stage, err)
	report.Err = err
	report.Error = err.Error()
	s.events.EmitRefreshFailed(err)
}
