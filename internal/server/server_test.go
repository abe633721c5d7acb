package server

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/itsatony/headcount/internal/config"
	"github.com/itsatony/headcount/internal/events"
	"github.com/itsatony/headcount/internal/live"
	"github.com/itsatony/headcount/internal/models"
	"github.com/itsatony/headcount/internal/monitoring"
	"github.com/itsatony/headcount/internal/publish"
)

type recordingPublisher struct {
	mu        sync.Mutex
	published [][]*models.CountObservation
	err       error
}

func (p *recordingPublisher) Publish(ctx context.Context, observations []*models.CountObservation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, observations)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

func newWiredServer(pub publish.Publisher) *Server {
	s := New(&config.Config{Server: config.ServerConfig{Host: "127.0.0.1", Port: 0}})
	s.app = &App{Events: events.NewBus()}
	s.monitoring = monitoring.NewService(monitoring.Config{LogLevel: "error"})
	s.publisher = publish.NewMulti(pub)
	s.hub = live.NewHub()
	s.setupEventHandlers()
	return s
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestNew(t *testing.T) {
	s := New(&config.Config{Server: config.ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}})
	if s.srv.Addr != "0.0.0.0:8080" {
		t.Errorf("Addr = %q", s.srv.Addr)
	}
	if s.srv.ReadTimeout != 5*time.Second || s.srv.WriteTimeout != 10*time.Second {
		t.Errorf("timeouts not applied: %v %v", s.srv.ReadTimeout, s.srv.WriteTimeout)
	}
}

func TestIngestedObservationsArePublished(t *testing.T) {
	pub := &recordingPublisher{}
	s := newWiredServer(pub)

	obs := []*models.CountObservation{{CameraID: 1, In: 3, Out: 1}}
	s.app.Events.EmitObservationsIngested(obs)

	eventually(t, "publish", func() bool { return pub.calls() == 1 })
	eventually(t, "monitoring", func() bool { return s.monitoring.Count("observations_ingested") == 1 })
	if s.monitoring.Count("publish_failed") != 0 {
		t.Error("no publish failure expected")
	}
}

func TestPublishFailureIsRecorded(t *testing.T) {
	pub := &recordingPublisher{err: stderrors.New("broker gone")}
	s := newWiredServer(pub)

	s.app.Events.EmitObservationsIngested([]*models.CountObservation{{CameraID: 1}})

	eventually(t, "publish failure", func() bool { return s.monitoring.Count("publish_failed") == 1 })
}

func TestRefreshAndEntityEventsAreCounted(t *testing.T) {
	s := newWiredServer(&recordingPublisher{})
	bus := s.app.Events

	bus.EmitCameraRefreshed([]int64{1, 2})
	bus.EmitRefreshFailed(stderrors.New("upstream down"))
	bus.EmitEntity(events.CameraCreated, 7)
	bus.EmitEntity(events.ScheduleDeleted, 9)

	eventually(t, "all events", func() bool {
		return s.monitoring.Count("cameras_refreshed") == 1 &&
			s.monitoring.Count("refresh_failed") == 1 &&
			s.monitoring.Count(events.CameraCreated) == 1 &&
			s.monitoring.Count(events.ScheduleDeleted) == 1
	})
	if s.monitoring.Count(events.CameraUpdated) != 0 {
		t.Error("camera.updated was never emitted")
	}
}
