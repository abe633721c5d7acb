// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/itsatony/headcount/api"
	"github.com/itsatony/headcount/api/middleware"
	"github.com/itsatony/headcount/api/resources"
	"github.com/itsatony/headcount/internal/config"
	"github.com/itsatony/headcount/internal/events"
	"github.com/itsatony/headcount/internal/live"
	"github.com/itsatony/headcount/internal/models"
	"github.com/itsatony/headcount/internal/monitoring"
	"github.com/itsatony/headcount/internal/publish"
	nuts "github.com/vaudience/go-nuts"
)

const publishTimeout = 5 * time.Second

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	app        *App
	monitoring *monitoring.Service
	publisher  *publish.Multi
	hub        *live.Hub

	cancel        context.CancelFunc
	schedulerDone chan struct{}
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		config: cfg,
		srv:    srv,
	}
}

// Start wires all services, starts the scheduler and blocks until SIGINT/SIGTERM.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	app, err := Build(ctx, s.config)
	if err != nil {
		cancel()
		return err
	}
	s.app = app

	s.monitoring = monitoring.NewService(monitoring.Config{
		LogLevel: s.config.Monitoring.LogLevel,
	})
	s.publisher = publish.NewMulti(s.initPublishers(ctx)...)
	s.hub = live.NewHub()

	s.setupEventHandlers()

	res := resources.NewResources(app.Service, app.Scheduler, http.HandlerFunc(s.hub.ServeWS), s.monitoring)
	s.srv.Handler = api.NewRouter(res, middleware.CORSConfig{AllowedOrigins: s.config.Server.AllowedOrigins})

	go s.hub.Run(ctx)

	s.schedulerDone = make(chan struct{})
	if s.config.Refresh.Enabled {
		go func() {
			defer close(s.schedulerDone)
			app.Scheduler.Run(ctx)
		}()
	} else {
		nuts.L.Warnf("[Server] Refresh scheduler disabled")
		close(s.schedulerDone)
	}

	// Start server
	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")
	return s.Shutdown()
}

// Shutdown stops future ticks, lets an in-flight tick finish, then drains HTTP and closes resources.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	s.cancel()
	select {
	case <-s.schedulerDone:
	case <-ctx.Done():
		nuts.L.Warnf("[Server] Refresh tick still running at shutdown deadline")
	}

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	s.app.Events.Wait()
	if err := s.publisher.Close(); err != nil {
		nuts.L.Warnf("[Server] Error closing publishers: %v", err)
	}
	if err := s.app.Close(); err != nil {
		return fmt.Errorf("error closing database: %w", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

// initPublishers connects the optional Redis and MQTT fan-out. A publisher that
// cannot connect is skipped; ingestion never depends on it.
func (s *Server) initPublishers(ctx context.Context) []publish.Publisher {
	var publishers []publish.Publisher

	if s.config.Redis.Host != "" {
		p, err := publish.NewRedisPublisher(ctx, s.config.Redis)
		if err != nil {
			nuts.L.Errorf("[Server] Redis publisher disabled: %v", err)
		} else {
			publishers = append(publishers, p)
		}
	}

	if s.config.MQTT.Broker != "" {
		p, err := publish.NewMQTTPublisher(s.config.MQTT)
		if err != nil {
			nuts.L.Errorf("[Server] MQTT publisher disabled: %v", err)
		} else {
			publishers = append(publishers, p)
		}
	}

	return publishers
}

func (s *Server) setupEventHandlers() {
	bus := s.app.Events

	bus.OnObservationsIngested(func(observations []*models.CountObservation) {
		s.monitoring.RecordEvent("observations_ingested", map[string]string{
			"count": strconv.Itoa(len(observations)),
		})
		s.hub.BroadcastObservations(observations)

		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.publisher.Publish(ctx, observations); err != nil {
			s.monitoring.RecordEvent("publish_failed", map[string]string{"error": err.Error()})
		}
	})

	bus.OnCameraRefreshed(func(ids []int64) {
		s.monitoring.RecordEvent("cameras_refreshed", map[string]string{
			"count": strconv.Itoa(len(ids)),
		})
	})

	bus.OnRefreshFailed(func(err error) {
		s.monitoring.RecordEvent("refresh_failed", map[string]string{"error": err.Error()})
	})

	for _, event := range []string{
		events.CameraCreated, events.CameraUpdated, events.CameraDeleted,
		events.ScheduleCreated, events.ScheduleUpdated, events.ScheduleDeleted,
	} {
		name := event
		bus.OnEntity(name, func(id int64) {
			s.monitoring.RecordEvent(name, map[string]string{"id": strconv.FormatInt(id, 10)})
		})
	}
}
