package server

import (
	"context"
	"fmt"

	"github.com/itsatony/headcount/internal/config"
	"github.com/itsatony/headcount/internal/counting"
	"github.com/itsatony/headcount/internal/database"
	"github.com/itsatony/headcount/internal/events"
	"github.com/itsatony/headcount/internal/hubservice"
	"github.com/itsatony/headcount/internal/refresh"
	"github.com/itsatony/headcount/internal/repository/sqlrepo"
)

// App is the storage, service and scheduler graph shared by the server and the CLI commands.
type App struct {
	DB        database.DB
	Events    *events.Bus
	Service   *hubservice.HubService
	Scheduler *refresh.Scheduler
}

// Build opens the database, migrates it and wires repositories, service and scheduler.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	loc := cfg.TimeLocation()
	bus := events.NewBus()

	cameras := sqlrepo.NewCameraRepository(db)
	observations := sqlrepo.NewObservationRepository(db)
	schedules := sqlrepo.NewScheduleRepository(db)

	svc := hubservice.New(cameras, observations, schedules, loc, bus)
	if err := svc.Validate(); err != nil {
		db.Close()
		return nil, err
	}

	scheduler := refresh.New(cameras, observations, counting.NewClient(cfg.Counting),
		refresh.WithInterval(cfg.Refresh.Interval),
		refresh.WithTickTimeout(cfg.Refresh.TickTimeout),
		refresh.WithLocation(loc),
		refresh.WithEvents(bus),
	)

	return &App{
		DB:        db,
		Events:    bus,
		Service:   svc,
		Scheduler: scheduler,
	}, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}
