package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/itsatony/headcount/internal/hubservice"
	"github.com/itsatony/headcount/internal/models"
	"github.com/itsatony/headcount/internal/server"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// SeedFile describes cameras and their schedules to register in one go.
//
//	cameras:
//	  - name: entrance
//	    refresh_rate_seconds: 60
//	    schedules:
//	      - name: morning
//	        start_time: "09:00"
//	        duration_seconds: 3600
type SeedFile struct {
	Cameras []SeedCamera `yaml:"cameras"`
}

type SeedCamera struct {
	Name               string         `yaml:"name"`
	RefreshRateSeconds int64          `yaml:"refresh_rate_seconds"`
	Endpoint           string         `yaml:"endpoint"`
	Schedules          []SeedSchedule `yaml:"schedules"`
}

type SeedSchedule struct {
	Name            string `yaml:"name"`
	StartTime       string `yaml:"start_time"`
	DurationSeconds int64  `yaml:"duration_seconds"`
}

var seedCmd = &cobra.Command{
	Use:   "seed FILE",
	Short: "Register cameras and schedules from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening seed file: %w", err)
		}
		defer f.Close()

		seed, err := parseSeed(f)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		app, err := server.Build(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		cameras, schedules, err := applySeed(cmd.Context(), app.Service, seed)
		fmt.Printf("Seeded %d cameras and %d schedules\n", cameras, schedules)
		return err
	},
}

func parseSeed(r io.Reader) (*SeedFile, error) {
	var seed SeedFile
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil {
		return nil, fmt.Errorf("decoding seed file: %w", err)
	}
	for i, cam := range seed.Cameras {
		if cam.Name == "" {
			return nil, fmt.Errorf("camera %d: name is required", i)
		}
	}
	return &seed, nil
}

// parseClock reads HH:MM or HH:MM:SS as a time of day on date in loc.
func parseClock(value string, date time.Time, loc *time.Location) (time.Time, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			y, m, d := date.In(loc).Date()
			return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start_time %q, want HH:MM or HH:MM:SS", value)
}

// applySeed stops at the first rejected entity; everything before it stays registered.
func applySeed(ctx context.Context, svc *hubservice.HubService, seed *SeedFile) (cameras, schedules int, err error) {
	now := svc.Now()
	for _, sc := range seed.Cameras {
		cam := &models.Camera{
			Name:               sc.Name,
			RefreshRateSeconds: sc.RefreshRateSeconds,
			Endpoint:           sc.Endpoint,
		}
		if err := svc.CreateCamera(ctx, cam); err != nil {
			return cameras, schedules, fmt.Errorf("camera %s: %w", sc.Name, err)
		}
		cameras++

		for _, ss := range sc.Schedules {
			start, err := parseClock(ss.StartTime, now, svc.Location())
			if err != nil {
				return cameras, schedules, fmt.Errorf("schedule %s: %w", ss.Name, err)
			}
			sched := &models.Schedule{
				CameraID:        cam.ID,
				Name:            ss.Name,
				StartTime:       start,
				DurationSeconds: ss.DurationSeconds,
			}
			if err := svc.CreateSchedule(ctx, sched); err != nil {
				return cameras, schedules, fmt.Errorf("schedule %s: %w", ss.Name, err)
			}
			schedules++
		}
	}
	return cameras, schedules, nil
}
