package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/itsatony/headcount/api/middleware"
	"github.com/itsatony/headcount/api/resources"
)

type Router struct {
	router    *mux.Router
	handler   http.Handler
	resources *resources.Resources
}

func NewRouter(res *resources.Resources, cors middleware.CORSConfig) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		resources: res,
	}

	r.setupRoutes()
	r.handler = middleware.Wrap(r.router, cors)
	return r
}

func (r *Router) setupRoutes() {
	// API version prefix
	api := r.router.PathPrefix("/v1").Subrouter()

	// System
	api.HandleFunc("/health", r.resources.System.HealthCheck).Methods(http.MethodGet)
	api.HandleFunc("/metrics", r.resources.System.Metrics).Methods(http.MethodGet)
	api.HandleFunc("/live", r.resources.System.Live).Methods(http.MethodGet)
	api.HandleFunc("/refresh", r.resources.System.TriggerRefresh).Methods(http.MethodPost)

	// Cameras
	cameras := api.PathPrefix("/cameras").Subrouter()
	cameras.HandleFunc("", r.resources.Cameras.ListCameras).Methods(http.MethodGet)
	cameras.HandleFunc("", r.resources.Cameras.CreateCamera).Methods(http.MethodPost)
	cameras.HandleFunc("/{id:[0-9]+}", r.resources.Cameras.GetCamera).Methods(http.MethodGet)
	cameras.HandleFunc("/{id:[0-9]+}", r.resources.Cameras.UpdateCamera).Methods(http.MethodPut)
	cameras.HandleFunc("/{id:[0-9]+}", r.resources.Cameras.DeleteCamera).Methods(http.MethodDelete)

	// Schedules
	schedules := api.PathPrefix("/schedules").Subrouter()
	schedules.HandleFunc("", r.resources.Schedules.ListSchedules).Methods(http.MethodGet)
	schedules.HandleFunc("", r.resources.Schedules.CreateSchedule).Methods(http.MethodPost)
	schedules.HandleFunc("/active", r.resources.Schedules.GetActiveSchedule).Methods(http.MethodGet)
	schedules.HandleFunc("/conflicts", r.resources.Schedules.GetConflicts).Methods(http.MethodGet)
	schedules.HandleFunc("/{id:[0-9]+}", r.resources.Schedules.GetSchedule).Methods(http.MethodGet)
	schedules.HandleFunc("/{id:[0-9]+}", r.resources.Schedules.UpdateSchedule).Methods(http.MethodPut)
	schedules.HandleFunc("/{id:[0-9]+}", r.resources.Schedules.DeleteSchedule).Methods(http.MethodDelete)
	schedules.HandleFunc("/{id:[0-9]+}/status", r.resources.Schedules.GetScheduleStatus).Methods(http.MethodGet)
	schedules.HandleFunc("/{id:[0-9]+}/occupancy", r.resources.Schedules.GetScheduleOccupancy).Methods(http.MethodGet)

	// Occupancy
	occupancy := api.PathPrefix("/occupancy").Subrouter()
	occupancy.HandleFunc("/totals", r.resources.Occupancy.GetTotals).Methods(http.MethodGet)
	occupancy.HandleFunc("/hourly", r.resources.Occupancy.GetHourly).Methods(http.MethodGet)
	occupancy.HandleFunc("/intervals", r.resources.Occupancy.GetIntervals).Methods(http.MethodGet)
	occupancy.HandleFunc("/current", r.resources.Occupancy.GetCurrent).Methods(http.MethodGet)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}
