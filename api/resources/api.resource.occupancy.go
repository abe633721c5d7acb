// FilePath: api/resources/api.resource.occupancy.go
package resources

import (
	"net/http"
	"time"

	"github.com/itsatony/headcount/internal/hubservice"
	nuts "github.com/vaudience/go-nuts"
)

// OccupancyHandlers serve the aggregation reads. They never fail on storage
// errors; the outcome field reports a degraded answer.
type OccupancyHandlers struct {
	hubservice *hubservice.HubService
	res        *Resources
}

type totalsQuery struct {
	CameraIDs []int64   `schema:"camera_id"`
	From      time.Time `schema:"from"`
	To        time.Time `schema:"to"`
}

type hourlyQuery struct {
	CameraIDs []int64   `schema:"camera_id"`
	Date      time.Time `schema:"date"`
}

type intervalsQuery struct {
	CameraIDs       []int64   `schema:"camera_id"`
	Start           time.Time `schema:"start"`
	IntervalMinutes int       `schema:"interval_minutes"`
	Count           int       `schema:"count"`
}

type currentQuery struct {
	CameraIDs []int64 `schema:"camera_id"`
}

// @Summary In/out/present totals over [from, to)
// @Tags occupancy
// @Produce json
// @Param camera_id query []int true "Camera IDs"
// @Param from query string true "Window start"
// @Param to query string true "Window end (exclusive)"
// @Router /occupancy/totals [get]
func (h *OccupancyHandlers) GetTotals(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var q totalsQuery
	if apiErr := h.res.decodeQuery(r, &q); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	totals := h.hubservice.Totals(r.Context(), q.CameraIDs, q.From, q.To)
	respondWithRead(w, requestID, totals, totals.Outcome)
}

// @Summary Hourly breakdown of one day
// @Tags occupancy
// @Produce json
// @Param camera_id query []int true "Camera IDs"
// @Param date query string false "Date (default today)"
// @Router /occupancy/hourly [get]
func (h *OccupancyHandlers) GetHourly(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var q hourlyQuery
	if apiErr := h.res.decodeQuery(r, &q); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	hours, outcome := h.hubservice.Hourly(r.Context(), q.CameraIDs, q.Date)
	respondWithRead(w, requestID, hours, outcome)
}

// @Summary Fixed-size interval breakdown
// @Tags occupancy
// @Produce json
// @Param camera_id query []int true "Camera IDs"
// @Param start query string true "First interval start"
// @Param interval_minutes query int true "Interval length"
// @Param count query int true "Number of intervals"
// @Router /occupancy/intervals [get]
func (h *OccupancyHandlers) GetIntervals(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var q intervalsQuery
	if apiErr := h.res.decodeQuery(r, &q); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	intervals, outcome := h.hubservice.Intervals(r.Context(), q.CameraIDs, q.Start, q.IntervalMinutes, q.Count)
	respondWithRead(w, requestID, intervals, outcome)
}

// @Summary Occupancy since local midnight
// @Tags occupancy
// @Produce json
// @Param camera_id query []int true "Camera IDs"
// @Router /occupancy/current [get]
func (h *OccupancyHandlers) GetCurrent(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var q currentQuery
	if apiErr := h.res.decodeQuery(r, &q); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	current := h.hubservice.CurrentOccupancy(r.Context(), q.CameraIDs)
	respondWithRead(w, requestID, current, current.Outcome)
}
