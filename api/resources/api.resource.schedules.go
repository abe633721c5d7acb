// FilePath: api/resources/api.resource.schedules.go
package resources

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/itsatony/headcount/internal/errors"
	"github.com/itsatony/headcount/internal/hubservice"
	"github.com/itsatony/headcount/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// ScheduleHandlers encapsulates the schedule-related HTTP handlers
type ScheduleHandlers struct {
	hubservice *hubservice.HubService
	res        *Resources
}

// scheduleRequest accepts start_time as RFC3339 or as a bare time of day ("09:00").
type scheduleRequest struct {
	CameraID        int64  `json:"camera_id"`
	Name            string `json:"name"`
	StartTime       string `json:"start_time"`
	DurationSeconds int64  `json:"duration_seconds"`
}

func (h *ScheduleHandlers) decodeSchedule(r *http.Request) (*models.Schedule, *errors.APIError) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.NewValidationError("invalid request body", err)
	}
	start, err := parseInstant(req.StartTime, h.hubservice.Location(), h.hubservice.Now())
	if err != nil {
		return nil, errors.NewValidationError("invalid start_time", err)
	}
	return &models.Schedule{
		CameraID:        req.CameraID,
		Name:            req.Name,
		StartTime:       start,
		DurationSeconds: req.DurationSeconds,
	}, nil
}

type scheduleListQuery struct {
	CameraID   int64     `schema:"camera_id"`
	Date       time.Time `schema:"date"`
	WithStatus bool      `schema:"with_status"`
}

type scheduleDateQuery struct {
	Date time.Time `schema:"date"`
}

type activeQuery struct {
	CameraID int64 `schema:"camera_id"`
}

type conflictQuery struct {
	Start     time.Time `schema:"start"`
	Duration  int64     `schema:"duration"`
	ExcludeID int64     `schema:"exclude_id"`
}

// @Summary Create a schedule
// @Description Create a capture window; rejected with 409 when it overlaps an existing schedule
// @Tags schedules
// @Accept json
// @Produce json
// @Success 201 {object} models.Schedule
// @Failure 400 {object} errors.APIError
// @Failure 409 {object} errors.APIError
// @Router /schedules [post]
func (h *ScheduleHandlers) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	sched, apiErr := h.decodeSchedule(r)
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	if err := h.hubservice.CreateSchedule(r.Context(), sched); err != nil {
		respondWithError(w, toAPIError(err, "failed to create schedule").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusCreated, sched)
}

// @Summary Get a schedule by ID
// @Tags schedules
// @Produce json
// @Param id path int true "Schedule ID"
// @Success 200 {object} models.CameraSchedule
// @Failure 404 {object} errors.APIError
// @Router /schedules/{id} [get]
func (h *ScheduleHandlers) GetSchedule(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	id, apiErr := pathID(r)
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	sched, err := h.hubservice.GetSchedule(r.Context(), id)
	if err != nil {
		respondWithError(w, toAPIError(err, "failed to get schedule").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, sched)
}

// @Summary List schedules
// @Description List schedules, optionally for one camera and with their status on a date
// @Tags schedules
// @Produce json
// @Param camera_id query int false "Camera ID"
// @Param with_status query bool false "Include status"
// @Param date query string false "Date for the status (default today)"
// @Router /schedules [get]
func (h *ScheduleHandlers) ListSchedules(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var q scheduleListQuery
	if apiErr := h.res.decodeQuery(r, &q); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	if q.WithStatus {
		schedules, outcome := h.hubservice.DaySchedules(r.Context(), q.CameraID, q.Date)
		respondWithRead(w, requestID, schedules, outcome)
		return
	}

	schedules, err := h.hubservice.ListSchedules(r.Context(), q.CameraID)
	if err != nil {
		respondWithError(w, toAPIError(err, "failed to list schedules").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, schedules)
}

// @Summary Update a schedule
// @Tags schedules
// @Accept json
// @Produce json
// @Param id path int true "Schedule ID"
// @Success 200 {object} models.Schedule
// @Failure 404 {object} errors.APIError
// @Failure 409 {object} errors.APIError
// @Router /schedules/{id} [put]
func (h *ScheduleHandlers) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	id, apiErr := pathID(r)
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	sched, apiErr := h.decodeSchedule(r)
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	sched.ID = id
	if err := h.hubservice.UpdateSchedule(r.Context(), sched); err != nil {
		respondWithError(w, toAPIError(err, "failed to update schedule").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, sched)
}

// @Summary Delete a schedule
// @Tags schedules
// @Param id path int true "Schedule ID"
// @Success 204 "No Content"
// @Router /schedules/{id} [delete]
func (h *ScheduleHandlers) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	id, apiErr := pathID(r)
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	if err := h.hubservice.DeleteSchedule(r.Context(), id); err != nil {
		respondWithError(w, toAPIError(err, "failed to delete schedule").WithRequestID(requestID))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Get schedule status
// @Description Upcoming, active or completed on the given date (default today)
// @Tags schedules
// @Produce json
// @Param id path int true "Schedule ID"
// @Param date query string false "Date"
// @Router /schedules/{id}/status [get]
func (h *ScheduleHandlers) GetScheduleStatus(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	id, apiErr := pathID(r)
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	var q scheduleDateQuery
	if apiErr := h.res.decodeQuery(r, &q); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	status, outcome := h.hubservice.ScheduleStatus(r.Context(), id, q.Date)
	respondWithRead(w, requestID, status, outcome)
}

// @Summary Occupancy within a schedule's window
// @Tags schedules
// @Produce json
// @Param id path int true "Schedule ID"
// @Param date query string false "Date"
// @Router /schedules/{id}/occupancy [get]
func (h *ScheduleHandlers) GetScheduleOccupancy(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	id, apiErr := pathID(r)
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	var q scheduleDateQuery
	if apiErr := h.res.decodeQuery(r, &q); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	totals, outcome := h.hubservice.ScheduleOccupancy(r.Context(), id, q.Date)
	respondWithRead(w, requestID, map[string]int64{
		"in":      totals.In,
		"out":     totals.Out,
		"present": totals.Present(),
	}, outcome)
}

// @Summary Currently active schedule
// @Description First active schedule in registry order; camera_id narrows the search
// @Tags schedules
// @Produce json
// @Param camera_id query int false "Camera ID"
// @Router /schedules/active [get]
func (h *ScheduleHandlers) GetActiveSchedule(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var q activeQuery
	if apiErr := h.res.decodeQuery(r, &q); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	active, outcome := h.hubservice.ActiveSchedule(r.Context(), q.CameraID)
	respondWithRead(w, requestID, active, outcome)
}

// @Summary Check a proposed window for conflicts
// @Tags schedules
// @Produce json
// @Param start query string true "Proposed start"
// @Param duration query int true "Duration in seconds"
// @Param exclude_id query int false "Schedule to ignore"
// @Router /schedules/conflicts [get]
func (h *ScheduleHandlers) GetConflicts(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var q conflictQuery
	if apiErr := h.res.decodeQuery(r, &q); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}
	if q.Start.IsZero() {
		respondWithError(w, errors.NewValidationError("start is required", nil).WithRequestID(requestID))
		return
	}

	conflicts, outcome := h.hubservice.ScheduleConflicts(r.Context(), q.Start, q.Duration, q.ExcludeID)
	if conflicts == nil {
		conflicts = []*models.CameraSchedule{}
	}
	respondWithRead(w, requestID, map[string]any{
		"conflict":  len(conflicts) > 0,
		"schedules": conflicts,
	}, outcome)
}
