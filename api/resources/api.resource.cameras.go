// FilePath: api/resources/api.resource.cameras.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/itsatony/headcount/internal/errors"
	"github.com/itsatony/headcount/internal/hubservice"
	"github.com/itsatony/headcount/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// CameraHandlers encapsulates the camera-related HTTP handlers
type CameraHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Register a camera
// @Tags cameras
// @Accept json
// @Produce json
// @Param camera body models.Camera true "Camera details"
// @Success 201 {object} models.Camera
// @Failure 400 {object} errors.APIError
// @Router /cameras [post]
func (h *CameraHandlers) CreateCamera(w http.ResponseWriter, r *http.Request) {
	var camera models.Camera
	requestID := nuts.NID("req", 12)

	if err := json.NewDecoder(r.Body).Decode(&camera); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.CreateCamera(r.Context(), &camera); err != nil {
		respondWithError(w, toAPIError(err, "failed to create camera").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusCreated, camera)
}

// @Summary Get a camera by ID
// @Tags cameras
// @Produce json
// @Param id path int true "Camera ID"
// @Success 200 {object} models.Camera
// @Failure 404 {object} errors.APIError
// @Router /cameras/{id} [get]
func (h *CameraHandlers) GetCamera(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	id, apiErr := pathID(r)
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	camera, err := h.hubservice.GetCamera(r.Context(), id)
	if err != nil {
		respondWithError(w, toAPIError(err, "failed to get camera").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, camera)
}

// @Summary List cameras
// @Tags cameras
// @Produce json
// @Success 200 {array} models.Camera
// @Router /cameras [get]
func (h *CameraHandlers) ListCameras(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	cameras, err := h.hubservice.ListCameras(r.Context())
	if err != nil {
		respondWithError(w, toAPIError(err, "failed to list cameras").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, cameras)
}

// @Summary Update a camera
// @Tags cameras
// @Accept json
// @Produce json
// @Param id path int true "Camera ID"
// @Success 200 {object} models.Camera
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /cameras/{id} [put]
func (h *CameraHandlers) UpdateCamera(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	id, apiErr := pathID(r)
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	var camera models.Camera
	if err := json.NewDecoder(r.Body).Decode(&camera); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	camera.ID = id
	if err := h.hubservice.UpdateCamera(r.Context(), &camera); err != nil {
		respondWithError(w, toAPIError(err, "failed to update camera").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, camera)
}

// @Summary Delete a camera
// @Description Delete a camera together with its schedules and observations
// @Tags cameras
// @Param id path int true "Camera ID"
// @Success 204 "No Content"
// @Failure 404 {object} errors.APIError
// @Router /cameras/{id} [delete]
func (h *CameraHandlers) DeleteCamera(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	id, apiErr := pathID(r)
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	if err := h.hubservice.DeleteCamera(r.Context(), id); err != nil {
		respondWithError(w, toAPIError(err, "failed to delete camera").WithRequestID(requestID))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
