// FilePath: api/resources/api.resource.helpers.go
package resources

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/itsatony/headcount/internal/errors"
	"github.com/itsatony/headcount/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const (
	dateLayout     = "2006-01-02"
	minEpochDigits = 9
)

// readResponse wraps every read-boundary result so clients can tell an empty
// answer from a degraded one.
type readResponse struct {
	Data    any                `json:"data"`
	Outcome models.ReadOutcome `json:"outcome"`
}

// newQueryDecoder decodes query strings into typed structs. Instants may be epoch
// seconds (9 digits or more), RFC3339, a YYYY-MM-DD date (midnight in loc) or a
// time of day (today in loc).
func newQueryDecoder(loc *time.Location, now func() time.Time) *schema.Decoder {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	decoder.RegisterConverter(time.Time{}, func(value string) reflect.Value {
		t, err := parseInstant(value, loc, now())
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(t)
	})
	return decoder
}

func parseInstant(value string, loc *time.Location, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if sec, err := strconv.ParseInt(value, 10, 64); err == nil {
		// short digit runs are compact dates (20240315) or typos, not epochs before 1973
		if len(strings.TrimPrefix(value, "-")) < minEpochDigits {
			return time.Time{}, errors.NewValidationError("invalid time value: "+value+" (epoch seconds need at least 9 digits; dates use YYYY-MM-DD)", nil)
		}
		return time.Unix(sec, 0).In(loc), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}
	if t, err := time.ParseInLocation(dateLayout, value, loc); err == nil {
		return t, nil
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			y, m, d := now.In(loc).Date()
			return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, loc), nil
		}
	}
	return time.Time{}, errors.NewValidationError("invalid time value: "+value, nil)
}

func (res *Resources) decodeQuery(r *http.Request, dst any) *errors.APIError {
	if err := res.decoder.Decode(dst, r.URL.Query()); err != nil {
		return errors.NewValidationError("invalid query parameters", err)
	}
	return nil
}

func pathID(r *http.Request) (int64, *errors.APIError) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("invalid id", err)
	}
	return id, nil
}

// toAPIError keeps typed service errors and wraps anything else as internal.
func toAPIError(err error, msg string) *errors.APIError {
	if apiErr, ok := errors.As(err); ok {
		return apiErr
	}
	return errors.NewInternalError(msg, err)
}

func respondWithRead(w http.ResponseWriter, requestID string, data any, outcome models.ReadOutcome) {
	if outcome == models.ReadNotFound {
		respondWithError(w, errors.NewNotFoundError("resource not found", nil).WithRequestID(requestID))
		return
	}
	if outcome.Degraded() {
		nuts.L.Warnf("[API] Request %s served a degraded read", requestID)
	}
	respondWithJSON(w, http.StatusOK, readResponse{Data: data, Outcome: outcome})
}

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	nuts.L.Errorf("[API] %s", err.Error())
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
