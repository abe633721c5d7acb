package errors

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestPredicatesFollowWrapping(t *testing.T) {
	base := NewNotFoundError("camera not found", sql.ErrNoRows)
	wrapped := fmt.Errorf("loading camera: %w", base)

	if !IsNotFound(wrapped) {
		t.Error("IsNotFound() should see through fmt.Errorf wrapping")
	}
	if IsDatabase(wrapped) {
		t.Error("IsDatabase() should be false for a not-found error")
	}
	if !stderrors.Is(wrapped, sql.ErrNoRows) {
		t.Error("internal error should be reachable through Unwrap")
	}
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		err  *APIError
		code int
		pred func(error) bool
	}{
		{NewValidationError("bad", nil), http.StatusBadRequest, IsValidation},
		{NewDatabaseError("db", nil), http.StatusInternalServerError, IsDatabase},
		{NewConflictError("overlap", nil), http.StatusConflict, IsConflict},
		{NewUpstreamError("counting", nil), http.StatusBadGateway, IsUpstream},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Type), func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.code)
			}
			if !tt.pred(tt.err) {
				t.Errorf("predicate for %s returned false", tt.err.Type)
			}
		})
	}
}

func TestWithRequestID(t *testing.T) {
	err := NewInternalError("boom", stderrors.New("cause")).WithRequestID("req_1")
	if err.RequestID != "req_1" {
		t.Errorf("RequestID = %q", err.RequestID)
	}
	if got := err.Error(); got != "internal: boom (internal: cause)" {
		t.Errorf("Error() = %q", got)
	}
}
