// Package commons holds the HTTP helpers shared by every controller: JSON writing, the error envelope
// and the actor header.
package commons

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"comandero/internal/dto"
	apperrors "comandero/internal/errors"
)

// ActorHeader carries the authenticated user id forwarded by the upstream auth gateway.
const ActorHeader = "X-User-ID"

func NewTraceID() string {
	return uuid.New().String()
}

// Actor returns the user id of the request. ok is false when the header is missing or not a uuid.
func Actor(r *http.Request) (uuid.UUID, bool) {
	raw := r.Header.Get(ActorHeader)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func WriteJSON(w http.ResponseWriter, status int, data any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func WriteValidationError(w http.ResponseWriter, traceID string, logger *zap.Logger, message string, details ...apperrors.ValidationDetail) {
	WriteJSON(w, http.StatusBadRequest, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    http.StatusBadRequest,
		Error:     "VALIDATION_ERROR",
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}, logger)
}

func WriteUnauthorized(w http.ResponseWriter, traceID string, logger *zap.Logger) {
	writeError(w, traceID, http.StatusUnauthorized, "UNAUTHORIZED", "a valid "+ActorHeader+" header is required", logger)
}

// WriteError maps an application error to its HTTP status and error code. Unknown errors are logged
// and answered with a generic 500.
func WriteError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		WriteValidationError(w, traceID, logger, ve.Message, ve.Details...)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		writeError(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error(), logger)
		return
	}

	if te, ok := apperrors.IsInvalidTransitionError(err); ok {
		WriteJSON(w, http.StatusBadRequest, dto.InvalidTransitionResponse{
			ErrorResponse: dto.ErrorResponse{
				TraceID:   traceID,
				Status:    http.StatusBadRequest,
				Error:     "INVALID_TRANSITION",
				Message:   te.Error(),
				Timestamp: time.Now().UTC(),
			},
			CurrentStatus: te.Current,
			Allowed:       te.Allowed,
		}, logger)
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		writeError(w, traceID, http.StatusConflict, "CONFLICT", err.Error(), logger)
		return
	}

	if _, ok := apperrors.IsDeadlockError(err); ok {
		writeError(w, traceID, http.StatusConflict, "DEADLOCK", err.Error(), logger)
		return
	}

	if pe, ok := apperrors.IsProviderError(err); ok {
		logger.Error("order parsing provider failed", zap.String("provider", pe.Provider), zap.Error(err))
		writeError(w, traceID, http.StatusBadGateway, "PROVIDER_ERROR", "the order could not be interpreted, please try again", logger)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	writeError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", logger)
}

func writeError(w http.ResponseWriter, traceID string, status int, code, message string, logger *zap.Logger) {
	WriteJSON(w, status, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Error:     code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}, logger)
}
