package dto

import (
	"time"

	apperrors "comandero/internal/errors"
)

type ErrorResponse struct {
	TraceID   string                       `json:"traceId"`
	Status    int                          `json:"status"`
	Error     string                       `json:"error"`
	Message   string                       `json:"message"`
	Details   []apperrors.ValidationDetail `json:"details,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}

// InvalidTransitionResponse always lists the allowed next states, empty for a terminal order.
type InvalidTransitionResponse struct {
	ErrorResponse
	CurrentStatus string   `json:"current_status"`
	Allowed       []string `json:"allowed"`
}
