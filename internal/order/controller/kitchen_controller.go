package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"comandero/internal/commons"
	"comandero/internal/domain"
	"comandero/internal/dto"
	apperrors "comandero/internal/errors"
)

const streamHeartbeat = 25 * time.Second

type KitchenUseCase interface {
	Transition(ctx context.Context, actorID, orderID uuid.UUID, status string) (*dto.OrderResponse, error)
	ListActive(ctx context.Context, actorID uuid.UUID, slug string) (*dto.OrderListResponse, error)
	Authorize(ctx context.Context, actorID uuid.UUID, slug string) (*domain.Restaurant, error)
}

// KitchenFeed delivers the notifications published for one restaurant while the caller listens.
type KitchenFeed interface {
	Subscribe(ctx context.Context, restaurantSlug string) (<-chan []byte, func(), error)
}

// KitchenController serves staff endpoints. Every request must carry the actor header.
type KitchenController struct {
	useCase KitchenUseCase
	feed    KitchenFeed
	logger  *zap.Logger
}

// NewKitchenController accepts a nil feed when the notification backend cannot be consumed in-process.
func NewKitchenController(useCase KitchenUseCase, feed KitchenFeed, logger *zap.Logger) *KitchenController {
	return &KitchenController{
		useCase: useCase,
		feed:    feed,
		logger:  logger,
	}
}

func (c *KitchenController) CanStream() bool {
	return c.feed != nil
}

func (c *KitchenController) Transition(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	actorID, ok := commons.Actor(r)
	if !ok {
		commons.WriteUnauthorized(w, traceID, logger)
		return
	}

	orderID, ok := orderIDParam(r)
	if !ok {
		commons.WriteValidationError(w, traceID, logger, "invalid orderId", invalidOrderID)
		return
	}

	var req dto.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, traceID, logger, "invalid JSON body", invalidBody)
		return
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		commons.WriteValidationError(w, traceID, logger, "validation failed", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status is required",
		})
		return
	}

	resp, err := c.useCase.Transition(r.Context(), actorID, orderID, status)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

func (c *KitchenController) ListActive(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	actorID, ok := commons.Actor(r)
	if !ok {
		commons.WriteUnauthorized(w, traceID, logger)
		return
	}

	resp, err := c.useCase.ListActive(r.Context(), actorID, chi.URLParam(r, "slug"))
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

// Stream pushes every order notification of the restaurant as a server-sent event until the
// client disconnects. Messages published while no display is connected are not replayed.
func (c *KitchenController) Stream(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()
	slug := chi.URLParam(r, "slug")
	logger := c.logger.With(zap.String("traceId", traceID), zap.String("restaurant", slug))

	actorID, ok := commons.Actor(r)
	if !ok {
		commons.WriteUnauthorized(w, traceID, logger)
		return
	}

	if _, err := c.useCase.Authorize(r.Context(), actorID, slug); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok || c.feed == nil {
		commons.WriteError(w, traceID, fmt.Errorf("streaming unsupported"), logger)
		return
	}

	ctx := r.Context()
	messages, stop, err := c.feed.Subscribe(ctx, slug)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}
	defer stop()

	// The server write timeout would otherwise cut long-lived streams.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	logger.Info("kitchen stream opened", zap.String("actorId", actorID.String()))
	defer logger.Info("kitchen stream closed")

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: order\ndata: %s\n\n", msg); err != nil {
				logger.Warn("failed to write event", zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}
