package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"comandero/internal/commons"
	"comandero/internal/dto"
)

type GetMenuUseCase interface {
	GetPublicMenu(ctx context.Context, slug string) (*dto.PublicMenuResponse, error)
}

type MenuController struct {
	useCase GetMenuUseCase
	logger  *zap.Logger
}

func NewMenuController(useCase GetMenuUseCase, logger *zap.Logger) *MenuController {
	return &MenuController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *MenuController) GetMenu(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	slug := chi.URLParam(r, "slug")
	resp, err := c.useCase.GetPublicMenu(r.Context(), slug)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, resp, logger)
}
