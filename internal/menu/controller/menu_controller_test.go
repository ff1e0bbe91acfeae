package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"comandero/internal/dto"
	apperrors "comandero/internal/errors"
)

type mockGetMenuUseCase struct {
	GetPublicMenuFunc func(ctx context.Context, slug string) (*dto.PublicMenuResponse, error)
}

func (m *mockGetMenuUseCase) GetPublicMenu(ctx context.Context, slug string) (*dto.PublicMenuResponse, error) {
	return m.GetPublicMenuFunc(ctx, slug)
}

func serve(ctrl *MenuController, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/api/order/{slug}/menu", ctrl.GetMenu)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestGetMenu_Success(t *testing.T) {
	uc := &mockGetMenuUseCase{
		GetPublicMenuFunc: func(ctx context.Context, slug string) (*dto.PublicMenuResponse, error) {
			assert.Equal(t, "trattoria", slug)
			return &dto.PublicMenuResponse{RestaurantName: "Trattoria", Categories: []dto.PublicCategoryDTO{}}, nil
		},
	}

	rec := serve(NewMenuController(uc, zap.NewNop()), "/api/order/trattoria/menu")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Trattoria", body["restaurant_name"])
	assert.Equal(t, []any{}, body["categories"])
}

func TestGetMenu_NotFound(t *testing.T) {
	uc := &mockGetMenuUseCase{
		GetPublicMenuFunc: func(ctx context.Context, slug string) (*dto.PublicMenuResponse, error) {
			return nil, apperrors.NewNotFoundError("restaurant \"nope\" not found")
		},
	}

	rec := serve(NewMenuController(uc, zap.NewNop()), "/api/order/nope/menu")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Error)
	assert.NotEmpty(t, body.TraceID)
}
