package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"comandero/internal/commons"
	"comandero/internal/dto"
	apperrors "comandero/internal/errors"
)

const (
	maxRawInputLength  = 2000
	maxTableIdentifier = 50
	maxItems           = 100
	maxQuantity        = 1000
)

type ParseOrderUseCase interface {
	Parse(ctx context.Context, slug string, req dto.ParseOrderRequest) (*dto.ValidatedOrderResponse, error)
}

type ConfirmOrderUseCase interface {
	Confirm(ctx context.Context, slug string, req dto.ConfirmOrderRequest) (*dto.OrderResponse, error)
}

type OrderStatusUseCase interface {
	Status(ctx context.Context, slug string, orderID uuid.UUID) (*dto.OrderResponse, error)
}

type TableQRGenerator interface {
	TableQR(slug, table string) ([]byte, error)
}

// OrderController serves the public customer endpoints. None of them require an actor.
type OrderController struct {
	parseUseCase   ParseOrderUseCase
	confirmUseCase ConfirmOrderUseCase
	statusUseCase  OrderStatusUseCase
	qr             TableQRGenerator
	logger         *zap.Logger
}

func NewOrderController(
	parseUseCase ParseOrderUseCase,
	confirmUseCase ConfirmOrderUseCase,
	statusUseCase OrderStatusUseCase,
	qr TableQRGenerator,
	logger *zap.Logger,
) *OrderController {
	return &OrderController{
		parseUseCase:   parseUseCase,
		confirmUseCase: confirmUseCase,
		statusUseCase:  statusUseCase,
		qr:             qr,
		logger:         logger,
	}
}

func (c *OrderController) Parse(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.ParseOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, traceID, logger, "invalid JSON body", invalidBody)
		return
	}

	if err := validateParseRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		commons.WriteValidationError(w, traceID, logger, ve.Message, ve.Details...)
		return
	}

	resp, err := c.parseUseCase.Parse(r.Context(), chi.URLParam(r, "slug"), req)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

func (c *OrderController) Confirm(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.ConfirmOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, traceID, logger, "invalid JSON body", invalidBody)
		return
	}

	if err := validateConfirmRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		commons.WriteValidationError(w, traceID, logger, ve.Message, ve.Details...)
		return
	}

	resp, err := c.confirmUseCase.Confirm(r.Context(), chi.URLParam(r, "slug"), req)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, resp, logger)
}

func (c *OrderController) Status(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, ok := orderIDParam(r)
	if !ok {
		commons.WriteValidationError(w, traceID, logger, "invalid orderId", invalidOrderID)
		return
	}

	resp, err := c.statusUseCase.Status(r.Context(), chi.URLParam(r, "slug"), orderID)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

// TableQR renders the PNG printed on a table; scanning it opens the ordering page for that table.
func (c *OrderController) TableQR(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	table := chi.URLParam(r, "table")
	if table == "" || utf8.RuneCountInString(table) > maxTableIdentifier {
		commons.WriteValidationError(w, traceID, logger, "invalid table", apperrors.ValidationDetail{
			Field:   "table",
			Message: "table must be between 1 and 50 characters",
		})
		return
	}

	png, err := c.qr.TableQR(chi.URLParam(r, "slug"), table)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		logger.Warn("failed to write qr code", zap.Error(err))
	}
}

var (
	invalidBody = apperrors.ValidationDetail{
		Field:   "body",
		Message: "request body must be valid JSON",
	}
	invalidOrderID = apperrors.ValidationDetail{
		Field:   "orderId",
		Message: "orderId must be a UUID",
	}
)

func orderIDParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func validateParseRequest(req dto.ParseOrderRequest) error {
	var details []apperrors.ValidationDetail

	rawInput := strings.TrimSpace(req.RawInput)
	if rawInput == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "raw_input",
			Message: "raw_input is required",
		})
	}
	if utf8.RuneCountInString(rawInput) > maxRawInputLength {
		details = append(details, apperrors.ValidationDetail{
			Field:   "raw_input",
			Message: "raw_input exceeds maximum of 2000 characters",
		})
	}

	if utf8.RuneCountInString(req.TableIdentifier) > maxTableIdentifier {
		details = append(details, apperrors.ValidationDetail{
			Field:   "table_identifier",
			Message: "table_identifier exceeds maximum of 50 characters",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func validateConfirmRequest(req dto.ConfirmOrderRequest) error {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(req.RawInput) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "raw_input",
			Message: "raw_input is required",
		})
	}

	if utf8.RuneCountInString(req.TableIdentifier) > maxTableIdentifier {
		details = append(details, apperrors.ValidationDetail{
			Field:   "table_identifier",
			Message: "table_identifier exceeds maximum of 50 characters",
		})
	}

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	if len(req.Items) > maxItems {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items exceeds maximum of 100",
		})
	}

	for idx, item := range req.Items {
		prefix := "items[" + strconv.Itoa(idx) + "]."

		if item.MenuItemID <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + "menu_item_id",
				Message: "menu_item_id must be a positive integer",
			})
		}

		if item.VariantID <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + "variant_id",
				Message: "variant_id must be a positive integer",
			})
		}

		if item.Quantity < 1 || item.Quantity > maxQuantity {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + "quantity",
				Message: "quantity must be between 1 and 1000",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
