// Package parsing turns a customer's free text into a candidate order by asking a language model,
// grounded on the rendered menu of the restaurant. It never checks ids against the menu.
package parsing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"

	"comandero/internal/domain"
	apperrors "comandero/internal/errors"
)

const temperature = 0.1

const systemPrompt = `You are an order-taking assistant for a restaurant. Given a customer's natural language order and the restaurant's menu, extract the structured order.

Return ONLY valid JSON in this exact format:
{
  "items": [
    {
      "menu_item_id": <int>,
      "variant_id": <int>,
      "quantity": <int>,
      "modifier_ids": [<int>, ...],
      "special_requests": "<string>"
    }
  ],
  "language": "<ISO 639-1 code of the language the customer used>"
}

Rules:
- Only use item_id, variant_id, and modifier_id values from the menu provided
- If the customer doesn't specify a variant, use the DEFAULT variant
- If quantity is not specified, assume 1
- Keep special_requests brief and in English
- Detect the language the customer wrote/spoke in and set the "language" field
- If something the customer asked for is not on the menu, skip it (do NOT invent IDs)`

type Gateway struct {
	model    llms.Model
	provider Provider
	timeout  time.Duration
	logger   *zap.Logger
}

// NewGateway wraps an already built model. A zero timeout leaves the caller's deadline alone.
func NewGateway(model llms.Model, provider Provider, timeout time.Duration, logger *zap.Logger) *Gateway {
	return &Gateway{
		model:    model,
		provider: provider,
		timeout:  timeout,
		logger:   logger,
	}
}

func (g *Gateway) Parse(ctx context.Context, rawText, menuContext string) (*domain.CandidateOrder, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	userMessage := fmt.Sprintf("Customer's order:\n\"%s\"\n\nRestaurant menu:\n%s", rawText, menuContext)
	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, userMessage),
	}

	opts := []llms.CallOption{llms.WithTemperature(temperature)}
	if g.provider == ProviderOpenAI {
		opts = append(opts, llms.WithJSONMode())
	}

	start := time.Now()
	resp, err := g.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, apperrors.NewProviderError(string(g.provider), "completion request failed", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, apperrors.NewProviderError(string(g.provider), "empty completion", nil)
	}

	raw := resp.Choices[0].Content
	g.logger.Debug("llm response received",
		zap.String("provider", string(g.provider)),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("content", raw),
	)

	candidate, err := DecodeCandidate(raw)
	if err != nil {
		return nil, apperrors.NewProviderError(string(g.provider), "malformed completion", err)
	}
	return candidate, nil
}

type wireOrder struct {
	Items    []wireItem `json:"items"`
	Language string     `json:"language"`
}

type wireItem struct {
	MenuItemID      int    `json:"menu_item_id"`
	VariantID       int    `json:"variant_id"`
	Quantity        *int   `json:"quantity"`
	ModifierIDs     []int  `json:"modifier_ids"`
	SpecialRequests string `json:"special_requests"`
}

// DecodeCandidate reads the model's JSON answer and fills in defaults: quantity 1, no modifiers,
// empty special requests and language "en". Markdown code fences around the JSON are tolerated.
func DecodeCandidate(raw string) (*domain.CandidateOrder, error) {
	var w wireOrder
	if err := json.Unmarshal([]byte(stripFences(raw)), &w); err != nil {
		return nil, fmt.Errorf("decoding candidate order: %w", err)
	}

	out := &domain.CandidateOrder{
		Items:    make([]domain.CandidateItem, 0, len(w.Items)),
		Language: strings.TrimSpace(w.Language),
	}
	if out.Language == "" {
		out.Language = domain.DefaultLanguage
	}

	for _, item := range w.Items {
		quantity := 1
		if item.Quantity != nil && *item.Quantity >= 1 {
			quantity = *item.Quantity
		}
		modifierIDs := item.ModifierIDs
		if modifierIDs == nil {
			modifierIDs = []int{}
		}
		out.Items = append(out.Items, domain.CandidateItem{
			MenuItemID:      item.MenuItemID,
			VariantID:       item.VariantID,
			Quantity:        quantity,
			ModifierIDs:     modifierIDs,
			SpecialRequests: item.SpecialRequests,
		})
	}

	return out, nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
