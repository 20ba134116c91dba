// Package gemini implements the generation.Generator interface on top of
// Google's Gemini API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"text/template"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/dtd2x/vocabmaster/internal/config"
	"github.com/dtd2x/vocabmaster/internal/domain"
	"github.com/dtd2x/vocabmaster/internal/generation"
)

// Retry defaults for transient API failures.
const (
	maxRetries       = 3
	baseRetryDelay   = 2 * time.Second
	defaultCardCount = 10
	maxCardCount     = 50
)

// promptTemplate asks for strict JSON so the response can be unmarshalled
// directly into responseSchema.
const promptTemplate = `You are a language teacher building vocabulary flashcards.
Generate exactly {{.Count}} flashcards for a student learning {{.Language}}.
Topic: {{.Topic}}

Respond with a JSON array only, no prose, where each element has the fields:
  "front":            the word or phrase in {{.Language}}
  "back":             the English translation
  "example_sentence": a short example sentence in {{.Language}}
  "pronunciation":    a romanized pronunciation hint

Example: [{"front":"...","back":"...","example_sentence":"...","pronunciation":"..."}]`

type promptData struct {
	Topic    string
	Language string
	Count    int
}

// responseSchema mirrors the JSON array the model is instructed to return.
type responseSchema []struct {
	Front           string `json:"front"`
	Back            string `json:"back"`
	ExampleSentence string `json:"example_sentence"`
	Pronunciation   string `json:"pronunciation"`
}

// Generator implements generation.Generator using the Gemini API.
type Generator struct {
	logger   *slog.Logger
	client   *genai.Client
	model    string
	template *template.Template
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Gemini-backed card generator.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	tmpl, err := template.New("vocab").Parse(promptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger:   logger.With(slog.String("component", "gemini_generator")),
		client:   client,
		model:    cfg.ModelName,
		template: tmpl,
	}, nil
}

// GenerateCards implements the generation.Generator interface.
func (g *Generator) GenerateCards(
	ctx context.Context,
	req generation.Request,
) ([]*domain.Card, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	prompt, err := g.buildPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	response, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	cards, err := g.parseResponse(response, req)
	if err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "generated vocabulary cards",
		slog.String("deck_id", req.DeckID.String()),
		slog.String("language", req.Language),
		slog.Int("card_count", len(cards)))

	return cards, nil
}

func validateRequest(req *generation.Request) error {
	if req.DeckID == uuid.Nil {
		return fmt.Errorf("%w: deck ID cannot be empty", generation.ErrInvalidRequest)
	}
	if req.Topic == "" {
		return fmt.Errorf("%w: topic cannot be empty", generation.ErrInvalidRequest)
	}
	if req.Language == "" {
		return fmt.Errorf("%w: language cannot be empty", generation.ErrInvalidRequest)
	}
	if req.Count <= 0 {
		req.Count = defaultCardCount
	}
	if req.Count > maxCardCount {
		req.Count = maxCardCount
	}
	return nil
}

func (g *Generator) buildPrompt(req generation.Request) (string, error) {
	var buf bytes.Buffer
	err := g.template.Execute(&buf, promptData{
		Topic:    req.Topic,
		Language: req.Language,
		Count:    req.Count,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// callWithRetry calls the Gemini API with exponential backoff and jitter for
// transient failures. Permanent failures (blocked content, unparseable
// responses) are returned immediately.
func (g *Generator) callWithRetry(ctx context.Context, prompt string) (responseSchema, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		g.logger.DebugContext(ctx, "calling Gemini API",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxRetries+1))

		response, err := g.callOnce(ctx, prompt)
		if err == nil {
			return response, nil
		}

		if errors.Is(err, generation.ErrContentBlocked) ||
			errors.Is(err, generation.ErrInvalidResponse) {
			return nil, err
		}

		g.logger.WarnContext(ctx, "Gemini API call failed",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))

		if attempt >= maxRetries {
			return nil, fmt.Errorf("%w: exceeded %d attempts: %v",
				generation.ErrTransientFailure, maxRetries+1, err)
		}

		backoff := float64(baseRetryDelay) * math.Pow(2, float64(attempt))
		jitter := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoff * jitter)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

func (g *Generator) callOnce(ctx context.Context, prompt string) (responseSchema, error) {
	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, err
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: finish reason safety", generation.ErrContentBlocked)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty response text", generation.ErrInvalidResponse)
	}

	var parsed responseSchema
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}

	return parsed, nil
}

func (g *Generator) parseResponse(
	response responseSchema,
	req generation.Request,
) ([]*domain.Card, error) {
	if len(response) == 0 {
		return nil, fmt.Errorf("%w: model returned no cards", generation.ErrInvalidResponse)
	}

	cards := make([]*domain.Card, 0, len(response))
	for i, item := range response {
		card, err := domain.NewCard(req.DeckID, item.Front, item.Back)
		if err != nil {
			return nil, fmt.Errorf("%w: card %d failed validation: %v",
				generation.ErrInvalidResponse, i, err)
		}
		card.ExampleSentence = item.ExampleSentence
		card.Pronunciation = item.Pronunciation
		cards = append(cards, card)
	}

	return cards, nil
}
