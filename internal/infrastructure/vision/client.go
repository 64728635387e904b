// Package vision talks to the vision-capable language model that reads label
// photographs. Calls run under a strict structured-output schema.
package vision

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/consumewise/backend/internal/domain"
	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

// ErrEmptyResponse is returned when the model answers without content
var ErrEmptyResponse = errors.New("vision model returned no content")

// Config holds the settings of the vision model client
type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           time.Duration
	RequestsPerMinute int

	// SchemaName and Schema describe the structured-output contract
	SchemaName string
	Schema     []byte
}

// Client implements domain.VisionExtractor on top of a langchaingo model
type Client struct {
	llm         llms.Model
	timeout     time.Duration
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

// NewClient creates an OpenAI-backed vision client whose every call is
// constrained by the configured JSON schema
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	format, err := ResponseFormat(cfg.SchemaName, cfg.Schema)
	if err != nil {
		return nil, err
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
		openai.WithResponseFormat(format),
		openai.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vision model: %w", err)
	}

	return newClient(llm, cfg, logger), nil
}

func newClient(llm llms.Model, cfg Config, logger zerolog.Logger) *Client {
	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerMinute) / 60)
		burst = max(1, cfg.RequestsPerMinute/10)
	}

	return &Client{
		llm:         llm,
		timeout:     cfg.Timeout,
		rateLimiter: rate.NewLimiter(limit, burst),
		logger:      logger.With().Str("client", "vision").Str("model", cfg.Model).Logger(),
	}
}

// ExtractStructured sends one request and returns the raw JSON document the
// model produced. It does not retry.
func (c *Client) ExtractStructured(ctx context.Context, request domain.ExtractionRequest) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	start := time.Now()
	resp, err := c.llm.GenerateContent(ctx, BuildMessages(request))
	if err != nil {
		c.logger.Error().Err(err).
			Int("images", len(request.ImageURLs)).
			Dur("duration", time.Since(start)).
			Msg("vision request failed")
		return "", fmt.Errorf("vision request failed: %w", err)
	}

	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", ErrEmptyResponse
	}

	choice := resp.Choices[0]
	if choice.StopReason == "length" {
		return "", fmt.Errorf("vision response truncated after %s", time.Since(start))
	}
	if choice.Content == "" {
		return "", ErrEmptyResponse
	}

	c.logger.Debug().
		Int("images", len(request.ImageURLs)).
		Int("bytes", len(choice.Content)).
		Str("stop_reason", choice.StopReason).
		Dur("duration", time.Since(start)).
		Msg("vision response received")

	return choice.Content, nil
}
