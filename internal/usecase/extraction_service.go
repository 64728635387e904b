package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/consumewise/backend/internal/domain"
	"github.com/consumewise/backend/internal/schema"
	"github.com/rs/zerolog"
)

// ExtractionConfig holds configuration for the extraction service
type ExtractionConfig struct {
	// Prompt is the instruction text sent ahead of the label images.
	// It is loaded once at startup and never changes afterwards.
	Prompt string
}

// ExtractionService turns a set of label photographs of one product into a
// validated ProductRecord. It never persists and never retries.
type ExtractionService struct {
	vision  domain.VisionExtractor
	decoder *schema.Validator
	prompt  string
	logger  zerolog.Logger
}

// NewExtractionService creates a new extraction service with dependencies
func NewExtractionService(
	vision domain.VisionExtractor,
	decoder *schema.Validator,
	config ExtractionConfig,
	logger zerolog.Logger,
) (*ExtractionService, error) {
	if vision == nil {
		return nil, errors.New("vision extractor is required")
	}
	if decoder == nil {
		return nil, errors.New("schema validator is required")
	}
	if strings.TrimSpace(config.Prompt) == "" {
		return nil, errors.New("extraction prompt is empty")
	}

	return &ExtractionService{
		vision:  vision,
		decoder: decoder,
		prompt:  config.Prompt,
		logger:  logger.With().Str("service", "extraction").Logger(),
	}, nil
}

// Extract sends the prompt and images to the vision model and decodes the
// answer. Flow: validate input -> one model call -> strict decode -> return
func (s *ExtractionService) Extract(ctx context.Context, imageURLs []string) (*domain.ProductRecord, error) {
	if len(imageURLs) == 0 {
		return nil, fmt.Errorf("%w: at least one image is required", domain.ErrInvalidRequest)
	}
	for i, imageURL := range imageURLs {
		if strings.TrimSpace(imageURL) == "" {
			return nil, fmt.Errorf("%w: image %d is blank", domain.ErrInvalidRequest, i)
		}
	}

	request := domain.ExtractionRequest{
		Instructions: s.prompt,
		ImageURLs:    append([]string(nil), imageURLs...),
	}

	start := time.Now()
	payload, err := s.vision.ExtractStructured(ctx, request)
	if err != nil {
		s.logger.Error().Err(err).
			Int("images", len(imageURLs)).
			Dur("duration", time.Since(start)).
			Msg("vision model call failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}

	record, err := s.decoder.Decode([]byte(payload))
	if err != nil {
		s.logger.Warn().Err(err).
			Int("images", len(imageURLs)).
			Int("payload_bytes", len(payload)).
			Msg("vision model returned a non-conforming payload")
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}

	s.logger.Info().
		Str("product", record.ProductName).
		Str("brand", record.BrandName).
		Int("images", len(imageURLs)).
		Int("ingredients", len(record.Ingredients)).
		Int("nutrients", len(record.NutritionalInformation)).
		Dur("duration", time.Since(start)).
		Msg("label extracted")

	return record, nil
}
