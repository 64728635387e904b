package vision

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/consumewise/backend/internal/domain"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// BuildMessages maps an extraction request to a single user message: the
// instructions first, then one image part per URL in request order
func BuildMessages(request domain.ExtractionRequest) []llms.MessageContent {
	parts := make([]llms.ContentPart, 0, len(request.ImageURLs)+1)
	parts = append(parts, llms.TextPart(request.Instructions))
	for _, imageURL := range request.ImageURLs {
		parts = append(parts, llms.ImageURLPart(imageURL))
	}

	return []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: parts,
		},
	}
}

// ResponseFormat converts a JSON Schema document into a strict
// json_schema response format
func ResponseFormat(name string, schemaDoc []byte) (*openai.ResponseFormat, error) {
	if name == "" {
		return nil, errors.New("schema name is required")
	}

	var property openai.ResponseFormatJSONSchemaProperty
	if err := json.Unmarshal(schemaDoc, &property); err != nil {
		return nil, fmt.Errorf("invalid response schema: %w", err)
	}
	if property.Type != "object" {
		return nil, fmt.Errorf("response schema must describe an object, got %q", property.Type)
	}

	return &openai.ResponseFormat{
		Type: "json_schema",
		JSONSchema: &openai.ResponseFormatJSONSchema{
			Name:   name,
			Strict: true,
			Schema: &property,
		},
	}, nil
}
