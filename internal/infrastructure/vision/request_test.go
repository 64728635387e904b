package vision

import (
	"testing"

	"github.com/consumewise/backend/internal/domain"
	"github.com/consumewise/backend/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func TestBuildMessages(t *testing.T) {
	messages := BuildMessages(domain.ExtractionRequest{
		Instructions: "read the label",
		ImageURLs:    []string{"https://img/3.jpg", "https://img/1.jpg"},
	})

	require.Len(t, messages, 1)
	assert.Equal(t, llms.ChatMessageTypeHuman, messages[0].Role)
	require.Len(t, messages[0].Parts, 3)

	assert.Equal(t, llms.TextContent{Text: "read the label"}, messages[0].Parts[0])

	first, ok := messages[0].Parts[1].(llms.ImageURLContent)
	require.True(t, ok)
	assert.Equal(t, "https://img/3.jpg", first.URL)

	second, ok := messages[0].Parts[2].(llms.ImageURLContent)
	require.True(t, ok)
	assert.Equal(t, "https://img/1.jpg", second.URL)
}

func TestResponseFormat(t *testing.T) {
	format, err := ResponseFormat(schema.Name, schema.Document())
	require.NoError(t, err)

	assert.Equal(t, "json_schema", format.Type)
	require.NotNil(t, format.JSONSchema)
	assert.Equal(t, "label_reader", format.JSONSchema.Name)
	assert.True(t, format.JSONSchema.Strict)

	root := format.JSONSchema.Schema
	require.NotNil(t, root)
	assert.Equal(t, "object", root.Type)
	assert.False(t, root.AdditionalProperties)
	assert.Len(t, root.Properties, 10)
	assert.Len(t, root.Required, 10)

	ingredients := root.Properties["ingredients"]
	require.NotNil(t, ingredients)
	require.NotNil(t, ingredients.Items)
	assert.Equal(t, []string{"name", "percent", "metadata"}, ingredients.Items.Required)

	values := root.Properties["nutritionalInformation"].Items.Properties["values"]
	require.NotNil(t, values)
	assert.Equal(t, "number", values.Items.Properties["value"].Type)
}

func TestResponseFormat_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		doc    []byte
	}{
		{"missing name", "", schema.Document()},
		{"not json", "label_reader", []byte("{")},
		{"not an object schema", "label_reader", []byte(`{"type": "array"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResponseFormat(tt.schema, tt.doc)
			assert.Error(t, err)
		})
	}
}
