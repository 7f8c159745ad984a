package tools

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"

	"github.com/opencivic-io/socrata-engine/pkg/shape"
)

func requestWithArgs(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func TestStringList(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want []string
	}{
		{"absent", map[string]any{}, nil},
		{"nil value", map[string]any{"tags": nil}, nil},
		{"array", map[string]any{"tags": []any{"a", "b"}}, []string{"a", "b"}},
		{"array with blanks", map[string]any{"tags": []any{" a ", "", "b"}}, []string{"a", "b"}},
		{"csv string", map[string]any{"tags": "a, b ,c"}, []string{"a", "b", "c"}},
		{"single value string", map[string]any{"tags": "solo"}, []string{"solo"}},
		{"empty string", map[string]any{"tags": ""}, nil},
		{"wrong type", map[string]any{"tags": 7}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stringList(requestWithArgs(tt.args), "tags")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 20, clampLimit(requestWithArgs(map[string]any{}), 20, 100))
	assert.Equal(t, 50, clampLimit(requestWithArgs(map[string]any{"limit": 50.0}), 20, 100))
	assert.Equal(t, 100, clampLimit(requestWithArgs(map[string]any{"limit": 500.0}), 20, 100))
	assert.Equal(t, 20, clampLimit(requestWithArgs(map[string]any{"limit": 0.0}), 20, 100))
	assert.Equal(t, 20, clampLimit(requestWithArgs(map[string]any{"limit": -3.0}), 20, 100))
}

func TestReadOffset(t *testing.T) {
	assert.Equal(t, 0, readOffset(requestWithArgs(map[string]any{})))
	assert.Equal(t, 40, readOffset(requestWithArgs(map[string]any{"offset": 40.0})))
	assert.Equal(t, 0, readOffset(requestWithArgs(map[string]any{"offset": -5.0})))
}

func TestOptionalString(t *testing.T) {
	assert.Nil(t, optionalString(requestWithArgs(map[string]any{}), "name"))

	got := optionalString(requestWithArgs(map[string]any{"name": ""}), "name")
	if assert.NotNil(t, got, "empty string is present, not absent") {
		assert.Equal(t, "", *got)
	}
}

func TestOptionalBool(t *testing.T) {
	assert.Nil(t, optionalBool(requestWithArgs(map[string]any{}), "disabled"))

	got := optionalBool(requestWithArgs(map[string]any{"disabled": false}), "disabled")
	if assert.NotNil(t, got, "explicit false is present, not absent") {
		assert.False(t, *got)
	}
}

func TestFormatOptionsDefaults(t *testing.T) {
	opts := formatOptions(requestWithArgs(map[string]any{}))
	assert.Equal(t, shape.FormatJSON, opts.Format)
	assert.Equal(t, shape.DetailDetailed, opts.Detail)

	opts = formatOptions(requestWithArgs(map[string]any{
		"format": "markdown",
		"detail": "concise",
	}))
	assert.Equal(t, shape.FormatMarkdown, opts.Format)
	assert.Equal(t, shape.DetailConcise, opts.Detail)
}

func TestRenderMarkdown(t *testing.T) {
	doc := renderMarkdown("Metadata for abcd-1234",
		[][2]string{{"Domain", "data.example.gov"}, {"Asset", "abcd-1234"}},
		`{"name": "Parks"}`)

	assert.Contains(t, doc, "# Metadata for abcd-1234\n")
	assert.Contains(t, doc, "- **Domain**: data.example.gov\n")
	assert.Contains(t, doc, "- **Asset**: abcd-1234\n")
	assert.Contains(t, doc, "```json\n{\"name\": \"Parks\"}\n```\n")
}
