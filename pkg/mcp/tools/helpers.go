package tools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/opencivic-io/socrata-engine/pkg/shape"
)

// withFormatOption declares the format parameter every tool accepts.
func withFormatOption() mcp.ToolOption {
	return mcp.WithString("format",
		mcp.Description("Output format: 'json' returns shaped JSON text, 'markdown' wraps it in a document"),
		mcp.Enum("json", "markdown"),
		mcp.DefaultString("json"),
	)
}

// withDetailOption declares the detail parameter read tools accept.
func withDetailOption() mcp.ToolOption {
	return mcp.WithString("detail",
		mcp.Description("Detail level for list results: 'concise' keeps only id/name/title/description/domain per element, 'detailed' keeps everything"),
		mcp.Enum("concise", "detailed"),
		mcp.DefaultString("detailed"),
	)
}

// formatOptions reads the shaping options with their documented defaults.
func formatOptions(req mcp.CallToolRequest) shape.Options {
	opts := shape.DefaultOptions()
	if req.GetString("format", "json") == string(shape.FormatMarkdown) {
		opts.Format = shape.FormatMarkdown
	}
	if req.GetString("detail", "detailed") == string(shape.DetailConcise) {
		opts.Detail = shape.DetailConcise
	}
	return opts
}

// newShapedResult runs the response shaper and applies the caller-chosen
// format wrapping. The shaper's output is always what gets embedded.
func newShapedResult(data any, opts shape.Options, title string, facts [][2]string) (*mcp.CallToolResult, error) {
	text, err := shape.Shape(data, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to shape result: %w", err)
	}
	if opts.Format == shape.FormatMarkdown {
		text = renderMarkdown(title, facts, text)
	}
	return mcp.NewToolResultText(text), nil
}

// renderMarkdown wraps shaped data in a markdown document: heading, key
// facts, fenced JSON block.
func renderMarkdown(title string, facts [][2]string, body string) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(title)
	b.WriteString("\n\n")
	for _, fact := range facts {
		fmt.Fprintf(&b, "- **%s**: %s\n", fact[0], fact[1])
	}
	if len(facts) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("```json\n")
	b.WriteString(body)
	b.WriteString("\n```\n")
	return b.String()
}

// stringList normalizes an "array or comma-separated string" parameter
// into a canonical []string at the validation boundary. The union never
// reaches core logic. A missing parameter yields nil.
func stringList(req mcp.CallToolRequest, name string) []string {
	value, ok := req.GetArguments()[name]
	if !ok || value == nil {
		return nil
	}
	switch v := value.(type) {
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	case string:
		return splitCSV(v)
	}
	return nil
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// optionalBool reads a boolean parameter, distinguishing absent from false.
func optionalBool(req mcp.CallToolRequest, name string) *bool {
	value, ok := req.GetArguments()[name]
	if !ok {
		return nil
	}
	b, ok := value.(bool)
	if !ok {
		return nil
	}
	return &b
}

// optionalString reads a string parameter, distinguishing absent from "".
func optionalString(req mcp.CallToolRequest, name string) *string {
	value, ok := req.GetArguments()[name]
	if !ok {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return nil
	}
	return &s
}

// clampLimit reads the limit parameter and clamps it into [1, max],
// falling back to the tool's documented default.
func clampLimit(req mcp.CallToolRequest, def, max int) int {
	limit := req.GetInt("limit", def)
	if limit < 1 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// readOffset reads the offset parameter, ignoring negative values.
func readOffset(req mcp.CallToolRequest) int {
	offset := req.GetInt("offset", 0)
	if offset < 0 {
		return 0
	}
	return offset
}

func isOneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
