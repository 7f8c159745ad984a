// Package shape normalizes raw Socrata responses into bounded tool output.
//
// Shaping is a three step pipeline: project list elements down to a summary
// field set when concise detail is requested, serialize, and replace the
// whole payload with a truncation marker when the serialized form exceeds
// the character limit. Truncation is all-or-nothing: shaped output is never
// syntactically cut mid-structure.
package shape

import (
	"encoding/json"
	"fmt"
)

// Format selects the final rendering of a tool result.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Detail selects how much of each list element survives shaping.
type Detail string

const (
	DetailConcise  Detail = "concise"
	DetailDetailed Detail = "detailed"
)

// Options configures one shaping pass.
type Options struct {
	Format Format
	Detail Detail
}

// DefaultOptions returns the tool-level defaults: full JSON output.
func DefaultOptions() Options {
	return Options{Format: FormatJSON, Detail: DetailDetailed}
}

// MaxResponseChars is the serialized-size bound on shaped output.
const MaxResponseChars = 25000

// conciseFields is the projection applied to list elements under concise
// detail. Fields absent from a source element stay absent.
var conciseFields = []string{"id", "name", "title", "description", "domain"}

// Shape produces the bounded textual form of data. The input may be decoded
// JSON (map/slice/scalar), json.RawMessage, or any marshalable Go value.
func Shape(data any, opts Options) (string, error) {
	normalized, err := normalize(data)
	if err != nil {
		return "", fmt.Errorf("failed to normalize response: %w", err)
	}

	if opts.Detail == DetailConcise {
		normalized = project(normalized)
	}

	serialized, err := json.MarshalIndent(normalized, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize response: %w", err)
	}

	if len(serialized) <= MaxResponseChars {
		return string(serialized), nil
	}

	marker, err := json.MarshalIndent(truncationMarker(normalized, len(serialized)), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize truncation marker: %w", err)
	}
	return string(marker), nil
}

// normalize round-trips data through JSON so shaping always operates on
// generic maps/slices regardless of the caller's concrete types.
func normalize(data any) (any, error) {
	var raw json.RawMessage
	switch v := data.(type) {
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		raw = encoded
	}

	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

// project reduces each object element of a list to the concise field set.
// Non-list data and non-object elements pass through unchanged.
func project(data any) any {
	list, ok := data.([]any)
	if !ok {
		return data
	}

	projected := make([]any, len(list))
	for i, element := range list {
		obj, ok := element.(map[string]any)
		if !ok {
			projected[i] = element
			continue
		}
		slim := make(map[string]any)
		for _, field := range conciseFields {
			if value, present := obj[field]; present {
				slim[field] = value
			}
		}
		projected[i] = slim
	}
	return projected
}

// truncationMarker builds the replacement object for oversized payloads.
// For object payloads the original top-level fields are carried over when
// they fit; oversized field values are replaced by a placeholder so the
// marker itself stays within bounds. List payloads report their length.
func truncationMarker(data any, originalLen int) map[string]any {
	marker := map[string]any{
		"_truncated": true,
		"_message": fmt.Sprintf(
			"Response exceeded the %d character limit (original length: %d characters). Narrow the request with filters, limit, or offset.",
			MaxResponseChars, originalLen),
	}

	switch v := data.(type) {
	case map[string]any:
		// Per-field budget keeps the marker bounded even when a single
		// top-level value carries most of the payload.
		budget := MaxResponseChars / (len(v) + 1)
		for key, value := range v {
			serialized, err := json.Marshal(value)
			if err != nil || len(serialized) > budget {
				marker[key] = fmt.Sprintf("[omitted: field too large (%d characters)]", len(serialized))
				continue
			}
			marker[key] = value
		}
	case []any:
		marker["_itemCount"] = len(v)
	}

	return marker
}
