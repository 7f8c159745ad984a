package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/opencivic-io/socrata-engine/pkg/apperrors"
	"github.com/opencivic-io/socrata-engine/pkg/logging"
)

// ErrorResponse represents a structured error in tool results.
// This is used to return actionable error information to the calling agent
// as a tool result, ensuring error details are visible rather than being
// swallowed by the MCP client.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// NewErrorResult creates a tool result containing a structured error.
// Use this for recoverable/actionable errors the agent can potentially fix
// (e.g., invalid parameters, disallowed domain, remote rejection).
func NewErrorResult(code, message string) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// errorCode maps a component error onto its taxonomy code.
func errorCode(err error) string {
	var domainErr *apperrors.DomainNotAllowedError
	var remoteErr *apperrors.RemoteError
	switch {
	case errors.As(err, &domainErr):
		return "domain_not_allowed"
	case errors.As(err, &remoteErr):
		return "remote_error"
	case errors.Is(err, apperrors.ErrInvalidArguments):
		return "invalid_arguments"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	default:
		return "internal_error"
	}
}

// hintFor returns the actionable hint appended to every failure message.
func hintFor(code string) string {
	switch code {
	case "domain_not_allowed":
		return "Add the domain to SOCRATA_DOMAIN or target an allowed domain."
	case "remote_error":
		return "Check that the identifiers are correct and your credentials allow access."
	case "invalid_arguments":
		return "Review the tool's parameter documentation and adjust the arguments."
	case "not_found":
		return "Try adjusting the search criteria."
	default:
		return "Retry the request; if the problem persists, check the server logs."
	}
}

// toolFailure re-wraps any component error into the single descriptive
// error result a tool invocation surfaces: the operation name, its key
// identifiers, the underlying cause, and an actionable hint. No error is
// silently swallowed and nothing is retried.
func toolFailure(deps *Deps, log *zap.Logger, tool, subject string, err error) *mcp.CallToolResult {
	code := errorCode(err)
	if deps.Metrics != nil {
		deps.Metrics.ToolErrors.WithLabelValues(tool, code).Inc()
	}
	log.Warn("Tool invocation failed",
		zap.String("code", code),
		zap.String("error", logging.SanitizeError(err)))

	message := fmt.Sprintf("%s failed for %s: %v. %s", tool, subject, err, hintFor(code))
	return NewErrorResult(code, message)
}
