package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opencivic-io/socrata-engine/pkg/apperrors"
	"github.com/opencivic-io/socrata-engine/pkg/metrics"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"domain not allowed",
			&apperrors.DomainNotAllowedError{Domain: "x", Allowed: []string{"y"}},
			"domain_not_allowed",
		},
		{
			"remote error",
			&apperrors.RemoteError{Status: 500, StatusText: "Internal Server Error"},
			"remote_error",
		},
		{
			"wrapped remote error",
			fmt.Errorf("failed to fetch: %w", &apperrors.RemoteError{Status: 403, StatusText: "Forbidden"}),
			"remote_error",
		},
		{
			"invalid arguments",
			fmt.Errorf("either fxf or assetName must be provided: %w", apperrors.ErrInvalidArguments),
			"invalid_arguments",
		},
		{
			"not found",
			fmt.Errorf("no assets named %q: %w", "x", apperrors.ErrNotFound),
			"not_found",
		},
		{
			"anything else",
			errors.New("boom"),
			"internal_error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorCode(tt.err))
		})
	}
}

func TestNewErrorResult(t *testing.T) {
	result := NewErrorResult("invalid_arguments", "roles cannot be empty")

	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)

	text := resultText(t, result)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.True(t, resp.Error)
	assert.Equal(t, "invalid_arguments", resp.Code)
	assert.Equal(t, "roles cannot be empty", resp.Message)
}

func TestToolFailure_MessageCarriesCauseAndHint(t *testing.T) {
	deps := &Deps{Logger: zap.NewNop(), Metrics: metrics.New()}
	err := fmt.Errorf("failed to fetch metadata: %w",
		&apperrors.RemoteError{Status: 404, StatusText: "Not Found", Body: "no such view"})

	result := toolFailure(deps, zap.NewNop(), "get_metadata", "asset abcd-1234 on domain data.example.gov", err)

	assert.True(t, result.IsError)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	assert.Equal(t, "remote_error", resp.Code)
	assert.Contains(t, resp.Message, "get_metadata failed for asset abcd-1234 on domain data.example.gov")
	assert.Contains(t, resp.Message, "404 Not Found")
	assert.Contains(t, resp.Message, "no such view")
	assert.Contains(t, resp.Message, hintFor("remote_error"))
}

func TestHintFor_CoversEveryCode(t *testing.T) {
	for _, code := range []string{
		"domain_not_allowed", "remote_error", "invalid_arguments", "not_found", "internal_error",
	} {
		assert.NotEmpty(t, hintFor(code), "no hint for %s", code)
	}
}
