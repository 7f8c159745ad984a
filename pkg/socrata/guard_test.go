package socrata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencivic-io/socrata-engine/pkg/apperrors"
)

func TestGuard_EmptyAllowlistPermitsAll(t *testing.T) {
	guard := NewGuard(nil)

	assert.NoError(t, guard.Validate("data.x.org"))
	assert.NoError(t, guard.Validate("anything.example.com"))
}

func TestGuard_ExactMatch(t *testing.T) {
	guard := NewGuard([]string{"data.x.org"})

	assert.NoError(t, guard.Validate("data.x.org"))

	err := guard.Validate("data.y.org")
	require.Error(t, err)

	var domainErr *apperrors.DomainNotAllowedError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "data.y.org", domainErr.Domain)
	assert.Equal(t, []string{"data.x.org"}, domainErr.Allowed)
}

func TestGuard_CaseSensitiveNoNormalization(t *testing.T) {
	guard := NewGuard([]string{"data.x.org"})

	assert.Error(t, guard.Validate("Data.X.Org"))
	assert.Error(t, guard.Validate("data.x.org."))
	assert.Error(t, guard.Validate("sub.data.x.org"))
}

func TestGuard_MultipleDomains(t *testing.T) {
	guard := NewGuard([]string{"a.gov", "b.gov"})

	assert.NoError(t, guard.Validate("a.gov"))
	assert.NoError(t, guard.Validate("b.gov"))
	assert.Error(t, guard.Validate("c.gov"))
}
