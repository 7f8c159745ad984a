package socrata

import (
	"github.com/opencivic-io/socrata-engine/pkg/apperrors"
)

// Guard validates target domains against the configured allowlist before
// any remote call is made. The allowed set is fixed at startup; Validate
// is a pure check with no side effects.
type Guard struct {
	allowed []string
}

// NewGuard creates a Guard from the parsed allowlist. An empty or nil list
// means all domains are permitted.
func NewGuard(allowed []string) *Guard {
	return &Guard{allowed: allowed}
}

// Validate checks that domain may be contacted. Matching is exact and
// case-sensitive: no normalization, no wildcards.
func (g *Guard) Validate(domain string) error {
	if len(g.allowed) == 0 {
		return nil
	}
	for _, allowed := range g.allowed {
		if domain == allowed {
			return nil
		}
	}
	return &apperrors.DomainNotAllowedError{Domain: domain, Allowed: g.allowed}
}
