// Package tools provides the MCP tool implementations for socrata-engine.
package tools

import (
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/opencivic-io/socrata-engine/pkg/metrics"
	"github.com/opencivic-io/socrata-engine/pkg/socrata"
)

// Deps contains the shared dependencies for all Socrata tools.
type Deps struct {
	Client  *socrata.Client
	Guard   *socrata.Guard
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// RegisterAll registers the full tool catalog. The tool set is closed and
// known at build time; there is no dynamic registration.
func RegisterAll(s *server.MCPServer, deps *Deps, version string) {
	RegisterHealthTool(s, version)
	RegisterCatalogTools(s, deps)
	RegisterDirectoryTools(s, deps)
	RegisterMetadataTools(s, deps)
	RegisterPermissionTools(s, deps)
	RegisterScheduleTool(s, deps)
	RegisterActivityLogTool(s, deps)
	RegisterRoleTools(s, deps)
}

// begin records an invocation and returns a logger scoped to it. Each
// invocation carries a fresh request id for log correlation.
func (d *Deps) begin(tool string) *zap.Logger {
	if d.Metrics != nil {
		d.Metrics.ToolInvocations.WithLabelValues(tool).Inc()
	}
	return d.Logger.With(
		zap.String("tool", tool),
		zap.String("request_id", uuid.NewString()),
	)
}
