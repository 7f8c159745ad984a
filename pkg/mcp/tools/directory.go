package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/opencivic-io/socrata-engine/pkg/socrata"
)

// RegisterDirectoryTools registers the user and team directory tools.
func RegisterDirectoryTools(s *server.MCPServer, deps *Deps) {
	registerSearchUsersTool(s, deps)
	registerSearchTeamsTool(s, deps)
}

func registerSearchUsersTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"search_users",
		mcp.WithDescription(
			"Search the user directory of a Socrata domain by ids, emails, or roles. "+
				"Example: search_users(domain='data.example.gov', roles='administrator').",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("Socrata domain to query"),
		),
		mcp.WithArray("ids",
			mcp.Description("User ids to look up (array or comma-separated string)"),
			mcp.WithStringItems(),
		),
		mcp.WithArray("emails",
			mcp.Description("Email addresses to look up (array or comma-separated string)"),
			mcp.WithStringItems(),
		),
		mcp.WithArray("roles",
			mcp.Description("Filter by role names (array or comma-separated string)"),
			mcp.WithStringItems(),
		),
		mcp.WithBoolean("disabled",
			mcp.Description("Filter by disabled status"),
		),
		mcp.WithBoolean("future",
			mcp.Description("Include future (pending) accounts"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (1-1000, default 100)"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of results to skip for pagination"),
		),
		withFormatOption(),
		withDetailOption(),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := deps.begin("search_users")

		domain, err := req.RequireString("domain")
		if err != nil {
			return nil, err
		}
		if err := deps.Guard.Validate(domain); err != nil {
			return toolFailure(deps, log, "search_users", "domain "+domain, err), nil
		}

		opts := socrata.SearchUsersOptions{
			IDs:      stringList(req, "ids"),
			Emails:   stringList(req, "emails"),
			Roles:    stringList(req, "roles"),
			Disabled: optionalBool(req, "disabled"),
			Future:   optionalBool(req, "future"),
			Limit:    clampLimit(req, 100, 1000),
			Offset:   readOffset(req),
		}

		raw, err := deps.Client.SearchUsers(ctx, domain, opts)
		if err != nil {
			return toolFailure(deps, log, "search_users", "domain "+domain, err), nil
		}

		return newShapedResult(raw, formatOptions(req),
			"Users on "+domain,
			[][2]string{{"Domain", domain}})
	})
}

func registerSearchTeamsTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"search_teams",
		mcp.WithDescription(
			"Search the team directory of a Socrata domain by ids or names. "+
				"Example: search_teams(domain='data.example.gov', names='Data Team').",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("Socrata domain to query"),
		),
		mcp.WithArray("ids",
			mcp.Description("Team ids to look up (array or comma-separated string)"),
			mcp.WithStringItems(),
		),
		mcp.WithArray("names",
			mcp.Description("Team names to look up (array or comma-separated string)"),
			mcp.WithStringItems(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (1-1000, default 100)"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of results to skip for pagination"),
		),
		withFormatOption(),
		withDetailOption(),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := deps.begin("search_teams")

		domain, err := req.RequireString("domain")
		if err != nil {
			return nil, err
		}
		if err := deps.Guard.Validate(domain); err != nil {
			return toolFailure(deps, log, "search_teams", "domain "+domain, err), nil
		}

		opts := socrata.SearchTeamsOptions{
			IDs:    stringList(req, "ids"),
			Names:  stringList(req, "names"),
			Limit:  clampLimit(req, 100, 1000),
			Offset: readOffset(req),
		}

		raw, err := deps.Client.SearchTeams(ctx, domain, opts)
		if err != nil {
			return toolFailure(deps, log, "search_teams", "domain "+domain, err), nil
		}

		return newShapedResult(raw, formatOptions(req),
			"Teams on "+domain,
			[][2]string{{"Domain", domain}})
	})
}
