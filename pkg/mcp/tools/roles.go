package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// RegisterRoleTools registers the user role tools.
func RegisterRoleTools(s *server.MCPServer, deps *Deps) {
	registerGetUserRolesTool(s, deps)
	registerUpdateUserRolesTool(s, deps)
}

func registerGetUserRolesTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"get_user_roles",
		mcp.WithDescription(
			"Fetch the role assignments of one user on a Socrata domain.",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("Socrata domain to query"),
		),
		mcp.WithString("userId",
			mcp.Required(),
			mcp.Description("User identifier"),
		),
		withFormatOption(),
		withDetailOption(),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := deps.begin("get_user_roles")

		domain, err := req.RequireString("domain")
		if err != nil {
			return nil, err
		}
		userID, err := req.RequireString("userId")
		if err != nil {
			return nil, err
		}
		if err := deps.Guard.Validate(domain); err != nil {
			return toolFailure(deps, log, "get_user_roles", "domain "+domain, err), nil
		}

		raw, err := deps.Client.GetUserRoles(ctx, domain, userID)
		if err != nil {
			return toolFailure(deps, log, "get_user_roles",
				fmt.Sprintf("user %s on domain %s", userID, domain), err), nil
		}

		return newShapedResult(raw, formatOptions(req),
			fmt.Sprintf("Roles for user %s", userID),
			[][2]string{{"Domain", domain}, {"User", userID}})
	})
}

func registerUpdateUserRolesTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"update_user_roles",
		mcp.WithDescription(
			"Replace the role assignments of one user on a Socrata domain.",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("Socrata domain to update"),
		),
		mcp.WithString("userId",
			mcp.Required(),
			mcp.Description("User identifier"),
		),
		mcp.WithArray("roles",
			mcp.Required(),
			mcp.Description("Replacement role list (array or comma-separated string)"),
			mcp.WithStringItems(),
		),
		withFormatOption(),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := deps.begin("update_user_roles")

		domain, err := req.RequireString("domain")
		if err != nil {
			return nil, err
		}
		userID, err := req.RequireString("userId")
		if err != nil {
			return nil, err
		}
		if err := deps.Guard.Validate(domain); err != nil {
			return toolFailure(deps, log, "update_user_roles", "domain "+domain, err), nil
		}

		roles := stringList(req, "roles")
		if len(roles) == 0 {
			return NewErrorResult("invalid_arguments", "roles cannot be empty"), nil
		}

		updated, err := deps.Client.UpdateUserRoles(ctx, domain, userID, roles)
		if err != nil {
			return toolFailure(deps, log, "update_user_roles",
				fmt.Sprintf("user %s on domain %s", userID, domain), err), nil
		}

		log.Info("Updated user roles",
			zap.String("domain", domain),
			zap.String("user_id", userID),
			zap.Strings("roles", roles))

		return newShapedResult(updated, formatOptions(req),
			fmt.Sprintf("Updated roles for user %s", userID),
			[][2]string{{"Domain", domain}, {"User", userID}})
	})
}
