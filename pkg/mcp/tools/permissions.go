package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/opencivic-io/socrata-engine/pkg/socrata"
)

// RegisterPermissionTools registers the asset permission tools.
func RegisterPermissionTools(s *server.MCPServer, deps *Deps) {
	registerGetPermissionsTool(s, deps)
	registerUpdatePermissionsTool(s, deps)
}

func registerGetPermissionsTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"get_permissions",
		mcp.WithDescription(
			"Fetch the permissions document of one asset: its sharing scope "+
				"(private, public, or site) and per-user access grants.",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("Socrata domain the asset lives on"),
		),
		mcp.WithString("assetId",
			mcp.Required(),
			mcp.Description("Asset identifier (4x4)"),
		),
		withFormatOption(),
		withDetailOption(),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := deps.begin("get_permissions")

		domain, err := req.RequireString("domain")
		if err != nil {
			return nil, err
		}
		assetID, err := req.RequireString("assetId")
		if err != nil {
			return nil, err
		}
		if err := deps.Guard.Validate(domain); err != nil {
			return toolFailure(deps, log, "get_permissions", "domain "+domain, err), nil
		}

		raw, err := deps.Client.GetPermissions(ctx, domain, assetID)
		if err != nil {
			return toolFailure(deps, log, "get_permissions",
				fmt.Sprintf("asset %s on domain %s", assetID, domain), err), nil
		}

		return newShapedResult(raw, formatOptions(req),
			fmt.Sprintf("Permissions for %s", assetID),
			[][2]string{{"Domain", domain}, {"Asset", assetID}})
	})
}

func registerUpdatePermissionsTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"update_permissions",
		mcp.WithDescription(
			"Update the sharing scope and user grants of an asset via a "+
				"read-modify-write merge. By default each provided grant upserts "+
				"into the existing list (matched by user id, or email when no id "+
				"is given); set replaceUsers=true to replace the whole list.",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("Socrata domain the asset lives on"),
		),
		mcp.WithString("assetId",
			mcp.Required(),
			mcp.Description("Asset identifier (4x4)"),
		),
		mcp.WithString("scope",
			mcp.Description("New sharing scope"),
			mcp.Enum("private", "public", "site"),
		),
		mcp.WithArray("users",
			mcp.Description("Access grants to apply; each grant is an object with "+
				"optional 'id', optional 'email', and 'accessLevels' "+
				"(list of {name, version})"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":    map[string]any{"type": "string"},
					"email": map[string]any{"type": "string"},
					"accessLevels": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"name":    map[string]any{"type": "string"},
								"version": map[string]any{"type": "string"},
							},
						},
					},
				},
			}),
		),
		mcp.WithBoolean("replaceUsers",
			mcp.Description("Replace the entire grant list instead of upserting (default false). "+
				"Replacing with an empty list revokes every user grant."),
		),
		withFormatOption(),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := deps.begin("update_permissions")

		domain, err := req.RequireString("domain")
		if err != nil {
			return nil, err
		}
		assetID, err := req.RequireString("assetId")
		if err != nil {
			return nil, err
		}
		if err := deps.Guard.Validate(domain); err != nil {
			return toolFailure(deps, log, "update_permissions", "domain "+domain, err), nil
		}

		scope := optionalString(req, "scope")
		if scope != nil && !isOneOf(*scope, "private", "public", "site") {
			return NewErrorResult("invalid_arguments",
				fmt.Sprintf("scope must be one of private, public, site; got %q", *scope)), nil
		}

		patch := socrata.PermissionsPatch{
			Scope:        scope,
			ReplaceUsers: req.GetBool("replaceUsers", false),
		}
		if rawUsers, present := req.GetArguments()["users"]; present {
			users, err := parseGrants(rawUsers)
			if err != nil {
				return NewErrorResult("invalid_arguments", err.Error()), nil
			}
			patch.Users = users
		}

		if patch.Scope == nil && patch.Users == nil {
			return NewErrorResult("invalid_arguments",
				"provide at least one of scope or users to update"), nil
		}

		updated, err := deps.Client.UpdatePermissions(ctx, domain, assetID, patch)
		if err != nil {
			return toolFailure(deps, log, "update_permissions",
				fmt.Sprintf("asset %s on domain %s", assetID, domain), err), nil
		}

		log.Info("Updated asset permissions",
			zap.String("domain", domain),
			zap.String("asset_id", assetID),
			zap.Bool("replace_users", patch.ReplaceUsers))

		return newShapedResult(updated, formatOptions(req),
			fmt.Sprintf("Updated permissions for %s", assetID),
			[][2]string{{"Domain", domain}, {"Asset", assetID}})
	})
}

// parseGrants normalizes the users argument into grant objects. A present
// but empty list is kept: combined with replaceUsers it revokes everyone.
func parseGrants(value any) ([]map[string]any, error) {
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("users must be an array of grant objects")
	}
	grants := make([]map[string]any, 0, len(list))
	for i, item := range list {
		grant, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("users[%d] must be a grant object", i)
		}
		grants = append(grants, grant)
	}
	return grants, nil
}
