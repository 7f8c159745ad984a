package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/opencivic-io/socrata-engine/pkg/socrata"
)

// RegisterActivityLogTool registers the asset activity history tool.
func RegisterActivityLogTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"get_activity_log",
		mcp.WithDescription(
			"Fetch the activity history of one asset: updates, publications, "+
				"permission changes, and other recorded events, newest first.",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("Socrata domain the asset lives on"),
		),
		mcp.WithString("assetId",
			mcp.Required(),
			mcp.Description("Asset identifier (4x4)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries (1-1000, default 100)"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of entries to skip for pagination"),
		),
		mcp.WithString("startDate",
			mcp.Description("Only include activity at or after this date (ISO 8601)"),
		),
		mcp.WithString("endDate",
			mcp.Description("Only include activity at or before this date (ISO 8601)"),
		),
		mcp.WithString("activityType",
			mcp.Description("Filter by activity type, e.g. 'update'"),
		),
		withFormatOption(),
		withDetailOption(),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := deps.begin("get_activity_log")

		domain, err := req.RequireString("domain")
		if err != nil {
			return nil, err
		}
		assetID, err := req.RequireString("assetId")
		if err != nil {
			return nil, err
		}
		if err := deps.Guard.Validate(domain); err != nil {
			return toolFailure(deps, log, "get_activity_log", "domain "+domain, err), nil
		}

		opts := socrata.ActivityLogOptions{
			AssetID:      assetID,
			Limit:        clampLimit(req, 100, 1000),
			Offset:       readOffset(req),
			StartDate:    req.GetString("startDate", ""),
			EndDate:      req.GetString("endDate", ""),
			ActivityType: req.GetString("activityType", ""),
		}

		raw, err := deps.Client.GetActivityLog(ctx, domain, opts)
		if err != nil {
			return toolFailure(deps, log, "get_activity_log",
				fmt.Sprintf("asset %s on domain %s", assetID, domain), err), nil
		}

		return newShapedResult(raw, formatOptions(req),
			fmt.Sprintf("Activity log for %s", assetID),
			[][2]string{{"Domain", domain}, {"Asset", assetID}})
	})
}
