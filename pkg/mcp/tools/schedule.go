package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterScheduleTool registers the publishing schedule tool.
func RegisterScheduleTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"get_schedule",
		mcp.WithDescription(
			"Look up the publishing schedule of a dataset, either directly by "+
				"its fxf identifier or by searching the catalog by name. When a "+
				"name matches several datasets, every match's schedule is "+
				"returned; failures fetching one match are reported on that "+
				"match alone.",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("Socrata domain the dataset lives on"),
		),
		mcp.WithString("fxf",
			mcp.Description("Dataset identifier (4x4); takes precedence over assetName"),
		),
		mcp.WithString("assetName",
			mcp.Description("Dataset name to search the catalog for"),
		),
		withFormatOption(),
		withDetailOption(),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := deps.begin("get_schedule")

		domain, err := req.RequireString("domain")
		if err != nil {
			return nil, err
		}
		if err := deps.Guard.Validate(domain); err != nil {
			return toolFailure(deps, log, "get_schedule", "domain "+domain, err), nil
		}

		fxf := req.GetString("fxf", "")
		assetName := req.GetString("assetName", "")

		summaries, err := deps.Client.ResolveSchedule(ctx, domain, fxf, assetName)
		if err != nil {
			subject := fmt.Sprintf("dataset %q on domain %s", fxf, domain)
			if fxf == "" {
				subject = fmt.Sprintf("dataset named %q on domain %s", assetName, domain)
			}
			return toolFailure(deps, log, "get_schedule", subject, err), nil
		}

		// A single resolution is returned unwrapped, consistent across both
		// discovery modes.
		var payload any = summaries
		if len(summaries) == 1 {
			payload = summaries[0]
		}

		return newShapedResult(payload, formatOptions(req),
			"Publishing schedule on "+domain,
			[][2]string{{"Domain", domain}})
	})
}
