package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/opencivic-io/socrata-engine/pkg/socrata"
)

// RegisterMetadataTools registers the asset metadata tools.
func RegisterMetadataTools(s *server.MCPServer, deps *Deps) {
	registerGetMetadataTool(s, deps)
	registerUpdateMetadataTool(s, deps)
}

func registerGetMetadataTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"get_metadata",
		mcp.WithDescription(
			"Fetch the full metadata document of one asset (name, description, "+
				"tags, category, attribution, license, and platform-defined fields).",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("Socrata domain the asset lives on"),
		),
		mcp.WithString("assetId",
			mcp.Required(),
			mcp.Description("Asset identifier (4x4), e.g. 'abcd-1234'"),
		),
		withFormatOption(),
		withDetailOption(),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := deps.begin("get_metadata")

		domain, err := req.RequireString("domain")
		if err != nil {
			return nil, err
		}
		assetID, err := req.RequireString("assetId")
		if err != nil {
			return nil, err
		}
		if err := deps.Guard.Validate(domain); err != nil {
			return toolFailure(deps, log, "get_metadata", "domain "+domain, err), nil
		}

		raw, err := deps.Client.GetMetadata(ctx, domain, assetID)
		if err != nil {
			return toolFailure(deps, log, "get_metadata",
				fmt.Sprintf("asset %s on domain %s", assetID, domain), err), nil
		}

		return newShapedResult(raw, formatOptions(req),
			fmt.Sprintf("Metadata for %s", assetID),
			[][2]string{{"Domain", domain}, {"Asset", assetID}})
	})
}

func registerUpdateMetadataTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"update_metadata",
		mcp.WithDescription(
			"Update selected metadata fields of an asset. Only the fields you "+
				"provide are changed; everything else is preserved via a "+
				"read-modify-write merge against the current document.",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("Socrata domain the asset lives on"),
		),
		mcp.WithString("assetId",
			mcp.Required(),
			mcp.Description("Asset identifier (4x4)"),
		),
		mcp.WithString("name",
			mcp.Description("New asset name"),
		),
		mcp.WithString("description",
			mcp.Description("New asset description"),
		),
		mcp.WithArray("tags",
			mcp.Description("Replacement tag list (array or comma-separated string)"),
			mcp.WithStringItems(),
		),
		mcp.WithString("category",
			mcp.Description("New catalog category"),
		),
		mcp.WithString("attribution",
			mcp.Description("New attributing organization"),
		),
		mcp.WithString("license",
			mcp.Description("New license identifier"),
		),
		withFormatOption(),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := deps.begin("update_metadata")

		domain, err := req.RequireString("domain")
		if err != nil {
			return nil, err
		}
		assetID, err := req.RequireString("assetId")
		if err != nil {
			return nil, err
		}
		if err := deps.Guard.Validate(domain); err != nil {
			return toolFailure(deps, log, "update_metadata", "domain "+domain, err), nil
		}

		patch := socrata.MetadataPatch{
			Name:        optionalString(req, "name"),
			Description: optionalString(req, "description"),
			Category:    optionalString(req, "category"),
			Attribution: optionalString(req, "attribution"),
			License:     optionalString(req, "license"),
		}
		if _, present := req.GetArguments()["tags"]; present {
			tags := stringList(req, "tags")
			if tags == nil {
				tags = []string{}
			}
			patch.Tags = tags
		}

		updated, err := deps.Client.UpdateMetadata(ctx, domain, assetID, patch)
		if err != nil {
			return toolFailure(deps, log, "update_metadata",
				fmt.Sprintf("asset %s on domain %s", assetID, domain), err), nil
		}

		log.Info("Updated asset metadata",
			zap.String("domain", domain),
			zap.String("asset_id", assetID))

		return newShapedResult(updated, formatOptions(req),
			fmt.Sprintf("Updated metadata for %s", assetID),
			[][2]string{{"Domain", domain}, {"Asset", assetID}})
	})
}
