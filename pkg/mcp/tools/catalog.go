package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/opencivic-io/socrata-engine/pkg/socrata"
)

// RegisterCatalogTools registers the asset catalog tools.
func RegisterCatalogTools(s *server.MCPServer, deps *Deps) {
	registerGetCatalogTool(s, deps)
	registerSearchCatalogTool(s, deps)
}

func registerGetCatalogTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"get_catalog",
		mcp.WithDescription(
			"List assets of one type (dataset, filter, or file) in a Socrata domain's "+
				"public catalog, optionally restricted to a category. "+
				"Example: get_catalog(domain='data.cityofchicago.org', type='dataset').",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("Socrata domain to query, e.g. data.cityofchicago.org"),
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Asset type to list"),
			mcp.Enum("dataset", "filter", "file"),
		),
		mcp.WithString("category",
			mcp.Description("Restrict results to one catalog category"),
		),
		withFormatOption(),
		withDetailOption(),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := deps.begin("get_catalog")

		domain, err := req.RequireString("domain")
		if err != nil {
			return nil, err
		}
		assetType, err := req.RequireString("type")
		if err != nil {
			return nil, err
		}
		if !isOneOf(assetType, "dataset", "filter", "file") {
			return NewErrorResult("invalid_arguments",
				fmt.Sprintf("type must be one of dataset, filter, file; got %q", assetType)), nil
		}

		if err := deps.Guard.Validate(domain); err != nil {
			return toolFailure(deps, log, "get_catalog", "domain "+domain, err), nil
		}

		raw, err := deps.Client.ListCatalog(ctx, domain, assetType, req.GetString("category", ""))
		if err != nil {
			return toolFailure(deps, log, "get_catalog",
				fmt.Sprintf("%s assets on domain %s", assetType, domain), err), nil
		}

		return newShapedResult(raw, formatOptions(req),
			fmt.Sprintf("Catalog: %s assets on %s", assetType, domain),
			[][2]string{{"Domain", domain}, {"Type", assetType}})
	})
}

func registerSearchCatalogTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"search_catalog",
		mcp.WithDescription(
			"Search a Socrata domain's catalog with free text and filters "+
				"(categories, tags, attribution, provenance, visibility). "+
				"Returns matching assets with pagination. "+
				"Example: search_catalog(domain='data.seattle.gov', q='police', limit=10).",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("Socrata domain to query"),
		),
		mcp.WithString("q",
			mcp.Description("Free-text search query"),
		),
		mcp.WithArray("categories",
			mcp.Description("Category filters (array or comma-separated string)"),
			mcp.WithStringItems(),
		),
		mcp.WithArray("tags",
			mcp.Description("Tag filters (array or comma-separated string)"),
			mcp.WithStringItems(),
		),
		mcp.WithString("attribution",
			mcp.Description("Filter by attributing organization"),
		),
		mcp.WithString("provenance",
			mcp.Description("Filter by provenance, e.g. 'official' or 'community'"),
		),
		mcp.WithString("visibility",
			mcp.Description("Filter by visibility"),
			mcp.Enum("open", "private", "internal"),
		),
		mcp.WithString("order",
			mcp.Description("Sort order, e.g. 'relevance' or 'page_views_last_month'"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (1-100, default 20)"),
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
		log := deps.begin("search_catalog")

		domain, err := req.RequireString("domain")
		if err != nil {
			return nil, err
		}
		if err := deps.Guard.Validate(domain); err != nil {
			return toolFailure(deps, log, "search_catalog", "domain "+domain, err), nil
		}

		visibility := req.GetString("visibility", "")
		if visibility != "" && !isOneOf(visibility, "open", "private", "internal") {
			return NewErrorResult("invalid_arguments",
				fmt.Sprintf("visibility must be one of open, private, internal; got %q", visibility)), nil
		}

		opts := socrata.SearchCatalogOptions{
			Query:       req.GetString("q", ""),
			Categories:  stringList(req, "categories"),
			Tags:        stringList(req, "tags"),
			Attribution: req.GetString("attribution", ""),
			Provenance:  req.GetString("provenance", ""),
			Visibility:  visibility,
			Order:       req.GetString("order", ""),
			Limit:       clampLimit(req, 20, 100),
			Offset:      readOffset(req),
		}

		raw, err := deps.Client.SearchCatalog(ctx, domain, opts)
		if err != nil {
			return toolFailure(deps, log, "search_catalog",
				fmt.Sprintf("query %q on domain %s", opts.Query, domain), err), nil
		}

		return newShapedResult(raw, formatOptions(req),
			"Catalog search on "+domain,
			[][2]string{{"Domain", domain}, {"Query", opts.Query}})
	})
}
