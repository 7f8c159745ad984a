package socrata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// SearchCatalogOptions are the filters for free-text catalog search.
// Slice fields are already normalized to canonical lists by the caller.
type SearchCatalogOptions struct {
	Query       string
	Categories  []string
	Tags        []string
	Attribution string
	Provenance  string
	Visibility  string
	Order       string
	Limit       int
	Offset      int
}

func (o SearchCatalogOptions) values(domain string) url.Values {
	v := url.Values{}
	v.Set("domains", domain)
	if o.Query != "" {
		v.Set("q", o.Query)
	}
	for _, category := range o.Categories {
		v.Add("categories", category)
	}
	for _, tag := range o.Tags {
		v.Add("tags", tag)
	}
	if o.Attribution != "" {
		v.Set("attribution", o.Attribution)
	}
	if o.Provenance != "" {
		v.Set("provenance", o.Provenance)
	}
	if o.Visibility != "" {
		v.Set("visibility", o.Visibility)
	}
	if o.Order != "" {
		v.Set("order", o.Order)
	}
	addPagination(v, o.Limit, o.Offset)
	return v
}

// SearchCatalog queries the catalog with free-text search and filters.
func (c *Client) SearchCatalog(ctx context.Context, domain string, opts SearchCatalogOptions) (json.RawMessage, error) {
	return c.Get(ctx, catalogURL(domain, opts.values(domain)))
}

// ListCatalog lists catalog assets of one type, optionally filtered by category.
func (c *Client) ListCatalog(ctx context.Context, domain, assetType, category string) (json.RawMessage, error) {
	v := url.Values{}
	v.Set("domains", domain)
	v.Set("only", assetType)
	if category != "" {
		v.Set("categories", category)
	}
	return c.Get(ctx, catalogURL(domain, v))
}

// SearchUsersOptions are the filters for the user directory search.
type SearchUsersOptions struct {
	IDs      []string
	Emails   []string
	Roles    []string
	Disabled *bool
	Future   *bool
	Limit    int
	Offset   int
}

// SearchUsers queries the user directory of a domain.
func (c *Client) SearchUsers(ctx context.Context, domain string, opts SearchUsersOptions) (json.RawMessage, error) {
	v := url.Values{}
	v.Set("domain", domain)
	for _, id := range opts.IDs {
		v.Add("ids", id)
	}
	for _, email := range opts.Emails {
		v.Add("emails", email)
	}
	for _, role := range opts.Roles {
		v.Add("roles", role)
	}
	if opts.Disabled != nil {
		v.Set("disabled", strconv.FormatBool(*opts.Disabled))
	}
	if opts.Future != nil {
		v.Set("future", strconv.FormatBool(*opts.Future))
	}
	addPagination(v, opts.Limit, opts.Offset)
	return c.Get(ctx, usersURL(domain, v))
}

// SearchTeamsOptions are the filters for the team directory search.
type SearchTeamsOptions struct {
	IDs    []string
	Names  []string
	Limit  int
	Offset int
}

// SearchTeams queries the team directory of a domain.
func (c *Client) SearchTeams(ctx context.Context, domain string, opts SearchTeamsOptions) (json.RawMessage, error) {
	v := url.Values{}
	v.Set("domain", domain)
	for _, id := range opts.IDs {
		v.Add("ids", id)
	}
	for _, name := range opts.Names {
		v.Add("names", name)
	}
	addPagination(v, opts.Limit, opts.Offset)
	return c.Get(ctx, teamsURL(domain, v))
}

// ActivityLogOptions are the filters for asset activity history.
type ActivityLogOptions struct {
	AssetID      string
	Limit        int
	Offset       int
	StartDate    string
	EndDate      string
	ActivityType string
}

// GetActivityLog fetches the activity history for one asset.
func (c *Client) GetActivityLog(ctx context.Context, domain string, opts ActivityLogOptions) (json.RawMessage, error) {
	v := url.Values{}
	v.Set("asset_id", opts.AssetID)
	if opts.StartDate != "" {
		v.Set("start_date", opts.StartDate)
	}
	if opts.EndDate != "" {
		v.Set("end_date", opts.EndDate)
	}
	if opts.ActivityType != "" {
		v.Set("activity_type", opts.ActivityType)
	}
	addPagination(v, opts.Limit, opts.Offset)
	return c.Get(ctx, activityLogURL(domain, v))
}

// GetUserRoles fetches the role assignments of one user.
func (c *Client) GetUserRoles(ctx context.Context, domain, userID string) (json.RawMessage, error) {
	return c.Get(ctx, userRolesURL(domain, userID))
}

// UpdateUserRoles replaces the role assignments of one user.
func (c *Client) UpdateUserRoles(ctx context.Context, domain, userID string, roles []string) (json.RawMessage, error) {
	return c.Put(ctx, userRolesURL(domain, userID), map[string]any{"roles": roles})
}

// GetWorkflowContext fetches the approval-workflow context of a workflow.
func (c *Client) GetWorkflowContext(ctx context.Context, domain, workflowID string) (json.RawMessage, error) {
	return c.Get(ctx, workflowContextURL(domain, workflowID))
}

// UpdateWorkflowContext replaces the approval-workflow context of a workflow.
func (c *Client) UpdateWorkflowContext(ctx context.Context, domain, workflowID string, workflowContext map[string]any) (json.RawMessage, error) {
	return c.Put(ctx, workflowContextURL(domain, workflowID), workflowContext)
}

// catalogResult is the subset of a catalog search hit the schedule
// resolver needs: the asset's name, identifier, and type.
type catalogResult struct {
	Resource struct {
		Name string `json:"name"`
		ID   string `json:"id"`
		Type string `json:"type"`
	} `json:"resource"`
	Metadata struct {
		Domain string `json:"domain"`
	} `json:"metadata"`
}

type catalogResponse struct {
	Results       []catalogResult `json:"results"`
	ResultSetSize int             `json:"resultSetSize"`
}

// searchCatalogParsed runs a catalog search and decodes the hits.
func (c *Client) searchCatalogParsed(ctx context.Context, domain string, opts SearchCatalogOptions) (*catalogResponse, error) {
	raw, err := c.SearchCatalog(ctx, domain, opts)
	if err != nil {
		return nil, err
	}
	var response catalogResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, fmt.Errorf("failed to parse catalog response: %w", err)
	}
	return &response, nil
}

func addPagination(v url.Values, limit, offset int) {
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		v.Set("offset", strconv.Itoa(offset))
	}
}
