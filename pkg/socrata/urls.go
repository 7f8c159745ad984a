package socrata

import (
	"fmt"
	"net/url"
)

// URL templates for the Socrata API surface this server consumes. Asset
// identifiers are opaque and path-escaped, never interpreted.

func catalogURL(domain string, query url.Values) string {
	return withQuery(fmt.Sprintf("https://%s/api/catalog/v1", domain), query)
}

func usersURL(domain string, query url.Values) string {
	return withQuery(fmt.Sprintf("https://%s/api/catalog/v1/users", domain), query)
}

func teamsURL(domain string, query url.Values) string {
	return withQuery(fmt.Sprintf("https://%s/api/catalog/v1/teams", domain), query)
}

func userRolesURL(domain, userID string) string {
	return fmt.Sprintf("https://%s/api/catalog/v1/users/%s/roles", domain, url.PathEscape(userID))
}

func viewURL(domain, assetID string) string {
	return fmt.Sprintf("https://%s/api/views/%s.json", domain, url.PathEscape(assetID))
}

func permissionsURL(domain, assetID string) string {
	return fmt.Sprintf("https://%s/api/assets/%s/permissions.json", domain, url.PathEscape(assetID))
}

func scheduleURL(domain, fxf string) string {
	return fmt.Sprintf("https://%s/api/publishing/v1/revision/datasets/%s", domain, url.PathEscape(fxf))
}

func activityLogURL(domain string, query url.Values) string {
	return withQuery(fmt.Sprintf("https://%s/api/catalog/v1/activity_log", domain), query)
}

func workflowContextURL(domain, workflowID string) string {
	return fmt.Sprintf("https://%s/api/catalog/v1/workflows/%s/context", domain, url.PathEscape(workflowID))
}

func withQuery(base string, query url.Values) string {
	if len(query) == 0 {
		return base
	}
	return base + "?" + query.Encode()
}
