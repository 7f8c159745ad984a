package tools

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAll_FullToolCatalog(t *testing.T) {
	s := setupServer(t, jsonHandler(`{}`), nil)

	names := listToolNames(t, s)

	expected := []string{
		"health",
		"get_catalog",
		"search_catalog",
		"search_users",
		"search_teams",
		"get_metadata",
		"update_metadata",
		"get_permissions",
		"update_permissions",
		"get_schedule",
		"get_activity_log",
		"get_user_roles",
		"update_user_roles",
	}
	for _, name := range expected {
		assert.True(t, names[name], "tool %s not registered", name)
	}
	assert.Len(t, names, len(expected))
}

func TestGetCatalog_Success(t *testing.T) {
	s := setupServer(t, jsonHandler(`{"results": [{"resource": {"name": "Parks"}}]}`), nil)

	text, isError := callTool(t, s, "get_catalog", map[string]any{
		"domain": "data.example.gov",
		"type":   "dataset",
	})

	require.False(t, isError)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &decoded))
	assert.Contains(t, decoded, "results")
}

func TestGetCatalog_InvalidType(t *testing.T) {
	s := setupServer(t, jsonHandler(`{}`), nil)

	text, isError := callTool(t, s, "get_catalog", map[string]any{
		"domain": "data.example.gov",
		"type":   "story",
	})

	require.True(t, isError)
	assert.Contains(t, text, "invalid_arguments")
}

func TestDomainGuard_BlocksBeforeAnyRemoteCall(t *testing.T) {
	remoteCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remoteCalled = true
		w.Write([]byte(`{}`))
	})
	s := setupServer(t, handler, []string{"data.allowed.gov"})

	text, isError := callTool(t, s, "get_metadata", map[string]any{
		"domain":  "data.blocked.gov",
		"assetId": "abcd-1234",
	})

	require.True(t, isError)
	assert.False(t, remoteCalled, "domain guard must reject before any remote call")
	assert.Contains(t, text, "domain_not_allowed")
	assert.Contains(t, text, "data.blocked.gov")
	// The allowed set is included for diagnostics.
	assert.Contains(t, text, "data.allowed.gov")
}

func TestToolFailure_NamesOperationAndIncludesHint(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "no such view"}`))
	})
	s := setupServer(t, handler, nil)

	text, isError := callTool(t, s, "get_metadata", map[string]any{
		"domain":  "data.example.gov",
		"assetId": "gone-0000",
	})

	require.True(t, isError)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.Equal(t, "remote_error", resp.Code)
	assert.Contains(t, resp.Message, "get_metadata")
	assert.Contains(t, resp.Message, "gone-0000")
	assert.Contains(t, resp.Message, "data.example.gov")
	assert.Contains(t, resp.Message, "no such view")
	assert.Contains(t, resp.Message, "credentials")
}

func TestSearchCatalog_ConciseFormatProjectsListPayloads(t *testing.T) {
	// The shaper only projects sequences; the catalog envelope is an
	// object and passes through with all fields.
	s := setupServer(t, jsonHandler(`{"results": [], "resultSetSize": 0}`), nil)

	text, isError := callTool(t, s, "search_catalog", map[string]any{
		"domain": "data.example.gov",
		"q":      "parks",
		"detail": "concise",
	})

	require.False(t, isError)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &decoded))
	assert.Contains(t, decoded, "resultSetSize")
}

func TestSearchCatalog_MarkdownWrapping(t *testing.T) {
	s := setupServer(t, jsonHandler(`{"results": []}`), nil)

	text, isError := callTool(t, s, "search_catalog", map[string]any{
		"domain": "data.example.gov",
		"q":      "parks",
		"format": "markdown",
	})

	require.False(t, isError)
	assert.True(t, strings.HasPrefix(text, "# Catalog search on data.example.gov"))
	assert.Contains(t, text, "- **Domain**: data.example.gov")
	assert.Contains(t, text, "```json")
}

func TestUpdateMetadata_SendsSparsePatch(t *testing.T) {
	var putBody map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"name": "old", "description": "keep me"}`))
		case http.MethodPut:
			json.NewDecoder(r.Body).Decode(&putBody)
			w.Write([]byte(`{"name": "new", "description": "keep me"}`))
		}
	})
	s := setupServer(t, handler, nil)

	_, isError := callTool(t, s, "update_metadata", map[string]any{
		"domain":  "data.example.gov",
		"assetId": "abcd-1234",
		"name":    "new",
	})

	require.False(t, isError)
	assert.Equal(t, "new", putBody["name"])
	assert.Equal(t, "keep me", putBody["description"])
}

func TestUpdateMetadata_TagsAcceptCommaSeparatedString(t *testing.T) {
	var putBody map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{}`))
		case http.MethodPut:
			json.NewDecoder(r.Body).Decode(&putBody)
			w.Write([]byte(`{}`))
		}
	})
	s := setupServer(t, handler, nil)

	_, isError := callTool(t, s, "update_metadata", map[string]any{
		"domain":  "data.example.gov",
		"assetId": "abcd-1234",
		"tags":    "parks, recreation",
	})

	require.False(t, isError)
	assert.Equal(t, []any{"parks", "recreation"}, putBody["tags"])
}

func TestUpdatePermissions_RequiresSomethingToChange(t *testing.T) {
	s := setupServer(t, jsonHandler(`{}`), nil)

	text, isError := callTool(t, s, "update_permissions", map[string]any{
		"domain":  "data.example.gov",
		"assetId": "abcd-1234",
	})

	require.True(t, isError)
	assert.Contains(t, text, "invalid_arguments")
}

func TestUpdatePermissions_UpsertsGrants(t *testing.T) {
	var putBody map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"users": [{"id": "u1", "accessLevels": [{"name": "viewer", "version": "all"}]}]}`))
		case http.MethodPut:
			json.NewDecoder(r.Body).Decode(&putBody)
			w.Write([]byte(`{}`))
		}
	})
	s := setupServer(t, handler, nil)

	_, isError := callTool(t, s, "update_permissions", map[string]any{
		"domain":  "data.example.gov",
		"assetId": "abcd-1234",
		"users": []any{
			map[string]any{"id": "u1", "accessLevels": []any{map[string]any{"name": "editor", "version": "all"}}},
		},
	})

	require.False(t, isError)
	users := putBody["users"].([]any)
	require.Len(t, users, 1)
	levels := users[0].(map[string]any)["accessLevels"].([]any)
	assert.Equal(t, "editor", levels[0].(map[string]any)["name"])
}

func TestUpdateUserRoles_EmptyRolesRejected(t *testing.T) {
	s := setupServer(t, jsonHandler(`{}`), nil)

	text, isError := callTool(t, s, "update_user_roles", map[string]any{
		"domain": "data.example.gov",
		"userId": "user-1",
		"roles":  []any{},
	})

	require.True(t, isError)
	assert.Contains(t, text, "invalid_arguments")
}

func TestUpdateUserRoles_Success(t *testing.T) {
	var putBody map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			json.NewDecoder(r.Body).Decode(&putBody)
		}
		w.Write([]byte(`{"roles": ["publisher"]}`))
	})
	s := setupServer(t, handler, nil)

	_, isError := callTool(t, s, "update_user_roles", map[string]any{
		"domain": "data.example.gov",
		"userId": "user-1",
		"roles":  "publisher",
	})

	require.False(t, isError)
	assert.Equal(t, []any{"publisher"}, putBody["roles"])
}
