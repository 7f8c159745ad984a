package socrata

import (
	"context"
	"encoding/json"
	"fmt"
)

// Read-modify-write merges for asset metadata and permissions. Both follow
// the same shape: fetch the current document, overlay only the fields the
// patch carries, write the merged document back. A fetch failure aborts
// before any write; a write failure leaves no trace of the in-memory merge.

// MetadataPatch is a sparse update for asset metadata. Nil pointer fields
// (and a nil Tags slice) are absent and leave the current value untouched.
type MetadataPatch struct {
	Name        *string
	Description *string
	Tags        []string
	Category    *string
	Attribution *string
	License     *string
}

func (p MetadataPatch) apply(doc map[string]any) {
	if p.Name != nil {
		doc["name"] = *p.Name
	}
	if p.Description != nil {
		doc["description"] = *p.Description
	}
	if p.Tags != nil {
		doc["tags"] = p.Tags
	}
	if p.Category != nil {
		doc["category"] = *p.Category
	}
	if p.Attribution != nil {
		doc["attribution"] = *p.Attribution
	}
	if p.License != nil {
		doc["licenseId"] = *p.License
	}
}

// GetMetadata fetches the current metadata document of an asset.
func (c *Client) GetMetadata(ctx context.Context, domain, assetID string) (json.RawMessage, error) {
	return c.Get(ctx, viewURL(domain, assetID))
}

// UpdateMetadata applies a sparse metadata patch via read-modify-write and
// returns the remote's view of the updated document.
func (c *Client) UpdateMetadata(ctx context.Context, domain, assetID string, patch MetadataPatch) (json.RawMessage, error) {
	current, err := c.GetMetadata(ctx, domain, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current metadata: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(current, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse current metadata: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	patch.apply(doc)

	return c.Put(ctx, viewURL(domain, assetID), doc)
}

// PermissionsPatch is a sparse update for asset permissions. A nil Users
// slice is absent; a non-nil empty slice combined with ReplaceUsers
// intentionally revokes every grant.
type PermissionsPatch struct {
	Scope        *string
	Users        []map[string]any
	ReplaceUsers bool
}

// GetPermissions fetches the current permissions document of an asset.
func (c *Client) GetPermissions(ctx context.Context, domain, assetID string) (json.RawMessage, error) {
	return c.Get(ctx, permissionsURL(domain, assetID))
}

// UpdatePermissions applies a sparse permissions patch via
// read-modify-write. Unless ReplaceUsers is set, the users list is merged
// grant by grant: an incoming grant upserts into the existing list,
// matching by id, or by email when it carries no id.
func (c *Client) UpdatePermissions(ctx context.Context, domain, assetID string, patch PermissionsPatch) (json.RawMessage, error) {
	current, err := c.GetPermissions(ctx, domain, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current permissions: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(current, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse current permissions: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	if patch.Scope != nil {
		doc["scope"] = *patch.Scope
	}
	if patch.Users != nil {
		if patch.ReplaceUsers {
			doc["users"] = grantsToList(patch.Users)
		} else {
			existing, _ := doc["users"].([]any)
			doc["users"] = upsertGrants(existing, patch.Users)
		}
	}

	return c.Put(ctx, permissionsURL(domain, assetID), doc)
}

func grantsToList(grants []map[string]any) []any {
	list := make([]any, len(grants))
	for i, grant := range grants {
		list[i] = grant
	}
	return list
}

// upsertGrants merges incoming grants into the existing list. Matching is
// first-match-wins against the original pre-merge order: grants appended
// during this merge are never match targets. Matched entries are
// shallow-merged in place, preserving their position; unmatched grants
// append in incoming order. The scan is O(existing x incoming), which is
// fine at the expected cardinality of tens of users.
func upsertGrants(existing []any, incoming []map[string]any) []any {
	merged := make([]any, len(existing))
	copy(merged, existing)
	originalLen := len(existing)

	for _, grant := range incoming {
		idx := matchGrant(merged[:originalLen], grant)
		if idx < 0 {
			merged = append(merged, grant)
			continue
		}
		target, ok := merged[idx].(map[string]any)
		if !ok {
			merged[idx] = grant
			continue
		}
		for key, value := range grant {
			target[key] = value
		}
	}
	return merged
}

// matchGrant finds the first existing grant the incoming grant refers to.
// A grant with an id matches only by id; the email path applies only when
// the incoming grant has no id. Grants with neither are always new.
func matchGrant(existing []any, grant map[string]any) int {
	if id, ok := grantField(grant, "id"); ok {
		return findGrantBy(existing, "id", id)
	}
	if email, ok := grantField(grant, "email"); ok {
		return findGrantBy(existing, "email", email)
	}
	return -1
}

func findGrantBy(existing []any, key, value string) int {
	for i, entry := range existing {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if existingValue, ok := grantField(obj, key); ok && existingValue == value {
			return i
		}
	}
	return -1
}

func grantField(obj map[string]any, key string) (string, bool) {
	value, ok := obj[key]
	if !ok {
		return "", false
	}
	text, ok := value.(string)
	if !ok || text == "" {
		return "", false
	}
	return text, true
}
