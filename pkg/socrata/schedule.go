package socrata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/opencivic-io/socrata-engine/pkg/apperrors"
)

// DatasetRef identifies the dataset a schedule belongs to. In direct
// lookups the descriptor is fabricated from the schedule payload itself;
// in search mode it carries the catalog hit's name and identifier. The two
// paths intentionally differ in what information they have available.
type DatasetRef struct {
	Name string `json:"name"`
	FXF  string `json:"fxf"`
}

// ScheduleInfo is the normalized publishing schedule of a dataset.
type ScheduleInfo struct {
	Cadence   string `json:"cadence,omitempty"`
	Status    string `json:"status,omitempty"`
	Enabled   bool   `json:"enabled"`
	LastRun   string `json:"lastRun,omitempty"`
	NextRun   string `json:"nextRun,omitempty"`
	RowCount  *int64 `json:"rowCount,omitempty"`
	Owner     string `json:"owner,omitempty"`
	Frequency string `json:"frequency,omitempty"`
	Timezone  string `json:"timezone,omitempty"`
}

// ScheduleSummary is the per-dataset result of schedule resolution. When a
// match's schedule fetch fails, Schedule is nil and Error is set; the
// resolution as a whole still succeeds.
type ScheduleSummary struct {
	Dataset  DatasetRef    `json:"dataset"`
	Schedule *ScheduleInfo `json:"schedule"`
	Summary  string        `json:"summary,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// ResolveSchedule resolves publishing schedules either directly by fxf or
// by searching the catalog by asset name. Exactly one discovery mode is
// used: fxf is checked first and wins. The returned slice preserves
// catalog result order; direct mode always yields one element.
func (c *Client) ResolveSchedule(ctx context.Context, domain, fxf, assetName string) ([]ScheduleSummary, error) {
	if fxf != "" {
		return c.resolveScheduleDirect(ctx, domain, fxf)
	}
	if assetName != "" {
		return c.resolveScheduleBySearch(ctx, domain, assetName)
	}
	return nil, fmt.Errorf("either fxf or assetName must be provided: %w", apperrors.ErrInvalidArguments)
}

func (c *Client) resolveScheduleDirect(ctx context.Context, domain, fxf string) ([]ScheduleSummary, error) {
	raw, err := c.Get(ctx, scheduleURL(domain, fxf))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule for %s: %w", fxf, err)
	}

	info, dataset := scheduleFromPayload(raw)
	if dataset.FXF == "" {
		dataset.FXF = fxf
	}
	return []ScheduleSummary{{
		Dataset:  dataset,
		Schedule: info,
		Summary:  info.SummaryText(),
	}}, nil
}

func (c *Client) resolveScheduleBySearch(ctx context.Context, domain, assetName string) ([]ScheduleSummary, error) {
	response, err := c.searchCatalogParsed(ctx, domain, SearchCatalogOptions{Query: assetName})
	if err != nil {
		return nil, fmt.Errorf("failed to search catalog for %q: %w", assetName, err)
	}
	if len(response.Results) == 0 {
		return nil, fmt.Errorf("no assets named %q on %s: %w", assetName, domain, apperrors.ErrNotFound)
	}

	var datasets []catalogResult
	for _, result := range response.Results {
		if result.Resource.Type == "dataset" {
			datasets = append(datasets, result)
		}
	}
	if len(datasets) == 0 {
		// Non-dataset assets (filters, files) have no publishing schedule.
		first := response.Results[0]
		return nil, fmt.Errorf("asset %q is a %s, which has no publishing schedule: %w",
			first.Resource.Name, first.Resource.Type, apperrors.ErrNotFound)
	}

	summaries := make([]ScheduleSummary, 0, len(datasets))
	for _, ds := range datasets {
		summary := ScheduleSummary{
			Dataset: DatasetRef{Name: ds.Resource.Name, FXF: ds.Resource.ID},
		}

		raw, err := c.Get(ctx, scheduleURL(domain, ds.Resource.ID))
		if err != nil {
			// Partial failure: attribute the error to this match only and
			// keep resolving the rest.
			summary.Error = fmt.Sprintf("failed to fetch schedule: %v", err)
			summaries = append(summaries, summary)
			continue
		}

		info, _ := scheduleFromPayload(raw)
		summary.Schedule = info
		summary.Summary = info.SummaryText()
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// scheduleFromPayload extracts the normalized schedule and a best-effort
// dataset descriptor from a publishing API payload. The schedule object
// may sit at the top level or nested under "resource"; field names vary
// between camelCase and snake_case across API revisions.
func scheduleFromPayload(raw json.RawMessage) (*ScheduleInfo, DatasetRef) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil || payload == nil {
		return nil, DatasetRef{}
	}

	obj := payload
	if nested, ok := payload["resource"].(map[string]any); ok {
		obj = nested
	}

	info := &ScheduleInfo{
		Cadence:   firstString(obj, "cadence"),
		Status:    firstString(obj, "status"),
		Enabled:   boolField(obj, "enabled"),
		LastRun:   firstString(obj, "lastRun", "last_run"),
		NextRun:   firstString(obj, "nextRun", "next_run"),
		Owner:     firstString(obj, "owner"),
		Frequency: firstString(obj, "frequency"),
		Timezone:  firstString(obj, "timezone"),
	}
	if count, ok := intField(obj, "rowCount", "row_count"); ok {
		info.RowCount = &count
	}

	dataset := DatasetRef{
		Name: firstString(obj, "name"),
		FXF:  firstString(obj, "fxf", "fourfour", "id"),
	}
	return info, dataset
}

// SummaryText derives the human-readable schedule description.
func (s *ScheduleInfo) SummaryText() string {
	if s == nil || !s.Enabled || s.Cadence == "" {
		return "updated manually, no automated schedule"
	}
	return fmt.Sprintf("updates %s; last run %s, next run %s",
		s.Cadence,
		formatRunDate(s.LastRun, "Unknown"),
		formatRunDate(s.NextRun, "Not scheduled"))
}

// formatRunDate renders an RFC 3339 timestamp as a calendar date. Absent
// values fall back to the caller's placeholder; unparsable values pass
// through verbatim.
func formatRunDate(value, fallback string) string {
	if value == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return t.Format("Jan 2, 2006")
}

func firstString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := obj[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

func boolField(obj map[string]any, key string) bool {
	value, _ := obj[key].(bool)
	return value
}

func intField(obj map[string]any, keys ...string) (int64, bool) {
	for _, key := range keys {
		if value, ok := obj[key].(float64); ok {
			return int64(value), true
		}
	}
	return 0, false
}
