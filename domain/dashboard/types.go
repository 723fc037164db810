// Package dashboard defines declarative dashboard templates and the chart
// specifications resolved from them.
package dashboard

import (
	"encoding/json"
	"fmt"

	"insighto/domain/semantic"
)

// Aggregation names accepted in panel specs.
const (
	AggSum        = "sum"
	AggCount      = "count"
	AggAvg        = "avg"
	AggTimeBucket = "group-by-time-bucket"
)

// PanelSpec describes one chart slot in a dashboard template.
type PanelSpec struct {
	ID            string          `json:"id"`
	RequiredRoles []semantic.Role `json:"required_roles"`
	ChartType     string          `json:"chart_type"`
	Aggregation   string          `json:"aggregation"`
	TitleTemplate string          `json:"title_template"`
}

// Template is an ordered sequence of panel specs.
type Template struct {
	Panels []PanelSpec `json:"panels"`
}

// ParseTemplate decodes and validates a template document.
func ParseTemplate(data []byte) (*Template, error) {
	var tmpl Template
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	seen := make(map[string]bool, len(tmpl.Panels))
	for i, panel := range tmpl.Panels {
		if panel.ID == "" {
			return nil, fmt.Errorf("panel %d has no id", i)
		}
		if seen[panel.ID] {
			return nil, fmt.Errorf("duplicate panel id %q", panel.ID)
		}
		seen[panel.ID] = true
		if panel.ChartType == "" {
			return nil, fmt.Errorf("panel %q has no chart_type", panel.ID)
		}
	}
	return &tmpl, nil
}

// DefaultTemplate is the built-in dashboard used when the caller supplies
// none: a headline KPI, a time series, and a category breakdown.
func DefaultTemplate() *Template {
	return &Template{Panels: []PanelSpec{
		{
			ID:            "total",
			RequiredRoles: []semantic.Role{semantic.RoleAmount},
			ChartType:     "kpi",
			Aggregation:   AggSum,
			TitleTemplate: "Total {amount}",
		},
		{
			ID:            "over-time",
			RequiredRoles: []semantic.Role{semantic.RoleDate, semantic.RoleAmount},
			ChartType:     "line",
			Aggregation:   AggTimeBucket,
			TitleTemplate: "{amount} over time",
		},
		{
			ID:            "by-category",
			RequiredRoles: []semantic.Role{semantic.RoleCategory, semantic.RoleAmount},
			ChartType:     "bar",
			Aggregation:   AggSum,
			TitleTemplate: "{amount} by {category}",
		},
		{
			ID:            "by-account",
			RequiredRoles: []semantic.Role{semantic.RoleAccount, semantic.RoleAmount},
			ChartType:     "pie",
			Aggregation:   AggSum,
			TitleTemplate: "{amount} by {account}",
		},
	}}
}

// SeriesPoint is one x/y or categorical bucket of a resolved chart.
type SeriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ChartSpec is a resolved panel: either a renderable chart or a skipped
// marker carrying the unmet roles so callers can show a placeholder.
type ChartSpec struct {
	ID            string          `json:"id"`
	ChartType     string          `json:"chart_type"`
	Title         string          `json:"title,omitempty"`
	Series        []SeriesPoint   `json:"series,omitempty"`
	SourceColumns []string        `json:"source_columns,omitempty"`
	Skipped       bool            `json:"skipped"`
	MissingRoles  []semantic.Role `json:"missing_roles,omitempty"`
}

// NewSkipped builds the placeholder spec for a panel whose required roles
// are not all mapped.
func NewSkipped(panel PanelSpec, missing []semantic.Role) ChartSpec {
	return ChartSpec{
		ID:           panel.ID,
		ChartType:    panel.ChartType,
		Skipped:      true,
		MissingRoles: missing,
	}
}
