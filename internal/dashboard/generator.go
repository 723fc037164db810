// Package dashboard resolves declarative templates into chart
// specifications. Resolution is order-preserving over the template's
// panels; a panel whose required roles are unmapped yields a Skipped
// entry naming exactly the unmet roles, never an error. Chart type is
// passed through from the template unchanged.
package dashboard

import (
	"strings"
	"time"

	dash "insighto/domain/dashboard"
	"insighto/domain/profile"
	"insighto/domain/semantic"
	"insighto/domain/table"
	"insighto/internal/aggregate"
)

const histogramBins = 10

// Generator resolves templates against a mapped dataset.
type Generator struct{}

// New creates a dashboard generator.
func New() *Generator {
	return &Generator{}
}

// Resolve produces one ChartSpec per PanelSpec, in template order.
func (g *Generator) Resolve(tmpl *dash.Template, mapping semantic.FieldMapping, profiles []profile.ColumnProfile, t *table.Table) []dash.ChartSpec {
	specs := make([]dash.ChartSpec, 0, len(tmpl.Panels))
	for _, panel := range tmpl.Panels {
		if missing := mapping.Missing(panel.RequiredRoles); len(missing) > 0 {
			specs = append(specs, dash.NewSkipped(panel, missing))
			continue
		}
		specs = append(specs, g.resolvePanel(panel, mapping, t))
	}
	return specs
}

func (g *Generator) resolvePanel(panel dash.PanelSpec, mapping semantic.FieldMapping, t *table.Table) dash.ChartSpec {
	columns := make([]string, 0, len(panel.RequiredRoles))
	for _, role := range panel.RequiredRoles {
		if col, ok := mapping.Column(role); ok {
			columns = append(columns, col)
		}
	}

	return dash.ChartSpec{
		ID:            panel.ID,
		ChartType:     panel.ChartType,
		Title:         renderTitle(panel.TitleTemplate, panel.RequiredRoles, mapping),
		SourceColumns: columns,
		Series:        g.buildSeries(panel, mapping, t),
	}
}

// buildSeries applies the panel's aggregation to the resolved columns.
func (g *Generator) buildSeries(panel dash.PanelSpec, mapping semantic.FieldMapping, t *table.Table) []dash.SeriesPoint {
	amountCol, hasAmount := mapping.Column(semantic.RoleAmount)
	dateCol, hasDate := mapping.Column(semantic.RoleDate)
	groupCol, hasGroup := groupColumn(panel.RequiredRoles, mapping)

	requires := func(role semantic.Role) bool {
		for _, r := range panel.RequiredRoles {
			if r == role {
				return true
			}
		}
		return false
	}

	switch {
	case panel.Aggregation == dash.AggTimeBucket && requires(semantic.RoleDate) && hasDate && hasAmount:
		return g.timeSeries(t, dateCol, amountCol)
	case hasGroup && hasAmount:
		cats, values := pairedCategories(t, groupCol, amountCol)
		return toSeries(aggregate.GroupBy(cats, values, groupOp(panel.Aggregation)))
	case hasGroup:
		cats := make([]string, 0, t.RowCount())
		for _, row := range t.Rows {
			if !table.IsNull(row[groupCol]) {
				cats = append(cats, table.Stringify(row[groupCol]))
			}
		}
		return toSeries(aggregate.GroupBy(cats, make([]float64, len(cats)), aggregate.OpCount))
	case strings.EqualFold(panel.ChartType, "histogram") && hasAmount:
		return toSeries(aggregate.Histogram(t.NumericColumn(amountCol), histogramBins))
	case requires(semantic.RoleAmount) && hasAmount:
		return g.scalarSeries(t, amountCol, panel.Aggregation)
	}
	return nil
}

// groupColumn picks the grouping column: the first required non-date,
// non-amount role that is bound.
func groupColumn(roles []semantic.Role, mapping semantic.FieldMapping) (string, bool) {
	for _, role := range roles {
		if role == semantic.RoleDate || role == semantic.RoleAmount {
			continue
		}
		if col, ok := mapping.Column(role); ok {
			return col, true
		}
	}
	return "", false
}

// timeSeries buckets amounts by the granularity chosen from the date
// range, matching the insight engine's trend bucketing.
func (g *Generator) timeSeries(t *table.Table, dateCol, amountCol string) []dash.SeriesPoint {
	var (
		dates  []time.Time
		values []float64
	)
	for _, row := range t.Rows {
		d, ok := table.ParseTime(row[dateCol])
		if !ok {
			continue
		}
		v, ok := table.ParseFloat(row[amountCol])
		if !ok {
			continue
		}
		dates = append(dates, d)
		values = append(values, v)
	}
	min, max, ok := aggregate.DateRange(dates)
	if !ok {
		return nil
	}
	granularity := aggregate.ChooseGranularity(min, max)
	return toSeries(aggregate.TimeBucketSum(dates, values, granularity))
}

// scalarSeries reduces the amount column to a single aggregate point.
func (g *Generator) scalarSeries(t *table.Table, amountCol, agg string) []dash.SeriesPoint {
	values := t.NumericColumn(amountCol)
	if len(values) == 0 {
		return nil
	}
	var v float64
	switch agg {
	case dash.AggCount:
		v = float64(len(values))
	case dash.AggAvg:
		for _, x := range values {
			v += x
		}
		v /= float64(len(values))
	default:
		for _, x := range values {
			v += x
		}
	}
	return []dash.SeriesPoint{{Label: amountCol, Value: v}}
}

// groupOp maps a panel aggregation name onto the per-category operation.
func groupOp(agg string) string {
	switch agg {
	case dash.AggCount:
		return aggregate.OpCount
	case dash.AggAvg:
		return aggregate.OpAvg
	default:
		return aggregate.OpSum
	}
}

// renderTitle substitutes {role} placeholders with the bound column
// names.
func renderTitle(tmpl string, roles []semantic.Role, mapping semantic.FieldMapping) string {
	title := tmpl
	for _, role := range roles {
		if col, ok := mapping.Column(role); ok {
			title = strings.ReplaceAll(title, "{"+string(role)+"}", col)
		}
	}
	return title
}

func pairedCategories(t *table.Table, catCol, valueCol string) ([]string, []float64) {
	var (
		cats   []string
		values []float64
	)
	for _, row := range t.Rows {
		if table.IsNull(row[catCol]) {
			continue
		}
		v, ok := table.ParseFloat(row[valueCol])
		if !ok {
			continue
		}
		cats = append(cats, table.Stringify(row[catCol]))
		values = append(values, v)
	}
	return cats, values
}

func toSeries(buckets []aggregate.Bucket) []dash.SeriesPoint {
	points := make([]dash.SeriesPoint, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, dash.SeriesPoint{Label: b.Key, Value: b.Value})
	}
	return points
}
