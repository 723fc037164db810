package insight

import (
	"github.com/montanaflynn/stats"

	"insighto/domain/insight"
	"insighto/domain/profile"
	"insighto/domain/table"
)

// KPISummary computes sum/avg/min/max roll-ups for every numeric column,
// in profile order. Columns with no parseable values are skipped.
func KPISummary(t *table.Table, profiles []profile.ColumnProfile) []insight.KPI {
	var kpis []insight.KPI
	for _, p := range profiles {
		if !p.IsNumeric() {
			continue
		}
		values := t.NumericColumn(p.Name)
		if len(values) == 0 {
			continue
		}
		sum, _ := stats.Sum(values)
		avg, _ := stats.Mean(values)
		min, _ := stats.Min(values)
		max, _ := stats.Max(values)
		kpis = append(kpis, insight.KPI{
			Column: p.Name,
			Sum:    sum,
			Avg:    avg,
			Min:    min,
			Max:    max,
		})
	}
	return kpis
}
