package insight

import "insighto/domain/insight"

// Recommendations derives follow-up suggestions from the insight
// categories that fired. Purely heuristic and advisory; returned
// separately from the ranked insight list.
func Recommendations(insights []insight.Insight) []string {
	fired := make(map[insight.Category]bool, len(insights))
	for _, ins := range insights {
		fired[ins.Category] = true
	}

	var recs []string
	if fired[insight.CategoryTopN] {
		recs = append(recs, "Investigate the leading categories for concentration risk and targeted follow-up.")
	}
	if fired[insight.CategoryTrend] {
		recs = append(recs, "Review the detected trend against expected seasonality before acting on it.")
	}
	if fired[insight.CategoryCorrelation] {
		recs = append(recs, "Correlated fields are not necessarily causal; consider a regression model before drawing conclusions.")
	}
	if fired[insight.CategoryOutlier] {
		recs = append(recs, "Review the flagged outlier values for data entry errors or exceptional events.")
	}
	if fired[insight.CategoryDataQuality] {
		recs = append(recs, "Columns with high missing rates may skew aggregates; consider cleaning them upstream.")
	}
	return recs
}
