// Package insight defines the rule-derived textual findings produced by an
// analysis run. Insights are created fresh per run and never mutated after
// creation, only filtered and sorted.
package insight

// Category classifies an insight by the rule family that produced it.
type Category string

const (
	CategoryTrend        Category = "trend"
	CategoryDistribution Category = "distribution"
	CategoryOutlier      Category = "outlier"
	CategoryTopN         Category = "top-n"
	CategoryDataQuality  Category = "data-quality"
	CategoryCorrelation  Category = "correlation"
)

// Insight is a single human-readable statement backed by a quantitative
// rule evaluation. Subject identifies what the insight is about (a column
// or a column pair) and participates in deduplication.
type Insight struct {
	Category         Category `json:"category"`
	Subject          string   `json:"subject"`
	Text             string   `json:"text"`
	SupportingMetric float64  `json:"supporting_metric"`
	Priority         float64  `json:"priority"`
	Confidence       float64  `json:"confidence"`
}

// KPI is a per-column roll-up shown alongside insights on dashboards.
type KPI struct {
	Column string  `json:"column"`
	Sum    float64 `json:"sum"`
	Avg    float64 `json:"avg"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}
