package insight

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"insighto/domain/insight"
	"insighto/domain/profile"
	"insighto/domain/semantic"
	"insighto/domain/table"
	"insighto/internal/aggregate"
)

// dataQualityRule emits one insight per column whose missing share exceeds
// the threshold. No mapping precondition.
func (e *Engine) dataQualityRule(profiles []profile.ColumnProfile) []insight.Insight {
	var out []insight.Insight
	for _, p := range profiles {
		if p.NullRatio <= e.thresholds.NullRatio {
			continue
		}
		out = append(out, insight.Insight{
			Category:         insight.CategoryDataQuality,
			Subject:          p.Name,
			Text:             fmt.Sprintf("Column %s is missing %.1f%% of its values.", p.Name, p.NullRatio*100),
			SupportingMetric: p.NullRatio,
			Priority:         priorityDataQuality + p.NullRatio*20,
			Confidence:       0.9,
		})
	}
	return out
}

// trendRule requires date and amount mapped. It buckets the amount by the
// granularity chosen from the date range, computes period-over-period
// percent changes and reports the longest consistent directional run.
func (e *Engine) trendRule(t *table.Table, mapping semantic.FieldMapping) []insight.Insight {
	dateCol, ok := mapping.Column(semantic.RoleDate)
	if !ok {
		return nil
	}
	amountCol, ok := mapping.Column(semantic.RoleAmount)
	if !ok {
		return nil
	}

	dates, values := pairedDateValues(t, dateCol, amountCol)
	min, max, ok := aggregate.DateRange(dates)
	if !ok {
		return nil
	}
	granularity := aggregate.ChooseGranularity(min, max)
	buckets := aggregate.TimeBucketSum(dates, values, granularity)
	if len(buckets) < 3 {
		return nil
	}

	changes := make([]float64, 0, len(buckets)-1)
	for i := 1; i < len(buckets); i++ {
		prev := buckets[i-1].Value
		if prev == 0 {
			changes = append(changes, 0)
			continue
		}
		changes = append(changes, (buckets[i].Value-prev)/math.Abs(prev)*100)
	}

	runStart, runLen, total := longestDirectionalRun(changes)
	if runLen == 0 {
		return nil
	}
	direction := "rose"
	if total < 0 {
		direction = "fell"
	}
	confidence := float64(runLen) / float64(len(changes))
	return []insight.Insight{{
		Category: insight.CategoryTrend,
		Subject:  amountCol,
		Text: fmt.Sprintf("%s of %s %s over %d consecutive %s periods starting %s (%+.1f%% overall).",
			capitalize(string(granularity)), amountCol, direction, runLen,
			string(granularity), buckets[runStart].Key, total),
		SupportingMetric: total,
		Priority:         priorityTrend + math.Min(10, math.Abs(total)/10),
		Confidence:       confidence,
	}}
}

// longestDirectionalRun finds the longest stretch of consecutive
// same-sign percent changes. It returns the index of the bucket the run
// starts at, the run length and the cumulative change.
func longestDirectionalRun(changes []float64) (start, length int, total float64) {
	var (
		curStart, curLen int
		curTotal         float64
		curSign          int
	)
	for i, c := range changes {
		sign := 0
		if c > 0 {
			sign = 1
		} else if c < 0 {
			sign = -1
		}
		if sign != 0 && sign == curSign {
			curLen++
			curTotal += c
		} else {
			curStart, curLen, curTotal, curSign = i, boolToInt(sign != 0), c, sign
			if sign == 0 {
				curTotal = 0
			}
		}
		if curLen > length {
			start, length, total = curStart, curLen, curTotal
		}
	}
	return start, length, total
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// topNRule requires category and amount mapped. It aggregates amounts per
// category and reports the top three with their share of total.
func (e *Engine) topNRule(t *table.Table, mapping semantic.FieldMapping) []insight.Insight {
	catCol, ok := mapping.Column(semantic.RoleCategory)
	if !ok {
		return nil
	}
	amountCol, ok := mapping.Column(semantic.RoleAmount)
	if !ok {
		return nil
	}

	cats, values := pairedCategoryValues(t, catCol, amountCol)
	buckets := aggregate.GroupBy(cats, values, aggregate.OpSum)
	total := aggregate.Total(buckets)
	if len(buckets) == 0 || total == 0 {
		return nil
	}

	topCount := 3
	if len(buckets) < topCount {
		topCount = len(buckets)
	}
	parts := make([]string, 0, topCount)
	var topShare float64
	for _, b := range buckets[:topCount] {
		share := b.Value / total * 100
		topShare += share
		parts = append(parts, fmt.Sprintf("%s (%.1f%%)", b.Key, share))
	}

	return []insight.Insight{{
		Category:         insight.CategoryTopN,
		Subject:          catCol,
		Text:             fmt.Sprintf("Top %s by %s: %s.", catCol, amountCol, strings.Join(parts, ", ")),
		SupportingMetric: topShare,
		Priority:         priorityTopN + topShare/20,
		Confidence:       topShare / 100,
	}}
}

// outlierRule requires amount mapped. It flags values whose z-score
// exceeds the configured threshold.
func (e *Engine) outlierRule(t *table.Table, mapping semantic.FieldMapping) []insight.Insight {
	amountCol, ok := mapping.Column(semantic.RoleAmount)
	if !ok {
		return nil
	}
	values := t.NumericColumn(amountCol)
	if len(values) < 3 {
		return nil
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return nil
	}
	stdDev, err := stats.StandardDeviation(values)
	if err != nil || stdDev == 0 {
		return nil
	}

	var (
		count   int
		maxZ    float64
		example float64
	)
	for _, v := range values {
		z := math.Abs(v-mean) / stdDev
		if z >= e.thresholds.ZScore {
			count++
			if z > maxZ {
				maxZ = z
				example = v
			}
		}
	}
	if count == 0 {
		return nil
	}

	return []insight.Insight{{
		Category: insight.CategoryOutlier,
		Subject:  amountCol,
		Text: fmt.Sprintf("Found %d outlier value(s) in %s, e.g. %.2f at z=%.1f.",
			count, amountCol, example, maxZ),
		SupportingMetric: maxZ,
		Priority:         priorityOutlier + math.Min(10, maxZ),
		Confidence:       math.Min(1, maxZ/(2*e.thresholds.ZScore)),
	}}
}

// correlationRule computes Pearson correlation across numeric column
// pairs and fires for pairs whose |r| clears the threshold. The closed
// role set carries a single numeric role, so the evaluator works over
// profiled numeric columns; pairs involving the mapped amount column rank
// first, which doubles as top-driver detection.
func (e *Engine) correlationRule(t *table.Table, profiles []profile.ColumnProfile, mapping semantic.FieldMapping) []insight.Insight {
	var numeric []string
	for _, p := range profiles {
		if p.IsNumeric() {
			numeric = append(numeric, p.Name)
		}
	}
	if len(numeric) < 2 {
		return nil
	}
	sort.Strings(numeric)

	amountCol, _ := mapping.Column(semantic.RoleAmount)

	type pair struct {
		a, b string
		r    float64
	}
	var pairs []pair
	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			x, y := pairedValues(t, numeric[i], numeric[j])
			if len(x) < 3 {
				continue
			}
			r := stat.Correlation(x, y, nil)
			if math.IsNaN(r) || math.Abs(r) < e.thresholds.MinCorrelation {
				continue
			}
			pairs = append(pairs, pair{a: numeric[i], b: numeric[j], r: r})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		iAmount := pairs[i].a == amountCol || pairs[i].b == amountCol
		jAmount := pairs[j].a == amountCol || pairs[j].b == amountCol
		if iAmount != jAmount {
			return iAmount
		}
		if math.Abs(pairs[i].r) != math.Abs(pairs[j].r) {
			return math.Abs(pairs[i].r) > math.Abs(pairs[j].r)
		}
		return pairs[i].a+pairs[i].b < pairs[j].a+pairs[j].b
	})
	if len(pairs) > 3 {
		pairs = pairs[:3]
	}

	out := make([]insight.Insight, 0, len(pairs))
	for _, p := range pairs {
		direction := "positive"
		if p.r < 0 {
			direction = "negative"
		}
		strength := "moderate"
		if math.Abs(p.r) >= 0.8 {
			strength = "strong"
		}
		out = append(out, insight.Insight{
			Category: insight.CategoryCorrelation,
			Subject:  p.a + "×" + p.b,
			Text: fmt.Sprintf("%s %s correlation (r=%.2f) between %s and %s.",
				capitalize(strength), direction, p.r, p.a, p.b),
			SupportingMetric: p.r,
			Priority:         priorityCorrelation + math.Abs(p.r)*10,
			Confidence:       math.Abs(p.r),
		})
	}
	return out
}

// pairedDateValues extracts rowwise (date, value) pairs, skipping rows
// where either cell fails to parse.
func pairedDateValues(t *table.Table, dateCol, valueCol string) ([]time.Time, []float64) {
	var (
		dates  []time.Time
		values []float64
	)
	for _, row := range t.Rows {
		d, ok := table.ParseTime(row[dateCol])
		if !ok {
			continue
		}
		v, ok := table.ParseFloat(row[valueCol])
		if !ok {
			continue
		}
		dates = append(dates, d)
		values = append(values, v)
	}
	return dates, values
}

// pairedCategoryValues extracts rowwise (category, value) pairs.
func pairedCategoryValues(t *table.Table, catCol, valueCol string) ([]string, []float64) {
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

// pairedValues extracts rowwise complete numeric pairs for two columns.
func pairedValues(t *table.Table, aCol, bCol string) ([]float64, []float64) {
	var xs, ys []float64
	for _, row := range t.Rows {
		x, ok := table.ParseFloat(row[aCol])
		if !ok {
			continue
		}
		y, ok := table.ParseFloat(row[bCol])
		if !ok {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys
}
