// Package profiling computes per-column statistics from a dataset. The
// profiler is a pure function of its input: malformed cells count toward
// the null ratio instead of aborting the run.
package profiling

import (
	"math"

	"github.com/montanaflynn/stats"

	"insighto/domain/profile"
	"insighto/domain/table"
)

// Config holds the type-inference thresholds.
type Config struct {
	DatetimeMinRatio       float64 // share of non-null values that must parse as dates
	CategoricalMaxFraction float64 // max distinct/rows for categorical
	CategoricalMaxDistinct int
	IdentifierMinRatio     float64 // distinct/rows above which a column is an identifier
	SampleSize             int
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		DatetimeMinRatio:       0.95,
		CategoricalMaxFraction: 0.20,
		CategoricalMaxDistinct: 50,
		IdentifierMinRatio:     0.95,
		SampleSize:             5,
	}
}

// Profiler infers column types and summary statistics.
type Profiler struct {
	config Config
}

// New creates a profiler with the given config.
func New(config Config) *Profiler {
	return &Profiler{config: config}
}

// NewDefault creates a profiler with default thresholds.
func NewDefault() *Profiler {
	return New(DefaultConfig())
}

// Profile computes one ColumnProfile per column, in table column order.
func (p *Profiler) Profile(t *table.Table) []profile.ColumnProfile {
	profiles := make([]profile.ColumnProfile, 0, len(t.Columns))
	for _, name := range t.Columns {
		profiles = append(profiles, p.profileColumn(name, t.Column(name), t.RowCount()))
	}
	return profiles
}

func (p *Profiler) profileColumn(name string, values []any, rowCount int) profile.ColumnProfile {
	var (
		nonNull  []any
		distinct = make(map[string]bool)
		samples  []string
	)
	for _, v := range values {
		if table.IsNull(v) {
			continue
		}
		nonNull = append(nonNull, v)
		s := table.Stringify(v)
		if !distinct[s] && len(samples) < p.config.SampleSize {
			samples = append(samples, s)
		}
		distinct[s] = true
	}

	counts := countParses(nonNull)

	cp := profile.ColumnProfile{
		Name:         name,
		RowCount:     rowCount,
		Cardinality:  len(distinct),
		SampleValues: samples,
	}
	cp.InferredType = p.inferType(len(nonNull), rowCount, len(distinct), counts)

	// Cells that do not parse under the inferred type count as missing
	// rather than aborting the run.
	missing := rowCount - len(nonNull)
	if cp.InferredType == profile.TypeDatetime {
		missing = rowCount - counts.dates
	}
	if rowCount > 0 {
		cp.NullRatio = float64(missing) / float64(rowCount)
	}

	if cp.IsNumeric() {
		p.attachNumericStats(&cp, nonNull)
	}
	return cp
}

type parseCounts struct {
	dates, bools, numbers, integers int
}

func countParses(nonNull []any) parseCounts {
	var c parseCounts
	for _, v := range nonNull {
		if _, ok := table.ParseTime(v); ok {
			c.dates++
		}
		if _, ok := table.ParseBool(v); ok {
			c.bools++
		}
		if f, ok := table.ParseFloat(v); ok {
			c.numbers++
			if f == math.Trunc(f) {
				c.integers++
			}
		}
	}
	return c
}

// inferType applies the fixed precedence: datetime, boolean, numeric or
// integer, categorical, identifier, text.
func (p *Profiler) inferType(total, rowCount, cardinality int, c parseCounts) profile.ColumnType {
	if total == 0 {
		return profile.TypeText
	}

	switch {
	case float64(c.dates) >= p.config.DatetimeMinRatio*float64(total):
		return profile.TypeDatetime
	case c.bools == total:
		return profile.TypeBoolean
	case c.numbers == total:
		if c.integers == total {
			return profile.TypeInteger
		}
		return profile.TypeNumeric
	}

	if rowCount > 0 {
		fraction := float64(cardinality) / float64(rowCount)
		if fraction <= p.config.CategoricalMaxFraction && cardinality <= p.config.CategoricalMaxDistinct {
			return profile.TypeCategorical
		}
		if float64(cardinality) >= p.config.IdentifierMinRatio*float64(total) {
			return profile.TypeIdentifier
		}
	}
	return profile.TypeText
}

func (p *Profiler) attachNumericStats(cp *profile.ColumnProfile, nonNull []any) {
	var data []float64
	for _, v := range nonNull {
		if f, ok := table.ParseFloat(v); ok {
			data = append(data, f)
		}
	}
	if len(data) == 0 {
		return
	}
	if min, err := stats.Min(data); err == nil {
		cp.Min = &min
	}
	if max, err := stats.Max(data); err == nil {
		cp.Max = &max
	}
	if mean, err := stats.Mean(data); err == nil {
		cp.Mean = &mean
	}
}
