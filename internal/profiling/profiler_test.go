package profiling

import (
	"fmt"
	"math"
	"testing"

	"insighto/domain/profile"
	"insighto/domain/table"
)

func buildTable(column string, values []any) *table.Table {
	t := table.New([]string{column})
	for _, v := range values {
		t.Append(table.Row{column: v})
	}
	return t
}

func profileOne(t *testing.T, values []any) profile.ColumnProfile {
	t.Helper()
	profiles := NewDefault().Profile(buildTable("col", values))
	if len(profiles) != 1 {
		t.Fatalf("Expected 1 profile, got %d", len(profiles))
	}
	return profiles[0]
}

func TestInferType_Datetime(t *testing.T) {
	p := profileOne(t, []any{"2024-01-05", "2024-02-10", "2024-03-15"})
	if p.InferredType != profile.TypeDatetime {
		t.Errorf("Expected datetime, got %s", p.InferredType)
	}
	if p.NullRatio != 0 {
		t.Errorf("Expected null ratio 0, got %.2f", p.NullRatio)
	}
}

func TestInferType_Boolean(t *testing.T) {
	p := profileOne(t, []any{"yes", "no", "Yes", "FALSE"})
	if p.InferredType != profile.TypeBoolean {
		t.Errorf("Expected boolean, got %s", p.InferredType)
	}
}

func TestInferType_NumericAndInteger(t *testing.T) {
	p := profileOne(t, []any{"10.5", "-3.25", "7.0"})
	if p.InferredType != profile.TypeNumeric {
		t.Errorf("Expected numeric, got %s", p.InferredType)
	}

	p = profileOne(t, []any{"1", "2", "3"})
	if p.InferredType != profile.TypeInteger {
		t.Errorf("Expected integer, got %s", p.InferredType)
	}
}

func TestInferType_NumericWithCurrencyMarkers(t *testing.T) {
	p := profileOne(t, []any{"$1,234.50", "$99.10", "$0.75"})
	if p.InferredType != profile.TypeNumeric {
		t.Errorf("Expected numeric for currency-formatted values, got %s", p.InferredType)
	}
}

func TestInferType_Categorical(t *testing.T) {
	values := make([]any, 0, 20)
	for i := 0; i < 20; i++ {
		values = append(values, []string{"food", "travel", "rent"}[i%3])
	}
	p := profileOne(t, values)
	if p.InferredType != profile.TypeCategorical {
		t.Errorf("Expected categorical, got %s", p.InferredType)
	}
	if p.Cardinality != 3 {
		t.Errorf("Expected cardinality 3, got %d", p.Cardinality)
	}
}

func TestInferType_Identifier(t *testing.T) {
	values := make([]any, 0, 20)
	for i := 0; i < 20; i++ {
		values = append(values, fmt.Sprintf("txn-%04d-x", i))
	}
	p := profileOne(t, values)
	if p.InferredType != profile.TypeIdentifier {
		t.Errorf("Expected identifier, got %s", p.InferredType)
	}
}

func TestInferType_Text(t *testing.T) {
	// Half the rows are distinct: too varied for categorical, too
	// repetitive for identifier.
	values := make([]any, 0, 10)
	for i := 0; i < 10; i++ {
		values = append(values, fmt.Sprintf("paid the usual monthly bill %d", i/2))
	}
	p := profileOne(t, values)
	if p.InferredType != profile.TypeText {
		t.Errorf("Expected text, got %s", p.InferredType)
	}
}

func TestProfile_NullRatio(t *testing.T) {
	p := profileOne(t, []any{"5", nil, "   ", "7"})
	if p.InferredType != profile.TypeInteger {
		t.Errorf("Expected integer, got %s", p.InferredType)
	}
	if p.NullRatio != 0.5 {
		t.Errorf("Expected null ratio 0.5, got %.2f", p.NullRatio)
	}
	if p.RowCount != 4 {
		t.Errorf("Expected row count 4, got %d", p.RowCount)
	}
}

func TestProfile_MalformedDatesCountAsMissing(t *testing.T) {
	// 19 of 20 values parse as dates; the stray cell counts toward the
	// null ratio instead of failing the column.
	values := make([]any, 0, 20)
	for i := 1; i <= 19; i++ {
		values = append(values, fmt.Sprintf("2024-01-%02d", i))
	}
	values = append(values, "not a date")

	p := profileOne(t, values)
	if p.InferredType != profile.TypeDatetime {
		t.Errorf("Expected datetime, got %s", p.InferredType)
	}
	if math.Abs(p.NullRatio-0.05) > 1e-9 {
		t.Errorf("Expected null ratio 0.05, got %.4f", p.NullRatio)
	}
}

func TestProfile_MalformedValuesNeverAbort(t *testing.T) {
	p := profileOne(t, []any{"10", "garbage", "2024-01-01", "yes", "???"})
	if p.InferredType == "" {
		t.Error("Expected some inferred type for a mixed column")
	}
	if p.Cardinality != 5 {
		t.Errorf("Expected cardinality 5, got %d", p.Cardinality)
	}
}

func TestProfile_NumericStats(t *testing.T) {
	p := profileOne(t, []any{"10.5", "-3.25", "7.0"})
	if p.Min == nil || p.Max == nil || p.Mean == nil {
		t.Fatal("Expected min/max/mean for a numeric column")
	}
	if *p.Min != -3.25 {
		t.Errorf("Expected min -3.25, got %.2f", *p.Min)
	}
	if *p.Max != 10.5 {
		t.Errorf("Expected max 10.5, got %.2f", *p.Max)
	}
	if math.Abs(*p.Mean-4.75) > 1e-9 {
		t.Errorf("Expected mean 4.75, got %.4f", *p.Mean)
	}
}

func TestProfile_NoStatsForNonNumeric(t *testing.T) {
	p := profileOne(t, []any{"food", "travel", "food", "rent", "food"})
	if p.Min != nil || p.Max != nil || p.Mean != nil {
		t.Error("Expected no min/max/mean for a categorical column")
	}
}

func TestProfile_SampleValuesCapped(t *testing.T) {
	values := make([]any, 0, 30)
	for i := 0; i < 30; i++ {
		values = append(values, fmt.Sprintf("value-%d", i))
	}
	p := profileOne(t, values)
	if len(p.SampleValues) != DefaultConfig().SampleSize {
		t.Errorf("Expected %d samples, got %d", DefaultConfig().SampleSize, len(p.SampleValues))
	}
	seen := make(map[string]bool)
	for _, s := range p.SampleValues {
		if seen[s] {
			t.Errorf("Duplicate sample value %q", s)
		}
		seen[s] = true
	}
}

func TestProfile_EmptyColumn(t *testing.T) {
	p := profileOne(t, []any{nil, "", "  "})
	if p.InferredType != profile.TypeText {
		t.Errorf("Expected text for an all-null column, got %s", p.InferredType)
	}
	if p.NullRatio != 1.0 {
		t.Errorf("Expected null ratio 1.0, got %.2f", p.NullRatio)
	}
	if p.Cardinality != 0 {
		t.Errorf("Expected cardinality 0, got %d", p.Cardinality)
	}
}

func TestProfile_ColumnOrderPreserved(t *testing.T) {
	tbl := table.New([]string{"b_col", "a_col", "c_col"})
	tbl.Append(table.Row{"b_col": "1", "a_col": "x", "c_col": "2024-01-01"})

	profiles := NewDefault().Profile(tbl)
	if len(profiles) != 3 {
		t.Fatalf("Expected 3 profiles, got %d", len(profiles))
	}
	for i, want := range []string{"b_col", "a_col", "c_col"} {
		if profiles[i].Name != want {
			t.Errorf("Profile %d: expected %s, got %s", i, want, profiles[i].Name)
		}
	}
}
