package mapping

import (
	"math"
	"reflect"
	"testing"

	"insighto/domain/profile"
	"insighto/domain/semantic"
)

// transactionProfiles models a typical bank-export header: a date column,
// an abbreviated amount column and a merchant category.
func transactionProfiles() []profile.ColumnProfile {
	return []profile.ColumnProfile{
		{
			Name:         "txn_date",
			InferredType: profile.TypeDatetime,
			Cardinality:  90,
			RowCount:     100,
			SampleValues: []string{"2024-01-05", "2024-01-06"},
		},
		{
			Name:         "amt",
			InferredType: profile.TypeNumeric,
			Cardinality:  95,
			RowCount:     100,
			SampleValues: []string{"12.50", "-3.20"},
		},
		{
			Name:         "merchant_category",
			InferredType: profile.TypeCategorical,
			Cardinality:  8,
			RowCount:     100,
			SampleValues: []string{"groceries", "fuel"},
		},
	}
}

func TestMap_TransactionHeader(t *testing.T) {
	mapping := NewDefault().Map(transactionProfiles())

	expected := map[semantic.Role]string{
		semantic.RoleDate:     "txn_date",
		semantic.RoleAmount:   "amt",
		semantic.RoleCategory: "merchant_category",
	}
	for role, column := range expected {
		binding, ok := mapping[role]
		if !ok {
			t.Fatalf("Expected role %s to be mapped", role)
		}
		if binding.Column != column {
			t.Errorf("Role %s: expected column %s, got %s", role, column, binding.Column)
		}
		if binding.Confidence < DefaultAcceptanceThreshold {
			t.Errorf("Role %s: confidence %.3f below threshold", role, binding.Confidence)
		}
		if binding.MatchedBy == "" {
			t.Errorf("Role %s: expected a matched-by reason", role)
		}
	}

	// merchant_category also suggests counterparty, but the category
	// binding wins and the column stays single-bound.
	if _, ok := mapping[semantic.RoleCounterparty]; ok {
		t.Error("Expected counterparty to stay unmapped: its only candidate column is taken")
	}
}

func TestMap_Confidences(t *testing.T) {
	mapping := NewDefault().Map(transactionProfiles())

	cases := []struct {
		role semantic.Role
		want float64
	}{
		{semantic.RoleDate, 0.875},     // name-token + type + date-range shape
		{semantic.RoleAmount, 0.95},    // synonym + type + decimal shape
		{semantic.RoleCategory, 0.975}, // name-token + type + cardinality shape
	}
	for _, tc := range cases {
		got := mapping[tc.role].Confidence
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Role %s: expected confidence %.3f, got %.3f", tc.role, tc.want, got)
		}
	}
}

func TestMap_Deterministic(t *testing.T) {
	profiles := transactionProfiles()
	first := NewDefault().Map(profiles)
	for i := 0; i < 20; i++ {
		if next := NewDefault().Map(profiles); !reflect.DeepEqual(first, next) {
			t.Fatalf("Run %d produced a different mapping: %v vs %v", i, next, first)
		}
	}
}

func TestMap_NoColumnBoundTwice(t *testing.T) {
	mapping := NewDefault().Map(transactionProfiles())

	seen := make(map[string]semantic.Role)
	for role, binding := range mapping {
		if prev, ok := seen[binding.Column]; ok {
			t.Errorf("Column %s bound to both %s and %s", binding.Column, prev, role)
		}
		seen[binding.Column] = role
	}
}

func TestMap_BelowThresholdUnmapped(t *testing.T) {
	profiles := []profile.ColumnProfile{
		{
			Name:         "zzz",
			InferredType: profile.TypeText,
			Cardinality:  60,
			RowCount:     100,
		},
	}
	mapping := NewDefault().Map(profiles)
	if len(mapping) != 0 {
		t.Errorf("Expected empty mapping for an unrecognizable column, got %v", mapping)
	}
}

func TestMap_HardTypedRolesRejectWrongTypes(t *testing.T) {
	// Name evidence alone must not bind date or amount to columns of the
	// wrong type.
	profiles := []profile.ColumnProfile{
		{Name: "date", InferredType: profile.TypeText, Cardinality: 60, RowCount: 100},
		{Name: "amount", InferredType: profile.TypeCategorical, Cardinality: 5, RowCount: 100},
	}
	mapping := NewDefault().Map(profiles)
	if _, ok := mapping[semantic.RoleDate]; ok {
		t.Error("Expected date role to reject a text column")
	}
	if _, ok := mapping[semantic.RoleAmount]; ok {
		t.Error("Expected amount role to reject a categorical column")
	}
}

func TestMap_ExactNameWins(t *testing.T) {
	profiles := []profile.ColumnProfile{
		{Name: "amount", InferredType: profile.TypeNumeric, Cardinality: 50, RowCount: 100, SampleValues: []string{"10.5"}},
		{Name: "fee", InferredType: profile.TypeNumeric, Cardinality: 10, RowCount: 100, SampleValues: []string{"1.5"}},
	}
	mapping := NewDefault().Map(profiles)
	binding, ok := mapping[semantic.RoleAmount]
	if !ok {
		t.Fatal("Expected amount role to be mapped")
	}
	if binding.Column != "amount" {
		t.Errorf("Expected exact-name column to win, got %s", binding.Column)
	}
}

func TestScoreColumn_ReasonTags(t *testing.T) {
	p := profile.ColumnProfile{
		Name:         "amt",
		InferredType: profile.TypeNumeric,
		Cardinality:  95,
		RowCount:     100,
		SampleValues: []string{"12.50"},
	}
	score, reason := scoreColumn(semantic.RoleAmount, p)
	if score <= 0 {
		t.Fatalf("Expected positive score, got %.3f", score)
	}
	if reason != "synonym+type+decimal-shape" {
		t.Errorf("Expected combined reason tag, got %q", reason)
	}
}

func TestTokenize(t *testing.T) {
	cases := []struct {
		input string
		want  []string
	}{
		{"txn_date", []string{"txn", "date"}},
		{"MerchantCategory", []string{"merchant", "category"}},
		{"posted-at", []string{"posted", "at"}},
		{"account.number", []string{"account", "number"}},
		{"Amount", []string{"amount"}},
	}
	for _, tc := range cases {
		if got := tokenize(tc.input); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("tokenize(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}
