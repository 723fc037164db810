package mapping

import (
	"strings"

	"insighto/domain/profile"
	"insighto/domain/semantic"
)

// Scoring weights. Name evidence dominates, type compatibility is the
// gate, value shape refines ties.
const (
	weightName  = 0.5
	weightType  = 0.3
	weightShape = 0.2
)

// scoreFunc returns a contribution in [0,1] plus a reason tag when the
// contribution is positive.
type scoreFunc func(role semantic.Role, p profile.ColumnProfile) (float64, string)

// scoreRules is the fixed table of pure scoring functions. The mapper sums
// weighted contributions; there is no dynamic dispatch.
var scoreRules = []struct {
	weight float64
	score  scoreFunc
}{
	{weightName, scoreName},
	{weightType, scoreType},
	{weightShape, scoreShape},
}

// scoreColumn computes the total score for a role/column pair and a tag
// naming the strongest evidence. Columns whose type is incompatible with a
// hard-typed role score zero outright.
func scoreColumn(role semantic.Role, p profile.ColumnProfile) (float64, string) {
	if hardTyped(role) {
		if typed, _ := scoreType(role, p); typed == 0 {
			return 0, ""
		}
	}

	var (
		total float64
		tags  []string
	)
	for _, rule := range scoreRules {
		contribution, tag := rule.score(role, p)
		if contribution > 0 && tag != "" {
			tags = append(tags, tag)
		}
		total += rule.weight * contribution
	}
	return total, strings.Join(tags, "+")
}

// hardTyped reports whether a role demands a specific column type.
func hardTyped(role semantic.Role) bool {
	return role == semantic.RoleDate || role == semantic.RoleAmount
}

// scoreName measures token overlap between the column name and the role's
// synonym list.
func scoreName(role semantic.Role, p profile.ColumnProfile) (float64, string) {
	tokens := tokenize(p.Name)
	lower := strings.ToLower(p.Name)

	if lower == string(role) {
		return 1.0, "name-exact"
	}
	for _, tok := range tokens {
		if tok == string(role) {
			return 0.95, "name-token"
		}
	}
	for _, syn := range roleSynonyms[role] {
		for _, tok := range tokens {
			if tok == syn {
				return 0.9, "synonym"
			}
		}
	}
	for _, syn := range roleSynonyms[role] {
		if len(syn) >= 3 && strings.Contains(lower, syn) {
			return 0.6, "name-contains"
		}
	}
	return 0, ""
}

// scoreType measures type compatibility between the role and the column.
func scoreType(role semantic.Role, p profile.ColumnProfile) (float64, string) {
	var score float64
	switch role {
	case semantic.RoleDate:
		if p.IsTemporal() {
			score = 1.0
		}
	case semantic.RoleAmount:
		switch p.InferredType {
		case profile.TypeNumeric:
			score = 1.0
		case profile.TypeInteger:
			score = 0.8
		}
	case semantic.RoleCategory:
		switch p.InferredType {
		case profile.TypeCategorical:
			score = 1.0
		case profile.TypeBoolean:
			score = 0.4
		}
	case semantic.RoleAccount:
		switch p.InferredType {
		case profile.TypeIdentifier:
			score = 0.9
		case profile.TypeCategorical:
			score = 0.7
		case profile.TypeText, profile.TypeInteger:
			score = 0.4
		}
	case semantic.RoleDescription:
		switch p.InferredType {
		case profile.TypeText:
			score = 1.0
		case profile.TypeIdentifier:
			score = 0.3
		}
	case semantic.RoleCounterparty:
		switch p.InferredType {
		case profile.TypeCategorical:
			score = 0.8
		case profile.TypeText, profile.TypeIdentifier:
			score = 0.6
		}
	}
	if score > 0 {
		return score, "type"
	}
	return 0, ""
}

// scoreShape applies value-shape heuristics on sample values and
// cardinality.
func scoreShape(role semantic.Role, p profile.ColumnProfile) (float64, string) {
	switch role {
	case semantic.RoleAmount:
		for _, sample := range p.SampleValues {
			if strings.Contains(sample, ".") || strings.HasPrefix(sample, "-") {
				return 1.0, "decimal-shape"
			}
		}
	case semantic.RoleCategory:
		if p.Cardinality >= 2 && p.Cardinality <= 50 {
			return 1.0, "cardinality"
		}
	case semantic.RoleCounterparty:
		if p.Cardinality >= 2 && p.Cardinality <= 200 {
			return 0.5, "cardinality"
		}
	case semantic.RoleDate:
		if p.IsTemporal() && p.Cardinality > 1 {
			return 0.5, "date-range"
		}
	}
	return 0, ""
}

// tokenize splits a column name into lowercase tokens on underscores,
// hyphens, spaces and camelCase boundaries.
func tokenize(name string) []string {
	var (
		tokens  []string
		current strings.Builder
	)
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			flush()
		case r >= 'A' && r <= 'Z':
			flush()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return tokens
}
