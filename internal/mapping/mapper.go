// Package mapping scores dataset columns against the fixed semantic role
// set and produces a best-effort role to column mapping. Scoring is a
// weighted sum of pure rules; assignment is a greedy maximum-weight
// matching over the full role by column score matrix. Given identical
// profiles the output is bit-identical: roles and columns are visited in
// sorted order so ties break deterministically.
package mapping

import (
	"sort"

	"insighto/domain/profile"
	"insighto/domain/semantic"
)

// DefaultAcceptanceThreshold is the minimum score a column must reach to
// qualify for a role.
const DefaultAcceptanceThreshold = 0.5

// Mapper assigns semantic roles to profiled columns.
type Mapper struct {
	threshold float64
}

// New creates a mapper with the given acceptance threshold.
func New(threshold float64) *Mapper {
	if threshold <= 0 {
		threshold = DefaultAcceptanceThreshold
	}
	return &Mapper{threshold: threshold}
}

// NewDefault creates a mapper with the default acceptance threshold.
func NewDefault() *Mapper {
	return New(DefaultAcceptanceThreshold)
}

// candidate is one cell of the role by column score matrix.
type candidate struct {
	role   semantic.Role
	column string
	score  float64
	reason string
}

// Map produces the role to column mapping. A role that no column clears
// the threshold for is absent from the result; a column is never bound to
// more than one role.
func (m *Mapper) Map(profiles []profile.ColumnProfile) semantic.FieldMapping {
	byName := make(map[string]profile.ColumnProfile, len(profiles))
	columns := make([]string, 0, len(profiles))
	for _, p := range profiles {
		byName[p.Name] = p
		columns = append(columns, p.Name)
	}
	sort.Strings(columns)

	var matrix []candidate
	for _, role := range semantic.AllRoles() {
		for _, column := range columns {
			score, reason := scoreColumn(role, byName[column])
			if score >= m.threshold {
				matrix = append(matrix, candidate{
					role:   role,
					column: column,
					score:  score,
					reason: reason,
				})
			}
		}
	}

	// Descending score; ties break on sorted role then column name.
	sort.Slice(matrix, func(i, j int) bool {
		if matrix[i].score != matrix[j].score {
			return matrix[i].score > matrix[j].score
		}
		if matrix[i].role != matrix[j].role {
			return matrix[i].role < matrix[j].role
		}
		return matrix[i].column < matrix[j].column
	})

	mapping := make(semantic.FieldMapping)
	boundColumns := make(map[string]bool)
	for _, c := range matrix {
		if _, taken := mapping[c.role]; taken {
			continue
		}
		if boundColumns[c.column] {
			continue
		}
		mapping[c.role] = semantic.Binding{
			Column:     c.column,
			Confidence: c.score,
			MatchedBy:  c.reason,
		}
		boundColumns[c.column] = true
	}
	return mapping
}
