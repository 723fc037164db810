// Package profile defines the statistical column summaries produced once
// per dataset load and consumed read-only by the mapper, the insight
// engine and the dashboard generator.
package profile

// ColumnType is the single inferred type of a column.
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeInteger     ColumnType = "integer"
	TypeBoolean     ColumnType = "boolean"
	TypeDatetime    ColumnType = "datetime"
	TypeCategorical ColumnType = "categorical"
	TypeIdentifier  ColumnType = "identifier"
	TypeText        ColumnType = "text"
)

// ColumnProfile summarizes one column of a dataset. Min/Max/Mean are set
// only for numeric columns.
type ColumnProfile struct {
	Name         string     `json:"name"`
	InferredType ColumnType `json:"inferred_type"`
	NullRatio    float64    `json:"null_ratio"`
	Cardinality  int        `json:"cardinality"`
	RowCount     int        `json:"row_count"`
	Min          *float64   `json:"min,omitempty"`
	Max          *float64   `json:"max,omitempty"`
	Mean         *float64   `json:"mean,omitempty"`
	SampleValues []string   `json:"sample_values"`
}

// IsNumeric reports whether the column holds numeric data (integers
// included).
func (p ColumnProfile) IsNumeric() bool {
	return p.InferredType == TypeNumeric || p.InferredType == TypeInteger
}

// IsTemporal reports whether the column holds datetime data.
func (p ColumnProfile) IsTemporal() bool {
	return p.InferredType == TypeDatetime
}
