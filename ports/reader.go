package ports

import (
	"context"

	"insighto/domain/table"
)

// TableReader loads an external data source into the in-memory tabular
// form consumed by the analysis core. Implementations live in adapters.
type TableReader interface {
	Read(ctx context.Context) (*table.Table, error)
}
