// Package csvfile loads CSV files into the tabular form consumed by the
// analysis core. Empty cells become nil so they count toward null ratios.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"insighto/domain/table"
	"insighto/ports"
)

// Reader loads one CSV file.
type Reader struct {
	filePath string
}

// NewReader creates a CSV reader for the given path.
func NewReader(filePath string) *Reader {
	return &Reader{filePath: filePath}
}

var _ ports.TableReader = (*Reader)(nil)

// Read parses the file. The first row is treated as the header.
func (r *Reader) Read(ctx context.Context) (*table.Table, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()
	return Parse(ctx, f)
}

// Parse reads CSV data from any reader into a Table.
func Parse(ctx context.Context, src io.Reader) (*table.Table, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV input is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := table.New(header)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		row := make(table.Row, len(header))
		for i, name := range header {
			if i >= len(record) {
				row[name] = nil
				continue
			}
			value := strings.TrimSpace(record[i])
			if value == "" {
				row[name] = nil
			} else {
				row[name] = value
			}
		}
		t.Append(row)
	}
	return t, nil
}
