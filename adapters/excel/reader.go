// Package excel loads Excel workbooks into the tabular form consumed by
// the analysis core. Only the first sheet is read; the first row is
// treated as the header.
package excel

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"insighto/domain/table"
	"insighto/ports"
)

// Reader loads one Excel workbook.
type Reader struct {
	filePath string
}

// NewReader creates an Excel reader for the given path.
func NewReader(filePath string) *Reader {
	return &Reader{filePath: filePath}
}

var _ ports.TableReader = (*Reader)(nil)

// Read parses the workbook's first sheet.
func (r *Reader) Read(ctx context.Context) (*table.Table, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = strings.TrimSpace(cell)
	}

	t := table.New(header)
	for _, record := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
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
