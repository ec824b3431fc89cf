package record

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXReader replays the first sheet of a workbook through the Reader
// interface. excelize materializes the sheet up front, so unlike the CSV
// reader this one holds all rows in memory for the duration of the run.
//
// Cell values are the formatted strings excelize reports. Trailing empty
// cells are not padded: a transaction row must carry text through its fifth
// column, same contract as the delimited form.
type XLSXReader struct {
	rows    [][]string
	pos     int
	current Transaction
	err     error
}

// OpenXLSX reads the first sheet of the workbook at path.
func OpenXLSX(path string) (*XLSXReader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	return &XLSXReader{rows: rows}, nil
}

// Next advances to the next row. Returns false when there are no more rows.
func (r *XLSXReader) Next() bool {
	if r.err != nil || r.pos >= len(r.rows) {
		return false
	}

	row := r.rows[r.pos]
	r.pos++

	// Skip empty rows.
	if isRowEmpty(row) {
		return r.Next()
	}

	tx, err := fromRow(row, r.pos)
	if err != nil {
		r.err = err
		return false
	}
	r.current = tx
	return true
}

// Transaction returns the current row.
func (r *XLSXReader) Transaction() Transaction {
	return r.current
}

// Err returns any error that stopped the stream.
func (r *XLSXReader) Err() error {
	return r.err
}

// Close is a no-op; the workbook is released as soon as the sheet is read.
func (r *XLSXReader) Close() error {
	return nil
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
