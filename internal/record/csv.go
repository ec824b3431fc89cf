package record

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// CSVReader streams transactions from a comma-delimited export without
// loading the whole file into memory. There is no header row; fully blank
// lines are skipped.
type CSVReader struct {
	file    *os.File
	reader  *csv.Reader
	current Transaction
	line    int
	err     error
}

// OpenCSV opens the export at path for streaming.
func OpenCSV(path string) (*CSVReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	reader := csv.NewReader(bufio.NewReader(file))

	// Exports are ragged in practice; width is checked per row in fromRow
	// so the failure carries its row number.
	reader.FieldsPerRecord = -1

	// Allow lazy quotes (quotes that don't follow strict CSV rules).
	reader.LazyQuotes = true

	return &CSVReader{file: file, reader: reader}, nil
}

// Next advances to the next row. Returns false when there are no more rows.
func (r *CSVReader) Next() bool {
	if r.err != nil {
		return false
	}

	row, err := r.reader.Read()
	if err == io.EOF {
		return false
	}
	if err != nil {
		r.err = fmt.Errorf("read row %d: %w", r.line+1, err)
		return false
	}
	r.line++

	tx, err := fromRow(row, r.line)
	if err != nil {
		r.err = err
		return false
	}
	r.current = tx
	return true
}

// Transaction returns the current row.
func (r *CSVReader) Transaction() Transaction {
	return r.current
}

// Err returns any error that stopped the stream.
func (r *CSVReader) Err() error {
	return r.err
}

// Close closes the underlying file.
func (r *CSVReader) Close() error {
	return r.file.Close()
}
