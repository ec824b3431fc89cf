// =============================================================================
// SEPA Batch Generator - Record Module
// =============================================================================
//
// This module reads the bank-export record set that feeds the document
// builder. Rows are positional, never named:
//
//   position 0: amount (passed through as text, never parsed)
//   position 1: creditor IBAN
//   position 2: creditor name
//   position 3: (ignored, an export field not carried into the output)
//   position 4: description / remittance text
//
// A row needs at least five fields; anything narrower is a structural error
// that aborts the whole run. There is no header row and no field-level
// validation: amounts, IBANs and names travel into the document exactly as
// exported.
//
// =============================================================================

package record

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Field positions in one export row.
const (
	colAmount       = 0
	colCreditorIBAN = 1
	colCreditorName = 2
	colDescription  = 4

	// minFields is the narrowest row that still carries a transaction.
	minFields = 5
)

// Transaction is one credit transfer read from the export. Values are
// carried verbatim; the amount stays a decimal string.
type Transaction struct {
	Amount       string
	CreditorIBAN string
	CreditorName string
	Description  string
}

// RowError reports an input row too narrow to carry a transaction.
type RowError struct {
	Line   int // 1-based row number in the input
	Fields int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d has %d fields, need at least %d", e.Line, e.Fields, minFields)
}

// Reader yields transactions one row at a time, in input order.
//
// USAGE:
//   r, err := record.Open(path)
//   if err != nil {
//       return err
//   }
//   defer r.Close()
//
//   for r.Next() {
//       tx := r.Transaction()
//       // Process the transaction...
//   }
//
//   if err := r.Err(); err != nil {
//       return err
//   }
type Reader interface {
	// Next advances to the next row. It returns false at the end of the
	// input or on the first error.
	Next() bool

	// Transaction returns the row Next advanced to.
	Transaction() Transaction

	// Err returns the error that stopped Next, if any.
	Err() error

	Close() error
}

// Open returns a Reader for path, chosen by file extension: .xlsx and .xlsm
// open as workbooks, everything else is read as comma-delimited text.
func Open(path string) (Reader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return OpenXLSX(path)
	default:
		return OpenCSV(path)
	}
}

// ReadAll opens path and drains it, returning the rows in input order.
func ReadAll(path string) ([]Transaction, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var txs []Transaction
	for r.Next() {
		txs = append(txs, r.Transaction())
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return txs, nil
}

// fromRow maps one positional row onto a Transaction. line is the 1-based
// row number, used only in the error.
func fromRow(row []string, line int) (Transaction, error) {
	if len(row) < minFields {
		return Transaction{}, &RowError{Line: line, Fields: len(row)}
	}
	return Transaction{
		Amount:       row[colAmount],
		CreditorIBAN: row[colCreditorIBAN],
		CreditorName: row[colCreditorName],
		Description:  row[colDescription],
	}, nil
}
