package record

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeTempXLSX builds a workbook with one row per entry, writing row i of
// rows into sheet row i+1. A nil entry leaves that sheet row blank.
func writeTempXLSX(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		if row == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestXLSXMapsPositionalFields(t *testing.T) {
	path := writeTempXLSX(t, [][]interface{}{
		{"300.00", "NL23RABO0123456789", "A. de Vries", "Wages", "Wages1 Feb - 28 Feb"},
	})

	txs, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, Transaction{
		Amount:       "300.00",
		CreditorIBAN: "NL23RABO0123456789",
		CreditorName: "A. de Vries",
		Description:  "Wages1 Feb - 28 Feb",
	}, txs[0])
}

func TestXLSXPreservesOrder(t *testing.T) {
	path := writeTempXLSX(t, [][]interface{}{
		{"1.00", "NL01BANK0000000001", "First", "ref", "one"},
		{"2.00", "NL02BANK0000000002", "Second", "ref", "two"},
	})

	txs, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "First", txs[0].CreditorName)
	assert.Equal(t, "Second", txs[1].CreditorName)
}

func TestXLSXSkipsBlankRows(t *testing.T) {
	path := writeTempXLSX(t, [][]interface{}{
		{"1.00", "NL01BANK0000000001", "First", "ref", "one"},
		nil,
		{"2.00", "NL02BANK0000000002", "Second", "ref", "two"},
	})

	txs, err := ReadAll(path)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestXLSXShortRowAborts(t *testing.T) {
	path := writeTempXLSX(t, [][]interface{}{
		{"1.00", "NL01BANK0000000001", "First", "ref", "one"},
		{"2.00", "NL02BANK0000000002", "Second"},
	})

	_, err := ReadAll(path)
	require.Error(t, err)

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 2, rowErr.Line)
}

func TestOpenDispatchesOnExtension(t *testing.T) {
	path := writeTempXLSX(t, [][]interface{}{
		{"1.00", "NL01BANK0000000001", "First", "ref", "one"},
	})

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	_, ok := r.(*XLSXReader)
	assert.True(t, ok, "xlsx path should open a workbook reader")
}

func TestOpenXLSXMissingFile(t *testing.T) {
	_, err := OpenXLSX(filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.Error(t, err)
}
