// =============================================================================
// SEPA Batch Generator - Run Report Module
// =============================================================================
//
// After a build the operator wants one glance of confirmation: which message
// id went out, how many payments it carries, what they add up to, and where
// the file landed. The summary renders as aligned text for humans or as a
// single JSON object for scripts.
//
// The batch total is informational. It is computed with exact decimal
// arithmetic over the raw amount strings and omitted entirely when any
// amount fails to parse; the document itself always carries the amounts
// verbatim, parseable or not.
//
// =============================================================================

package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/jhartog/sepagen/internal/record"
)

// Summary describes one completed run.
type Summary struct {
	MessageID        string `json:"message_id"`
	PaymentInfoID    string `json:"payment_info_id"`
	TransactionCount int    `json:"transaction_count"`

	// Total is the exact sum of the transaction amounts, empty when it
	// could not be computed.
	Total string `json:"total,omitempty"`

	Output string `json:"output"`
	DryRun bool   `json:"dry_run,omitempty"`
}

// Total sums the transaction amount strings without float rounding. The
// second return is false when any amount does not parse as a decimal; the
// sum is meaningless then and callers leave it out of the summary.
func Total(txs []record.Transaction) (decimal.Decimal, bool) {
	total := decimal.Zero
	for _, tx := range txs {
		d, err := decimal.NewFromString(tx.Amount)
		if err != nil {
			return decimal.Zero, false
		}
		total = total.Add(d)
	}
	return total, true
}

// WriteText renders the summary as aligned key/value lines.
func (s Summary) WriteText(w io.Writer) error {
	rows := [][2]string{
		{"Message id", s.MessageID},
		{"Payment info id", s.PaymentInfoID},
		{"Transactions", strconv.Itoa(s.TransactionCount)},
	}
	if s.Total != "" {
		rows = append(rows, [2]string{"Total", s.Total})
	}

	output := s.Output
	if s.DryRun {
		output += " (dry run, not written)"
	}
	rows = append(rows, [2]string{"Output", output})

	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%-16s %s\n", row[0]+":", row[1]); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON encodes the summary as one JSON object followed by a newline.
func (s Summary) WriteJSON(w io.Writer) error {
	return json.NewEncoder(w).Encode(s)
}
