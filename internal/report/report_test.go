package report

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhartog/sepagen/internal/record"
)

func TestTotal(t *testing.T) {
	tests := []struct {
		name    string
		amounts []string
		want    string
		ok      bool
	}{
		{"sums exactly", []string{"300.00", "149.50", "0.50"}, "450", true},
		{"single amount", []string{"1250.75"}, "1250.75", true},
		{"no transactions", nil, "0", true},
		{"negative amounts", []string{"-10.00", "30.00"}, "20", true},
		{"comma amount does not parse", []string{"300,00"}, "", false},
		{"blank amount does not parse", []string{"300.00", ""}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs := make([]record.Transaction, len(tt.amounts))
			for i, a := range tt.amounts {
				txs[i] = record.Transaction{Amount: a}
			}

			total, ok := Total(txs)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, total.String())
			}
		})
	}
}

func TestWriteText(t *testing.T) {
	s := Summary{
		MessageID:        "ABCDE-20260301174501-k0hbmq7",
		PaymentInfoID:    "ABCDE-20260301174501-k0hbmq7-1",
		TransactionCount: 3,
		Total:            "450",
		Output:           "payments.xml",
	}

	var buf bytes.Buffer
	require.NoError(t, s.WriteText(&buf))

	want := "Message id:      ABCDE-20260301174501-k0hbmq7\n" +
		"Payment info id: ABCDE-20260301174501-k0hbmq7-1\n" +
		"Transactions:    3\n" +
		"Total:           450\n" +
		"Output:          payments.xml\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTextOmitsUncomputableTotal(t *testing.T) {
	s := Summary{
		MessageID:        "M",
		PaymentInfoID:    "M-1",
		TransactionCount: 1,
		Output:           "payments.xml",
	}

	var buf bytes.Buffer
	require.NoError(t, s.WriteText(&buf))
	assert.NotContains(t, buf.String(), "Total")
}

func TestWriteTextDryRun(t *testing.T) {
	s := Summary{
		MessageID:        "M",
		PaymentInfoID:    "M-1",
		TransactionCount: 1,
		Output:           "payments.xml",
		DryRun:           true,
	}

	var buf bytes.Buffer
	require.NoError(t, s.WriteText(&buf))
	assert.Contains(t, buf.String(), "payments.xml (dry run, not written)")
}

func TestWriteJSON(t *testing.T) {
	s := Summary{
		MessageID:        "M",
		PaymentInfoID:    "M-1",
		TransactionCount: 2,
		Total:            "450",
		Output:           "out.xml",
	}

	var buf bytes.Buffer
	require.NoError(t, s.WriteJSON(&buf))

	assert.JSONEq(t, `{
		"message_id": "M",
		"payment_info_id": "M-1",
		"transaction_count": 2,
		"total": "450",
		"output": "out.xml"
	}`, buf.String())
}

func TestWriteJSONOmitsEmptyFields(t *testing.T) {
	s := Summary{
		MessageID:        "M",
		PaymentInfoID:    "M-1",
		TransactionCount: 1,
		Output:           "out.xml",
	}

	var buf bytes.Buffer
	require.NoError(t, s.WriteJSON(&buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.NotContains(t, decoded, "total")
	assert.NotContains(t, decoded, "dry_run")
}
