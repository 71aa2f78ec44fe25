package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
	"github.com/trebuchet-org/plugrelay/internal/usecase"
)

// PendingRow is a pending transaction with whether it can be relayed.
type PendingRow struct {
	*models.PendingMultisigTransaction `yaml:",inline"`
	Relayable                          bool   `json:"relayable" yaml:"relayable"`
	Reason                             string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// NewPendingRows classifies txs with usecase.ToEnvelope.
func NewPendingRows(txs []*models.PendingMultisigTransaction) []PendingRow {
	return lo.Map(txs, func(tx *models.PendingMultisigTransaction, _ int) PendingRow {
		row := PendingRow{PendingMultisigTransaction: tx, Relayable: true}
		if _, err := usecase.ToEnvelope(tx); err != nil {
			row.Relayable = false
			row.Reason = err.Error()
		}
		return row
	})
}

// PendingRenderer renders queued multisig transactions
type PendingRenderer struct {
	out    io.Writer
	format string
}

// NewPendingRenderer creates a new pending renderer
func NewPendingRenderer(out io.Writer, format string) *PendingRenderer {
	return &PendingRenderer{out: out, format: format}
}

func (r *PendingRenderer) Render(rows []PendingRow) error {
	if Structured(r.format) {
		return Encode(r.out, r.format, rows)
	}

	if len(rows) == 0 {
		fmt.Fprintln(r.out, "No pending transactions")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"Nonce", "SafeTxHash", "To", "Value", "Op", "Confirmations", "Relayable"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	for _, row := range rows {
		op := "call"
		if row.Operation == models.OperationDelegateCall {
			op = "delegate"
		}
		relayable := okStyle.Sprint("yes")
		if !row.Relayable {
			relayable = errStyle.Sprint("no")
		}
		value := "0"
		if row.Value != nil {
			value = row.Value.String()
		}
		t.AppendRow(table.Row{
			row.Nonce,
			shortHash(row.SafeTxHash),
			addressStyle.Sprint(row.To.Hex()),
			value,
			op,
			fmt.Sprintf("%d/%d", len(row.Confirmations), row.ConfirmationsRequired),
			relayable,
		})
	}

	fmt.Fprintln(r.out, headerStyle.Sprintf("Pending transactions (%d)", len(rows)))
	t.Render()
	return nil
}

var _ Renderer[[]PendingRow] = (*PendingRenderer)(nil)
