package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/plugrelay/internal/domain/models"
	"github.com/trebuchet-org/plugrelay/internal/usecase"
)

// RelayRenderer renders relay receipts
type RelayRenderer struct {
	out    io.Writer
	format string
}

// NewRelayRenderer creates a new relay renderer
func NewRelayRenderer(out io.Writer, format string) *RelayRenderer {
	return &RelayRenderer{out: out, format: format}
}

func (r *RelayRenderer) Render(receipt *models.RelayReceipt) error {
	if Structured(r.format) {
		return Encode(r.out, r.format, receipt)
	}

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Relayed %s envelope with nonce %s", receipt.Kind, receipt.Nonce)))
	r.details(receipt)
	return nil
}

// RenderPending renders a relayed pending multisig transaction.
func (r *RelayRenderer) RenderPending(result *usecase.RelayPendingResult) error {
	if Structured(r.format) {
		return Encode(r.out, r.format, result)
	}

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Relayed pending transaction %s", shortHash(result.Pending.SafeTxHash))))
	fmt.Fprintln(r.out, field("Safe", addressStyle.Sprint(result.Pending.Safe.Hex()))...)
	fmt.Fprintln(r.out, field("Safe nonce", result.Pending.Nonce)...)
	fmt.Fprintln(r.out, field("Plugin nonce", result.Receipt.Nonce)...)
	r.details(result.Receipt)
	return nil
}

func (r *RelayRenderer) details(receipt *models.RelayReceipt) {
	fmt.Fprintln(r.out, field("Transaction", receipt.TxHash.Hex())...)
	if receipt.BlockNumber != nil {
		fmt.Fprintln(r.out, field("Block", receipt.BlockNumber)...)
	}
	fmt.Fprintln(r.out, field("Gas", fmt.Sprintf("%d / %d", receipt.GasUsed, receipt.GasLimit))...)
	fmt.Fprintln(r.out, field("Manager", addressStyle.Sprint(receipt.Manager.Hex()))...)
	fmt.Fprintln(r.out, field("Attempt", receipt.AttemptID)...)
}

var _ Renderer[*models.RelayReceipt] = (*RelayRenderer)(nil)
