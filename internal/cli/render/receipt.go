package render

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/plugrelay/internal/usecase"
)

// ReceiptRenderer renders a transaction receipt and its logs
type ReceiptRenderer struct {
	out    io.Writer
	format string
}

// NewReceiptRenderer creates a new receipt renderer
func NewReceiptRenderer(out io.Writer, format string) *ReceiptRenderer {
	return &ReceiptRenderer{out: out, format: format}
}

func (r *ReceiptRenderer) Render(result *usecase.ShowReceiptResult) error {
	if Structured(r.format) {
		return Encode(r.out, r.format, result)
	}

	status := okStyle.Sprint("Success")
	if result.Status != types.ReceiptStatusSuccessful {
		status = errStyle.Sprint("Reverted")
	}
	fmt.Fprintln(r.out, field("Transaction", result.TxHash.Hex())...)
	fmt.Fprintln(r.out, field("Status", status)...)
	fmt.Fprintln(r.out, field("Block", result.BlockNumber)...)
	fmt.Fprintln(r.out, field("Gas used", result.GasUsed)...)
	fmt.Fprintln(r.out)

	if len(result.Logs) == 0 {
		fmt.Fprintln(r.out, "No logs")
		return nil
	}

	fmt.Fprintln(r.out, headerStyle.Sprintf("Logs (%d)", len(result.Logs)))
	for _, log := range result.Logs {
		if log.Event != "" {
			fmt.Fprintf(r.out, "  [%d] %s %s\n", log.Index, okStyle.Sprint(log.Event), addressStyle.Sprint(log.Address.Hex()))
			if log.Safe != nil {
				fmt.Fprintf(r.out, "      safe:    %s\n", log.Safe.Hex())
			}
			if log.Account != nil {
				fmt.Fprintf(r.out, "      account: %s\n", log.Account.Hex())
			}
			continue
		}
		fmt.Fprintf(r.out, "  [%d] %s\n", log.Index, addressStyle.Sprint(log.Address.Hex()))
		for i, topic := range log.Topics {
			fmt.Fprintf(r.out, "      topic%d:  %s\n", i, topic.Hex())
		}
		if len(log.Data) > 0 {
			fmt.Fprintf(r.out, "      data:    0x%x\n", log.Data)
		}
	}
	return nil
}

var _ Renderer[*usecase.ShowReceiptResult] = (*ReceiptRenderer)(nil)
