package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/plugrelay/internal/domain/models"
	"github.com/trebuchet-org/plugrelay/internal/usecase"
)

// WhitelistRenderer renders allow-list checks and edits
type WhitelistRenderer struct {
	out    io.Writer
	format string
}

// NewWhitelistRenderer creates a new whitelist renderer
func NewWhitelistRenderer(out io.Writer, format string) *WhitelistRenderer {
	return &WhitelistRenderer{out: out, format: format}
}

// RenderCheck renders one check. An unknown status is always shown as
// unknown, with the reason.
func (r *WhitelistRenderer) RenderCheck(check *models.WhitelistCheck) error {
	if Structured(r.format) {
		return Encode(r.out, r.format, check)
	}

	fmt.Fprintln(r.out, field("Plugin", addressStyle.Sprint(check.Plugin.Address.Hex()))...)
	fmt.Fprintln(r.out, field("Safe", addressStyle.Sprint(check.GuardedAccount.Hex()))...)
	fmt.Fprintln(r.out, field("Counter", addressStyle.Sprint(check.CounterAccount.Hex()))...)

	label := title(string(check.Status))
	switch check.Status {
	case models.WhitelistConfirmed:
		fmt.Fprintln(r.out, field("Status", okStyle.Sprint(label))...)
	case models.WhitelistAbsent:
		fmt.Fprintln(r.out, field("Status", warnStyle.Sprint(label))...)
	default:
		fmt.Fprintln(r.out, field("Status", errStyle.Sprint(label))...)
		if check.Error != "" {
			fmt.Fprintln(r.out, FormatWarning("check failed: "+check.Error))
		}
	}
	return nil
}

// RenderEdit renders a proposed allow-list edit.
func (r *WhitelistRenderer) RenderEdit(result *usecase.ManageWhitelistResult) error {
	if Structured(r.format) {
		return Encode(r.out, r.format, result)
	}

	verb := "add"
	if result.Edit == models.WhitelistRemove {
		verb = "removal"
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Proposed whitelist %s of %s", verb, result.Counter)))
	fmt.Fprintln(r.out, field("Safe", addressStyle.Sprint(result.Account))...)
	fmt.Fprintln(r.out, field("Plugin", addressStyle.Sprint(result.Plugin.Address.Hex()))...)
	fmt.Fprintln(r.out, field("Proposal", string(result.ProposalID))...)
	fmt.Fprintln(r.out, labelStyle.Sprint("The edit takes effect once the Safe owners execute it."))
	return nil
}
