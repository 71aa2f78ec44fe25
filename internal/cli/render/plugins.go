package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
)

// PluginsRenderer renders plugin registrations and details
type PluginsRenderer struct {
	out    io.Writer
	format string
}

// NewPluginsRenderer creates a new plugins renderer
func NewPluginsRenderer(out io.Writer, format string) *PluginsRenderer {
	return &PluginsRenderer{out: out, format: format}
}

// RenderList renders all registrations as a table.
func (r *PluginsRenderer) RenderList(regs []models.PluginRegistration) error {
	if Structured(r.format) {
		return Encode(r.out, r.format, regs)
	}

	if len(regs) == 0 {
		fmt.Fprintln(r.out, "No plugins registered")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"Chain", "Name", "Address", "Metadata"})
	for _, reg := range regs {
		t.AppendRow(table.Row{reg.ChainID, reg.Name, addressStyle.Sprint(reg.Address.Hex()), string(reg.Source)})
	}
	t.Render()
	return nil
}

// RenderKnown renders the answer to a registration check.
func (r *PluginsRenderer) RenderKnown(chainID uint64, address string, known bool) error {
	if Structured(r.format) {
		return Encode(r.out, r.format, map[string]any{"chainId": chainID, "address": address, "known": known})
	}

	if known {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s is a registered plugin on chain %d", address, chainID)))
	} else {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s is not registered on chain %d", address, chainID)))
	}
	return nil
}

// RenderDetails renders a plugin's metadata binding.
func (r *PluginsRenderer) RenderDetails(details *models.PluginDetails) error {
	if Structured(r.format) {
		return Encode(r.out, r.format, details)
	}

	fmt.Fprintln(r.out, headerStyle.Sprint(details.Metadata.Name))
	fmt.Fprintln(r.out, field("Address", addressStyle.Sprint(details.Address.Address.Hex()))...)
	fmt.Fprintln(r.out, field("Chain", details.Address.ChainID)...)
	fmt.Fprintln(r.out, field("Version", details.Metadata.Version)...)
	fmt.Fprintln(r.out, field("Root access", details.Metadata.RequiresRootAccess)...)
	if details.Metadata.AppURL != "" {
		fmt.Fprintln(r.out, field("App", details.Metadata.AppURL)...)
	}
	if details.Metadata.IconURL != "" {
		fmt.Fprintln(r.out, field("Icon", details.Metadata.IconURL)...)
	}
	fmt.Fprintln(r.out, field("Metadata hash", details.MetadataHash.Hex())...)
	return nil
}
