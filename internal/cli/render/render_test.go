package render

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
	"gopkg.in/yaml.v3"
)

var (
	samplePlugin = common.HexToAddress("0x72F73a7Ed4b470c383008685485f79d3Aed5ABca")
	guardedSafe  = common.HexToAddress("0x5afe")
	counterParty = common.HexToAddress("0xc0ffee")
)

func init() {
	color.NoColor = true
}

func TestWhitelistRenderer_Statuses(t *testing.T) {
	tests := []struct {
		status models.WhitelistStatus
		want   string
	}{
		{models.WhitelistConfirmed, "Whitelisted"},
		{models.WhitelistAbsent, "Not Whitelisted"},
		{models.WhitelistUnknown, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			check := &models.WhitelistCheck{
				Plugin:         models.PluginAddress{ChainID: 5, Address: samplePlugin},
				GuardedAccount: guardedSafe,
				CounterAccount: counterParty,
				Status:         tt.status,
			}
			require.NoError(t, NewWhitelistRenderer(&buf, FormatTable).RenderCheck(check))
			assert.Contains(t, buf.String(), tt.want)
			assert.Contains(t, buf.String(), samplePlugin.Hex())
		})
	}
}

func TestWhitelistRenderer_UnknownShowsReason(t *testing.T) {
	var buf bytes.Buffer
	check := &models.WhitelistCheck{Status: models.WhitelistUnknown, Error: "read failed: timeout"}
	require.NoError(t, NewWhitelistRenderer(&buf, FormatTable).RenderCheck(check))
	assert.Contains(t, buf.String(), "Unknown")
	assert.Contains(t, buf.String(), "read failed: timeout")
	assert.NotContains(t, buf.String(), "Not Whitelisted")
}

func TestWhitelistRenderer_JSON(t *testing.T) {
	var buf bytes.Buffer
	check := &models.WhitelistCheck{Status: models.WhitelistUnknown}
	require.NoError(t, NewWhitelistRenderer(&buf, FormatJSON).RenderCheck(check))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "unknown", out["status"])
}

func TestPendingRenderer(t *testing.T) {
	txs := []*models.PendingMultisigTransaction{
		{
			SafeTxHash:            common.HexToHash("0xabcd"),
			Safe:                  guardedSafe,
			To:                    counterParty,
			Value:                 big.NewInt(7),
			Nonce:                 3,
			ConfirmationsRequired: 1,
			Confirmations:         []models.Confirmation{{Signer: "0x01"}},
		},
		{
			SafeTxHash:            common.HexToHash("0xbeef"),
			Safe:                  guardedSafe,
			To:                    counterParty,
			Operation:             models.OperationDelegateCall,
			Nonce:                 4,
			ConfirmationsRequired: 1,
			Confirmations:         []models.Confirmation{{Signer: "0x01"}},
		},
	}
	rows := NewPendingRows(txs)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Relayable)
	assert.False(t, rows[1].Relayable)
	assert.Contains(t, rows[1].Reason, "unsupported operation")

	var buf bytes.Buffer
	require.NoError(t, NewPendingRenderer(&buf, FormatTable).Render(rows))
	out := buf.String()
	assert.Contains(t, out, "Pending transactions (2)")
	assert.Contains(t, out, "delegate")
	assert.Contains(t, out, "1/1")
	assert.Contains(t, out, counterParty.Hex())

	buf.Reset()
	require.NoError(t, NewPendingRenderer(&buf, FormatTable).Render(nil))
	assert.Equal(t, "No pending transactions\n", buf.String())
}

func TestPluginsRenderer_YAML(t *testing.T) {
	var buf bytes.Buffer
	regs := []models.PluginRegistration{{Name: "Whitelist Plugin", ChainID: 5, Address: samplePlugin, Source: models.MetadataFromChain}}
	require.NoError(t, NewPluginsRenderer(&buf, FormatYAML).RenderList(regs))

	var out []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "Whitelist Plugin", out[0]["name"])
	assert.Equal(t, strings.ToLower(samplePlugin.Hex()), out[0]["address"])
}

func TestEncode_RejectsTable(t *testing.T) {
	assert.Error(t, Encode(&bytes.Buffer{}, FormatTable, struct{}{}))
	assert.True(t, Structured(FormatJSON))
	assert.False(t, Structured(FormatTable))
}
