package interactive

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/plugrelay/internal/domain/config"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
)

func TestCreateFuzzySearchFunc(t *testing.T) {
	items := []string{"#19 0xabcdef12…beef → 0x1111 [2/2]", "#20 0x99887766…0000 → 0x2222 [1/2]"}
	search := createFuzzySearchFunc(items)

	assert.True(t, search("", 0))
	assert.True(t, search("#19", 0))
	assert.False(t, search("#19", 1))
	assert.True(t, search("BEEF", 0))
	assert.True(t, search("abef", 0))
}

func TestSelectPending_NonInteractive(t *testing.T) {
	s, err := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})
	require.NoError(t, err)

	_, err = s.SelectPending(context.Background(), []*models.PendingMultisigTransaction{{}, {}}, "pick")
	assert.Error(t, err)

	ok, err := s.Confirm(context.Background(), "relay?")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSelectPending_SingleChoice(t *testing.T) {
	s, _ := NewSelectorAdapter(&config.RuntimeConfig{})
	only := &models.PendingMultisigTransaction{Nonce: 3}

	got, err := s.SelectPending(context.Background(), []*models.PendingMultisigTransaction{only}, "pick")
	require.NoError(t, err)
	assert.Same(t, only, got)

	_, err = s.SelectPending(context.Background(), nil, "pick")
	assert.Error(t, err)
}

func TestFormatPendingOptions(t *testing.T) {
	color.NoColor = true
	opts := formatPendingOptions([]*models.PendingMultisigTransaction{{
		Nonce:                 19,
		SafeTxHash:            common.HexToHash("0xabc"),
		To:                    common.HexToAddress("0x1111111111111111111111111111111111111111"),
		ConfirmationsRequired: 2,
		Confirmations:         []models.Confirmation{{Signer: "a"}},
	}})
	require.Len(t, opts, 1)
	assert.Contains(t, opts[0], "#19")
	assert.Contains(t, opts[0], "[1/2]")
	assert.Contains(t, opts[0], "0x1111111111111111111111111111111111111111")
}
