package protocol

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
)

var (
	flagContract = common.HexToAddress("0x1111111111111111111111111111111111111111")
	metadataHash = crypto.Keccak256Hash([]byte("whitelist-plugin-1.0.0"))
)

func TestBuildBatch(t *testing.T) {
	captureCallData := common.FromHex("0xe3e8f8a1")

	tx, err := BuildBatch(flagContract, big.NewInt(0), captureCallData, big.NewInt(19), metadataHash)
	require.NoError(t, err)

	require.Len(t, tx.Actions, 1)
	assert.Equal(t, BuildAction(flagContract, big.NewInt(0), captureCallData), tx.Actions[0])
	assert.Equal(t, flagContract, tx.Actions[0].To)
	assert.Equal(t, 0, tx.Actions[0].Value.Sign())
	assert.Equal(t, captureCallData, tx.Actions[0].Data)
	assert.Equal(t, int64(19), tx.Nonce.Int64())
	assert.Equal(t, metadataHash, tx.MetadataHash)
	assert.Equal(t, models.EnvelopeBatch, tx.EnvelopeKind())
}

func TestBuildBatch_Idempotent(t *testing.T) {
	data := []byte{0xde, 0xad, 0xbe, 0xef}

	first, err := BuildBatch(flagContract, big.NewInt(5), data, big.NewInt(7), metadataHash)
	require.NoError(t, err)
	second, err := BuildBatch(flagContract, big.NewInt(5), data, big.NewInt(7), metadataHash)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildBatch_Injective(t *testing.T) {
	base, err := BuildBatch(flagContract, big.NewInt(1), []byte{0x01}, big.NewInt(1), metadataHash)
	require.NoError(t, err)

	otherNonce, err := BuildBatch(flagContract, big.NewInt(1), []byte{0x01}, big.NewInt(2), metadataHash)
	require.NoError(t, err)
	otherData, err := BuildBatch(flagContract, big.NewInt(1), []byte{0x02}, big.NewInt(1), metadataHash)
	require.NoError(t, err)
	otherHash, err := BuildBatch(flagContract, big.NewInt(1), []byte{0x01}, big.NewInt(1), crypto.Keccak256Hash([]byte("other")))
	require.NoError(t, err)

	assert.NotEqual(t, base, otherNonce)
	assert.NotEqual(t, base, otherData)
	assert.NotEqual(t, base, otherHash)
}

func TestBuildBatch_DoesNotAliasInputs(t *testing.T) {
	data := []byte{0x01, 0x02}
	value := big.NewInt(10)
	nonce := big.NewInt(3)

	tx, err := BuildBatch(flagContract, value, data, nonce, metadataHash)
	require.NoError(t, err)

	data[0] = 0xff
	value.SetInt64(99)
	nonce.SetInt64(42)

	assert.Equal(t, []byte{0x01, 0x02}, tx.Actions[0].Data)
	assert.Equal(t, int64(10), tx.Actions[0].Value.Int64())
	assert.Equal(t, int64(3), tx.Nonce.Int64())
}

func TestBuildBatchFromActions(t *testing.T) {
	actions := []models.SafeProtocolAction{
		BuildAction(common.HexToAddress("0x01"), nil, []byte{0x01}),
		BuildAction(common.HexToAddress("0x02"), big.NewInt(2), nil),
	}

	tx, err := BuildBatchFromActions(actions, big.NewInt(0), metadataHash)
	require.NoError(t, err)
	require.Len(t, tx.Actions, 2)
	assert.Equal(t, common.HexToAddress("0x01"), tx.Actions[0].To)
	assert.Equal(t, common.HexToAddress("0x02"), tx.Actions[1].To)
	assert.Equal(t, 0, tx.Actions[0].Value.Sign())
}

func TestBuildBatch_Invalid(t *testing.T) {
	tooLarge := new(big.Int).Lsh(big.NewInt(1), 256)

	tests := []struct {
		name    string
		actions []models.SafeProtocolAction
		nonce   *big.Int
		hash    common.Hash
	}{
		{
			name:  "empty actions",
			nonce: big.NewInt(1),
			hash:  metadataHash,
		},
		{
			name:    "zero metadata hash",
			actions: []models.SafeProtocolAction{BuildAction(flagContract, nil, nil)},
			nonce:   big.NewInt(1),
		},
		{
			name:    "missing nonce",
			actions: []models.SafeProtocolAction{BuildAction(flagContract, nil, nil)},
			hash:    metadataHash,
		},
		{
			name:    "negative nonce",
			actions: []models.SafeProtocolAction{BuildAction(flagContract, nil, nil)},
			nonce:   big.NewInt(-1),
			hash:    metadataHash,
		},
		{
			name:    "value overflow",
			actions: []models.SafeProtocolAction{{To: flagContract, Value: tooLarge}},
			nonce:   big.NewInt(1),
			hash:    metadataHash,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildBatchFromActions(tt.actions, tt.nonce, tt.hash)
			assert.ErrorIs(t, err, domain.ErrInvalidEnvelope)
		})
	}
}

func TestBuildRootAccess(t *testing.T) {
	root, err := BuildRootAccess(flagContract, big.NewInt(1), []byte{0xaa}, big.NewInt(4), metadataHash)
	require.NoError(t, err)

	assert.Equal(t, models.EnvelopeRootAccess, root.EnvelopeKind())
	assert.Equal(t, BuildAction(flagContract, big.NewInt(1), []byte{0xaa}), root.Action)
	assert.Equal(t, int64(4), root.EnvelopeNonce().Int64())
	assert.Equal(t, metadataHash, root.EnvelopeMetadataHash())

	_, err = BuildRootAccess(flagContract, nil, nil, big.NewInt(4), common.Hash{})
	assert.ErrorIs(t, err, domain.ErrInvalidEnvelope)
}
