package safe

import (
	"context"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/bindings"
	"github.com/trebuchet-org/plugrelay/internal/domain/config"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
	"github.com/trebuchet-org/plugrelay/internal/domain/protocol"
)

func newProposer(t *testing.T, url string) (*ServiceProposer, common.Address) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	cfg := &config.RuntimeConfig{
		Network:        &config.Network{ChainID: 5},
		SafeServiceURL: url,
		ProposerKey:    "0x" + hex.EncodeToString(crypto.FromECDSA(key)),
	}
	p, err := NewServiceProposer(NewServiceClient(cfg, discardLogger()), cfg, discardLogger())
	require.NoError(t, err)
	return p, crypto.PubkeyToAddress(key.PublicKey)
}

func TestServiceProposer_SingleAction(t *testing.T) {
	stub := newServiceStub(t)
	stub.pages = [][]string{{txJSON("0x01", 4, 2, 2), txJSON("0x02", 5, 0, 2)}}
	proposer, owner := newProposer(t, stub.URL)

	calldata := common.FromHex("0x8ab1d681000000000000000000000000c0ffee")
	id, err := proposer.Propose(context.Background(), guardedSafe, []models.SafeProtocolAction{
		{To: samplePlugin, Value: big.NewInt(0), Data: calldata},
	})
	require.NoError(t, err)
	require.Len(t, stub.proposals, 1)

	p := stub.proposals[0]
	assert.Equal(t, samplePlugin.Hex(), p.To)
	assert.Equal(t, "0", p.Value)
	assert.Equal(t, 0, p.Operation)
	assert.Equal(t, "6", p.Nonce)
	assert.Equal(t, owner.Hex(), p.Sender)
	assert.Equal(t, hexutil.Encode(calldata), *p.Data)

	want, err := protocol.SafeTx{
		Safe:  guardedSafe,
		To:    samplePlugin,
		Value: big.NewInt(0),
		Data:  calldata,
		Nonce: big.NewInt(6),
	}.Hash(5)
	require.NoError(t, err)
	assert.Equal(t, want.Hex(), p.ContractTransactionHash)
	assert.Equal(t, models.ProposalID(want.Hex()), id)

	sig := hexutil.MustDecode(p.Signature)
	require.Len(t, sig, 65)
	assert.Contains(t, []byte{27, 28}, sig[64])
	sig[64] -= 27
	pub, err := crypto.SigToPub(want.Bytes(), sig)
	require.NoError(t, err)
	assert.Equal(t, owner, crypto.PubkeyToAddress(*pub))
}

func TestServiceProposer_NonceFromSafeWhenQueueEmpty(t *testing.T) {
	stub := newServiceStub(t)
	stub.nonce = `"9"`
	proposer, _ := newProposer(t, stub.URL)

	_, err := proposer.Propose(context.Background(), guardedSafe, []models.SafeProtocolAction{{To: samplePlugin}})
	require.NoError(t, err)
	assert.Equal(t, "9", stub.proposals[0].Nonce)
}

func TestServiceProposer_BatchUsesMultiSend(t *testing.T) {
	stub := newServiceStub(t)
	proposer, _ := newProposer(t, stub.URL)

	_, err := proposer.Propose(context.Background(), guardedSafe, []models.SafeProtocolAction{
		{To: samplePlugin, Value: big.NewInt(0), Data: []byte{0x01}},
		{To: samplePlugin, Value: big.NewInt(0), Data: []byte{0x02}},
	})
	require.NoError(t, err)

	p := stub.proposals[0]
	assert.Equal(t, protocol.MultiSendCallOnly.Hex(), p.To)
	assert.Equal(t, int(models.OperationDelegateCall), p.Operation)

	parsed, err := bindings.MultiSendMetaData.ParseABI()
	require.NoError(t, err)
	assert.Equal(t, parsed.Methods["multiSend"].ID, hexutil.MustDecode(*p.Data)[:4])
}

func TestServiceProposer_Unavailable(t *testing.T) {
	cfg := &config.RuntimeConfig{Network: &config.Network{ChainID: 5}}
	p, err := NewServiceProposer(NewServiceClient(cfg, discardLogger()), cfg, discardLogger())
	require.NoError(t, err)
	assert.False(t, p.Available())

	_, err = p.Propose(context.Background(), guardedSafe, []models.SafeProtocolAction{{To: samplePlugin}})
	assert.ErrorIs(t, err, domain.ErrConnectionUnavailable)

	cfg.ProposerKey = "zz"
	_, err = NewServiceProposer(NewServiceClient(cfg, discardLogger()), cfg, discardLogger())
	assert.Error(t, err)
}

func TestServiceProposer_RejectsEmpty(t *testing.T) {
	stub := newServiceStub(t)
	proposer, _ := newProposer(t, stub.URL)

	_, err := proposer.Propose(context.Background(), guardedSafe, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidEnvelope)
	assert.Empty(t, stub.proposals)
}
