package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/bindings"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
)

func sampleHost(conn *fakeConnection) *fakeHost {
	return &fakeHost{
		active: true,
		conn:   conn,
		info:   &models.SafeInfo{SafeAddress: guardedSafe, ChainID: 5, Threshold: 1},
	}
}

func TestCheckWhitelist_SampleChain(t *testing.T) {
	parsed, err := bindings.WhitelistPluginMetaData.ParseABI()
	require.NoError(t, err)
	method := parsed.Methods["whitelistedAddresses"]

	var gotSafe, gotCounter common.Address
	conn := &fakeConnection{
		kind:    domain.ConnectionAmbient,
		chainID: 5,
		callFunc: func(to common.Address, data []byte) ([]byte, error) {
			args, err := method.Inputs.Unpack(data[4:])
			if err != nil {
				return nil, err
			}
			gotSafe = args[0].(common.Address)
			gotCounter = args[1].(common.Address)
			return boolWord(to == samplePlugin), nil
		},
	}

	env := newTestEnv(sampleHost(conn), &fakeDialer{err: domain.ErrConnectionUnavailable}, newSampleRegistry(false))
	uc := NewCheckWhitelist(env.targets, discardLogger())

	check, err := uc.Run(context.Background(), CheckWhitelistParams{
		Target:  TargetParams{Plugin: samplePlugin.Hex()},
		Counter: counterParty.Hex(),
	})
	require.NoError(t, err)
	assert.Equal(t, models.WhitelistConfirmed, check.Status)
	assert.Equal(t, guardedSafe, check.GuardedAccount)
	assert.Equal(t, guardedSafe, gotSafe)
	assert.Equal(t, counterParty, gotCounter)
	assert.Equal(t, uint64(5), check.Plugin.ChainID)
}

func TestCheckWhitelist_NotWhitelisted(t *testing.T) {
	conn := &fakeConnection{
		kind:    domain.ConnectionAmbient,
		chainID: 5,
		callFunc: func(common.Address, []byte) ([]byte, error) {
			return boolWord(false), nil
		},
	}
	env := newTestEnv(sampleHost(conn), nil, newSampleRegistry(false))
	uc := NewCheckWhitelist(env.targets, discardLogger())

	check, err := uc.Run(context.Background(), CheckWhitelistParams{Counter: counterParty.Hex()})
	require.NoError(t, err)
	assert.Equal(t, models.WhitelistAbsent, check.Status)
}

func TestCheckWhitelist_ReadFailureIsUnknown(t *testing.T) {
	failures := map[string]func(common.Address, []byte) ([]byte, error){
		"transport error": func(common.Address, []byte) ([]byte, error) {
			return nil, errors.New("connection reset")
		},
		"empty return data": func(common.Address, []byte) ([]byte, error) {
			return nil, nil
		},
		"short return data": func(common.Address, []byte) ([]byte, error) {
			return []byte{0x01}, nil
		},
	}

	for name, callFunc := range failures {
		t.Run(name, func(t *testing.T) {
			conn := &fakeConnection{kind: domain.ConnectionAmbient, chainID: 5, callFunc: callFunc}
			env := newTestEnv(sampleHost(conn), nil, newSampleRegistry(false))
			uc := NewCheckWhitelist(env.targets, discardLogger())

			check, err := uc.Run(context.Background(), CheckWhitelistParams{Counter: counterParty.Hex()})
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrReadFailed)
			require.NotNil(t, check)
			assert.Equal(t, models.WhitelistUnknown, check.Status)
			assert.NotEmpty(t, check.Error)
		})
	}
}

func TestIsWhitelisted_NeverTrueOnFailure(t *testing.T) {
	conn := &fakeConnection{
		kind:    domain.ConnectionDirect,
		chainID: 5,
		callFunc: func(common.Address, []byte) ([]byte, error) {
			return nil, errors.New("execution reverted")
		},
	}
	plugin, err := bindings.BindWhitelistPlugin(samplePlugin.Hex(), conn)
	require.NoError(t, err)

	whitelisted, err := IsWhitelisted(context.Background(), plugin, guardedSafe, counterParty)
	assert.False(t, whitelisted)
	assert.ErrorIs(t, err, domain.ErrReadFailed)

	var readErr *domain.ReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, "whitelistedAddresses", readErr.Method)
}

func TestCheckWhitelist_UnknownPlugin(t *testing.T) {
	conn := &fakeConnection{kind: domain.ConnectionAmbient, chainID: 5}
	env := newTestEnv(sampleHost(conn), nil, newSampleRegistry(false))
	uc := NewCheckWhitelist(env.targets, discardLogger())

	_, err := uc.Run(context.Background(), CheckWhitelistParams{
		Target:  TargetParams{Plugin: "0x0000000000000000000000000000000000000bad"},
		Counter: counterParty.Hex(),
	})
	assert.ErrorIs(t, err, domain.ErrUnknownPlugin)
	assert.Empty(t, conn.calls)
}

func TestCheckWhitelist_WrongChain(t *testing.T) {
	conn := &fakeConnection{kind: domain.ConnectionAmbient, chainID: 1}
	host := sampleHost(conn)
	host.info.ChainID = 1
	env := newTestEnv(host, nil, newSampleRegistry(false))
	uc := NewCheckWhitelist(env.targets, discardLogger())

	_, err := uc.Run(context.Background(), CheckWhitelistParams{
		Target:  TargetParams{Plugin: samplePlugin.Hex()},
		Counter: counterParty.Hex(),
	})
	assert.ErrorIs(t, err, domain.ErrUnknownPlugin)
}

func TestCheckWhitelist_InvalidCounter(t *testing.T) {
	env := newTestEnv(sampleHost(&fakeConnection{kind: domain.ConnectionAmbient, chainID: 5}), nil, newSampleRegistry(false))
	uc := NewCheckWhitelist(env.targets, discardLogger())

	_, err := uc.Run(context.Background(), CheckWhitelistParams{Counter: "0xnot-an-address"})
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}
