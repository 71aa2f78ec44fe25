package usecase

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
	"github.com/trebuchet-org/plugrelay/internal/domain/protocol"
)

func TestConnectionResolver_Resolve(t *testing.T) {
	ambient := &fakeConnection{kind: domain.ConnectionAmbient, chainID: 5}
	direct := newFakeSubmitter(5)

	tests := []struct {
		name        string
		host        *fakeHost
		dialer      *fakeDialer
		forceDirect bool
		wantKind    domain.ConnectionKind
		wantErr     error
	}{
		{
			name:     "active host is preferred",
			host:     &fakeHost{active: true, conn: ambient},
			dialer:   &fakeDialer{conn: direct},
			wantKind: domain.ConnectionAmbient,
		},
		{
			name:        "forced direct skips active host",
			host:        &fakeHost{active: true, conn: ambient},
			dialer:      &fakeDialer{conn: direct},
			forceDirect: true,
			wantKind:    domain.ConnectionDirect,
		},
		{
			name:     "inactive host falls back to direct",
			host:     &fakeHost{active: false},
			dialer:   &fakeDialer{conn: direct},
			wantKind: domain.ConnectionDirect,
		},
		{
			name:    "no host and no endpoint",
			host:    &fakeHost{active: false},
			dialer:  &fakeDialer{err: domain.ErrConnectionUnavailable},
			wantErr: domain.ErrConnectionUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewConnectionResolver(tt.host, tt.dialer, discardLogger())
			conn, err := r.Resolve(context.Background(), tt.forceDirect)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, conn.Kind())
		})
	}
}

func TestConnectionResolver_NotCached(t *testing.T) {
	host := &fakeHost{active: true, conn: &fakeConnection{kind: domain.ConnectionAmbient, chainID: 5}}
	r := NewConnectionResolver(host, &fakeDialer{conn: newFakeSubmitter(5)}, discardLogger())

	first, err := r.Resolve(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, domain.ConnectionAmbient, first.Kind())

	host.active = false
	second, err := r.Resolve(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, domain.ConnectionDirect, second.Kind())
}

func TestConnectionsAreClosed(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		run       func(env *testEnv) error
		wantDials int
	}{
		{
			name: "check whitelist",
			run: func(env *testEnv) error {
				_, err := NewCheckWhitelist(env.targets, discardLogger()).Run(ctx, CheckWhitelistParams{
					Target:  TargetParams{Account: guardedSafe.Hex()},
					Counter: counterParty.Hex(),
				})
				return err
			},
			wantDials: 1,
		},
		{
			name: "manage whitelist",
			run: func(env *testEnv) error {
				_, err := NewManageWhitelist(env.targets, &fakeProposer{}, discardLogger()).
					Add(ctx, TargetParams{Account: guardedSafe.Hex()}, counterParty.Hex())
				return err
			},
			wantDials: 1,
		},
		{
			name: "build and relay dials once",
			run: func(env *testEnv) error {
				_, err := env.build.Run(ctx, BuildAndRelayParams{
					Target: TargetParams{Account: guardedSafe.Hex()},
					To:     counterParty,
					Value:  big.NewInt(0),
					Nonce:  big.NewInt(7),
				})
				return err
			},
			wantDials: 1,
		},
		{
			name: "pending account",
			run: func(env *testEnv) error {
				env.cfg.Safe = guardedSafe.Hex()
				_, err := NewPendingRelay(&fakeSource{}, env.targets, env.build, nil, env.cfg, discardLogger()).
					ResolveAccount(ctx, TargetParams{})
				return err
			},
			wantDials: 1,
		},
		{
			name: "plugin details",
			run: func(env *testEnv) error {
				_, err := NewPluginCatalog(env.registry, env.connections, discardLogger()).
					Show(ctx, ShowPluginParams{Address: samplePlugin.Hex()})
				return err
			},
			wantDials: 1,
		},
		{
			name: "receipt",
			run: func(env *testEnv) error {
				_, err := NewShowReceipt(env.connections, discardLogger()).Run(ctx, common.HexToHash("0x01").Hex())
				if errors.Is(err, domain.ErrNotFound) {
					return nil
				}
				return err
			},
			wantDials: 1,
		},
		{
			name: "unknown plugin",
			run: func(env *testEnv) error {
				_, err := env.targets.Resolve(ctx, TargetParams{Plugin: flagContract.Hex(), Account: guardedSafe.Hex()})
				if errors.Is(err, domain.ErrUnknownPlugin) {
					return nil
				}
				return err
			},
			wantDials: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			submitter := newFakeSubmitter(5)
			submitter.callFunc = func(common.Address, []byte) ([]byte, error) { return boolWord(true), nil }
			env := directEnv(submitter, false)

			require.NoError(t, tt.run(env))
			assert.Equal(t, tt.wantDials, env.dialer.dials)
			assert.Equal(t, env.dialer.dials, submitter.closed)
		})
	}
}

func TestRelay_ClosesOwnConnectionOnly(t *testing.T) {
	submitter := newFakeSubmitter(5)
	env := directEnv(submitter, false)
	envelope, err := protocol.BuildBatch(counterParty, big.NewInt(0), nil, big.NewInt(3), sampleHash)
	require.NoError(t, err)
	plugin := models.PluginAddress{ChainID: 5, Address: samplePlugin}

	_, err = env.relay.Run(context.Background(), RelayParams{Plugin: plugin, GuardedAccount: guardedSafe, Envelope: envelope})
	require.NoError(t, err)
	assert.Equal(t, 1, env.dialer.dials)
	assert.Equal(t, 1, submitter.closed)

	given := newFakeSubmitter(5)
	envelope, err = protocol.BuildBatch(counterParty, big.NewInt(0), nil, big.NewInt(4), sampleHash)
	require.NoError(t, err)
	_, err = env.relay.Run(context.Background(), RelayParams{Plugin: plugin, GuardedAccount: guardedSafe, Envelope: envelope, Conn: given})
	require.NoError(t, err)
	assert.Equal(t, 1, env.dialer.dials)
	assert.Zero(t, given.closed)
	require.Len(t, given.requests, 1)
}
