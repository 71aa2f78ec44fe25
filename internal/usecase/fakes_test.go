package usecase

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/config"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
)

var (
	samplePlugin = common.HexToAddress("0x72F73a7Ed4b470c383008685485f79d3Aed5ABca")
	guardedSafe  = common.HexToAddress("0x5afe5afE5afE5afE5afE5aFe5aFe5Afe5Afe5AfE")
	counterParty = common.HexToAddress("0x00000000000000000000000000000000000c0FFE")
	managerAddr  = common.HexToAddress("0x000000000000000000000000000000000000AbCd")
	sampleHash   = crypto.Keccak256Hash([]byte("whitelist plugin metadata"))
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func boolWord(v bool) []byte {
	if v {
		return common.LeftPadBytes([]byte{1}, 32)
	}
	return make([]byte, 32)
}

// fakeConnection answers reads from callFunc.
type fakeConnection struct {
	kind     domain.ConnectionKind
	chainID  int64
	callFunc func(to common.Address, data []byte) ([]byte, error)
	receipts map[common.Hash]*types.Receipt
	calls    [][]byte
	closed   int
}

func (c *fakeConnection) Kind() domain.ConnectionKind { return c.kind }

func (c *fakeConnection) ChainID(context.Context) (*big.Int, error) {
	return big.NewInt(c.chainID), nil
}

func (c *fakeConnection) Call(_ context.Context, to common.Address, data []byte) ([]byte, error) {
	c.calls = append(c.calls, data)
	if c.callFunc == nil {
		return nil, domain.ErrNotFound
	}
	return c.callFunc(to, data)
}

func (c *fakeConnection) StorageAt(context.Context, common.Address, common.Hash) ([]byte, error) {
	return make([]byte, 32), nil
}

func (c *fakeConnection) Receipt(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	if r, ok := c.receipts[txHash]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (c *fakeConnection) Close() { c.closed++ }

// fakeSubmitter is a credentialed direct connection.
type fakeSubmitter struct {
	fakeConnection
	status    uint64
	submitErr error
	waitErr   error
	requests  []domain.SubmitRequest
}

func newFakeSubmitter(chainID int64) *fakeSubmitter {
	return &fakeSubmitter{
		fakeConnection: fakeConnection{kind: domain.ConnectionDirect, chainID: chainID},
		status:         types.ReceiptStatusSuccessful,
	}
}

func (s *fakeSubmitter) From() common.Address {
	return common.HexToAddress("0x0000000000000000000000000000000000000001")
}

func (s *fakeSubmitter) Submit(_ context.Context, req domain.SubmitRequest) (common.Hash, error) {
	if s.submitErr != nil {
		return common.Hash{}, s.submitErr
	}
	s.requests = append(s.requests, req)
	return crypto.Keccak256Hash(req.Data), nil
}

func (s *fakeSubmitter) Wait(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	if s.waitErr != nil {
		return nil, s.waitErr
	}
	return &types.Receipt{TxHash: txHash, Status: s.status, BlockNumber: big.NewInt(100), GasUsed: 21000}, nil
}

type fakeHost struct {
	active   bool
	info     *models.SafeInfo
	conn     domain.Connection
	proposed [][]models.SafeProtocolAction
}

func (h *fakeHost) Active(context.Context) bool { return h.active }

func (h *fakeHost) SafeInfo(context.Context) (*models.SafeInfo, error) {
	if h.info == nil {
		return nil, domain.ErrNotFound
	}
	return h.info, nil
}

func (h *fakeHost) Connection(context.Context) (domain.Connection, error) {
	return h.conn, nil
}

func (h *fakeHost) SendTransactions(_ context.Context, actions []models.SafeProtocolAction) (models.ProposalID, error) {
	h.proposed = append(h.proposed, actions)
	return "0xproposal", nil
}

type fakeDialer struct {
	conn  domain.Connection
	err   error
	dials int
}

func (d *fakeDialer) Dial(context.Context) (domain.Connection, error) {
	if d.err != nil {
		return nil, d.err
	}
	d.dials++
	return d.conn, nil
}

type fakeRegistry struct {
	regs    []models.PluginRegistration
	details map[common.Address]*models.PluginDetails
}

func newSampleRegistry(requiresRoot bool) *fakeRegistry {
	return &fakeRegistry{
		regs: []models.PluginRegistration{{
			Name:    "Whitelist Plugin",
			ChainID: 5,
			Address: samplePlugin,
			Source:  models.MetadataFromChain,
		}},
		details: map[common.Address]*models.PluginDetails{
			samplePlugin: {
				Address:      models.PluginAddress{ChainID: 5, Address: samplePlugin},
				Metadata:     models.PluginMetadata{Name: "Whitelist Plugin", Version: "1.0.0", RequiresRootAccess: requiresRoot},
				MetadataHash: sampleHash,
			},
		},
	}
}

func (r *fakeRegistry) IsKnownPlugin(chainID uint64, address string) bool {
	for _, reg := range r.regs {
		if reg.ChainID == chainID && domain.SameAddress(reg.Address.Hex(), address) {
			return true
		}
	}
	return false
}

func (r *fakeRegistry) Registrations() []models.PluginRegistration {
	return append([]models.PluginRegistration(nil), r.regs...)
}

func (r *fakeRegistry) Lookup(_ context.Context, _ domain.Connection, plugin models.PluginAddress) (*models.PluginDetails, error) {
	if !r.IsKnownPlugin(plugin.ChainID, plugin.Address.Hex()) {
		return nil, domain.ErrNotFound
	}
	return r.details[plugin.Address], nil
}

type fakeManagers struct {
	mu      sync.Mutex
	manager common.Address
	err     error
	calls   int
}

func (m *fakeManagers) ManagerFor(context.Context, domain.Connection, common.Address) (common.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.manager, m.err
}

type fakeProposer struct {
	account common.Address
	actions []models.SafeProtocolAction
	err     error
}

func (p *fakeProposer) Propose(_ context.Context, account common.Address, actions []models.SafeProtocolAction) (models.ProposalID, error) {
	if p.err != nil {
		return "", p.err
	}
	p.account = account
	p.actions = actions
	return "0xsafetxhash", nil
}

type fakeSource struct {
	pending []*models.PendingMultisigTransaction
}

func (s *fakeSource) ListPending(_ context.Context, safe common.Address) iter.Seq2[*models.PendingMultisigTransaction, error] {
	return func(yield func(*models.PendingMultisigTransaction, error) bool) {
		for _, p := range s.pending {
			if p.Safe != safe {
				continue
			}
			if !yield(p, nil) {
				return
			}
		}
	}
}

func (s *fakeSource) GetTransaction(_ context.Context, safeTxHash common.Hash) (*models.PendingMultisigTransaction, error) {
	for _, p := range s.pending {
		if p.SafeTxHash == safeTxHash {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeSelector struct {
	offered []*models.PendingMultisigTransaction
}

func (s *fakeSelector) SelectPending(_ context.Context, txs []*models.PendingMultisigTransaction, _ string) (*models.PendingMultisigTransaction, error) {
	s.offered = txs
	return txs[0], nil
}

func (s *fakeSelector) Confirm(context.Context, string) (bool, error) { return true, nil }

// testEnv wires the use cases over fakes the way the app does.
type testEnv struct {
	cfg         *config.RuntimeConfig
	host        *fakeHost
	dialer      *fakeDialer
	registry    *fakeRegistry
	managers    *fakeManagers
	nonces      *NonceLedger
	connections *ConnectionResolver
	targets     *TargetResolver
	relay       *Relay
	build       *BuildAndRelay
}

func newTestEnv(host *fakeHost, dialer *fakeDialer, registry *fakeRegistry) *testEnv {
	if dialer == nil {
		dialer = &fakeDialer{err: domain.ErrConnectionUnavailable}
	}
	cfg := &config.RuntimeConfig{}
	log := discardLogger()
	managers := &fakeManagers{manager: managerAddr}
	connections := NewConnectionResolver(host, dialer, log)
	targets := NewTargetResolver(connections, host, registry, cfg, log)
	nonces := NewNonceLedger()
	relay := NewRelay(connections, managers, nonces, NopProgress{}, cfg, log)
	return &testEnv{
		cfg:         cfg,
		host:        host,
		dialer:      dialer,
		registry:    registry,
		managers:    managers,
		nonces:      nonces,
		connections: connections,
		targets:     targets,
		relay:       relay,
		build:       NewBuildAndRelay(targets, registry, relay, log),
	}
}
