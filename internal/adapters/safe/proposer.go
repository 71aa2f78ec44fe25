package safe

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/bindings"
	"github.com/trebuchet-org/plugrelay/internal/domain/config"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
	"github.com/trebuchet-org/plugrelay/internal/domain/protocol"
	"github.com/trebuchet-org/plugrelay/internal/usecase"
)

// proposalOrigin tags proposals made by this client in the service UI.
const proposalOrigin = "plugrelay"

// ServiceProposer proposes Safe transactions through the Transaction Service,
// signed by a Safe owner (or delegate) key.
type ServiceProposer struct {
	client  *ServiceClient
	key     *ecdsa.PrivateKey
	chainID uint64
	log     *slog.Logger
}

// NewServiceProposer creates a proposer. Without a proposer key or a known
// chain the proposer stays unavailable.
func NewServiceProposer(client *ServiceClient, cfg *config.RuntimeConfig, log *slog.Logger) (*ServiceProposer, error) {
	p := &ServiceProposer{client: client, log: log.With("component", "SafeProposer")}
	if cfg.Network != nil {
		p.chainID = cfg.Network.ChainID
	}
	if cfg.ProposerKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(cfg.ProposerKey), "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid proposer key: %w", err)
		}
		p.key = key
	}
	return p, nil
}

// Available reports whether proposals can be made.
func (p *ServiceProposer) Available() bool {
	return p.key != nil && p.chainID != 0 && p.client.Configured()
}

// Sender returns the proposing owner address.
func (p *ServiceProposer) Sender() common.Address {
	if p.key == nil {
		return common.Address{}
	}
	return crypto.PubkeyToAddress(p.key.PublicKey)
}

// Propose builds, signs and posts a SafeTx for actions. A single action is a
// plain CALL; several are batched through MultiSendCallOnly.
func (p *ServiceProposer) Propose(ctx context.Context, account common.Address, actions []models.SafeProtocolAction) (models.ProposalID, error) {
	if !p.Available() {
		return "", fmt.Errorf("no proposer configured: %w", domain.ErrConnectionUnavailable)
	}

	tx, err := p.buildSafeTx(account, actions)
	if err != nil {
		return "", err
	}

	nonce, err := p.nextNonce(ctx, account)
	if err != nil {
		return "", err
	}
	tx.Nonce = new(big.Int).SetUint64(nonce)

	hash, err := tx.Hash(p.chainID)
	if err != nil {
		return "", err
	}
	sig, err := crypto.Sign(hash.Bytes(), p.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign SafeTx: %w", err)
	}
	sig[64] += 27

	data := hexutil.Encode(tx.Data)
	body := proposal{
		Safe:                    account.Hex(),
		To:                      tx.To.Hex(),
		Value:                   tx.Value.String(),
		Data:                    &data,
		Operation:               int(tx.Operation),
		SafeTxGas:               "0",
		BaseGas:                 "0",
		GasPrice:                "0",
		GasToken:                common.Address{}.Hex(),
		RefundReceiver:          common.Address{}.Hex(),
		Nonce:                   tx.Nonce.String(),
		ContractTransactionHash: hash.Hex(),
		Sender:                  p.Sender().Hex(),
		Signature:               hexutil.Encode(sig),
		Origin:                  proposalOrigin,
	}

	endpoint := fmt.Sprintf("%s/api/v1/safes/%s/multisig-transactions/", p.client.serviceURL, account.Hex())
	if err := p.client.post(ctx, endpoint, body); err != nil {
		return "", fmt.Errorf("failed to propose transaction: %w", err)
	}

	p.log.Info("proposed transaction", "safe", account, "nonce", nonce, "safeTxHash", hash)
	return models.ProposalID(hash.Hex()), nil
}

func (p *ServiceProposer) buildSafeTx(account common.Address, actions []models.SafeProtocolAction) (protocol.SafeTx, error) {
	switch len(actions) {
	case 0:
		return protocol.SafeTx{}, fmt.Errorf("%w: no actions to propose", domain.ErrInvalidEnvelope)
	case 1:
		a := protocol.BuildAction(actions[0].To, actions[0].Value, actions[0].Data)
		return protocol.SafeTx{Safe: account, To: a.To, Value: a.Value, Data: a.Data, Operation: models.OperationCall}, nil
	}

	packed, err := protocol.EncodeMultiSend(actions)
	if err != nil {
		return protocol.SafeTx{}, err
	}
	data, err := bindings.NewMultiSend().PackMultiSend(packed)
	if err != nil {
		return protocol.SafeTx{}, fmt.Errorf("failed to pack multiSend: %w", err)
	}
	return protocol.SafeTx{
		Safe:      account,
		To:        protocol.MultiSendCallOnly,
		Value:     new(big.Int),
		Data:      data,
		Operation: models.OperationDelegateCall,
	}, nil
}

// nextNonce is max(safe nonce, highest queued nonce + 1).
func (p *ServiceProposer) nextNonce(ctx context.Context, account common.Address) (uint64, error) {
	nonce, err := p.client.SafeNonce(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("failed to read Safe nonce: %w", err)
	}
	for tx, err := range p.client.ListPending(ctx, account) {
		if err != nil {
			return 0, fmt.Errorf("failed to list queued transactions: %w", err)
		}
		if tx.Nonce+1 > nonce {
			nonce = tx.Nonce + 1
		}
	}
	return nonce, nil
}

var _ usecase.TransactionProposer = (*ServiceProposer)(nil)
