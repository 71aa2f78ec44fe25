package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/plugrelay/internal/domain/bindings"
)

// ReceiptLog is one log of a receipt, decoded when it is a known plugin event.
type ReceiptLog struct {
	Index   uint
	Address common.Address
	Event   string
	Safe    *common.Address
	Account *common.Address
	Topics  []common.Hash
	Data    []byte
}

// ShowReceiptResult contains a transaction receipt and its logs
type ShowReceiptResult struct {
	TxHash      common.Hash
	Status      uint64
	BlockNumber *big.Int
	GasUsed     uint64
	Logs        []ReceiptLog
}

// ShowReceipt is a use case for inspecting a transaction's receipt logs.
// It always reads over the direct connection.
type ShowReceipt struct {
	connections *ConnectionResolver
	log         *slog.Logger
}

// NewShowReceipt creates a new ShowReceipt use case
func NewShowReceipt(connections *ConnectionResolver, log *slog.Logger) *ShowReceipt {
	return &ShowReceipt{
		connections: connections,
		log:         log.With("component", "ShowReceipt"),
	}
}

// Run fetches the receipt of txHash. A missing receipt yields domain.ErrNotFound.
func (uc *ShowReceipt) Run(ctx context.Context, txHash string) (*ShowReceiptResult, error) {
	raw := common.FromHex(txHash)
	if len(raw) != common.HashLength {
		return nil, fmt.Errorf("invalid transaction hash %q", txHash)
	}
	hash := common.BytesToHash(raw)

	conn, err := uc.connections.Resolve(ctx, true)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	receipt, err := conn.Receipt(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch receipt for %s: %w", hash.Hex(), err)
	}
	uc.log.Debug("fetched receipt", "tx", hash.Hex(), "logs", len(receipt.Logs))

	plugin := bindings.NewWhitelistPlugin()
	result := &ShowReceiptResult{
		TxHash:      hash,
		Status:      receipt.Status,
		BlockNumber: receipt.BlockNumber,
		GasUsed:     receipt.GasUsed,
		Logs:        make([]ReceiptLog, 0, len(receipt.Logs)),
	}
	for _, l := range receipt.Logs {
		result.Logs = append(result.Logs, decodeLog(plugin, l))
	}
	return result, nil
}

func decodeLog(plugin *bindings.WhitelistPlugin, l *types.Log) ReceiptLog {
	entry := ReceiptLog{
		Index:   l.Index,
		Address: l.Address,
		Topics:  l.Topics,
		Data:    l.Data,
	}
	if ev, err := plugin.UnpackAccountWhitelistedEvent(l); err == nil {
		entry.Event = ev.ContractEventName()
		entry.Safe, entry.Account = &ev.Safe, &ev.Account
		return entry
	}
	if ev, err := plugin.UnpackAccountRemovedFromWhitelistEvent(l); err == nil {
		entry.Event = ev.ContractEventName()
		entry.Safe, entry.Account = &ev.Safe, &ev.Account
	}
	return entry
}
