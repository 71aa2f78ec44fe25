package safe

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
)

// TransactionServiceURLs contains the Safe Transaction Service URLs for different networks
var TransactionServiceURLs = map[uint64]string{
	1:        "https://safe-transaction-mainnet.safe.global",
	5:        "https://safe-transaction-goerli.safe.global",
	10:       "https://safe-transaction-optimism.safe.global",
	100:      "https://safe-transaction-gnosis-chain.safe.global",
	137:      "https://safe-transaction-polygon.safe.global",
	42161:    "https://safe-transaction-arbitrum.safe.global",
	11155111: "https://safe-transaction-sepolia.safe.global",
	8453:     "https://safe-transaction-base.safe.global",
	56:       "https://safe-transaction-bsc.safe.global",
	43114:    "https://safe-transaction-avalanche.safe.global",
	42220:    "https://safe-transaction-celo.safe.global",
}

// flexUint decodes a number the service may send either as a JSON number or
// as a decimal string.
type flexUint uint64

func (f *flexUint) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", string(b), err)
	}
	*f = flexUint(v)
	return nil
}

// safeInfo is the subset of /api/v1/safes/{safe}/ we read.
type safeInfo struct {
	Address   string   `json:"address"`
	Nonce     flexUint `json:"nonce"`
	Threshold int      `json:"threshold"`
	Owners    []string `json:"owners"`
}

// MultisigTransaction represents a Safe multisig transaction
type MultisigTransaction struct {
	Safe                  string         `json:"safe"`
	To                    string         `json:"to"`
	Value                 string         `json:"value"`
	Data                  *string        `json:"data"`
	Operation             int            `json:"operation"`
	Nonce                 flexUint       `json:"nonce"`
	SubmissionDate        time.Time      `json:"submissionDate"`
	SafeTxHash            string         `json:"safeTxHash"`
	IsExecuted            bool           `json:"isExecuted"`
	ConfirmationsRequired int            `json:"confirmationsRequired"`
	Confirmations         []Confirmation `json:"confirmations"`
}

// Confirmation represents a confirmation on a Safe transaction
type Confirmation struct {
	Owner          string    `json:"owner"`
	SubmissionDate time.Time `json:"submissionDate"`
	Signature      string    `json:"signature"`
	SignatureType  string    `json:"signatureType"`
}

type page struct {
	Count   int                    `json:"count"`
	Next    *string                `json:"next"`
	Results []*MultisigTransaction `json:"results"`
}

// proposal is the body of POST /api/v1/safes/{safe}/multisig-transactions/
type proposal struct {
	Safe                    string  `json:"safe"`
	To                      string  `json:"to"`
	Value                   string  `json:"value"`
	Data                    *string `json:"data"`
	Operation               int     `json:"operation"`
	SafeTxGas               string  `json:"safeTxGas"`
	BaseGas                 string  `json:"baseGas"`
	GasPrice                string  `json:"gasPrice"`
	GasToken                string  `json:"gasToken"`
	RefundReceiver          string  `json:"refundReceiver"`
	Nonce                   string  `json:"nonce"`
	ContractTransactionHash string  `json:"contractTransactionHash"`
	Sender                  string  `json:"sender"`
	Signature               string  `json:"signature"`
	Origin                  string  `json:"origin,omitempty"`
}

// toModel converts the service representation into the domain model.
func (m *MultisigTransaction) toModel() (*models.PendingMultisigTransaction, error) {
	value, ok := new(big.Int).SetString(lo.Ternary(m.Value == "", "0", m.Value), 10)
	if !ok {
		return nil, fmt.Errorf("invalid value %q in %s", m.Value, m.SafeTxHash)
	}

	var data []byte
	if m.Data != nil && *m.Data != "" {
		decoded, err := hexutil.Decode(*m.Data)
		if err != nil {
			return nil, fmt.Errorf("invalid data in %s: %w", m.SafeTxHash, err)
		}
		data = decoded
	}

	return &models.PendingMultisigTransaction{
		SafeTxHash:            common.HexToHash(m.SafeTxHash),
		Safe:                  common.HexToAddress(m.Safe),
		To:                    common.HexToAddress(m.To),
		Value:                 value,
		Data:                  data,
		Operation:             models.SafeOperation(m.Operation),
		Nonce:                 uint64(m.Nonce),
		ConfirmationsRequired: m.ConfirmationsRequired,
		SubmittedAt:           m.SubmissionDate,
		Confirmations: lo.Map(m.Confirmations, func(c Confirmation, _ int) models.Confirmation {
			return models.Confirmation{
				Signer:      c.Owner,
				Signature:   c.Signature,
				ConfirmedAt: c.SubmissionDate,
			}
		}),
	}, nil
}

var _ json.Unmarshaler = (*flexUint)(nil)
