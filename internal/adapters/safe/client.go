package safe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/config"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
	"github.com/trebuchet-org/plugrelay/internal/usecase"
)

// pageSize is the limit requested per page of pending transactions.
const pageSize = 20

// ServiceClient talks to the Safe Transaction Service
type ServiceClient struct {
	serviceURL string
	httpClient *http.Client
	log        *slog.Logger
}

// NewServiceClient resolves the service URL from configuration: an explicit
// safe_service_url wins over the per-chain default. The URL may stay empty,
// in which case every call fails with ErrConnectionUnavailable.
func NewServiceClient(cfg *config.RuntimeConfig, log *slog.Logger) *ServiceClient {
	serviceURL := cfg.SafeServiceURL
	if serviceURL == "" && cfg.Network != nil {
		serviceURL = TransactionServiceURLs[cfg.Network.ChainID]
	}
	return &ServiceClient{
		serviceURL: strings.TrimRight(serviceURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With("component", "SafeService"),
	}
}

// Configured reports whether a service URL is known.
func (c *ServiceClient) Configured() bool {
	return c.serviceURL != ""
}

// SafeNonce returns the next nonce the Safe will execute.
func (c *ServiceClient) SafeNonce(ctx context.Context, safe common.Address) (uint64, error) {
	var info safeInfo
	if err := c.get(ctx, fmt.Sprintf("%s/api/v1/safes/%s/", c.serviceURL, safe.Hex()), &info); err != nil {
		return 0, err
	}
	return uint64(info.Nonce), nil
}

// GetTransaction retrieves a Safe transaction by its hash
func (c *ServiceClient) GetTransaction(ctx context.Context, safeTxHash common.Hash) (*models.PendingMultisigTransaction, error) {
	var tx MultisigTransaction
	if err := c.get(ctx, fmt.Sprintf("%s/api/v1/multisig-transactions/%s/", c.serviceURL, safeTxHash.Hex()), &tx); err != nil {
		return nil, err
	}
	return tx.toModel()
}

// ListPending yields unexecuted transactions with a nonce at or above the
// Safe's current nonce in ascending nonce order. Pages are fetched as the
// caller iterates; breaking out stops further requests.
func (c *ServiceClient) ListPending(ctx context.Context, safe common.Address) iter.Seq2[*models.PendingMultisigTransaction, error] {
	return func(yield func(*models.PendingMultisigTransaction, error) bool) {
		nonce, err := c.SafeNonce(ctx, safe)
		if err != nil {
			yield(nil, err)
			return
		}

		query := url.Values{}
		query.Set("executed", "false")
		query.Set("nonce__gte", fmt.Sprintf("%d", nonce))
		query.Set("ordering", "nonce")
		query.Set("limit", fmt.Sprintf("%d", pageSize))
		next := fmt.Sprintf("%s/api/v1/safes/%s/multisig-transactions/?%s", c.serviceURL, safe.Hex(), query.Encode())

		for next != "" {
			var p page
			if err := c.get(ctx, next, &p); err != nil {
				yield(nil, err)
				return
			}
			for _, raw := range p.Results {
				if raw.IsExecuted {
					continue
				}
				tx, err := raw.toModel()
				if !yield(tx, err) {
					return
				}
			}
			next = ""
			if p.Next != nil {
				next = *p.Next
			}
		}
	}
}

// post sends body as JSON and accepts any 2xx status.
func (c *ServiceClient) post(ctx context.Context, endpoint string, body any) error {
	if !c.Configured() {
		return fmt.Errorf("no Safe Transaction Service for this network: %w", domain.ErrConnectionUnavailable)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (c *ServiceClient) get(ctx context.Context, endpoint string, out any) error {
	if !c.Configured() {
		return fmt.Errorf("no Safe Transaction Service for this network: %w", domain.ErrConnectionUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug("safe service request", "url", endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", endpoint, domain.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

var _ usecase.PendingTransactionSource = (*ServiceClient)(nil)
