package api

import (
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/labstack/echo/v4"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
	"github.com/trebuchet-org/plugrelay/internal/usecase"
)

// WhitelistEditRequest is the body of POST /v1/whitelist.
type WhitelistEditRequest struct {
	Safe    string `json:"safe"`
	Plugin  string `json:"plugin"`
	Counter string `json:"counter"`
	Action  string `json:"action"`
}

// RelayRequest is the body of POST /v1/relay. Integers are decimal or
// 0x-prefixed hex strings.
type RelayRequest struct {
	Safe       string `json:"safe"`
	Plugin     string `json:"plugin"`
	To         string `json:"to"`
	Value      string `json:"value"`
	Data       string `json:"data"`
	Nonce      string `json:"nonce"`
	RootAccess bool   `json:"rootAccess"`
	Manager    string `json:"manager,omitempty"`
}

// PendingEntry is a pending transaction together with its relayability.
type PendingEntry struct {
	*models.PendingMultisigTransaction
	Relayable bool   `json:"relayable"`
	Reason    string `json:"reason,omitempty"`
}

func (s *Server) Ping(c echo.Context) error {
	return c.String(http.StatusOK, "plugrelay is running")
}

// CheckWhitelist answers GET /v1/whitelist/:safe/:counter. A failed read is
// reported as status unknown with 502, never as not-whitelisted.
func (s *Server) CheckWhitelist(c echo.Context) error {
	check, err := s.check.Run(c.Request().Context(), usecase.CheckWhitelistParams{
		Target:  usecase.TargetParams{Plugin: c.QueryParam("plugin"), Account: c.Param("safe")},
		Counter: c.Param("counter"),
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAddress) {
			return s.fail(c, err)
		}
		if check == nil {
			check = &models.WhitelistCheck{Status: models.WhitelistUnknown, Error: err.Error()}
		}
		return c.JSON(http.StatusBadGateway, check)
	}
	return c.JSON(http.StatusOK, check)
}

func (s *Server) EditWhitelist(c echo.Context) error {
	var req WhitelistEditRequest
	if err := c.Bind(&req); err != nil {
		return s.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
	}

	edit := models.WhitelistEdit(req.Action)
	if edit != models.WhitelistAdd && edit != models.WhitelistRemove {
		return s.fail(c, fmt.Errorf("%w: action must be %q or %q", errBadRequest, models.WhitelistAdd, models.WhitelistRemove))
	}

	result, err := s.manage.Run(c.Request().Context(), usecase.ManageWhitelistParams{
		Target:  usecase.TargetParams{Plugin: req.Plugin, Account: req.Safe},
		Edit:    edit,
		Counter: req.Counter,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusAccepted, result)
}

func (s *Server) Relay(c echo.Context) error {
	var req RelayRequest
	if err := c.Bind(&req); err != nil {
		return s.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
	}

	params, err := req.params()
	if err != nil {
		return s.fail(c, err)
	}

	receipt, err := s.relay.Run(c.Request().Context(), params)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, receipt)
}

func (s *Server) ListPending(c echo.Context) error {
	account, err := domain.ParseAddress(c.Param("safe"))
	if err != nil {
		return s.fail(c, err)
	}

	entries := []PendingEntry{}
	for pending, err := range s.pending.ListPending(c.Request().Context(), account) {
		if err != nil {
			return s.fail(c, err)
		}
		entry := PendingEntry{PendingMultisigTransaction: pending, Relayable: true}
		if _, err := usecase.ToEnvelope(pending); err != nil {
			entry.Relayable = false
			entry.Reason = err.Error()
		}
		entries = append(entries, entry)
	}
	return c.JSON(http.StatusOK, entries)
}

// ListPlugins answers GET /v1/plugins. With chainId and address query
// parameters it only reports whether that plugin is known.
func (s *Server) ListPlugins(c echo.Context) error {
	address := c.QueryParam("address")
	if address == "" {
		return c.JSON(http.StatusOK, s.plugins.List())
	}

	chainID, err := strconv.ParseUint(c.QueryParam("chainId"), 10, 64)
	if err != nil {
		return s.fail(c, fmt.Errorf("%w: chainId is required with address", errBadRequest))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"chainId": chainID,
		"address": address,
		"known":   s.plugins.IsKnownPlugin(chainID, address),
	})
}

var errBadRequest = errors.New("bad request")

func (r RelayRequest) params() (usecase.BuildAndRelayParams, error) {
	to, err := domain.ParseAddress(r.To)
	if err != nil {
		return usecase.BuildAndRelayParams{}, err
	}

	value := new(big.Int)
	if r.Value != "" {
		var ok bool
		if value, ok = math.ParseBig256(r.Value); !ok {
			return usecase.BuildAndRelayParams{}, fmt.Errorf("%w: invalid value %q", domain.ErrInvalidEnvelope, r.Value)
		}
	}

	nonce, ok := math.ParseBig256(r.Nonce)
	if !ok || r.Nonce == "" {
		return usecase.BuildAndRelayParams{}, fmt.Errorf("%w: invalid nonce %q", domain.ErrInvalidEnvelope, r.Nonce)
	}

	var data []byte
	if r.Data != "" && r.Data != "0x" {
		if data, err = hexutil.Decode(r.Data); err != nil {
			return usecase.BuildAndRelayParams{}, fmt.Errorf("%w: data: %v", domain.ErrInvalidEnvelope, err)
		}
	}

	params := usecase.BuildAndRelayParams{
		Target:     usecase.TargetParams{Plugin: r.Plugin, Account: r.Safe},
		To:         to,
		Value:      value,
		Data:       data,
		Nonce:      nonce,
		RootAccess: r.RootAccess,
	}
	if r.Manager != "" {
		manager, err := domain.ParseAddress(r.Manager)
		if err != nil {
			return usecase.BuildAndRelayParams{}, err
		}
		params.ManagerOverride = &manager
	}
	return params, nil
}

func (s *Server) fail(c echo.Context, err error) error {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrInvalidAddress),
		errors.Is(err, domain.ErrInvalidEnvelope),
		errors.Is(err, usecase.ErrNoGuardedAccount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNonceReused):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownPlugin),
		errors.Is(err, domain.ErrRootAccessNotDeclared),
		errors.Is(err, domain.ErrNotApproved),
		errors.Is(err, domain.ErrUnsupportedOperation),
		errors.Is(err, domain.ErrNetworkMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrConnectionUnavailable),
		errors.Is(err, domain.ErrNotCredentialed):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrRelayFailed),
		errors.Is(err, domain.ErrReadFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
