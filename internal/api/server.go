package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"iter"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/trebuchet-org/plugrelay/internal/domain/config"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
	"github.com/trebuchet-org/plugrelay/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

type whitelistChecker interface {
	Run(ctx context.Context, params usecase.CheckWhitelistParams) (*models.WhitelistCheck, error)
}

type whitelistEditor interface {
	Run(ctx context.Context, params usecase.ManageWhitelistParams) (*usecase.ManageWhitelistResult, error)
}

type relayer interface {
	Run(ctx context.Context, params usecase.BuildAndRelayParams) (*models.RelayReceipt, error)
}

type pendingLister interface {
	ListPending(ctx context.Context, account common.Address) iter.Seq2[*models.PendingMultisigTransaction, error]
}

type pluginCatalog interface {
	List() []models.PluginRegistration
	IsKnownPlugin(chainID uint64, address string) bool
}

// Options configures the listener and its access control.
type Options struct {
	Addr string
	// Token guards the routes that sign or propose. Without one those
	// routes are refused.
	Token string
	// AllowOrigins lists the browser origins granted cross-origin access.
	AllowOrigins []string
}

// Server exposes the relay operations over HTTP for embedding hosts.
type Server struct {
	check   whitelistChecker
	manage  whitelistEditor
	relay   relayer
	pending pendingLister
	plugins pluginCatalog
	opts    Options
	log     *slog.Logger
	echo    *echo.Echo
}

// NewServer creates the HTTP API server
func NewServer(
	check *usecase.CheckWhitelist,
	manage *usecase.ManageWhitelist,
	relay *usecase.BuildAndRelay,
	pending *usecase.PendingRelay,
	plugins *usecase.PluginCatalog,
	cfg *config.RuntimeConfig,
	log *slog.Logger,
) *Server {
	return newServer(check, manage, relay, pending, plugins, Options{
		Addr:         cfg.ListenAddr,
		Token:        cfg.APIToken,
		AllowOrigins: cfg.CORSOrigins,
	}, log)
}

func newServer(
	check whitelistChecker,
	manage whitelistEditor,
	relay relayer,
	pending pendingLister,
	plugins pluginCatalog,
	opts Options,
	log *slog.Logger,
) *Server {
	s := &Server{
		check:   check,
		manage:  manage,
		relay:   relay,
		pending: pending,
		plugins: plugins,
		opts:    opts,
		log:     log.With("component", "API"),
	}
	s.echo = s.routes()
	return s
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))
	if len(s.opts.AllowOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.opts.AllowOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost},
			AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
		}))
	}
	e.Use(s.requestLogger)

	e.GET("/ping", s.Ping)

	v1 := e.Group("/v1")
	v1.GET("/whitelist/:safe/:counter", s.CheckWhitelist)
	v1.POST("/whitelist", s.EditWhitelist, s.AuthMiddleware)
	v1.POST("/relay", s.Relay, s.AuthMiddleware)
	v1.GET("/pending/:safe", s.ListPending)
	v1.GET("/plugins", s.ListPlugins)

	return e
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return s.opts.Addr
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("api listening", "addr", s.opts.Addr, "mutations", s.opts.Token != "")
		errCh <- s.echo.Start(s.opts.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

// AuthMiddleware requires the configured bearer token.
func (s *Server) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.opts.Token == "" {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "mutating routes are disabled"})
		}

		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing Authorization header"})
		}
		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(tokenStr), []byte(s.opts.Token)) != 1 {
			s.log.Warn("rejected request", "path", c.Path(), "remote", c.RealIP())
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}
		return next(c)
	}
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		s.log.Debug("request",
			"method", c.Request().Method,
			"path", c.Path(),
			"status", c.Response().Status,
			"duration", time.Since(start))
		return err
	}
}
