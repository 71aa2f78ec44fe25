package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/plugrelay/internal/domain"
)

// ConnectionResolver picks the network connection for one operation.
// Nothing is cached; every call re-evaluates the host session.
type ConnectionResolver struct {
	host   HostSession
	dialer DirectDialer
	log    *slog.Logger
}

// NewConnectionResolver creates a new ConnectionResolver
func NewConnectionResolver(host HostSession, dialer DirectDialer, log *slog.Logger) *ConnectionResolver {
	return &ConnectionResolver{
		host:   host,
		dialer: dialer,
		log:    log.With("component", "ConnectionResolver"),
	}
}

// Resolve returns the ambient host connection when one is active and
// forceDirect is false, otherwise a direct connection to the configured endpoint.
func (r *ConnectionResolver) Resolve(ctx context.Context, forceDirect bool) (domain.Connection, error) {
	if !forceDirect && r.host != nil && r.host.Active(ctx) {
		r.log.Debug("using ambient connection")
		conn, err := r.host.Connection(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to open host connection: %w", err)
		}
		return conn, nil
	}

	if r.dialer == nil {
		return nil, domain.ErrConnectionUnavailable
	}
	r.log.Debug("using direct connection", "forced", forceDirect)
	return r.dialer.Dial(ctx)
}
