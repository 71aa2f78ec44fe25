package proposal

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
)

var (
	guardedSafe = common.HexToAddress("0x5afe5afe5afe5afe5afe5afe5afe5afe5afe5afe")
	otherSafe   = common.HexToAddress("0x0000000000000000000000000000000000000bad")
)

type fakeHost struct {
	active bool
	safe   common.Address
	sent   int
}

func (h *fakeHost) Active(context.Context) bool { return h.active }
func (h *fakeHost) SafeInfo(context.Context) (*models.SafeInfo, error) {
	return &models.SafeInfo{SafeAddress: h.safe, ChainID: 5}, nil
}
func (h *fakeHost) Connection(context.Context) (domain.Connection, error) {
	return nil, domain.ErrConnectionUnavailable
}
func (h *fakeHost) SendTransactions(context.Context, []models.SafeProtocolAction) (models.ProposalID, error) {
	h.sent++
	return "0xhost", nil
}

type fakeService struct {
	available bool
	sent      int
}

func (s *fakeService) Available() bool { return s.available }
func (s *fakeService) Propose(context.Context, common.Address, []models.SafeProtocolAction) (models.ProposalID, error) {
	s.sent++
	return "0xservice", nil
}

func TestRouter_Propose(t *testing.T) {
	tests := []struct {
		name        string
		host        *fakeHost
		service     *fakeService
		account     common.Address
		want        models.ProposalID
		wantErr     error
		hostSent    int
		serviceSent int
	}{
		{name: "host bound to account", host: &fakeHost{active: true, safe: guardedSafe}, service: &fakeService{available: true}, account: guardedSafe, want: "0xhost", hostSent: 1},
		{name: "host bound elsewhere", host: &fakeHost{active: true, safe: otherSafe}, service: &fakeService{available: true}, account: guardedSafe, want: "0xservice", serviceSent: 1},
		{name: "host inactive", host: &fakeHost{}, service: &fakeService{available: true}, account: guardedSafe, want: "0xservice", serviceSent: 1},
		{name: "no path", host: &fakeHost{}, service: &fakeService{}, account: guardedSafe, wantErr: domain.ErrConnectionUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(tt.host, tt.service, slog.New(slog.NewTextHandler(io.Discard, nil)))
			id, err := r.Propose(context.Background(), tt.account, []models.SafeProtocolAction{{To: otherSafe}})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, id)
			}
			assert.Equal(t, tt.hostSent, tt.host.sent)
			assert.Equal(t, tt.serviceSent, tt.service.sent)
		})
	}
}
