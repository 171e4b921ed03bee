package ports

import (
	"context"

	"github.com/classdash/classdash/internal/domain/model"
)

// PayloadSource fetches roster data from the dashboard's HTTP collaborator.
// Implementations live in internal/adapters/rosterapi; the in-memory test
// double lives in internal/mocks.
type PayloadSource interface {
	// FetchSnapshot retrieves the flat anonymous payload: every user,
	// enrollment, and class.
	FetchSnapshot(ctx context.Context) (*model.RosterPayload, error)

	// FetchDashboard retrieves the pre-resolved per-viewer payload using a
	// bearer credential from the identity provider.
	FetchDashboard(ctx context.Context, token string) (*model.DashboardPayload, error)

	// ExchangeCode posts a one-time authorization code to the token-exchange
	// endpoint and returns the same pre-resolved payload shape.
	ExchangeCode(ctx context.Context, code string) (*model.DashboardPayload, error)
}
