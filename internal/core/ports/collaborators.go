package ports

import (
	"context"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
)

// CredentialSource supplies bearer tokens. Token returns ErrAuth when no
// credential is available. Expire clears the stored credential and notifies
// observers so the driving side can reflect a logged-out state.
type CredentialSource interface {
	Token(ctx context.Context) (string, error)
	Expire()
}

// SettingsStore owns the persisted settings snapshot.
type SettingsStore interface {
	CurrentSettings(ctx context.Context) (domain.Settings, error)
	SaveSettings(ctx context.Context, s domain.Settings) error
}

// RenderSink receives the final ordered result of a strategy invocation.
type RenderSink interface {
	RenderRanked(ctx context.Context, result domain.Result) error
}
