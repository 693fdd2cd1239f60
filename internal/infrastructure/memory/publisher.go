package memory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/baechuer/credential-service/internal/application/auth"
)

// NoopPublisher logs events instead of sending them. Used when no broker is configured.
type NoopPublisher struct {
	log zerolog.Logger
}

func NewNoopPublisher(lg zerolog.Logger) *NoopPublisher {
	return &NoopPublisher{log: lg.With().Str("component", "noop-pub").Logger()}
}

func (p *NoopPublisher) PublishUserSignedUp(ctx context.Context, evt auth.UserSignedUpEvent) error {
	p.log.Info().
		Str("user_id", evt.UserID).
		Time("created_at", evt.CreatedAt).
		Msg("user signed up")
	return nil
}
