package ports

import (
	"context"
	"time"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
)

// SessionStore tracks issued sessions and revoked tokens, and carries the
// auth-state change feed.
type SessionStore interface {
	BlacklistToken(ctx context.Context, tokenHash string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, tokenHash string) (bool, error)
	PublishAuthEvent(ctx context.Context, evt domain.AuthEvent) error
	// SubscribeAuthEvents delivers auth-state changes until ctx is
	// cancelled; the channel is closed on teardown.
	SubscribeAuthEvents(ctx context.Context) (<-chan domain.AuthEvent, error)
}

// StructureCache memoizes structure directory lookups.
type StructureCache interface {
	Get(ctx context.Context, subProgram string) (*domain.ProgramStructure, bool)
	Set(ctx context.Context, s domain.ProgramStructure, ttl time.Duration)
	Invalidate(ctx context.Context, subProgram string)
}
