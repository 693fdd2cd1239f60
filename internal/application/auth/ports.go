package auth

import (
	"context"
	"time"

	"github.com/baechuer/credential-service/internal/domain"
)

/*
UserStore
---------
Persistence port for users.
Lookups report absence through the bool result, never as an error.
Create must enforce email uniqueness at the storage layer.
*/
type UserStore interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, bool, error)
	FindByID(ctx context.Context, id string) (domain.User, bool, error)
}

/*
PasswordHasher
--------------
One-way hashing with a fresh salt per call.
Verify reports a mismatch as false; an error means the check could not run.
*/
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, hash string) (bool, error)
}

/*
TokenIssuer
-----------
Mints and verifies signed, time-bounded tokens.
*/
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

type TokenClaims struct {
	UserID    string
	Kind      TokenKind
	TokenID   string
	ExpiresAt time.Time
}

type IssuedToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

type TokenIssuer interface {
	IssueAccessToken(userID string) (IssuedToken, error)
	IssueRefreshToken(userID string) (IssuedToken, error)
	Verify(token string, kind TokenKind) (TokenClaims, error)
}

/*
RefreshLedger
-------------
Records consumed refresh tokens so each one renews at most once.
MarkUsed returns false when the token id was already consumed.
Entries only need to outlive the token itself.
*/
type RefreshLedger interface {
	MarkUsed(ctx context.Context, tokenID string, until time.Time) (bool, error)
}

/*
EventPublisher
--------------
Publishes out-of-band notifications. Delivery is best-effort from the
service's point of view.
*/
type EventPublisher interface {
	PublishUserSignedUp(ctx context.Context, evt UserSignedUpEvent) error
}

type UserSignedUpEvent struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
