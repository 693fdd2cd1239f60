package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/baechuer/credential-service/internal/domain"
)

type Service struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer
	ledger RefreshLedger // nil: refresh tokens stay valid until expiry
	pub    EventPublisher

	audit func(action string, fields map[string]string)

	dummyMu   sync.Mutex
	dummyHash string
}

type Config struct {
	// SingleUseRefresh makes every refresh token renew at most once.
	// Requires a RefreshLedger.
	SingleUseRefresh bool
}

func NewService(
	users UserStore,
	hasher PasswordHasher,
	tokens TokenIssuer,
	ledger RefreshLedger,
	pub EventPublisher,
	cfg Config,
) *Service {
	if !cfg.SingleUseRefresh {
		ledger = nil
	}
	if pub == nil {
		pub = nopPublisher{}
	}
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		ledger: ledger,
		pub:    pub,
		audit:  func(string, map[string]string) {},
	}
}

// TokenPair is the common token output for handlers/DTO mapping.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// issuePair mints an access token and a refresh token for userID.
func (s *Service) issuePair(userID string) (TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.tokens.IssueRefreshToken(userID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access.Token,
		RefreshToken:     refresh.Token,
		AccessExpiresAt:  access.ExpiresAt,
		RefreshExpiresAt: refresh.ExpiresAt,
	}, nil
}

// dummyDigest is verified against when an email is unknown so signin costs
// the same whether or not the account exists. A failed attempt is retried on
// the next call.
func (s *Service) dummyDigest(ctx context.Context) (string, error) {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()

	if s.dummyHash != "" {
		return s.dummyHash, nil
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", domain.ErrHashFailed(err)
	}
	h, err := s.hasher.Hash(ctx, base64.RawURLEncoding.EncodeToString(b))
	if err != nil {
		return "", err
	}
	s.dummyHash = h
	return h, nil
}

type nopPublisher struct{}

func (nopPublisher) PublishUserSignedUp(context.Context, UserSignedUpEvent) error { return nil }
