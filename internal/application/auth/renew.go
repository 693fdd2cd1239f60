package auth

import (
	"context"

	"github.com/baechuer/credential-service/internal/domain"
)

// RenewTokens exchanges a refresh token for a fresh pair.
// With single-use refresh enabled, each refresh token renews at most once;
// a replay is rejected with reason "reused".
func (s *Service) RenewTokens(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, domain.ErrTokenInvalid(domain.TokenMalformed)
	}

	claims, err := s.tokens.Verify(refreshToken, KindRefresh)
	if err != nil {
		return TokenPair{}, err
	}

	// A deleted account keeps no session chain.
	u, found, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, err
	}
	if !found {
		return TokenPair{}, domain.ErrTokenInvalid(domain.TokenNoSubject)
	}

	pair, err := s.issuePair(u.Hex())
	if err != nil {
		return TokenPair{}, err
	}

	// The token is spent only once nothing else can fail, so a transient
	// store or signing error leaves it usable for a retry.
	if s.ledger != nil {
		first, err := s.ledger.MarkUsed(ctx, claims.TokenID, claims.ExpiresAt)
		if err != nil {
			return TokenPair{}, err
		}
		if !first {
			s.audit("refresh_reused", map[string]string{"user_id": claims.UserID})
			return TokenPair{}, domain.ErrTokenInvalid(domain.TokenReused)
		}
	}

	s.audit("refresh", map[string]string{"user_id": u.Hex()})
	return pair, nil
}
