package auth

import (
	"context"

	"github.com/baechuer/credential-service/internal/domain"
)

// Signin authenticates a user and issues a token pair.
// IMPORTANT: must not leak whether the email exists (avoid user enumeration).
func (s *Service) Signin(ctx context.Context, email, password string) (TokenPair, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return TokenPair{}, domain.ErrInvalidCredentials()
	}

	u, found, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return TokenPair{}, err
	}

	hash := u.PasswordHash
	if !found {
		if hash, err = s.dummyDigest(ctx); err != nil {
			return TokenPair{}, err
		}
	}

	ok, err := s.hasher.Verify(ctx, password, hash)
	if err != nil {
		return TokenPair{}, err
	}
	if !found || !ok {
		s.audit("signin_failed", map[string]string{"email": email})
		return TokenPair{}, domain.ErrInvalidCredentials()
	}

	pair, err := s.issuePair(u.Hex())
	if err != nil {
		return TokenPair{}, err
	}

	s.audit("signin", map[string]string{"user_id": u.Hex()})
	return pair, nil
}
