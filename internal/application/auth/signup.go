package auth

import (
	"context"

	"github.com/baechuer/credential-service/internal/domain"
)

// Signup registers a new account. It never issues tokens.
func (s *Service) Signup(ctx context.Context, email, password string) (domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if password == "" {
		return domain.User{}, domain.ErrMissingField("password")
	}

	// Fail fast before paying for a hash. The unique index still decides races.
	if _, exists, err := s.users.FindByEmail(ctx, email); err != nil {
		return domain.User{}, err
	} else if exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return domain.User{}, err
	}

	created, err := s.users.Create(ctx, domain.User{Email: email, PasswordHash: hash})
	if err != nil {
		return domain.User{}, err
	}

	s.audit("signup", map[string]string{"user_id": created.Hex()})

	evt := UserSignedUpEvent{UserID: created.Hex(), Email: created.Email, CreatedAt: created.CreatedAt}
	if err := s.pub.PublishUserSignedUp(ctx, evt); err != nil {
		s.audit("signup_event_failed", map[string]string{
			"user_id": created.Hex(),
			"error":   err.Error(),
		})
	}

	created.PasswordHash = ""
	return created, nil
}
