package auth

import (
	"context"

	"github.com/baechuer/credential-service/internal/domain"
)

// CurrentUser returns the account an access token was issued to, without its hash.
func (s *Service) CurrentUser(ctx context.Context, userID string) (domain.User, error) {
	u, found, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if !found {
		return domain.User{}, domain.ErrUserNotFound()
	}
	u.PasswordHash = ""
	return u, nil
}
