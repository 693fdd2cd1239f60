package memory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/baechuer/credential-service/internal/application/auth"
	"github.com/baechuer/credential-service/internal/domain"
)

// SeedUser is one development account.
type SeedUser struct {
	Email    string
	Password string
}

// DefaultSeedUsers are created for local development with the memory store.
var DefaultSeedUsers = []SeedUser{
	{Email: "admin@example.com", Password: "AdminPassword123!"},
	{Email: "user@example.com", Password: "UserPassword123!"},
}

// SeedUsers creates the given accounts. Safe to call multiple times (duplicates ignored).
// It returns how many accounts were created.
func SeedUsers(ctx context.Context, users *UserStore, hasher auth.PasswordHasher, seeds []SeedUser, lg zerolog.Logger) int {
	created := 0
	for _, s := range seeds {
		hash, err := hasher.Hash(ctx, s.Password)
		if err != nil {
			lg.Warn().Err(err).Str("email", s.Email).Msg("seed hash failed")
			continue
		}

		u, err := users.Create(ctx, domain.User{Email: s.Email, PasswordHash: hash})
		if err != nil {
			if !domain.Is(err, "email_already_exists") {
				lg.Warn().Err(err).Str("email", s.Email).Msg("seed create failed")
			}
			continue
		}
		created++
		lg.Info().Str("user_id", u.Hex()).Str("email", u.Email).Msg("seeded user")
	}
	return created
}
