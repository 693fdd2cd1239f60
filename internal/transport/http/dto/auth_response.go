package dto

import (
	"time"

	"github.com/baechuer/credential-service/internal/application/auth"
	"github.com/baechuer/credential-service/internal/domain"
)

// SignupResponse never carries the password hash.
type SignupResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// SigninResponse is returned by signin and token renewal.
type SigninResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type MeResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewSignupResponse(u domain.User) SignupResponse {
	return SignupResponse{ID: u.Hex(), Email: u.Email, CreatedAt: u.CreatedAt}
}

func NewSigninResponse(p auth.TokenPair) SigninResponse {
	return SigninResponse{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}

func NewMeResponse(u domain.User) MeResponse {
	return MeResponse{ID: u.Hex(), Email: u.Email, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}
