package http_handlers

import (
	"net/http"
	"strings"

	"github.com/baechuer/credential-service/internal/application/auth"
	"github.com/baechuer/credential-service/internal/domain"
	"github.com/baechuer/credential-service/internal/logger"
	appCtx "github.com/baechuer/credential-service/internal/pkg/context"
	"github.com/baechuer/credential-service/internal/transport/http/dto"
	"github.com/baechuer/credential-service/internal/transport/http/response"
	"github.com/baechuer/credential-service/internal/transport/http/validation"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if err := validation.Validate(req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", u.Hex()).
		Msg("user_signed_up")

	response.Created(w, dto.NewSignupResponse(u))
}

// Signin handles POST /auth/signin
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req dto.SigninRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if err := validation.Validate(req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	pair, err := h.svc.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.NewSigninResponse(pair))
}

// Token handles POST /auth/token
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req dto.RenewRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	req.RefreshToken = strings.TrimSpace(req.RefreshToken)
	if err := validation.Validate(req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	pair, err := h.svc.RenewTokens(r.Context(), req.RefreshToken)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.NewSigninResponse(pair))
}

// Me handles GET /auth/me; the Auth middleware must run first.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := appCtx.GetUserID(r.Context())
	if userID == "" {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	u, err := h.svc.CurrentUser(r.Context(), userID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.NewMeResponse(u))
}
