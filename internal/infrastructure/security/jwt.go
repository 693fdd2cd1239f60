package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/baechuer/credential-service/internal/application/auth"
	"github.com/baechuer/credential-service/internal/domain"
)

// JWTIssuer signs access and refresh tokens with one HMAC secret and tells
// them apart through the "typ" claim.
type JWTIssuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewJWTIssuer(secret, issuer string, accessTTL, refreshTTL time.Duration) (*JWTIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt: empty secret")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("jwt: token lifetimes must be positive")
	}
	if accessTTL >= refreshTTL {
		return nil, fmt.Errorf("jwt: access ttl %s must be shorter than refresh ttl %s", accessTTL, refreshTTL)
	}
	return &JWTIssuer{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

type tokenClaims struct {
	Kind string `json:"typ"`
	jwt.RegisteredClaims
}

func (s *JWTIssuer) IssueAccessToken(userID string) (auth.IssuedToken, error) {
	return s.issue(userID, auth.KindAccess, s.accessTTL)
}

func (s *JWTIssuer) IssueRefreshToken(userID string) (auth.IssuedToken, error) {
	return s.issue(userID, auth.KindRefresh, s.refreshTTL)
}

func (s *JWTIssuer) issue(userID string, kind auth.TokenKind, ttl time.Duration) (auth.IssuedToken, error) {
	if strings.TrimSpace(userID) == "" {
		return auth.IssuedToken{}, domain.ErrMissingField("user_id")
	}

	now := s.now()
	exp := now.Add(ttl)
	jti := uuid.NewString()
	claims := tokenClaims{
		Kind: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return auth.IssuedToken{}, domain.ErrTokenSignFailed(err)
	}

	// NumericDate drops sub-second precision; report what the token carries.
	return auth.IssuedToken{
		Token:     signed,
		TokenID:   jti,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Verify checks signature, issuer, expiry and kind. Every failure is a
// token_invalid error whose reason names the check that failed.
func (s *JWTIssuer) Verify(token string, kind auth.TokenKind) (auth.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.TokenClaims{}, domain.ErrTokenInvalid(domain.TokenExpired)
		}
		return auth.TokenClaims{}, domain.ErrTokenInvalid(domain.TokenMalformed)
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return auth.TokenClaims{}, domain.ErrTokenInvalid(domain.TokenMalformed)
	}
	if auth.TokenKind(claims.Kind) != kind {
		return auth.TokenClaims{}, domain.ErrTokenInvalid(domain.TokenWrongKind)
	}
	if strings.TrimSpace(claims.Subject) == "" || claims.ID == "" {
		return auth.TokenClaims{}, domain.ErrTokenInvalid(domain.TokenMalformed)
	}

	return auth.TokenClaims{
		UserID:    claims.Subject,
		Kind:      kind,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
