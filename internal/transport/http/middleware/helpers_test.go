package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/baechuer/credential-service/internal/application/auth"
	"github.com/baechuer/credential-service/internal/domain"
)

// writeErrStub mirrors the response envelope closely enough for assertions.
func writeErrStub(w http.ResponseWriter, _ *http.Request, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"
	var de *domain.Error
	if errors.As(err, &de) {
		code = de.Code
		switch de.Kind {
		case domain.KindAuth:
			status = http.StatusUnauthorized
		case domain.KindRateLimited:
			status = http.StatusTooManyRequests
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": code, "meta": metaOf(de)}})
}

func metaOf(de *domain.Error) map[string]string {
	if de == nil {
		return nil
	}
	return de.Meta
}

func decodeErrCode(t *testing.T, body []byte) (string, map[string]string) {
	t.Helper()
	var env struct {
		Error struct {
			Code string            `json:"code"`
			Meta map[string]string `json:"meta"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode error body: %v; body=%s", err, body)
	}
	return env.Error.Code, env.Error.Meta
}

type fakeVerifier struct {
	claims  auth.TokenClaims
	err     error
	gotTok  string
	gotKind auth.TokenKind
}

func (f *fakeVerifier) Verify(token string, kind auth.TokenKind) (auth.TokenClaims, error) {
	f.gotTok = token
	f.gotKind = kind
	if f.err != nil {
		return auth.TokenClaims{}, f.err
	}
	return f.claims, nil
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})
