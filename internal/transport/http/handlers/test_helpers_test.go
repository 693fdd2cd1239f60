package http_handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/baechuer/credential-service/internal/application/auth"
	"github.com/baechuer/credential-service/internal/infrastructure/memory"
	"github.com/baechuer/credential-service/internal/infrastructure/security"
	"github.com/baechuer/credential-service/internal/transport/http/response"
)

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// mustReadJSON decodes a response body into out.
func mustReadJSON(t *testing.T, r io.Reader, out any) {
	t.Helper()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode json failed: %v; body=%s", err, string(raw))
	}
}

func mustErrorBody(t *testing.T, rr *httptest.ResponseRecorder) response.ErrorPayload {
	t.Helper()

	var body response.ErrorBody
	mustReadJSON(t, bytes.NewReader(rr.Body.Bytes()), &body)
	return body.Error
}

// testEnv runs the real service over the memory store, bcrypt and JWT.
type testEnv struct {
	h      *AuthHandler
	issuer *security.JWTIssuer
	users  *memory.UserStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	issuer, err := security.NewJWTIssuer("handler-test-secret", "credential-service", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	users := memory.NewUserStore()
	svc := auth.NewService(
		users,
		security.NewBcryptHasher(4, 2),
		issuer,
		memory.NewRefreshLedger(),
		nil,
		auth.Config{SingleUseRefresh: true},
	)
	return &testEnv{h: NewAuthHandler(svc), issuer: issuer, users: users}
}

func post(t *testing.T, fn http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, mustJSONBody(t, body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	fn(rr, req)
	return rr
}
