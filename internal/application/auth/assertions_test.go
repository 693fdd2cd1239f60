package auth

import (
	"errors"
	"testing"

	"github.com/baechuer/credential-service/internal/domain"
)

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}

func requireTokenReason(t *testing.T, err error, reason string) {
	t.Helper()
	requireErrCode(t, err, "token_invalid")
	var de *domain.Error
	errors.As(err, &de)
	if de.Meta["reason"] != reason {
		t.Fatalf("expected reason=%q, got %q", reason, de.Meta["reason"])
	}
}
