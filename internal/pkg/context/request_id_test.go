package context

import (
	"context"
	"testing"
)

func TestRequestID_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "rid-1")
	if got := GetRequestID(ctx); got != "rid-1" {
		t.Fatalf("expected rid-1, got %q", got)
	}
	if got := GetRequestID(context.Background()); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
	//nolint:staticcheck
	if got := GetRequestID(nil); got != "" {
		t.Fatalf("expected empty for nil ctx, got %q", got)
	}
}

func TestUserID_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithUserID(context.Background(), "u1")
	if got := GetUserID(ctx); got != "u1" {
		t.Fatalf("expected u1, got %q", got)
	}
	if got := GetUserID(WithRequestID(context.Background(), "u1")); got != "" {
		t.Fatalf("request id must not leak into user id, got %q", got)
	}
}
