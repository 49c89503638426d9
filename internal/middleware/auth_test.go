package middleware

import (
	"context"
	"testing"
)

func TestUserID(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserContextKey, "instructor-42")
	if got := UserID(ctx); got != "instructor-42" {
		t.Fatalf("expected instructor-42, got %q", got)
	}

	if got := UserID(context.Background()); got != "" {
		t.Fatalf("expected empty ID on a bare context, got %q", got)
	}

	// A mistyped value must not panic the assertion.
	ctx = context.WithValue(context.Background(), UserContextKey, 42)
	if got := UserID(ctx); got != "" {
		t.Fatalf("expected empty ID for a non-string value, got %q", got)
	}
}
