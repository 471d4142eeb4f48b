package requestctx

import (
	"context"
	"testing"

	"github.com/Shivanand-hulikatti/eventreg/internal/model"
)

func TestUserFromContextRoundTrip(t *testing.T) {
	u := &model.User{ID: 42, Username: "alice"}
	ctx := WithUser(context.Background(), u)
	if got := UserFromContext(ctx); got != u {
		t.Fatalf("UserFromContext = %v, want %v", got, u)
	}
	if got := UserID(ctx); got != 42 {
		t.Fatalf("UserID = %d, want 42", got)
	}
}

func TestUserFromContextEmpty(t *testing.T) {
	if got := UserFromContext(context.Background()); got != nil {
		t.Fatalf("expected nil user, got %v", got)
	}
	if got := UserID(context.Background()); got != 0 {
		t.Fatalf("expected zero id, got %d", got)
	}
}

func TestUserFromContextNil(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract.
	if got := UserFromContext(nil); got != nil {
		t.Fatalf("expected nil user for nil context, got %v", got)
	}
}

func TestWithUserNilContext(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract.
	ctx := WithUser(nil, &model.User{ID: 7})
	if ctx == nil {
		t.Fatalf("expected non-nil context")
	}
	if got := UserID(ctx); got != 7 {
		t.Fatalf("UserID = %d, want 7", got)
	}
}
