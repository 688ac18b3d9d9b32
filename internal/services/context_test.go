package services_test

import (
	"context"
	"testing"

	"ecalib/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithInvocationID(ctx, "inv-123")
	ctx = services.WithNode(ctx, "ecalib")

	if id, ok := services.InvocationIDFromContext(ctx); !ok || id != "inv-123" {
		t.Fatalf("unexpected invocation id: %v %v", id, ok)
	}
	if node, ok := services.NodeFromContext(ctx); !ok || node != "ecalib" {
		t.Fatalf("unexpected node: %v %v", node, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithNode(ctx, "")
	ctx = services.WithInvocationID(ctx, "")
	if _, ok := services.NodeFromContext(ctx); ok {
		t.Fatal("expected no node value")
	}
	if _, ok := services.InvocationIDFromContext(ctx); ok {
		t.Fatal("expected no invocation id")
	}
}
