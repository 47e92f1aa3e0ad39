package utils

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppErrorWrapping(t *testing.T) {
	base := errors.New("unexpected EOF")
	err := fmt.Errorf("handle message: %w", NewAppError("ingest.decode", "invalid snapshot payload", base))

	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to match base")
	}
	if op := OpOf(err); op != "ingest.decode" {
		t.Fatalf("unexpected op %q", op)
	}
	if OpOf(base) != "" {
		t.Fatalf("expected empty op for plain error")
	}
	if got := NewAppError("config.load", "missing file", nil).Error(); got != "config.load: missing file" {
		t.Fatalf("unexpected message %q", got)
	}
}
