package id

import (
	"strings"
	"testing"
	"time"
)

func TestRandomGenerator_NewID(t *testing.T) {
	g := NewPrefixedGenerator("link")
	g.now = func() time.Time { return time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC) }

	a, err := g.NewID()
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}
	b, err := g.NewID()
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}

	if !strings.HasPrefix(a, "link-20260504T093000-") {
		t.Fatalf("unexpected id format %q", a)
	}
	if len(a) != len("link-20260504T093000-")+16 {
		t.Fatalf("unexpected id length %d", len(a))
	}
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
}
