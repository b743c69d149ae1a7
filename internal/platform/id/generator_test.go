package id

import (
	"strings"
	"testing"
)

func TestRandomGeneratorProducesUniqueHexIDs(t *testing.T) {
	generator := NewRandomGenerator()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id, err := generator.NewID()
		if err != nil {
			t.Fatalf("NewID: %v", err)
		}
		if len(id) != 32 {
			t.Fatalf("id length = %d, want 32 hex chars", len(id))
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestPrefixedGenerator(t *testing.T) {
	generator := NewPrefixedGenerator("run")

	id, err := generator.NewID()
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}
	if !strings.HasPrefix(id, "run_") {
		t.Fatalf("id = %q, want run_ prefix", id)
	}
	if len(id) != len("run_")+32 {
		t.Fatalf("id length = %d", len(id))
	}
}
