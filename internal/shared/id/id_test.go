package id

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	if id1.String() == id2.String() {
		t.Error("Generated IDs should be unique")
	}
}

func TestGenerateString(t *testing.T) {
	gen := NewGenerator()

	id := gen.GenerateString()

	if len(id) != 26 {
		t.Errorf("ULID should be 26 characters, got %d", len(id))
	}
}

func TestGenerateWithPrefix(t *testing.T) {
	gen := NewGenerator()

	for _, prefix := range []string{"ent", "sub", "req"} {
		id := gen.GenerateWithPrefix(prefix)

		if !strings.HasPrefix(id, prefix+"_") {
			t.Errorf("ID should start with '%s_', got: %s", prefix, id)
		}

		parts := strings.Split(id, "_")
		if len(parts) != 2 || !IsValid(parts[1]) {
			t.Errorf("ULID part should be valid, got: %s", id)
		}
	}
}

func TestTypedIDs(t *testing.T) {
	if !strings.HasPrefix(NewEntryID().String(), "ent_") {
		t.Error("entry IDs should carry the ent_ prefix")
	}
	if !strings.HasPrefix(NewSubscriberID().String(), "sub_") {
		t.Error("subscriber IDs should carry the sub_ prefix")
	}
	if !strings.HasPrefix(NewRequestID().String(), "req_") {
		t.Error("request IDs should carry the req_ prefix")
	}
}

func TestTimestamp(t *testing.T) {
	gen := NewGenerator()
	id := gen.GenerateString()

	ts, err := Timestamp(id)
	if err != nil {
		t.Fatalf("Timestamp failed: %v", err)
	}
	if ts.IsZero() {
		t.Error("expected non-zero timestamp")
	}
}
