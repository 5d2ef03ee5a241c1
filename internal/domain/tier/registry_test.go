package tier

import (
	"errors"
	"testing"
	"time"

	"github.com/lumenhud/lumen/backend/internal/shared/types"
)

func TestRejectsUnknownTier(t *testing.T) {
	_, err := New(map[types.Tier]Config{
		"sidebar": {Capacity: 2},
	})
	if !errors.Is(err, ErrInvalidTier) {
		t.Fatalf("expected ErrInvalidTier, got %v", err)
	}
}

func TestLookupUnknownTier(t *testing.T) {
	r := Defaults()
	if _, err := r.Lookup("popup"); !errors.Is(err, ErrInvalidTier) {
		t.Fatalf("expected ErrInvalidTier, got %v", err)
	}
}

func TestUnconfiguredTierGetsZeroCapacity(t *testing.T) {
	r, err := New(map[types.Tier]Config{
		types.TierPrimary: {Capacity: 3},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	cfg, err := r.Lookup(types.TierOverlay)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if cfg.Capacity != 0 {
		t.Errorf("expected zero capacity for unconfigured tier, got %d", cfg.Capacity)
	}
}

func TestDefaults(t *testing.T) {
	r := Defaults()

	cfg, err := r.Lookup(types.TierEphemeral)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if cfg.Capacity != 3 {
		t.Errorf("expected ephemeral capacity 3, got %d", cfg.Capacity)
	}
	if cfg.DefaultDecay != 30*time.Second {
		t.Errorf("expected 30s default decay, got %v", cfg.DefaultDecay)
	}

	bg, _ := r.Lookup(types.TierBackground)
	if bg.Bounded() {
		t.Error("expected background tier to be unbounded")
	}
}

func TestRejectsNegativeCapacity(t *testing.T) {
	if _, err := New(map[types.Tier]Config{types.TierPrimary: {Capacity: -5}}); err == nil {
		t.Fatal("expected error for negative capacity")
	}
}
