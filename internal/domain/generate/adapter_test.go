package generate

import (
	"reflect"
	"testing"
	"time"

	"github.com/lumenhud/lumen/backend/internal/shared/types"
)

func testEnergy() types.EnergySnapshot {
	return types.EnergySnapshot{Stamina: 80, Clarity: 60, Momentum: 40}
}

func TestDeclarativeUsesKindTemplate(t *testing.T) {
	d := NewDeclarative()

	desc := d.Expand(types.SpawnRequest{Kind: "focus_timer", Tier: types.TierPrimary}, testEnergy())

	if desc.Kind != "focus_timer" {
		t.Errorf("expected kind focus_timer, got %s", desc.Kind)
	}
	if desc.Placement.Region != "center" {
		t.Errorf("expected center placement, got %s", desc.Placement.Region)
	}
	if desc.UpdateCadence != time.Second {
		t.Errorf("expected 1s cadence, got %v", desc.UpdateCadence)
	}
	if len(desc.DisplayMetrics) != 2 {
		t.Fatalf("expected 2 metrics, got %d", len(desc.DisplayMetrics))
	}
	if desc.DisplayMetrics[0].Name != "clarity" || desc.DisplayMetrics[0].Value != 60 {
		t.Errorf("unexpected first metric: %+v", desc.DisplayMetrics[0])
	}
	if desc.GuidanceText == "" {
		t.Error("declarative descriptors should carry guidance text")
	}
}

func TestDeclarativeFallsBackToDefaultTemplate(t *testing.T) {
	d := NewDeclarative()

	desc := d.Expand(types.SpawnRequest{Kind: "never_seen_before"}, testEnergy())

	if desc.Kind != "never_seen_before" {
		t.Errorf("descriptor must keep the proposal kind, got %s", desc.Kind)
	}
	if len(desc.DisplayMetrics) != 1 || desc.DisplayMetrics[0].Name != "overall" {
		t.Errorf("expected the default overall metric, got %+v", desc.DisplayMetrics)
	}
}

func TestImplementationComputesEnhancedMetrics(t *testing.T) {
	a := NewImplementation()

	desc := a.Expand(types.SpawnRequest{Kind: "stamina_bar", Tier: types.TierOverlay}, testEnergy())

	var enhanced int
	for _, m := range desc.DisplayMetrics {
		if m.Enhanced {
			enhanced++
		}
		if m.Name == "momentum_index" && m.Value != 40*60/types.EnergyCeiling {
			t.Errorf("wrong momentum_index: %f", m.Value)
		}
		if m.Name == "fatigue" && m.Value != 20 {
			t.Errorf("wrong fatigue: %f", m.Value)
		}
	}
	if enhanced != 2 {
		t.Errorf("expected 2 enhanced metrics, got %d", enhanced)
	}
}

func TestImplementationCadenceBounds(t *testing.T) {
	a := NewImplementation()

	low := a.Expand(types.SpawnRequest{Kind: "x"}, types.EnergySnapshot{Stamina: 5, Clarity: 5, Momentum: 5})
	high := a.Expand(types.SpawnRequest{Kind: "x"}, types.EnergySnapshot{Stamina: 100, Clarity: 100, Momentum: 100})

	if low.UpdateCadence < minCadence || low.UpdateCadence > maxCadence {
		t.Errorf("low-energy cadence out of bounds: %v", low.UpdateCadence)
	}
	if high.UpdateCadence != minCadence {
		t.Errorf("full energy should hit the minimum cadence, got %v", high.UpdateCadence)
	}
	if low.UpdateCadence <= high.UpdateCadence {
		t.Error("lower energy must slow the update cadence")
	}
}

func TestImplementationHints(t *testing.T) {
	a := NewImplementation()

	tired := a.Expand(types.SpawnRequest{Kind: "x", Pinned: true},
		types.EnergySnapshot{Stamina: 10, Clarity: 10, Momentum: 10})

	want := map[string]bool{"coalesce_updates": false, "reduced_motion": false, "low_power": false, "static_layout": false}
	for _, h := range tired.RenderHints {
		want[h] = true
	}
	for hint, seen := range want {
		if !seen {
			t.Errorf("expected hint %s for a tired pinned descriptor", hint)
		}
	}
}

func TestAdaptersArePure(t *testing.T) {
	proposal := types.SpawnRequest{ID: "ent_1", Kind: "focus_timer", Tier: types.TierPrimary}
	energy := testEnergy()

	for name, adapter := range map[string]Adapter{
		"declarative":    NewDeclarative(),
		"implementation": NewImplementation(),
	} {
		first := adapter.Expand(proposal, energy)
		second := adapter.Expand(proposal, energy)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("%s adapter is not pure: %+v vs %+v", name, first, second)
		}
	}
}
