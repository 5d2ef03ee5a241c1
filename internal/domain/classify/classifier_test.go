package classify

import (
	"testing"
	"time"

	"github.com/lumenhud/lumen/backend/internal/shared/types"
)

func midEnergy() types.EnergySnapshot {
	return types.EnergySnapshot{Stamina: 50, Clarity: 50, Momentum: 50}
}

func TestUnmatchedSignalYieldsFallback(t *testing.T) {
	c := New().WithSeed(1)

	proposals := c.Classify(types.Signal{
		TaskTag:    "unknown",
		IntentText: "zzz",
		Energy:     midEnergy(),
	})

	if len(proposals) != 1 {
		t.Fatalf("expected exactly one fallback proposal, got %d", len(proposals))
	}
	if proposals[0].Kind != fallbackRule.Kind {
		t.Errorf("expected fallback kind %s, got %s", fallbackRule.Kind, proposals[0].Kind)
	}
	if proposals[0].Priority != types.DefaultPriority {
		t.Errorf("fallback should carry default priority, got %d", proposals[0].Priority)
	}
}

func TestSpecificOutranksGeneric(t *testing.T) {
	c := New().WithSeed(1)

	proposals := c.Classify(types.Signal{
		TaskTag:    "deep",
		IntentText: "need to focus on the deadline",
		Energy:     midEnergy(),
	})

	if len(proposals) < 2 {
		t.Fatalf("expected multiple proposals for a deep-work signal, got %d", len(proposals))
	}
	if proposals[0].Kind != "focus_timer" {
		t.Errorf("most specific rule should lead, got %s", proposals[0].Kind)
	}
	for i := 1; i < len(proposals); i++ {
		if proposals[i].Priority > proposals[i-1].Priority {
			t.Errorf("proposals out of order at %d: %d > %d", i, proposals[i].Priority, proposals[i-1].Priority)
		}
	}
}

func TestDeterministicGivenSeed(t *testing.T) {
	signal := types.Signal{
		TaskTag:    "recovery",
		IntentText: "so tired, need a break",
		Energy:     types.EnergySnapshot{Stamina: 20, Clarity: 30, Momentum: 25},
	}

	a := New().WithSeed(42).Classify(signal)
	b := New().WithSeed(42).Classify(signal)

	if len(a) != len(b) {
		t.Fatalf("runs differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Priority != b[i].Priority {
			t.Errorf("proposal %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestRecencyLowersPriority(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := New().WithSeed(1).WithClock(func() time.Time { return now })

	signal := types.Signal{TaskTag: "meeting", Energy: midEnergy()}

	first := c.Classify(signal)
	second := c.Classify(signal)

	if len(first) == 0 || len(second) == 0 {
		t.Fatal("expected proposals on both runs")
	}
	if second[0].Priority >= first[0].Priority {
		t.Errorf("recently fired rule should lose priority: %d then %d",
			first[0].Priority, second[0].Priority)
	}

	// After the cooldown, the penalty disappears.
	now = now.Add(recencyCooldown + time.Second)
	third := c.Classify(signal)
	if third[0].Priority < first[0].Priority {
		t.Errorf("cooldown elapsed, priority should recover: %d vs %d",
			third[0].Priority, first[0].Priority)
	}
}

func TestLowEnergyBoostsRecoveryRules(t *testing.T) {
	signal := func(e types.EnergySnapshot) types.Signal {
		return types.Signal{TaskTag: "recovery", Energy: e}
	}

	low := New().WithSeed(1).Classify(signal(types.EnergySnapshot{Stamina: 10, Clarity: 10, Momentum: 10}))
	high := New().WithSeed(1).Classify(signal(types.EnergySnapshot{Stamina: 95, Clarity: 95, Momentum: 95}))

	if low[0].Priority <= high[0].Priority {
		t.Errorf("low energy should boost recovery proposals: low=%d high=%d",
			low[0].Priority, high[0].Priority)
	}
}

func TestProposalCarriesRulePolicy(t *testing.T) {
	c := New().WithSeed(1)

	proposals := c.Classify(types.Signal{TaskTag: "meeting", Energy: midEnergy()})

	if len(proposals) == 0 {
		t.Fatal("expected proposals")
	}
	p := proposals[0]
	if !p.Pinned {
		t.Error("meeting notes rule should produce a pinned proposal")
	}
	if p.Meta["rule"] != "meeting-notes" {
		t.Errorf("proposal meta should name the rule, got %v", p.Meta["rule"])
	}
}

func TestKeywordOnlyMatch(t *testing.T) {
	c := New().WithSeed(1)

	proposals := c.Classify(types.Signal{
		TaskTag:    "",
		IntentText: "I keep getting distracted by notifications",
		Energy:     midEnergy(),
	})

	found := false
	for _, p := range proposals {
		if p.Kind == "distraction_count" {
			found = true
			if p.TTL == nil || *p.TTL != 30*time.Second {
				t.Error("distraction proposal should carry the rule's TTL")
			}
		}
	}
	if !found {
		t.Error("keyword match should fire the distraction rule")
	}
}
