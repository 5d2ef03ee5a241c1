package slots

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lumenhud/lumen/backend/internal/domain/tier"
	"github.com/lumenhud/lumen/backend/internal/shared/types"
)

func TestSubscriberReceivesCommittedChanges(t *testing.T) {
	a, _ := newTestAllocator(t, map[types.Tier]tier.Config{
		types.TierPrimary: {Capacity: 2},
	})

	got := make(chan types.Snapshot, 8)
	unsubscribe := a.Subscribe(func(snap types.Snapshot) {
		got <- snap
	})
	defer unsubscribe()

	mustSpawn(t, a, types.SpawnRequest{Tier: types.TierPrimary, Kind: "gauge"})

	select {
	case snap := <-got:
		if len(snap.Tiers[types.TierPrimary]) != 1 {
			t.Errorf("expected 1 entry in snapshot, got %d", len(snap.Tiers[types.TierPrimary]))
		}
	case <-time.After(time.Second):
		t.Fatal("no notification after spawn")
	}
}

func TestRejectedSpawnDoesNotNotify(t *testing.T) {
	a, _ := newTestAllocator(t, map[types.Tier]tier.Config{
		types.TierPrimary: {Capacity: 1},
	})
	mustSpawn(t, a, types.SpawnRequest{Tier: types.TierPrimary, Kind: "gauge", Priority: 80})

	var count int32
	defer a.Subscribe(func(types.Snapshot) { atomic.AddInt32(&count, 1) })()

	a.Spawn(types.SpawnRequest{Tier: types.TierPrimary, Kind: "gauge", Priority: 10})

	time.Sleep(50 * time.Millisecond)
	if n := atomic.LoadInt32(&count); n != 0 {
		t.Errorf("rejected spawn must not publish, got %d notifications", n)
	}
}

func TestSlowSubscriberDoesNotBlockAllocator(t *testing.T) {
	a, _ := newTestAllocator(t, map[types.Tier]tier.Config{
		types.TierPrimary: {Capacity: 8},
	})

	stall := make(chan struct{})
	defer a.Subscribe(func(types.Snapshot) { <-stall })()
	defer close(stall)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			a.Spawn(types.SpawnRequest{Tier: types.TierPrimary, Kind: "gauge"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stalled subscriber blocked the allocator")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	n := NewNotifier()

	var count int32
	unsubscribe := n.Subscribe(func(types.Snapshot) { atomic.AddInt32(&count, 1) })

	n.Publish(types.Snapshot{})
	time.Sleep(20 * time.Millisecond)
	unsubscribe()
	n.Publish(types.Snapshot{})
	time.Sleep(20 * time.Millisecond)

	if got := atomic.LoadInt32(&count); got != 1 {
		t.Errorf("expected exactly 1 delivery, got %d", got)
	}
	if n.Len() != 0 {
		t.Errorf("expected no subscribers after unsubscribe, got %d", n.Len())
	}
}

func TestDeliveriesArriveInPublishOrder(t *testing.T) {
	n := NewNotifier()

	var mu sync.Mutex
	var seen []uint64
	defer n.Subscribe(func(snap types.Snapshot) {
		mu.Lock()
		seen = append(seen, snap.Metrics.Spawns)
		mu.Unlock()
	})()

	const total = 500
	for i := 1; i <= total; i++ {
		n.Publish(types.Snapshot{Metrics: types.SlotMetrics{Spawns: uint64(i)}})
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		done := len(seen) > 0 && seen[len(seen)-1] == total
		mu.Unlock()
		if done {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("subscriber never observed the final snapshot")
		}
		time.Sleep(time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(seen); i++ {
		if seen[i] <= seen[i-1] {
			t.Fatalf("out-of-order delivery at %d: %d after %d", i, seen[i], seen[i-1])
		}
	}
}
