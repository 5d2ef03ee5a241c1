// Package slots provides tiered slot allocation for HUD entries.
//
// This package mediates between an unbounded stream of spawn requests and a
// strictly capacity-limited set of active slots, enforcing admission control,
// priority-based preemption, time-based decay, pinning, and tier promotion.
//
// Key Components:
//   - Allocator: Central entry lifecycle coordinator
//   - Notifier: Snapshot fan-out to rendering subscribers
//   - Admission control with strict-greater priority preemption
//   - FIFO-within-priority tie-break for preemption victims
//
// Policies:
//   - A tier's active entry count never exceeds its capacity
//   - Pinned entries count toward capacity but never decay
//   - Evict is idempotent; the evictions counter increments once per entry
//   - Promote is at-most-once: a rejected target admission loses the entry
//
// Example Usage:
//
//	alloc := slots.New(tier.Defaults())
//	res, err := alloc.Spawn(types.SpawnRequest{
//	    Tier: types.TierOverlay,
//	    Kind: "focus_timer",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer alloc.Evict(res.Entry.ID, types.ReasonManual)
package slots
