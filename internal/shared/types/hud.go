package types

import "time"

// Tier names a capacity-bounded category of concurrently active HUD entries.
// The set is closed; unrecognized tier names are rejected at the API boundary.
type Tier string

const (
	TierPrimary    Tier = "primary"
	TierSecondary  Tier = "secondary"
	TierOverlay    Tier = "overlay"
	TierEphemeral  Tier = "ephemeral"
	TierBackground Tier = "background"
)

// Tiers returns all valid tiers in display order.
func Tiers() []Tier {
	return []Tier{TierPrimary, TierSecondary, TierOverlay, TierEphemeral, TierBackground}
}

// Valid reports whether t is a member of the closed tier set.
func (t Tier) Valid() bool {
	switch t {
	case TierPrimary, TierSecondary, TierOverlay, TierEphemeral, TierBackground:
		return true
	}
	return false
}

// EvictReason records why an entry left its tier.
type EvictReason string

const (
	ReasonManual              EvictReason = "manual"
	ReasonPriorityReplacement EvictReason = "priority_replacement"
	ReasonDecay               EvictReason = "decay"
	ReasonPromotion           EvictReason = "promotion"
)

// RejectCapacity is the reject reason when a tier is full and the incoming
// priority does not strictly exceed the lowest resident priority.
const RejectCapacity = "capacity"

// DefaultPriority is assigned to spawn requests that carry no priority.
const DefaultPriority = 50

// Entry is one admitted unit occupying a tier slot.
type Entry struct {
	ID          string                 `json:"id"`
	Tier        Tier                   `json:"tier"`
	Kind        string                 `json:"kind"`
	Payload     interface{}            `json:"payload,omitempty"`
	Priority    int                    `json:"priority"`
	CreatedAt   time.Time              `json:"created_at"`
	LastTouched time.Time              `json:"last_touched"`
	Pinned      bool                   `json:"pinned"`
	TTL         *time.Duration         `json:"ttl,omitempty"`
	Meta        map[string]interface{} `json:"meta,omitempty"`
}

// SpawnRequest proposes a new entry for admission.
type SpawnRequest struct {
	ID       string                 `json:"id,omitempty"`
	Tier     Tier                   `json:"tier"`
	Kind     string                 `json:"kind"`
	Payload  interface{}            `json:"payload,omitempty"`
	Priority int                    `json:"priority"`
	TTL      *time.Duration         `json:"ttl,omitempty"`
	Pinned   bool                   `json:"pinned"`
	Meta     map[string]interface{} `json:"meta,omitempty"`
}

// SpawnResult reports the outcome of admission control.
type SpawnResult struct {
	Accepted bool   `json:"accepted"`
	Entry    *Entry `json:"entry,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Evicted  *Entry `json:"evicted,omitempty"`
}

// SlotMetrics are monotonic counters scoped to one allocator instance.
type SlotMetrics struct {
	Spawns    uint64 `json:"spawns"`
	Rejects   uint64 `json:"rejects"`
	Evictions uint64 `json:"evictions"`
}

// EntrySummary is the read-only projection of an entry in a snapshot.
type EntrySummary struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Priority  int       `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
	Pinned    bool      `json:"pinned"`
}

// Snapshot is a point-in-time projection of all tiers plus metrics.
// It shares no memory with allocator internals.
type Snapshot struct {
	Tiers   map[Tier][]EntrySummary `json:"tiers"`
	Metrics SlotMetrics             `json:"metrics"`
}
