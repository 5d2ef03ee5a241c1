package slots

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lumenhud/lumen/backend/internal/domain/tier"
	"github.com/lumenhud/lumen/backend/internal/infrastructure/logging"
	"github.com/lumenhud/lumen/backend/internal/infrastructure/monitoring"
	"github.com/lumenhud/lumen/backend/internal/shared/id"
	"github.com/lumenhud/lumen/backend/internal/shared/types"
)

var (
	// ErrNotFound is returned when an operation targets an unknown entry id.
	ErrNotFound = errors.New("entry not found")
)

// RejectDuplicateID is the reject reason when a spawn reuses an active id.
const RejectDuplicateID = "duplicate_id"

// Clock supplies the current time; injectable for deterministic tests.
type Clock func() time.Time

// Allocator owns all active entries and enforces tier admission control.
// All public operations are serialized by a single mutex so the capacity
// invariant holds under concurrent spawns.
type Allocator struct {
	mu       sync.Mutex
	tiers    *tier.Registry
	entries  map[types.Tier][]*types.Entry // insertion order per tier, protected by mu
	index    map[string]*types.Entry       // protected by mu
	metrics  types.SlotMetrics             // protected by mu
	clock    Clock
	notifier *Notifier
	monitor  *monitoring.Metrics
	logger   *logging.Logger
}

// New creates an allocator over the given tier registry.
func New(registry *tier.Registry) *Allocator {
	a := &Allocator{
		tiers:    registry,
		entries:  make(map[types.Tier][]*types.Entry),
		index:    make(map[string]*types.Entry),
		clock:    time.Now,
		notifier: NewNotifier(),
	}
	for t := range registry.All() {
		a.entries[t] = nil
	}
	return a
}

// WithMetrics adds Prometheus metrics tracking to the allocator.
func (a *Allocator) WithMetrics(m *monitoring.Metrics) *Allocator {
	a.monitor = m
	return a
}

// WithLogger adds structured logging to the allocator.
func (a *Allocator) WithLogger(l *logging.Logger) *Allocator {
	a.logger = l
	return a
}

// WithClock replaces the time source. Test use only.
func (a *Allocator) WithClock(c Clock) *Allocator {
	a.clock = c
	return a
}

// Subscribe registers a snapshot subscriber; the returned function removes it.
// Subscribers receive the full snapshot on every committed change.
func (a *Allocator) Subscribe(fn Subscriber) func() {
	return a.notifier.Subscribe(fn)
}

// Spawn runs admission control for a request. A full tier admits the request
// only by evicting a resident with strictly lower priority; ties keep the
// resident. An unrecognized tier is rejected outright.
func (a *Allocator) Spawn(req types.SpawnRequest) (types.SpawnResult, error) {
	cfg, err := a.tiers.Lookup(req.Tier)
	if err != nil {
		if a.logger != nil {
			a.logger.Warn("Spawn rejected: unknown tier", zap.String("tier", string(req.Tier)))
		}
		return types.SpawnResult{}, err
	}

	a.mu.Lock()
	res := a.spawnLocked(req, cfg, a.clock())
	a.mu.Unlock()

	if res.Accepted {
		a.publish()
	}
	return res, nil
}

// spawnLocked performs admission. Caller must hold mu.
func (a *Allocator) spawnLocked(req types.SpawnRequest, cfg tier.Config, now time.Time) types.SpawnResult {
	if req.ID == "" {
		req.ID = id.NewEntryID().String()
	}
	if req.Priority == 0 {
		req.Priority = types.DefaultPriority
	}

	if _, exists := a.index[req.ID]; exists {
		a.metrics.Rejects++
		if a.monitor != nil {
			a.monitor.IncRejects(RejectDuplicateID)
		}
		return types.SpawnResult{Accepted: false, Reason: RejectDuplicateID}
	}

	var evicted *types.Entry
	if cfg.Bounded() && len(a.entries[req.Tier]) >= cfg.Capacity {
		victim := a.preemptionVictim(req.Tier)
		if victim == nil || req.Priority <= victim.Priority {
			a.metrics.Rejects++
			if a.monitor != nil {
				a.monitor.IncRejects(types.RejectCapacity)
			}
			return types.SpawnResult{Accepted: false, Reason: types.RejectCapacity}
		}
		victimCopy := *victim
		a.removeLocked(victim, types.ReasonPriorityReplacement)
		evicted = &victimCopy
	}

	entry := &types.Entry{
		ID:          req.ID,
		Tier:        req.Tier,
		Kind:        req.Kind,
		Payload:     req.Payload,
		Priority:    req.Priority,
		CreatedAt:   now,
		LastTouched: now,
		Pinned:      req.Pinned,
		TTL:         req.TTL,
		Meta:        copyMeta(req.Meta),
	}
	a.entries[req.Tier] = append(a.entries[req.Tier], entry)
	a.index[entry.ID] = entry
	a.metrics.Spawns++

	if a.monitor != nil {
		a.monitor.IncSpawns()
		a.monitor.SetSlotsActive(string(req.Tier), len(a.entries[req.Tier]))
	}
	if a.logger != nil {
		a.logger.Debug("Entry admitted",
			zap.String("id", entry.ID),
			zap.String("tier", string(entry.Tier)),
			zap.Int("priority", entry.Priority),
		)
	}

	entryCopy := *entry
	return types.SpawnResult{Accepted: true, Entry: &entryCopy, Evicted: evicted}
}

// preemptionVictim returns the lowest-priority resident of a full tier,
// oldest first among equals. Caller must hold mu.
func (a *Allocator) preemptionVictim(t types.Tier) *types.Entry {
	var victim *types.Entry
	for _, e := range a.entries[t] {
		if victim == nil ||
			e.Priority < victim.Priority ||
			(e.Priority == victim.Priority && e.CreatedAt.Before(victim.CreatedAt)) {
			victim = e
		}
	}
	return victim
}

// Touch refreshes an entry's lastTouched timestamp. It never resets the
// creation time, so TTL decay is unaffected.
func (a *Allocator) Touch(entryID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	e, ok := a.index[entryID]
	if !ok {
		return false
	}
	e.LastTouched = a.clock()
	return true
}

// Get retrieves a copy of an active entry.
func (a *Allocator) Get(entryID string) (*types.Entry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	e, ok := a.index[entryID]
	if !ok {
		return nil, false
	}
	entryCopy := *e
	return &entryCopy, true
}

// Evict removes an entry. Idempotent: repeated calls on a removed id are
// no-ops and the evictions counter increments at most once per entry.
func (a *Allocator) Evict(entryID string, reason types.EvictReason) bool {
	a.mu.Lock()
	e, ok := a.index[entryID]
	if !ok {
		a.mu.Unlock()
		return false
	}
	a.removeLocked(e, reason)
	a.mu.Unlock()

	a.publish()
	return true
}

// Prune sweeps all tiers, removing non-pinned entries whose age exceeds
// their effective TTL (explicit TTL, else the tier default, else never).
// Must be driven by an external scheduler; the allocator owns no timers.
func (a *Allocator) Prune() int {
	now := a.clock()

	a.mu.Lock()
	var expired []*types.Entry
	for t, list := range a.entries {
		cfg, err := a.tiers.Lookup(t)
		if err != nil {
			continue
		}
		for _, e := range list {
			if e.Pinned {
				continue
			}
			ttl := effectiveTTL(e, cfg)
			if ttl > 0 && now.Sub(e.CreatedAt) > ttl {
				expired = append(expired, e)
			}
		}
	}
	for _, e := range expired {
		a.removeLocked(e, types.ReasonDecay)
	}
	a.mu.Unlock()

	if len(expired) > 0 {
		a.publish()
	}
	return len(expired)
}

// Promote moves an entry to another tier by removing it from its source and
// re-running admission against the target. At-most-once: if the target
// rejects, the entry is lost rather than duplicated or restored.
func (a *Allocator) Promote(entryID string, target types.Tier) (types.SpawnResult, error) {
	cfg, err := a.tiers.Lookup(target)
	if err != nil {
		return types.SpawnResult{}, err
	}

	a.mu.Lock()
	e, ok := a.index[entryID]
	if !ok {
		a.mu.Unlock()
		return types.SpawnResult{}, fmt.Errorf("%w: %s", ErrNotFound, entryID)
	}

	req := types.SpawnRequest{
		ID:       e.ID,
		Tier:     target,
		Kind:     e.Kind,
		Payload:  e.Payload,
		Priority: e.Priority,
		TTL:      e.TTL,
		Pinned:   e.Pinned,
		Meta:     e.Meta,
	}
	a.removeLocked(e, types.ReasonPromotion)
	res := a.spawnLocked(req, cfg, a.clock())
	a.mu.Unlock()

	if !res.Accepted && a.logger != nil {
		a.logger.Warn("Promotion lost entry at target admission",
			zap.String("id", entryID),
			zap.String("target", string(target)),
			zap.String("reason", res.Reason),
		)
	}

	a.publish()
	return res, nil
}

// Snapshot returns a read-only projection of all tiers plus metrics.
// The result shares no memory with allocator internals.
func (a *Allocator) Snapshot() types.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *Allocator) snapshotLocked() types.Snapshot {
	snap := types.Snapshot{
		Tiers:   make(map[types.Tier][]types.EntrySummary, len(a.entries)),
		Metrics: a.metrics,
	}
	for t, list := range a.entries {
		summaries := make([]types.EntrySummary, 0, len(list))
		for _, e := range list {
			summaries = append(summaries, types.EntrySummary{
				ID:        e.ID,
				Kind:      e.Kind,
				Priority:  e.Priority,
				CreatedAt: e.CreatedAt,
				Pinned:    e.Pinned,
			})
		}
		snap.Tiers[t] = summaries
	}
	return snap
}

// Metrics returns the allocator's monotonic counters.
func (a *Allocator) Metrics() types.SlotMetrics {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.metrics
}

// removeLocked detaches an entry and counts the eviction. Caller must hold mu.
func (a *Allocator) removeLocked(e *types.Entry, reason types.EvictReason) {
	list := a.entries[e.Tier]
	for i, candidate := range list {
		if candidate.ID == e.ID {
			a.entries[e.Tier] = append(list[:i], list[i+1:]...)
			break
		}
	}
	delete(a.index, e.ID)
	a.metrics.Evictions++

	if a.monitor != nil {
		a.monitor.IncEvictions(string(reason))
		a.monitor.SetSlotsActive(string(e.Tier), len(a.entries[e.Tier]))
	}
	if a.logger != nil {
		a.logger.Debug("Entry evicted",
			zap.String("id", e.ID),
			zap.String("tier", string(e.Tier)),
			zap.String("reason", string(reason)),
		)
	}
}

// publish fans out the current snapshot to subscribers. Never called while
// holding mu.
func (a *Allocator) publish() {
	a.mu.Lock()
	snap := a.snapshotLocked()
	a.mu.Unlock()
	a.notifier.Publish(snap)
}

func effectiveTTL(e *types.Entry, cfg tier.Config) time.Duration {
	if e.TTL != nil {
		return *e.TTL
	}
	return cfg.DefaultDecay
}

func copyMeta(meta map[string]interface{}) map[string]interface{} {
	if meta == nil {
		return nil
	}
	out := make(map[string]interface{}, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
