package tier

import (
	"fmt"
	"time"

	"github.com/lumenhud/lumen/backend/internal/shared/types"
)

// Unbounded marks a tier without a capacity limit.
const Unbounded = -1

// ErrInvalidTier is returned for tier names outside the closed set.
var ErrInvalidTier = fmt.Errorf("invalid tier")

// Config is the static per-tier policy. Immutable once registered.
type Config struct {
	Capacity     int           `json:"capacity"` // Unbounded for no limit
	DefaultDecay time.Duration `json:"default_decay,omitempty"` // 0 means entries never decay by default
}

// Bounded reports whether the tier enforces a capacity limit.
func (c Config) Bounded() bool {
	return c.Capacity != Unbounded
}

// Registry holds the tier configuration for one allocator instance.
type Registry struct {
	configs map[types.Tier]Config
}

// New builds a registry from an explicit tier config map. Unknown tier
// names and negative bounded capacities are rejected.
func New(configs map[types.Tier]Config) (*Registry, error) {
	out := make(map[types.Tier]Config, len(configs))
	for t, cfg := range configs {
		if !t.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTier, t)
		}
		if cfg.Capacity < 0 && cfg.Capacity != Unbounded {
			return nil, fmt.Errorf("tier %s: capacity must be positive or Unbounded, got %d", t, cfg.Capacity)
		}
		out[t] = cfg
	}
	// Tiers absent from the map get no slots rather than silent admission.
	for _, t := range types.Tiers() {
		if _, ok := out[t]; !ok {
			out[t] = Config{Capacity: 0}
		}
	}
	return &Registry{configs: out}, nil
}

// Defaults returns the standard HUD tier layout.
func Defaults() *Registry {
	r, _ := New(map[types.Tier]Config{
		types.TierPrimary:    {Capacity: 3},
		types.TierSecondary:  {Capacity: 4},
		types.TierOverlay:    {Capacity: 2, DefaultDecay: 2 * time.Minute},
		types.TierEphemeral:  {Capacity: 3, DefaultDecay: 30 * time.Second},
		types.TierBackground: {Capacity: Unbounded},
	})
	return r
}

// Lookup resolves a tier's config, rejecting unrecognized names.
func (r *Registry) Lookup(t types.Tier) (Config, error) {
	cfg, ok := r.configs[t]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrInvalidTier, t)
	}
	return cfg, nil
}

// All returns a copy of the full tier config map.
func (r *Registry) All() map[types.Tier]Config {
	out := make(map[types.Tier]Config, len(r.configs))
	for t, cfg := range r.configs {
		out[t] = cfg
	}
	return out
}
