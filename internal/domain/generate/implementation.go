package generate

import (
	"time"

	"github.com/lumenhud/lumen/backend/internal/shared/types"
)

// Cadence bounds for runtime-efficient descriptors.
const (
	minCadence = time.Second
	maxCadence = time.Minute
)

// Implementation is the efficiency-oriented adapter. It chooses update
// cadence bounds, flags candidate rendering optimizations, and computes
// derived "enhanced" metric values.
type Implementation struct{}

// NewImplementation creates the implementation adapter.
func NewImplementation() *Implementation {
	return &Implementation{}
}

// Expand builds a descriptor tuned for cheap rendering: cadence scales
// inversely with energy, low-energy descriptors get power-saving hints,
// and derived metrics are precomputed so the renderer does no math.
func (a *Implementation) Expand(proposal types.SpawnRequest, energy types.EnergySnapshot) types.Descriptor {
	avg := energy.Average()

	return types.Descriptor{
		ID:   descriptorID(proposal),
		Kind: proposal.Kind,
		DisplayMetrics: []types.DisplayMetric{
			{Name: "stamina", Value: energy.Stamina, Unit: "%"},
			{Name: "momentum_index", Value: energy.Momentum * energy.Clarity / types.EnergyCeiling, Unit: "pts", Enhanced: true},
			{Name: "fatigue", Value: types.EnergyCeiling - energy.Stamina, Unit: "%", Enhanced: true},
		},
		Placement:     placementFor(proposal.Tier),
		UpdateCadence: cadenceFor(avg),
		GuidanceText:  "",
		RenderHints:   hintsFor(avg, proposal),
	}
}

// cadenceFor slows updates as energy drops; a tired user does not need a
// fast-refreshing HUD. Bounded to [minCadence, maxCadence].
func cadenceFor(avg float64) time.Duration {
	scaled := time.Duration(float64(maxCadence) * (1 - avg/types.EnergyCeiling))
	if scaled < minCadence {
		return minCadence
	}
	if scaled > maxCadence {
		return maxCadence
	}
	return scaled
}

func placementFor(t types.Tier) types.Placement {
	switch t {
	case types.TierPrimary:
		return types.Placement{Region: "center", Anchor: "start"}
	case types.TierSecondary:
		return types.Placement{Region: "right", Anchor: "start"}
	case types.TierOverlay:
		return types.Placement{Region: "top", Anchor: "middle"}
	case types.TierEphemeral:
		return types.Placement{Region: "top", Anchor: "end"}
	default:
		return types.Placement{Region: "bottom", Anchor: "start"}
	}
}

func hintsFor(avg float64, proposal types.SpawnRequest) []string {
	hints := []string{"coalesce_updates"}
	if avg < 40 {
		hints = append(hints, "reduced_motion", "low_power")
	}
	if proposal.Pinned {
		hints = append(hints, "static_layout")
	}
	return hints
}
