package flow

import (
	"math/rand"
	"sync"
	"time"

	"github.com/lumenhud/lumen/backend/internal/shared/types"
)

// EnergySource produces the next energy snapshot. The built-in source is a
// declared simulation, not measured telemetry; tests can substitute a
// deterministic fixture.
type EnergySource interface {
	Next(prev types.EnergySnapshot, mode types.Mode) types.EnergySnapshot
}

// maxStep bounds the per-tick random walk of each dimension.
const maxStep = 8.0

// modeBias drifts dimensions according to the operating mode.
var modeBias = map[types.Mode]struct{ stamina, clarity, momentum float64 }{
	types.ModeAmbient:  {0, 0, 0},
	types.ModeFocus:    {-1, 2, 3},
	types.ModeDeep:     {-3, 4, 2},
	types.ModeRecovery: {4, -1, -2},
}

// SimulatedSource is a bounded random-walk energy simulation.
type SimulatedSource struct {
	mu    sync.Mutex
	rng   *rand.Rand
	clock func() time.Time
}

// NewSimulatedSource creates a simulation seeded for reproducibility.
func NewSimulatedSource(seed int64) *SimulatedSource {
	return &SimulatedSource{
		rng:   rand.New(rand.NewSource(seed)),
		clock: time.Now,
	}
}

// Next advances every dimension by one bounded random-walk step biased by
// the mode, clamping to [EnergyFloor, EnergyCeiling].
func (s *SimulatedSource) Next(prev types.EnergySnapshot, mode types.Mode) types.EnergySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	bias := modeBias[mode]
	return types.EnergySnapshot{
		Stamina:   clamp(prev.Stamina + s.step() + bias.stamina),
		Clarity:   clamp(prev.Clarity + s.step() + bias.clarity),
		Momentum:  clamp(prev.Momentum + s.step() + bias.momentum),
		SampledAt: s.clock(),
	}
}

func (s *SimulatedSource) step() float64 {
	return (s.rng.Float64()*2 - 1) * maxStep
}

func clamp(v float64) float64 {
	if v < types.EnergyFloor {
		return types.EnergyFloor
	}
	if v > types.EnergyCeiling {
		return types.EnergyCeiling
	}
	return v
}
