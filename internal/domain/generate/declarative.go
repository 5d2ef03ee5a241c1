package generate

import (
	"fmt"
	"time"

	"github.com/lumenhud/lumen/backend/internal/shared/types"
)

// template describes how a kind of HUD element is rendered.
type template struct {
	metrics   []metricSpec
	placement types.Placement
	cadence   time.Duration
	guidance  string // fmt verb receives the average energy level
}

type metricSpec struct {
	name string
	unit string
	dim  func(types.EnergySnapshot) float64
}

var (
	staminaDim  = func(e types.EnergySnapshot) float64 { return e.Stamina }
	clarityDim  = func(e types.EnergySnapshot) float64 { return e.Clarity }
	momentumDim = func(e types.EnergySnapshot) float64 { return e.Momentum }
	averageDim  = func(e types.EnergySnapshot) float64 { return e.Average() }
)

// templates is the declarative library keyed by proposal kind.
var templates = map[string]template{
	"focus_timer": {
		metrics: []metricSpec{
			{name: "clarity", unit: "%", dim: clarityDim},
			{name: "momentum", unit: "%", dim: momentumDim},
		},
		placement: types.Placement{Region: "center", Anchor: "start"},
		cadence:   time.Second,
		guidance:  "Stay with the current block; clarity is at %.0f%%.",
	},
	"task_progress": {
		metrics: []metricSpec{
			{name: "momentum", unit: "%", dim: momentumDim},
		},
		placement: types.Placement{Region: "right", Anchor: "start"},
		cadence:   5 * time.Second,
		guidance:  "Momentum %.0f%%; keep tasks small and visible.",
	},
	"stamina_bar": {
		metrics: []metricSpec{
			{name: "stamina", unit: "%", dim: staminaDim},
		},
		placement: types.Placement{Region: "bottom", Anchor: "middle"},
		cadence:   10 * time.Second,
		guidance:  "Stamina %.0f%%; consider a short break when it dips.",
	},
	"breath_pacer": {
		metrics: []metricSpec{
			{name: "stamina", unit: "%", dim: staminaDim},
			{name: "overall", unit: "%", dim: averageDim},
		},
		placement: types.Placement{Region: "center", Anchor: "middle"},
		cadence:   500 * time.Millisecond,
		guidance:  "Follow the pacer; stamina %.0f%%.",
	},
	"quick_notes": {
		metrics:   nil,
		placement: types.Placement{Region: "left", Anchor: "start"},
		cadence:   30 * time.Second,
		guidance:  "Notes stay pinned through the session.",
	},
	"distraction_count": {
		metrics: []metricSpec{
			{name: "clarity", unit: "%", dim: clarityDim},
		},
		placement: types.Placement{Region: "top", Anchor: "end"},
		cadence:   2 * time.Second,
		guidance:  "Clarity %.0f%%; distractions are being tallied.",
	},
	"clock_widget": {
		placement: types.Placement{Region: "top", Anchor: "middle"},
		cadence:   time.Second,
		guidance:  "",
	},
	"hydration_log": {
		metrics: []metricSpec{
			{name: "stamina", unit: "%", dim: staminaDim},
		},
		placement: types.Placement{Region: "bottom", Anchor: "end"},
		cadence:   time.Minute,
		guidance:  "Log water intake; stamina %.0f%%.",
	},
}

// defaultTemplate renders kinds with no exact template key.
var defaultTemplate = template{
	metrics: []metricSpec{
		{name: "overall", unit: "%", dim: averageDim},
	},
	placement: types.Placement{Region: "bottom", Anchor: "start"},
	cadence:   15 * time.Second,
	guidance:  "Overall energy %.0f%%.",
}

// Declarative is the template-driven adapter. It optimizes for descriptive
// completeness and variety of the resulting descriptor.
type Declarative struct{}

// NewDeclarative creates the declarative adapter.
func NewDeclarative() *Declarative {
	return &Declarative{}
}

// Expand renders the proposal through its kind's template, falling back to
// the default template when no exact key exists.
func (d *Declarative) Expand(proposal types.SpawnRequest, energy types.EnergySnapshot) types.Descriptor {
	tpl, ok := templates[proposal.Kind]
	if !ok {
		tpl = defaultTemplate
	}

	metrics := make([]types.DisplayMetric, 0, len(tpl.metrics))
	for _, spec := range tpl.metrics {
		metrics = append(metrics, types.DisplayMetric{
			Name:  spec.name,
			Value: spec.dim(energy),
			Unit:  spec.unit,
		})
	}

	guidance := tpl.guidance
	if guidance != "" {
		guidance = fmt.Sprintf(tpl.guidance, firstMetricOrAverage(tpl, energy))
	}

	return types.Descriptor{
		ID:             descriptorID(proposal),
		Kind:           proposal.Kind,
		DisplayMetrics: metrics,
		Placement:      tpl.placement,
		UpdateCadence:  tpl.cadence,
		GuidanceText:   guidance,
	}
}

func firstMetricOrAverage(tpl template, energy types.EnergySnapshot) float64 {
	if len(tpl.metrics) > 0 {
		return tpl.metrics[0].dim(energy)
	}
	return energy.Average()
}
