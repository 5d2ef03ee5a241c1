package types

import "time"

// Mode is the operating mode driving tool and descriptor selection.
type Mode string

const (
	ModeAmbient  Mode = "ambient"
	ModeFocus    Mode = "focus"
	ModeDeep     Mode = "deep"
	ModeRecovery Mode = "recovery"
)

// Valid reports whether m is a recognized mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeAmbient, ModeFocus, ModeDeep, ModeRecovery:
		return true
	}
	return false
}

// EnergySnapshot is a simulated numeric state. Each dimension is bounded to
// [EnergyFloor, EnergyCeiling]; values carry no physical meaning beyond that
// documented range.
type EnergySnapshot struct {
	Stamina   float64   `json:"stamina"`
	Clarity   float64   `json:"clarity"`
	Momentum  float64   `json:"momentum"`
	SampledAt time.Time `json:"sampled_at"`
}

// Bounds of every energy dimension.
const (
	EnergyFloor   = 5.0
	EnergyCeiling = 100.0
)

// Average returns the mean of all energy dimensions.
func (e EnergySnapshot) Average() float64 {
	return (e.Stamina + e.Clarity + e.Momentum) / 3
}

// FlowState is the committed operating state. It is only ever replaced
// wholesale on commit; readers never observe a mix of two transitions.
type FlowState struct {
	Mode           Mode           `json:"mode"`
	Transitioning  bool           `json:"transitioning"`
	Energy         EnergySnapshot `json:"energy"`
	ActiveTools    []string       `json:"active_tools"`
	HUDDescriptors []string       `json:"hud_descriptors"`
	Sequence       uint64         `json:"sequence"`
}

// Signal is the external input to classification.
type Signal struct {
	TaskTag    string         `json:"task_tag"`
	IntentText string         `json:"intent_text"`
	Energy     EnergySnapshot `json:"energy"`
}
