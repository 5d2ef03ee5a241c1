package flow

import "github.com/lumenhud/lumen/backend/internal/shared/types"

// Tool and descriptor sets derived from the operating mode. The store copies
// these on commit so callers can never mutate the tables.
var modeTools = map[types.Mode][]string{
	types.ModeAmbient:  {"clock", "notifications", "quick_notes"},
	types.ModeFocus:    {"pomodoro", "task_list", "noise_shield"},
	types.ModeDeep:     {"pomodoro", "noise_shield", "do_not_disturb"},
	types.ModeRecovery: {"breath_pacer", "stretch_guide", "hydration_log"},
}

var modeDescriptors = map[types.Mode][]string{
	types.ModeAmbient:  {"ambient_status", "clock_widget"},
	types.ModeFocus:    {"focus_timer", "task_progress", "stamina_bar"},
	types.ModeDeep:     {"focus_timer", "distraction_count"},
	types.ModeRecovery: {"breath_pacer", "recovery_meter"},
}

func activeToolsFor(mode types.Mode) []string {
	return append([]string(nil), modeTools[mode]...)
}

func hudDescriptorsFor(mode types.Mode) []string {
	return append([]string(nil), modeDescriptors[mode]...)
}
