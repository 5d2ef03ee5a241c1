package types

import "time"

// DisplayMetric is one value rendered inside a HUD element.
type DisplayMetric struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit,omitempty"`
	Enhanced bool    `json:"enhanced,omitempty"` // derived rather than sourced
}

// Placement positions a HUD element on screen.
type Placement struct {
	Region string `json:"region"` // "top", "bottom", "left", "right", "center"
	Anchor string `json:"anchor"` // "start", "middle", "end"
}

// Descriptor is a fully specified HUD element ready for rendering.
type Descriptor struct {
	ID             string          `json:"id"`
	Kind           string          `json:"kind"`
	DisplayMetrics []DisplayMetric `json:"display_metrics"`
	Placement      Placement       `json:"placement"`
	UpdateCadence  time.Duration   `json:"update_cadence"`
	GuidanceText   string          `json:"guidance_text,omitempty"`
	RenderHints    []string        `json:"render_hints,omitempty"`
}
