package classify

import (
	"time"

	"github.com/lumenhud/lumen/backend/internal/shared/types"
)

// Rule maps a signal pattern to a spawn proposal. Task tags match exactly
// and score higher than intent keywords; Specificity orders proposals when
// several rules fire for the same signal.
type Rule struct {
	ID          string
	Kind        string
	Tier        types.Tier
	TaskTags    []string
	Keywords    []string
	Specificity int // 0 = generic, higher = more specific
	Base        int // base priority before adjustments
	Pinned      bool
	TTL         time.Duration // 0 means no explicit TTL
}

// fallbackRule fires when nothing else matches, so classification never
// yields an empty list.
var fallbackRule = Rule{
	ID:   "generic-context",
	Kind: "context_card",
	Tier: types.TierBackground,
	Base: types.DefaultPriority,
}

// defaultRules is the static rule table. Ordering is irrelevant; proposals
// are sorted by computed priority.
var defaultRules = []Rule{
	{
		ID:          "deep-work-timer",
		Kind:        "focus_timer",
		Tier:        types.TierPrimary,
		TaskTags:    []string{"deep", "focus"},
		Keywords:    []string{"concentrate", "focus", "deadline"},
		Specificity: 3,
		Base:        70,
	},
	{
		ID:          "task-progress",
		Kind:        "task_progress",
		Tier:        types.TierSecondary,
		TaskTags:    []string{"focus", "deep"},
		Keywords:    []string{"task", "progress", "todo"},
		Specificity: 2,
		Base:        60,
	},
	{
		ID:          "stamina-warning",
		Kind:        "stamina_bar",
		Tier:        types.TierOverlay,
		TaskTags:    []string{"recovery"},
		Keywords:    []string{"tired", "exhausted", "break"},
		Specificity: 3,
		Base:        65,
		TTL:         2 * time.Minute,
	},
	{
		ID:          "breath-pacer",
		Kind:        "breath_pacer",
		Tier:        types.TierOverlay,
		TaskTags:    []string{"recovery"},
		Keywords:    []string{"breathe", "calm", "stress"},
		Specificity: 2,
		Base:        55,
		TTL:         90 * time.Second,
	},
	{
		ID:          "meeting-notes",
		Kind:        "quick_notes",
		Tier:        types.TierSecondary,
		TaskTags:    []string{"meeting"},
		Keywords:    []string{"meeting", "call", "standup"},
		Specificity: 3,
		Base:        60,
		Pinned:      true,
	},
	{
		ID:          "ambient-clock",
		Kind:        "clock_widget",
		Tier:        types.TierBackground,
		TaskTags:    []string{"ambient"},
		Specificity: 1,
		Base:        40,
	},
	{
		ID:          "distraction-toast",
		Kind:        "distraction_count",
		Tier:        types.TierEphemeral,
		TaskTags:    []string{"deep"},
		Keywords:    []string{"distracted", "notification"},
		Specificity: 2,
		Base:        45,
		TTL:         30 * time.Second,
	},
	{
		ID:          "hydration-nudge",
		Kind:        "hydration_log",
		Tier:        types.TierEphemeral,
		TaskTags:    []string{"recovery", "ambient"},
		Keywords:    []string{"water", "hydrate"},
		Specificity: 1,
		Base:        35,
		TTL:         time.Minute,
	},
}
