package classify

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lumenhud/lumen/backend/internal/infrastructure/logging"
	"github.com/lumenhud/lumen/backend/internal/infrastructure/monitoring"
	"github.com/lumenhud/lumen/backend/internal/shared/types"
)

// Scoring weights. Task-tag matches dominate keyword matches so specific
// matches outrank generic ones.
const (
	tagWeight         = 10
	keywordWeight     = 3
	specificityWeight = 5
	jitterRange       = 3
	recencyCooldown   = 5 * time.Minute
	recencyPenalty    = 8
)

// Classifier turns an external signal into an ordered list of spawn
// proposals using a static rule table.
type Classifier struct {
	mu        sync.Mutex
	rules     []Rule
	lastFired map[string]time.Time // protected by mu
	clock     func() time.Time
	seed      func() int64
	monitor   *monitoring.Metrics
	logger    *logging.Logger
}

// New creates a classifier over the default rule table. Production calls
// draw a fresh random seed per classification.
func New() *Classifier {
	return &Classifier{
		rules:     defaultRules,
		lastFired: make(map[string]time.Time),
		clock:     time.Now,
		seed:      func() int64 { return time.Now().UnixNano() },
	}
}

// WithSeed fixes the per-call random seed. Test use only: classification is
// deterministic given identical inputs and a fixed seed.
func (c *Classifier) WithSeed(seed int64) *Classifier {
	c.seed = func() int64 { return seed }
	return c
}

// WithClock replaces the time source used for recency scoring.
func (c *Classifier) WithClock(clock func() time.Time) *Classifier {
	c.clock = clock
	return c
}

// WithMetrics adds Prometheus metrics tracking to the classifier.
func (c *Classifier) WithMetrics(m *monitoring.Metrics) *Classifier {
	c.monitor = m
	return c
}

// WithLogger adds structured logging to the classifier.
func (c *Classifier) WithLogger(l *logging.Logger) *Classifier {
	c.logger = l
	return c
}

// Classify matches the signal against the rule table and returns spawn
// proposals ordered by descending priority. An unmatched signal yields
// exactly one generic fallback proposal, never an empty list.
func (c *Classifier) Classify(signal types.Signal) []types.SpawnRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	rng := rand.New(rand.NewSource(c.seed()))
	intent := strings.ToLower(signal.IntentText)

	type scored struct {
		rule     Rule
		priority int
	}
	var matches []scored
	for _, rule := range c.rules {
		score, matched := c.score(rule, signal.TaskTag, intent, signal.Energy, now)
		if !matched {
			continue
		}
		matches = append(matches, scored{rule: rule, priority: score + rng.Intn(jitterRange)})
	}

	if len(matches) == 0 {
		if c.logger != nil {
			c.logger.Debug("No rule matched, using fallback",
				zap.String("task_tag", signal.TaskTag),
			)
		}
		matches = append(matches, scored{rule: fallbackRule, priority: fallbackRule.Base})
	}

	// Priority descending, rule id as deterministic secondary order.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].priority != matches[j].priority {
			return matches[i].priority > matches[j].priority
		}
		return matches[i].rule.ID < matches[j].rule.ID
	})

	proposals := make([]types.SpawnRequest, 0, len(matches))
	for _, m := range matches {
		c.lastFired[m.rule.ID] = now
		if c.monitor != nil {
			c.monitor.IncProposals(m.rule.ID)
		}
		proposals = append(proposals, c.proposal(m.rule, m.priority))
	}
	return proposals
}

// score computes a rule's priority for the signal. Caller must hold mu.
func (c *Classifier) score(rule Rule, taskTag, intent string, energy types.EnergySnapshot, now time.Time) (int, bool) {
	matched := false
	score := rule.Base + rule.Specificity*specificityWeight

	for _, tag := range rule.TaskTags {
		if tag == taskTag {
			matched = true
			score += tagWeight
			break
		}
	}
	for _, kw := range rule.Keywords {
		if intent != "" && strings.Contains(intent, kw) {
			matched = true
			score += keywordWeight
		}
	}
	if !matched {
		return 0, false
	}

	// Rules that fired recently lose priority so the HUD rotates content.
	if fired, ok := c.lastFired[rule.ID]; ok && now.Sub(fired) < recencyCooldown {
		score -= recencyPenalty
	}

	// Low energy favors recovery content, high energy favors everything else.
	avg := energy.Average()
	if isRecoveryRule(rule) {
		score += int((types.EnergyCeiling/2 - avg) / 10)
	} else {
		score += int((avg - types.EnergyCeiling/2) / 20)
	}

	return score, true
}

func (c *Classifier) proposal(rule Rule, priority int) types.SpawnRequest {
	req := types.SpawnRequest{
		Tier:     rule.Tier,
		Kind:     rule.Kind,
		Priority: priority,
		Pinned:   rule.Pinned,
		Meta:     map[string]interface{}{"rule": rule.ID},
	}
	if rule.TTL > 0 {
		ttl := rule.TTL
		req.TTL = &ttl
	}
	return req
}

func isRecoveryRule(rule Rule) bool {
	for _, tag := range rule.TaskTags {
		if tag == string(types.ModeRecovery) {
			return true
		}
	}
	return false
}
