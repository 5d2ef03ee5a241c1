package flow

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lumenhud/lumen/backend/internal/infrastructure/logging"
	"github.com/lumenhud/lumen/backend/internal/infrastructure/monitoring"
	"github.com/lumenhud/lumen/backend/internal/shared/id"
	"github.com/lumenhud/lumen/backend/internal/shared/types"
)

// Selector projects the part of the state a subscriber cares about.
// Callbacks fire only when the projection's value changes.
type Selector func(types.FlowState) interface{}

// Callback receives the committed state.
type Callback func(types.FlowState)

// Store owns the operating mode and simulated energy state. Created once per
// session and mutated only through SetMode and UpdateEnergy; committed states
// are replaced wholesale so no reader observes fields from two transitions.
type Store struct {
	mu     sync.Mutex
	state  types.FlowState // protected by mu
	source EnergySource
	settle time.Duration

	subsMu sync.RWMutex
	subs   map[id.SubscriberID]*subscription

	monitor *monitoring.Metrics
	logger  *logging.Logger
}

type subscription struct {
	selector Selector
	callback Callback

	ch   chan types.FlowState
	done chan struct{}
	last interface{} // last projection delivered, owned by the delivery goroutine
}

// offer queues a committed state, replacing any undelivered one so the
// consumer always moves toward the newest commit.
func (sub *subscription) offer(state types.FlowState) {
	for {
		select {
		case sub.ch <- state:
			return
		default:
		}
		select {
		case <-sub.ch:
		default:
		}
	}
}

func (sub *subscription) run() {
	for {
		select {
		case state := <-sub.ch:
			val := sub.selector(state)
			if reflect.DeepEqual(val, sub.last) {
				continue
			}
			sub.last = val
			sub.callback(state)
		case <-sub.done:
			return
		}
	}
}

// New creates a store in ambient mode with mid-range energy.
func New(source EnergySource, settle time.Duration) *Store {
	s := &Store{
		source: source,
		settle: settle,
		subs:   make(map[id.SubscriberID]*subscription),
	}
	seed := types.EnergySnapshot{Stamina: 60, Clarity: 60, Momentum: 60, SampledAt: time.Now()}
	s.state = types.FlowState{
		Mode:           types.ModeAmbient,
		Energy:         source.Next(seed, types.ModeAmbient),
		ActiveTools:    activeToolsFor(types.ModeAmbient),
		HUDDescriptors: hudDescriptorsFor(types.ModeAmbient),
	}
	return s
}

// WithMetrics adds Prometheus metrics tracking to the store.
func (s *Store) WithMetrics(m *monitoring.Metrics) *Store {
	s.monitor = m
	return s
}

// WithLogger adds structured logging to the store.
func (s *Store) WithLogger(l *logging.Logger) *Store {
	s.logger = l
	return s
}

// SetMode starts a transition to a new mode. The derived state commits after
// the settling delay unless a newer SetMode call has superseded it, in which
// case the write is silently discarded.
func (s *Store) SetMode(mode types.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("invalid mode: %q", mode)
	}

	s.mu.Lock()
	s.state.Sequence++
	s.state.Transitioning = true
	candidate := types.FlowState{
		Mode:           mode,
		Energy:         s.source.Next(s.state.Energy, mode),
		ActiveTools:    activeToolsFor(mode),
		HUDDescriptors: hudDescriptorsFor(mode),
		Sequence:       s.state.Sequence,
	}
	s.mu.Unlock()

	go s.commitAfterSettle(candidate)
	return nil
}

// commitAfterSettle applies a transition unless it has been superseded.
func (s *Store) commitAfterSettle(candidate types.FlowState) {
	time.Sleep(s.settle)

	s.mu.Lock()
	if s.state.Sequence != candidate.Sequence {
		s.mu.Unlock()
		if s.monitor != nil {
			s.monitor.RecordTransition(false)
		}
		if s.logger != nil {
			s.logger.Debug("Transition superseded",
				zap.String("mode", string(candidate.Mode)),
				zap.Uint64("sequence", candidate.Sequence),
			)
		}
		return
	}
	s.state = candidate
	committed := s.stateLocked()
	s.mu.Unlock()

	if s.monitor != nil {
		s.monitor.RecordTransition(true)
		s.recordEnergy(committed.Energy)
	}
	if s.logger != nil {
		s.logger.Info("Mode committed",
			zap.String("mode", string(committed.Mode)),
			zap.Uint64("sequence", committed.Sequence),
		)
	}
	s.notify(committed)
}

// UpdateEnergy recomputes the energy snapshot without changing the mode.
// Intended to be driven by an external periodic caller.
func (s *Store) UpdateEnergy() {
	s.mu.Lock()
	s.state.Energy = s.source.Next(s.state.Energy, s.state.Mode)
	updated := s.stateLocked()
	s.mu.Unlock()

	if s.monitor != nil {
		s.recordEnergy(updated.Energy)
	}
	s.notify(updated)
}

// State returns a copy of the current state.
func (s *Store) State() types.FlowState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// stateLocked deep-copies the state. Caller must hold mu.
func (s *Store) stateLocked() types.FlowState {
	out := s.state
	out.ActiveTools = append([]string(nil), s.state.ActiveTools...)
	out.HUDDescriptors = append([]string(nil), s.state.HUDDescriptors...)
	return out
}

// Subscribe registers a change-driven subscriber. The selector's value is
// primed from the current state, so the callback fires only on subsequent
// changes to the projection. The returned function unsubscribes.
func (s *Store) Subscribe(selector Selector, callback Callback) func() {
	sub := &subscription{
		selector: selector,
		callback: callback,
		ch:       make(chan types.FlowState, 1),
		done:     make(chan struct{}),
		last:     selector(s.State()),
	}
	go sub.run()
	sid := id.NewSubscriberID()

	s.subsMu.Lock()
	s.subs[sid] = sub
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, sid)
		s.subsMu.Unlock()
		close(sub.done)
	}
}

// notify queues the committed state for every subscriber. Each subscriber's
// goroutine applies its selector and fires the callback only when the
// projection changed, so deliveries arrive in commit order and a stalled
// consumer never blocks the store.
func (s *Store) notify(state types.FlowState) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.offer(state)
	}
}

func (s *Store) recordEnergy(e types.EnergySnapshot) {
	s.monitor.SetEnergy("stamina", e.Stamina)
	s.monitor.SetEnergy("clarity", e.Clarity)
	s.monitor.SetEnergy("momentum", e.Momentum)
}
