package pipeline

import (
	"go.uber.org/zap"

	"github.com/lumenhud/lumen/backend/internal/domain/classify"
	"github.com/lumenhud/lumen/backend/internal/domain/flow"
	"github.com/lumenhud/lumen/backend/internal/domain/generate"
	"github.com/lumenhud/lumen/backend/internal/domain/slots"
	"github.com/lumenhud/lumen/backend/internal/infrastructure/logging"
	"github.com/lumenhud/lumen/backend/internal/shared/types"
)

// Pipeline connects the flow store, classifier, generation adapter, and
// slot allocator. A committed mode change triggers classification, and each
// expanded proposal goes through admission.
type Pipeline struct {
	flow       *flow.Store
	classifier *classify.Classifier
	adapter    generate.Adapter
	slots      *slots.Allocator
	logger     *logging.Logger
}

// New wires a pipeline. The adapter decides how proposals become payloads.
func New(store *flow.Store, classifier *classify.Classifier, adapter generate.Adapter, allocator *slots.Allocator) *Pipeline {
	return &Pipeline{
		flow:       store,
		classifier: classifier,
		adapter:    adapter,
		slots:      allocator,
	}
}

// WithLogger adds structured logging to the pipeline.
func (p *Pipeline) WithLogger(l *logging.Logger) *Pipeline {
	p.logger = l
	return p
}

// Start subscribes to committed mode changes. The returned function stops
// the subscription.
func (p *Pipeline) Start() func() {
	return p.flow.Subscribe(
		func(st types.FlowState) interface{} { return st.Mode },
		func(st types.FlowState) {
			p.Dispatch(string(st.Mode), "")
		},
	)
}

// Dispatch classifies a signal against the current flow state, expands each
// proposal into a descriptor payload, and submits it for admission. Returns
// the admission results in proposal order.
func (p *Pipeline) Dispatch(taskTag, intentText string) []types.SpawnResult {
	state := p.flow.State()
	signal := types.Signal{
		TaskTag:    taskTag,
		IntentText: intentText,
		Energy:     state.Energy,
	}

	proposals := p.classifier.Classify(signal)
	results := make([]types.SpawnResult, 0, len(proposals))
	for _, proposal := range proposals {
		descriptor := p.adapter.Expand(proposal, state.Energy)
		proposal.Payload = descriptor

		res, err := p.slots.Spawn(proposal)
		if err != nil {
			if p.logger != nil {
				p.logger.Warn("Proposal dropped",
					zap.String("kind", proposal.Kind),
					zap.Error(err),
				)
			}
			continue
		}
		results = append(results, res)
	}
	return results
}
