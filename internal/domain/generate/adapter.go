package generate

import "github.com/lumenhud/lumen/backend/internal/shared/types"

// Adapter expands a spawn proposal into a fully specified HUD descriptor.
// Implementations are pure functions of their inputs, so the
// classification → generation → admission chain is replayable in tests.
type Adapter interface {
	Expand(proposal types.SpawnRequest, energy types.EnergySnapshot) types.Descriptor
}

// descriptorID names the descriptor after the proposal when the proposal
// carries no id yet; the allocator assigns the canonical entry id on spawn.
func descriptorID(proposal types.SpawnRequest) string {
	if proposal.ID != "" {
		return proposal.ID
	}
	return proposal.Kind
}
