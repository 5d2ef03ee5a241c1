// Package types provides shared data structures for the Lumen HUD backend.
//
// This package defines core types used across all backend components,
// ensuring type safety and consistent data structures.
//
// Core Types:
//   - Entry: An admitted HUD element occupying a tier slot
//   - SpawnRequest: A proposal to admit a new entry
//   - SpawnResult: Outcome of admission control
//   - Snapshot: Read-only projection of tiers plus metrics
//   - Descriptor: Fully specified HUD element ready for rendering
//
// State Management:
//   - Tier: Closed enum of capacity-bounded entry categories
//   - Mode: Operating mode enum (ambient, focus, deep, recovery)
//   - FlowState: Committed operating state with derived tool lists
//   - EnergySnapshot: Bounded simulated numeric state
//
// Example Usage:
//
//	req := types.SpawnRequest{
//	    Tier:     types.TierOverlay,
//	    Kind:     "focus_timer",
//	    Priority: 60,
//	}
package types
