// Package generate expands spawn proposals into renderable HUD descriptors.
//
// Two cooperating adapters implement the same pure Expand function:
//   - Declarative: keyed template library by kind with a default fallback,
//     optimizing descriptive completeness and variety
//   - Implementation: cadence bounds, rendering-optimization hints, and
//     derived enhanced metrics, optimizing descriptor runtime efficiency
//
// Adapters hold no mutable state, so expansion is replayable in tests.
package generate
