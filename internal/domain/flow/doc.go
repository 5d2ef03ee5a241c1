// Package flow provides the operating-mode state store for the HUD.
//
// The store owns the current mode and a simulated energy state. Mode changes
// transition through a settling delay guarded by a monotonic sequence number:
// a transition overtaken by a newer SetMode call is silently discarded, so
// committed states are always internally consistent.
//
// Key Components:
//   - Store: Single-owner state with SetMode / UpdateEnergy / Subscribe
//   - EnergySource: Injectable numeric-state provider
//   - SimulatedSource: Bounded random-walk simulation biased per mode
//
// The energy values are a declared simulation bounded to [floor, 100];
// collaborators must not infer physical meaning beyond that range.
package flow
