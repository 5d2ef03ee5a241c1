// Package ws streams committed allocator snapshots and flow states to
// rendering clients over WebSocket.
//
// Delivery is best-effort per connection: each client has a bounded
// outbound queue and a slow client drops intermediate updates rather than
// stalling the allocator or the flow store.
package ws
