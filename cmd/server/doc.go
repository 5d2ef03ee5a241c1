// Package main is the entry point for the Lumen HUD backend server.
//
// This application manages the lifecycle of HUD components for a desktop
// overlay client, coordinating slot allocation, flow state, and context
// classification behind a single HTTP surface.
//
// The server provides:
//   - REST API for component spawning, eviction, promotion, and pruning
//   - WebSocket streaming of slot snapshots and flow state
//   - Context classification driving automatic component proposals
//   - Prometheus metrics
//   - Rate limiting and CORS
//
// Configuration:
//   - Environment variables (12-factor, LUMEN_ prefix)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	./server -port 8400
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
