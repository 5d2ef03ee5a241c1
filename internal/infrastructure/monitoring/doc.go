/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the HUD
backend, tracking HTTP requests, slot allocator activity, flow state
transitions, and system metrics.

# Features

- HTTP request metrics (latency, throughput)
- Slot allocator metrics (active slots per tier, spawns, rejects, evictions)
- Flow state metrics (committed and superseded transitions, energy levels)
- Classifier proposal metrics
- WebSocket connection metrics
- System metrics (uptime)

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record custom metrics
	metrics.SetSlotsActive("primary", 3)
	metrics.IncEvictions("decay")

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
