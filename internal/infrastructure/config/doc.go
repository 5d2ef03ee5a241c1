// Package config provides environment-driven configuration for the HUD
// backend using kelseyhightower/envconfig. Variables carry a LUMEN_ prefix
// (LUMEN_PORT, LUMEN_TIER_CAPACITIES, ...); bare names also work.
//
// All settings have production defaults; tier capacities and decay windows
// are parsed from comma-separated key:value maps (a capacity of -1 means
// unbounded). Configuration is read once at startup and immutable for the
// lifetime of the process.
package config
