// Package config loads, normalizes, and validates the curator configuration.
// All matching thresholds and institution pattern lists live here so engine
// behavior is fully determined by its inputs.
package config
