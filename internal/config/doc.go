// Package config loads and merges the configd application configuration
// from environment variables, command-line flags, and an optional JSON
// file. Sources are merged with mergo in priority order (env wins, then
// flags, then file) and validated before use.
package config
