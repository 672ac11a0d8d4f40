// Package config loads and persists conjure configuration.
//
// Effective configuration is built by layering: built-in defaults, then the
// JSON config file at the platform config directory, then CONJURE_* environment
// variables, then CLI flag overrides. The recognized inputs are the provider
// and model selection, an API key override, the artifact cache directory, the
// token budget, and logging/redaction controls.
package config
