// Package redact strips likely secrets from prompt text before it leaves the
// process for an external generation endpoint. Detection is heuristic, not a
// guarantee.
package redact
