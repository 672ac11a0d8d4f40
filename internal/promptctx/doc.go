// Package promptctx accumulates human-readable descriptions of previously
// generated functions and constants, rendered as a prefix block on later
// generation prompts so the endpoint sees what already exists.
package promptctx
