// Package cli wires together the Cobra command tree for the conjure binary.
//
// It defines the root command and all subcommands (gen, const, config, cache,
// version), binds flags, reads configuration, invokes the generation engine,
// and returns deterministic exit codes for scripting.
package cli
