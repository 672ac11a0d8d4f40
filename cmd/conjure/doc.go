// Conjure is a CLI that synthesizes function implementations and constant
// values with LLM providers, caching generated source on disk.
//
// Declarations are described in a YAML manifest and generated as a batch,
// each seeing its siblings' signatures as shared context. Artifacts are keyed
// by signature, so repeat runs reuse cached source without an endpoint call.
//
// Usage:
//
//	conjure gen -f conjure.yaml       # generate everything in the manifest
//	conjure const GOLDEN_RATIO        # resolve a named constant
//	conjure cache show                # artifact store statistics
//	conjure cache clear               # drop all cached artifacts
//	conjure config init               # write a default config file
package main
