// Package engine synthesizes function implementations and constant values on
// first use.
//
// Two usage modes exist. In immediate mode, Engine.Call derives a cache key
// from the runtime types of the actual arguments at every invocation; a new
// argument-type shape means a new artifact, generated and cached independently.
// In deferred mode, a Lazy set accumulates declared signatures and generates
// them all on a single explicit trigger, each declaration seeing its siblings'
// signatures as prompt context.
//
// Generated source is cached to disk through the store package and described
// to later prompts through the promptctx accumulator. Materialization goes
// through the Binder seam: generated source cannot be evaluated at runtime,
// so function artifacts resolve to compiled implementations the host program
// registered in the shared Namespace, while constant artifacts are parsed from
// the generated value assignment directly. Executing implementations that
// originate from unreviewed generated source remains a trust boundary the
// caller accepts.
package engine
