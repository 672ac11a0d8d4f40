package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Value is anything a namespace can hold: a callable implementation or a
// constant value.
type Value = any

// Fn is the calling convention for materialized implementations: positional
// arguments plus optional keyword arguments.
type Fn func(args []any, kwargs map[string]any) (any, error)

// Namespace is the shared mutable name→value mapping generated definitions
// resolve against. It is supplied by the caller (or defaulted to a fresh empty
// one) and mutated across generate/load calls, so name collisions between
// artifacts are possible and unguarded.
type Namespace map[string]Value

// NewNamespace returns an empty namespace.
func NewNamespace() Namespace {
	return make(Namespace)
}

// Register binds a name. An existing binding is silently replaced.
func (ns Namespace) Register(name string, v Value) {
	ns[name] = v
}

// RegisterFn binds a callable implementation by name.
func (ns Namespace) RegisterFn(name string, fn Fn) {
	ns[name] = fn
}

// Lookup returns the binding for name.
func (ns Namespace) Lookup(name string) (Value, bool) {
	v, ok := ns[name]
	return v, ok
}

var (
	// ErrNotBound reports that the target name had no binding after loading
	// an artifact.
	ErrNotBound = errors.New("name not bound after load")
	// ErrNotCallable reports that a bound value cannot be invoked.
	ErrNotCallable = errors.New("bound value is not callable")
)

// Binder materializes a value for a target name from generated source text.
//
// Source text cannot be evaluated at runtime here; artifacts are compiled into
// the host program offline and looked up by identifier instead. A Binder is
// the seam where that lookup happens.
type Binder interface {
	Bind(ns Namespace, source, name string) (Value, error)
}

// RegistryBinder resolves the target name against the namespace: the cached
// source is the record of what was generated, the namespace holds the compiled
// implementation the host registered for it.
type RegistryBinder struct{}

func (RegistryBinder) Bind(ns Namespace, source, name string) (Value, error) {
	v, ok := ns.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotBound, name)
	}
	return v, nil
}

// ErrNotLinked reports a call on an artifact that was generated but has no
// compiled implementation registered in this process.
var ErrNotLinked = errors.New("no compiled implementation registered")

// PipelineBinder serves offline codegen runs: it accepts generated source
// without requiring a host-registered implementation, so a process whose only
// job is producing artifacts can finish a batch. A registered implementation
// is still preferred when the namespace holds one; otherwise the returned
// callable fails with ErrNotLinked if invoked.
type PipelineBinder struct{}

func (PipelineBinder) Bind(ns Namespace, source, name string) (Value, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("empty source for %s", name)
	}
	if v, ok := ns.Lookup(name); ok {
		return v, nil
	}
	return Fn(func(args []any, kwargs map[string]any) (any, error) {
		return nil, fmt.Errorf("%w: %s", ErrNotLinked, name)
	}), nil
}

// asFn coerces a bound value into the Fn calling convention.
func asFn(v Value, name string) (Fn, error) {
	switch fn := v.(type) {
	case Fn:
		return fn, nil
	case func(args []any, kwargs map[string]any) (any, error):
		return fn, nil
	default:
		return nil, fmt.Errorf("%w: %s (%T)", ErrNotCallable, name, v)
	}
}
