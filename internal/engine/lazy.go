package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/conjure-cli/conjure/internal/shape"
)

// ErrAlreadyGenerated reports a registration attempt after the batch trigger
// has fired.
var ErrAlreadyGenerated = errors.New("registration set already generated")

// State is the lifecycle of a Lazy set.
type State int

const (
	// StateEmpty means nothing has been registered.
	StateEmpty State = iota
	// StatePending means registrations have accumulated but generation has
	// not been triggered.
	StatePending
	// StateGenerated is terminal: the trigger fired and every registration
	// was materialized.
	StateGenerated
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePending:
		return "pending"
	case StateGenerated:
		return "generated"
	default:
		return "unknown"
	}
}

// Lazy defers generation for a batch of declared functions until an explicit
// trigger. Each pending declaration is generated with the full set of sibling
// signatures as context, so related functions can call one another.
type Lazy struct {
	eng       *Engine
	order     []string
	pending   map[string]shape.Decl
	fns       map[string]Fn
	generated bool
}

// NewLazy creates an empty deferred registration set on top of eng.
func NewLazy(eng *Engine) *Lazy {
	return &Lazy{
		eng:     eng,
		pending: make(map[string]shape.Decl),
		fns:     make(map[string]Fn),
	}
}

// Register adds a declaration and returns a handle whose first call triggers
// batch generation. Registering after the trigger has fired is an error;
// re-registering a pending name replaces its declaration.
func (l *Lazy) Register(d shape.Decl) (*LazyFn, error) {
	if l.generated {
		return nil, fmt.Errorf("registering %q: %w", d.Name, ErrAlreadyGenerated)
	}
	if d.Name == "" {
		return nil, fmt.Errorf("registering declaration without a name")
	}
	log.Debug("registering deferred function", "name", d.Name)
	if _, exists := l.pending[d.Name]; !exists {
		l.order = append(l.order, d.Name)
	}
	l.pending[d.Name] = d
	return &LazyFn{name: d.Name, set: l}, nil
}

// State reports where the set is in its Empty → Pending → Generated lifecycle.
func (l *Lazy) State() State {
	switch {
	case l.generated:
		return StateGenerated
	case len(l.pending) > 0:
		return StatePending
	default:
		return StateEmpty
	}
}

// GenerateAll materializes every pending declaration in registration order,
// each seeing the joined sibling signatures as context. Calling it again
// after success is a no-op.
func (l *Lazy) GenerateAll(ctx context.Context) error {
	if l.generated {
		return nil
	}

	log.Info("generating all registered functions", "count", len(l.pending))
	contextText := l.buildContext()

	for _, name := range l.order {
		fn, err := l.eng.GenerateDecl(ctx, l.pending[name], contextText)
		if err != nil {
			return fmt.Errorf("generating %q: %w", name, err)
		}
		l.fns[name] = fn
	}

	l.generated = true
	log.Info("all functions generated")
	return nil
}

// Finalize triggers batch generation. It is an alias for GenerateAll.
func (l *Lazy) Finalize(ctx context.Context) error {
	return l.GenerateAll(ctx)
}

// Fn returns the materialized implementation for name, if generated.
func (l *Lazy) Fn(name string) (Fn, bool) {
	fn, ok := l.fns[name]
	return fn, ok
}

// Decls returns the registered declarations in registration order.
func (l *Lazy) Decls() []shape.Decl {
	out := make([]shape.Decl, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, l.pending[name])
	}
	return out
}

// ContextText returns the joined signatures of all registered declarations,
// exactly as each generation sees them as shared context.
func (l *Lazy) ContextText() string {
	return l.buildContext()
}

func (l *Lazy) buildContext() string {
	sigs := make([]string, 0, len(l.order))
	for _, name := range l.order {
		sigs = append(sigs, l.pending[name].Signature())
	}
	return strings.Join(sigs, "\n")
}

// LazyFn is the callable handle returned by Register.
type LazyFn struct {
	name string
	set  *Lazy
}

// Name returns the declared function name.
func (f *LazyFn) Name() string {
	return f.name
}

// Call invokes the generated implementation, triggering batch generation for
// the whole set if it has not fired yet.
func (f *LazyFn) Call(ctx context.Context, args ...any) (any, error) {
	return f.CallKW(ctx, args, nil)
}

// CallKW invokes the generated implementation with positional and keyword
// arguments.
func (f *LazyFn) CallKW(ctx context.Context, args []any, kwargs map[string]any) (any, error) {
	if !f.set.generated {
		if err := f.set.GenerateAll(ctx); err != nil {
			return nil, err
		}
	}
	fn, ok := f.set.fns[f.name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotBound, f.name)
	}
	return fn(args, kwargs)
}
