package engine

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/conjure-cli/conjure/internal/promptctx"
	"github.com/conjure-cli/conjure/internal/providers"
	"github.com/conjure-cli/conjure/internal/redact"
	"github.com/conjure-cli/conjure/internal/shape"
	"github.com/conjure-cli/conjure/internal/store"
)

// Options configure an Engine. Zero values select sensible defaults.
type Options struct {
	// Namespace is the shared environment implementations resolve against.
	// Defaults to a fresh empty one.
	Namespace Namespace
	// Binder materializes function artifacts. Defaults to RegistryBinder.
	Binder Binder
	// MaxTokens caps each generation reply. Defaults to 4096.
	MaxTokens int
	// RedactSecrets scrubs likely secrets from outgoing prompts.
	RedactSecrets bool
}

// Engine synthesizes function implementations and constant values on first
// use, caching generated source to disk and reusing it thereafter.
//
// Engine is single-threaded by design: every generation call blocks until the
// endpoint responds, and neither the implementation tables nor the namespace
// carry any concurrency control.
type Engine struct {
	gen       providers.Generator
	store     *store.Store
	ns        Namespace
	binder    Binder
	maxTokens int
	redact    bool

	acc    *promptctx.Accumulator
	fns    map[string]Fn    // call key → materialized implementation
	consts map[string]Value // constant name → materialized value
}

// New creates an Engine backed by the given generator and artifact store.
func New(gen providers.Generator, st *store.Store, opts Options) *Engine {
	ns := opts.Namespace
	if ns == nil {
		ns = NewNamespace()
	}
	binder := opts.Binder
	if binder == nil {
		binder = RegistryBinder{}
	}
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}
	return &Engine{
		gen:       gen,
		store:     st,
		ns:        ns,
		binder:    binder,
		maxTokens: maxTokens,
		redact:    opts.RedactSecrets,
		acc:       promptctx.New(),
		fns:       make(map[string]Fn),
		consts:    make(map[string]Value),
	}
}

// Namespace returns the engine's shared environment.
func (e *Engine) Namespace() Namespace {
	return e.ns
}

// Call invokes name with positional arguments, synthesizing an implementation
// for this argument-type shape if none is cached yet.
func (e *Engine) Call(ctx context.Context, name string, args ...any) (any, error) {
	return e.CallKW(ctx, name, args, nil)
}

// CallKW invokes name with positional and keyword arguments. Every distinct
// argument-type combination for a name is a distinct artifact requiring its
// own generation.
func (e *Engine) CallKW(ctx context.Context, name string, args []any, kwargs map[string]any) (any, error) {
	key := shape.CallKey(name, args, kwargs)
	fn, ok := e.fns[key]
	if !ok {
		var err error
		fn, err = e.materializeCall(ctx, name, args, kwargs, key)
		if err != nil {
			return nil, err
		}
		e.fns[key] = fn
	}
	return fn(args, kwargs)
}

func (e *Engine) materializeCall(ctx context.Context, name string, args []any, kwargs map[string]any, key string) (Fn, error) {
	path := shape.Path(e.store.Dir(), name, key)
	desc := shape.CallDescription(args, kwargs)

	if e.store.Exists(path) {
		log.Info("loading function from cache", "name", name, "path", path)
		source, err := e.store.Read(path)
		if err != nil {
			log.Error("artifact read failed", "name", name, "path", path, "err", err)
			return nil, err
		}
		fn, err := e.bindFn(source, name)
		if err != nil {
			return nil, err
		}
		e.acc.Add(promptctx.KindFunction, name, desc)
		return fn, nil
	}
	log.Debug("cache miss for function", "name", name, "path", path)

	requestID := uuid.NewString()
	userPrompt := callUserPrompt(e.acc.Prefix(), name, args, kwargs)
	if e.redact {
		userPrompt = redact.Secrets(userPrompt)
	}

	log.Debug("generating code", "name", name, "request_id", requestID)
	resp, err := e.gen.Generate(ctx, providers.Request{
		SystemPrompt: callSystemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    e.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generating %q: %w", name, err)
	}
	log.Info("generated function", "name", name, "request_id", requestID, "tokens", resp.TokensUsed)

	fn, err := e.bindFn(resp.Content, name)
	if err != nil {
		return nil, err
	}
	if err := e.store.Write(path, resp.Content); err != nil {
		log.Error("artifact write failed", "name", name, "path", path, "err", err)
		return nil, err
	}
	e.acc.Add(promptctx.KindFunction, name, desc)
	return fn, nil
}

// GenerateDecl materializes an implementation for a declared signature,
// optionally with free-text context describing related functions. The cache
// key covers both, so the same declaration under different context is a
// different artifact.
func (e *Engine) GenerateDecl(ctx context.Context, d shape.Decl, contextText string) (Fn, error) {
	key := shape.SignatureKey(d, contextText)
	path := shape.Path(e.store.Dir(), d.Name, key)

	if e.store.Exists(path) {
		log.Info("loading function from cache", "name", d.Name, "path", path)
		source, err := e.store.Read(path)
		if err != nil {
			log.Error("artifact read failed", "name", d.Name, "path", path, "err", err)
			return nil, err
		}
		return e.bindFn(source, d.Name)
	}
	log.Debug("cache miss for function", "name", d.Name, "path", path)

	requestID := uuid.NewString()
	userPrompt := declUserPrompt(d.Signature(), contextText)
	if e.redact {
		userPrompt = redact.Secrets(userPrompt)
	}

	log.Debug("generating code", "name", d.Name, "request_id", requestID)
	resp, err := e.gen.Generate(ctx, providers.Request{
		SystemPrompt: declSystemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    e.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generating %q: %w", d.Name, err)
	}
	log.Info("generated function", "name", d.Name, "request_id", requestID, "tokens", resp.TokensUsed)

	// Persist before binding: declared-mode artifacts are the product of
	// offline runs, so the source must land on disk even when this process
	// cannot link an implementation for it.
	if err := e.store.Write(path, resp.Content); err != nil {
		log.Error("artifact write failed", "name", d.Name, "path", path, "err", err)
		return nil, err
	}
	return e.bindFn(resp.Content, d.Name)
}

// Const returns the value of a named constant, synthesizing it on first
// access. The second access returns the identical cached value with no
// endpoint call.
func (e *Engine) Const(ctx context.Context, name string) (Value, error) {
	if v, ok := e.consts[name]; ok {
		return v, nil
	}

	key := "const_" + name
	path := shape.Path(e.store.Dir(), name, key)

	if e.store.Exists(path) {
		log.Info("loading constant from cache", "name", name, "path", path)
		source, err := e.store.Read(path)
		if err != nil {
			log.Error("artifact read failed", "name", name, "path", path, "err", err)
			return nil, err
		}
		v, err := e.bindConst(source, name)
		if err != nil {
			return nil, err
		}
		e.acc.Add(promptctx.KindConstant, name, fmt.Sprintf("value: %v", v))
		e.consts[name] = v
		return v, nil
	}
	log.Debug("cache miss for constant", "name", name, "path", path)

	userPrompt := constUserPrompt(e.acc.Prefix(), name)
	if e.redact {
		userPrompt = redact.Secrets(userPrompt)
	}

	resp, err := e.gen.Generate(ctx, providers.Request{
		SystemPrompt: constSystemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    e.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generating constant %q: %w", name, err)
	}

	if err := e.store.Write(path, resp.Content); err != nil {
		log.Error("artifact write failed", "name", name, "path", path, "err", err)
		return nil, err
	}

	v, err := e.bindConst(resp.Content, name)
	if err != nil {
		return nil, err
	}
	log.Info("generated constant", "name", name, "tokens", resp.TokensUsed)
	e.acc.Add(promptctx.KindConstant, name, fmt.Sprintf("value: %v", v))
	e.consts[name] = v
	return v, nil
}

// Context returns the accumulated context entries in order.
func (e *Engine) Context() []string {
	return e.acc.Entries()
}

// ClearContext discards all accumulated context.
func (e *Engine) ClearContext() {
	e.acc.Clear()
}

func (e *Engine) bindFn(source, name string) (Fn, error) {
	v, err := e.binder.Bind(e.ns, source, name)
	if err != nil {
		log.Error("failed to load generated code", "name", name, "err", err)
		return nil, fmt.Errorf("loading %q: %w", name, err)
	}
	fn, err := asFn(v, name)
	if err != nil {
		log.Error("failed to load generated code", "name", name, "err", err)
		return nil, err
	}
	return fn, nil
}

func (e *Engine) bindConst(source, name string) (Value, error) {
	v, err := LiteralBinder{}.Bind(e.ns, source, name)
	if err != nil {
		log.Error("failed to load generated constant", "name", name, "err", err)
		return nil, fmt.Errorf("loading constant %q: %w", name, err)
	}
	return v, nil
}
