package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/conjure-cli/conjure/internal/providers"
	"github.com/conjure-cli/conjure/internal/store"
)

// fakeGenerator counts calls and replies from a canned function.
type fakeGenerator struct {
	calls   int
	prompts []providers.Request
	reply   func(req providers.Request) string
	err     error
}

func (f *fakeGenerator) Generate(_ context.Context, req providers.Request) (providers.Response, error) {
	f.calls++
	f.prompts = append(f.prompts, req)
	if f.err != nil {
		return providers.Response{}, f.err
	}
	return providers.Response{Content: f.reply(req), TokensUsed: 1}, nil
}

func (f *fakeGenerator) Name() string { return "fake" }

func newTestEngine(t *testing.T, gen providers.Generator, ns Namespace) *Engine {
	t.Helper()
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New error: %v", err)
	}
	return New(gen, st, Options{Namespace: ns})
}

func doubleFn(args []any, _ map[string]any) (any, error) {
	return args[0].(int) * 2, nil
}

func TestEngine_CallGeneratesOnce(t *testing.T) {
	gen := &fakeGenerator{reply: func(providers.Request) string {
		return "func double(n int) int { return n * 2 }"
	}}
	ns := NewNamespace()
	ns.RegisterFn("double", doubleFn)
	e := newTestEngine(t, gen, ns)

	got, err := e.Call(context.Background(), "double", 21)
	if err != nil {
		t.Fatalf("Call error: %v", err)
	}
	if got != 42 {
		t.Errorf("Call = %v, want 42", got)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}

	// Same shape, different value: no further generation.
	if _, err := e.Call(context.Background(), "double", 7); err != nil {
		t.Fatalf("second Call error: %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls after same-shape call = %d, want 1", gen.calls)
	}
}

func TestEngine_DistinctShapesGenerateSeparately(t *testing.T) {
	gen := &fakeGenerator{reply: func(providers.Request) string { return "func f() {}" }}
	ns := NewNamespace()
	ns.RegisterFn("f", func(args []any, _ map[string]any) (any, error) { return len(args), nil })
	e := newTestEngine(t, gen, ns)

	if _, err := e.Call(context.Background(), "f", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Call(context.Background(), "f", "one"); err != nil {
		t.Fatal(err)
	}
	if gen.calls != 2 {
		t.Errorf("generator calls = %d, want 2 (one per shape)", gen.calls)
	}
}

func TestEngine_RoundTripFromDisk(t *testing.T) {
	// Generating an artifact, then re-invoking with the identical shape in a
	// fresh engine over the same store, must load from cache without a second
	// endpoint call.
	dir := t.TempDir()
	st, err := store.New(dir)
	if err != nil {
		t.Fatal(err)
	}
	ns := NewNamespace()
	ns.RegisterFn("double", doubleFn)

	gen := &fakeGenerator{reply: func(providers.Request) string {
		return "func double(n int) int { return n * 2 }"
	}}
	e1 := New(gen, st, Options{Namespace: ns})
	if _, err := e1.Call(context.Background(), "double", 3); err != nil {
		t.Fatalf("first engine Call error: %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.calls)
	}

	st2, err := store.New(dir)
	if err != nil {
		t.Fatal(err)
	}
	e2 := New(gen, st2, Options{Namespace: ns})
	got, err := e2.Call(context.Background(), "double", 5)
	if err != nil {
		t.Fatalf("second engine Call error: %v", err)
	}
	if got != 10 {
		t.Errorf("Call = %v, want 10", got)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls after cache hit = %d, want 1", gen.calls)
	}
}

func TestEngine_CallUnregisteredName(t *testing.T) {
	gen := &fakeGenerator{reply: func(providers.Request) string { return "func ghost() {}" }}
	e := newTestEngine(t, gen, NewNamespace())

	_, err := e.Call(context.Background(), "ghost")
	if err == nil {
		t.Fatal("expected error for unbound name")
	}
	if !strings.Contains(err.Error(), "not bound") {
		t.Errorf("error = %v, want not-bound", err)
	}
}

func TestEngine_GeneratorFailurePropagates(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("endpoint down")}
	e := newTestEngine(t, gen, NewNamespace())

	_, err := e.Call(context.Background(), "f", 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "endpoint down") {
		t.Errorf("error = %v, want wrapped endpoint failure", err)
	}
	// No artifact persisted on failure.
	st, _ := store.New(e.store.Dir())
	stats, _ := st.GetStats()
	if stats.Entries != 0 {
		t.Errorf("artifacts persisted after failure: %d", stats.Entries)
	}
}

func TestEngine_GenerateDeclPersistsWhenUnlinked(t *testing.T) {
	// A declared-mode artifact must land on disk even when this process has
	// no compiled implementation to bind, so a later run (or a host program
	// that does register one) finds it in the cache.
	dir := t.TempDir()
	st, err := store.New(dir)
	if err != nil {
		t.Fatal(err)
	}
	gen := &fakeGenerator{reply: func(providers.Request) string {
		return "func add(a, b int) int { return a + b }"
	}}

	e1 := New(gen, st, Options{})
	_, err = e1.GenerateDecl(context.Background(), declOf("add", "Add two ints"), "")
	if !errors.Is(err, ErrNotBound) {
		t.Fatalf("GenerateDecl with empty namespace = %v, want ErrNotBound", err)
	}
	if gen.calls != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.calls)
	}
	stats, err := st.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 1 {
		t.Fatalf("artifacts on disk = %d, want 1", stats.Entries)
	}

	// A pipeline-bound engine over the same store loads the artifact from
	// cache without a second endpoint call.
	st2, err := store.New(dir)
	if err != nil {
		t.Fatal(err)
	}
	e2 := New(gen, st2, Options{Binder: PipelineBinder{}})
	if _, err := e2.GenerateDecl(context.Background(), declOf("add", "Add two ints"), ""); err != nil {
		t.Fatalf("GenerateDecl with PipelineBinder error: %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls after cache hit = %d, want 1", gen.calls)
	}
}

func TestEngine_Const(t *testing.T) {
	gen := &fakeGenerator{reply: func(providers.Request) string {
		return "GOLDEN_RATIO = 1.618"
	}}
	e := newTestEngine(t, gen, NewNamespace())

	v, err := e.Const(context.Background(), "golden_ratio")
	if err != nil {
		t.Fatalf("Const error: %v", err)
	}
	if v != 1.618 {
		t.Errorf("Const = %v, want 1.618", v)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}

	// Second access: identical cached value, no endpoint call.
	v2, err := e.Const(context.Background(), "golden_ratio")
	if err != nil {
		t.Fatalf("second Const error: %v", err)
	}
	if v2 != v {
		t.Errorf("second Const = %v, want identical %v", v2, v)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls after memoized access = %d, want 1", gen.calls)
	}
}

func TestEngine_ConstFromDisk(t *testing.T) {
	dir := t.TempDir()
	st, _ := store.New(dir)
	gen := &fakeGenerator{reply: func(providers.Request) string { return "ZERO = 0" }}

	e1 := New(gen, st, Options{})
	if _, err := e1.Const(context.Background(), "zero"); err != nil {
		t.Fatal(err)
	}

	st2, _ := store.New(dir)
	e2 := New(gen, st2, Options{})
	v, err := e2.Const(context.Background(), "zero")
	if err != nil {
		t.Fatalf("Const from disk error: %v", err)
	}
	if v != int64(0) {
		t.Errorf("Const = %v (%T), want int64(0)", v, v)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}
}

func TestEngine_ContextAccumulation(t *testing.T) {
	gen := &fakeGenerator{reply: func(req providers.Request) string {
		if strings.Contains(req.SystemPrompt, "constant") {
			return "ZERO = 0"
		}
		return "func f() {}"
	}}
	ns := NewNamespace()
	ns.RegisterFn("f", func([]any, map[string]any) (any, error) { return nil, nil })
	e := newTestEngine(t, gen, ns)

	if _, err := e.Call(context.Background(), "f", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Const(context.Background(), "zero"); err != nil {
		t.Fatal(err)
	}

	entries := e.Context()
	if len(entries) != 2 {
		t.Fatalf("Context() = %v, want 2 entries", entries)
	}
	if !strings.HasPrefix(entries[0], "Function: f - args: [int]") {
		t.Errorf("entries[0] = %q", entries[0])
	}
	if entries[1] != "Constant: zero - value: 0" {
		t.Errorf("entries[1] = %q", entries[1])
	}

	// Later prompts carry the accumulated prefix.
	if _, err := e.Call(context.Background(), "f", 1.5); err != nil {
		t.Fatal(err)
	}
	last := gen.prompts[len(gen.prompts)-1]
	if !strings.Contains(last.UserPrompt, "Previously generated context:") {
		t.Errorf("prompt missing context prefix: %q", last.UserPrompt)
	}
	if !strings.Contains(last.UserPrompt, "Function: f - args: [int]") {
		t.Errorf("prompt missing prior entry: %q", last.UserPrompt)
	}

	// Clearing is idempotent.
	e.ClearContext()
	if len(e.Context()) != 0 {
		t.Error("context not empty after clear")
	}
	e.ClearContext()
	if len(e.Context()) != 0 {
		t.Error("context not empty after second clear")
	}
}

func TestEngine_RedactsPrompts(t *testing.T) {
	gen := &fakeGenerator{reply: func(providers.Request) string { return "func f() {}" }}
	ns := NewNamespace()
	ns.RegisterFn("leaky", func([]any, map[string]any) (any, error) { return nil, nil })
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	e := New(gen, st, Options{Namespace: ns, RedactSecrets: true})

	d := declOf("leaky", "uses api_key = sk-abcdefghij1234567890ABCD")
	if _, err := e.GenerateDecl(context.Background(), d, ""); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(gen.prompts[0].UserPrompt, "sk-abcdefghij1234567890ABCD") {
		t.Errorf("secret leaked into prompt: %q", gen.prompts[0].UserPrompt)
	}
}
