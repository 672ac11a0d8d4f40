package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/conjure-cli/conjure/internal/config"
	"github.com/conjure-cli/conjure/internal/engine"
	"github.com/conjure-cli/conjure/internal/manifest"
	"github.com/conjure-cli/conjure/internal/output"
	"github.com/conjure-cli/conjure/internal/providers"
	"github.com/conjure-cli/conjure/internal/shape"
	"github.com/conjure-cli/conjure/internal/store"
)

// Shared generation flags
var (
	flagManifest  string
	flagProvider  string
	flagModel     string
	flagCacheDir  string
	flagMaxTokens int
	flagFormat    string
	flagOut       string
	flagNoRedact  bool
)

func addGenFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (anthropic, openai, ollama)")
	cmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	cmd.Flags().StringVar(&flagCacheDir, "cache-dir", "", "Directory for generated source artifacts")
	cmd.Flags().IntVar(&flagMaxTokens, "max-tokens", 0, "Maximum tokens per generation reply")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagCacheDir != "" {
		m["cacheDir"] = flagCacheDir
	}
	if flagMaxTokens > 0 {
		m["maxTokens"] = fmt.Sprintf("%d", flagMaxTokens)
	}
	return m
}

// newEngine assembles the provider, store, and engine from the effective
// config. Shared by the gen and const commands.
func newEngine(cfg config.Config) (*engine.Engine, *store.Store, error) {
	st, err := store.New(cfg.CacheDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening artifact store: %w", err)
	}
	gen, err := providers.New(cfg.Provider, cfg.Model, cfg.APIKey)
	if err != nil {
		return nil, nil, err
	}
	eng := engine.New(gen, st, engine.Options{
		// The CLI only produces artifacts; nothing registers compiled
		// implementations in this process.
		Binder:        engine.PipelineBinder{},
		MaxTokens:     cfg.MaxTokens,
		RedactSecrets: cfg.RedactSecrets,
	})
	return eng, st, nil
}

func failWith(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if providers.IsAuthError(err) {
		exitCode = ExitAuthError
		return
	}
	exitCode = ExitRuntimeError
}

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate implementations for a manifest of declarations",
	Long:  "Generate implementations for every function and constant declared in a manifest. Declarations are generated as a batch, each seeing its siblings' signatures as context. Already-cached artifacts are reused without an endpoint call.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		applyLogLevel(cfg)
		if flagNoRedact {
			cfg.RedactSecrets = false
			fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
		}

		m, err := manifest.Load(flagManifest)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}

		runGen(m, cfg)
		return nil
	},
}

func runGen(m *manifest.Manifest, cfg config.Config) {
	eng, st, err := newEngine(cfg)
	if err != nil {
		failWith(err)
		return
	}

	lazy := engine.NewLazy(eng)
	for _, d := range m.Functions {
		if _, err := lazy.Register(d); err != nil {
			failWith(err)
			return
		}
	}

	// Record which artifacts exist before generation so the report can tell
	// cache hits from fresh generations.
	contextText := lazy.ContextText()
	cached := make(map[string]bool, len(m.Functions))
	paths := make(map[string]string, len(m.Functions))
	for _, d := range m.Functions {
		p := shape.Path(st.Dir(), d.Name, shape.SignatureKey(d, contextText))
		paths[d.Name] = p
		cached[d.Name] = st.Exists(p)
	}

	ctx := context.Background()
	start := time.Now()

	if err := lazy.Finalize(ctx); err != nil {
		failWith(err)
		return
	}

	results := make([]output.Result, 0, len(m.Functions)+len(m.Constants))
	for _, d := range m.Functions {
		source := "generated"
		if cached[d.Name] {
			source = "cache"
		}
		results = append(results, output.Result{
			Name:   d.Name,
			Kind:   "function",
			Source: source,
			Path:   paths[d.Name],
		})
	}

	for _, c := range m.Constants {
		p := shape.Path(st.Dir(), c.Name, "const_"+c.Name)
		source := "generated"
		if st.Exists(p) {
			source = "cache"
		}
		v, err := eng.Const(ctx, c.Name)
		if err != nil {
			failWith(err)
			return
		}
		results = append(results, output.Result{
			Name:   c.Name,
			Kind:   "constant",
			Source: source,
			Path:   p,
			Value:  fmt.Sprintf("%v", v),
		})
	}

	report := &output.Report{
		Tool:     "conjure",
		Version:  version,
		RunID:    uuid.NewString(),
		Provider: cfg.Provider,
		Model:    cfg.Model,
		Results:  results,
		TotalMs:  time.Since(start).Milliseconds(),
	}

	if err := output.WriteReport(report, flagFormat, flagOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
	}
}

func init() {
	addGenFlags(genCmd)
	genCmd.Flags().StringVarP(&flagManifest, "manifest", "f", "conjure.yaml", "Manifest file of declarations")
	genCmd.Flags().StringVar(&flagFormat, "format", "text", "Output format (text, json)")
	genCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
}
