package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conjure-cli/conjure/internal/config"
)

var constCmd = &cobra.Command{
	Use:   "const <name>",
	Short: "Resolve a named constant, generating it on first access",
	Long:  "Resolve a named constant. The value is synthesized by the configured provider on first access and cached on disk; later accesses return the cached value without an endpoint call.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		applyLogLevel(cfg)

		eng, _, err := newEngine(cfg)
		if err != nil {
			failWith(err)
			return nil
		}

		v, err := eng.Const(context.Background(), args[0])
		if err != nil {
			failWith(err)
			return nil
		}

		fmt.Fprintf(os.Stdout, "%s = %v\n", args[0], v)
		return nil
	},
}

func init() {
	addGenFlags(constCmd)
}
