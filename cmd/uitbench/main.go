// Command uitbench drives the spatial trees of package indexing with a
// workload described in YAML and reports timings.
//
// Usage:
//
//	uitbench run workload.yaml
//	uitbench parse box "[[0,0],[10,10]]"
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	verbose bool
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "uitbench",
		Short: "Workload driver for the uit spatial trees",
		Long: `uitbench builds one of the four spatial trees (bounded, expanding,
expanding-dim, limited, expanding-limited), loads it with random points,
runs range and nearest-neighbour queries from concurrent workers and
optionally cross-checks the answers against an R-tree baseline.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			if a.verbose {
				cfg = zap.NewDevelopmentConfig()
			}

			log, err := cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log tree diagnostics at debug level")
	root.AddCommand(a.newRunCmd(), a.newParseCmd())

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
