// Package main provides the CLI entrypoint for animate-generator.
//
// animate-generator reads Go packages, finds the types marked with
// //animate:derive (or listed in animate.yaml) and writes an Animate
// implementation for each of them into a generated file next to the source.
//
// Commands:
//   - gen: generate the files
//   - check: fail when a generated file is missing or out of date
//   - inspect: dump the resolved plans
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"animate-generator/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type rootFlags struct {
	logLevel string
	logJSON  bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "animate-generator",
		Short:         "Generate Animate implementations for Go types",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			log := logger.NewLogger(&logger.Config{
				Level:      logger.LogLevel(flags.logLevel),
				Output:     cmd.ErrOrStderr(),
				JSON:       flags.logJSON,
				TimeFormat: "15:04:05",
			})
			cmd.SetContext(logger.ContextWithLogger(cmd.Context(), log))
		},
	}

	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", string(logger.InfoLevel),
		"log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&flags.logJSON, "log-json", false, "log in JSON format")

	root.AddCommand(newGenCmd(), newCheckCmd(), newInspectCmd())

	return root
}
