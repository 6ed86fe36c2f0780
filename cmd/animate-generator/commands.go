package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"animate-generator/internal/logger"
)

func newGenCmd() *cobra.Command {
	flags := &pipelineFlags{}

	cmd := &cobra.Command{
		Use:   "gen [packages]",
		Short: "Generate Animate implementations",
		Long: `Generate an Animate implementation for every derive target of the given
packages (default: the config file's packages, or ./...). One file is written
per package, replacing any previous one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logger.FromContext(ctx)

			res, err := flags.run(ctx, args)
			if err != nil {
				return err
			}

			fs, err := res.fs()
			if err != nil {
				return err
			}

			if err := fs.Write(ctx, res.root); err != nil {
				return err
			}

			for _, path := range fs.Paths() {
				log.Debug("wrote", "file", path)
			}

			log.Info("generation complete", "types", len(res.plans), "files", fs.Len())

			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func newCheckCmd() *cobra.Command {
	flags := &pipelineFlags{}

	cmd := &cobra.Command{
		Use:   "check [packages]",
		Short: "Verify that generated files are up to date",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			res, err := flags.run(ctx, args)
			if err != nil {
				return err
			}

			fs, err := res.fs()
			if err != nil {
				return err
			}

			if err := fs.Verify(ctx, res.root); err != nil {
				return fmt.Errorf("generated files are out of date, run gen:\n%w", err)
			}

			logger.FromContext(ctx).Info("generated files are up to date", "files", fs.Len())

			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func newInspectCmd() *cobra.Command {
	flags := &pipelineFlags{}

	cmd := &cobra.Command{
		Use:   "inspect [packages]",
		Short: "Print the resolved plan of every derive target",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := flags.run(cmd.Context(), args)
			if err != nil {
				return err
			}

			dumper := spew.ConfigState{
				Indent:                  "  ",
				DisablePointerAddresses: true,
				DisableCapacities:       true,
				SortKeys:                true,
			}

			for _, p := range res.plans {
				dumper.Fdump(cmd.OutOrStdout(), summarize(p))
			}

			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
