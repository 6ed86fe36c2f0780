package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"animate-generator/internal/analyze"
	"animate-generator/internal/config"
	"animate-generator/internal/diagnostic"
	"animate-generator/internal/gen"
	"animate-generator/internal/logger"
	"animate-generator/internal/plan"
)

// defaultPattern is processed when neither the command line nor the config
// file names packages.
const defaultPattern = "./..."

// pipelineFlags are shared by every command that runs the generator.
type pipelineFlags struct {
	configPath string
	output     string
	runtime    string
	dir        string
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "",
		"config file (default "+config.DefaultFile+" in the working directory, if present)")
	cmd.Flags().StringVarP(&f.output, "out", "o", "", "name of the generated file in each package")
	cmd.Flags().StringVar(&f.runtime, "runtime", "", "import path of the runtime package")
	cmd.Flags().StringVarP(&f.dir, "dir", "C", "", "working directory for package loading")
}

// result is the outcome of one generator run.
type result struct {
	root  string
	graph *analyze.TypeGraph
	plans []*plan.AnimatePlan
	files []gen.GeneratedFile
}

// errDiagnostics is returned when analysis or planning reported errors. The
// errors themselves have already been logged.
var errDiagnostics = errors.New("generation failed, see errors above")

// run loads the config and packages, plans every derive target and renders
// the generated files. Nothing is written.
func (f *pipelineFlags) run(ctx context.Context, patterns []string) (*result, error) {
	log := logger.FromContext(ctx)

	root, err := f.root()
	if err != nil {
		return nil, err
	}

	cfg, err := f.loadConfig(root)
	if err != nil {
		return nil, err
	}

	if len(patterns) == 0 {
		patterns = cfg.Packages
	}

	if len(patterns) == 0 {
		patterns = []string{defaultPattern}
	}

	log.Debug("loading packages", "patterns", patterns, "dir", root)

	analyzer := analyze.NewAnalyzer(analyze.Config{
		Dir:        root,
		OutputFile: cfg.Output,
		Overrides:  cfg.Overrides(),
	})

	graph, err := analyzer.LoadPackages(patterns...)
	if err != nil {
		return nil, err
	}

	diags := graph.Diagnostics
	diags.Merge(config.Validate(cfg, graph))

	if !report(log, diags) {
		return nil, errDiagnostics
	}

	plans, diags := plan.Plan(graph, gen.RuntimeName(cfg.Runtime))
	if !report(log, diags) {
		return nil, errDiagnostics
	}

	log.Debug("planned derive targets", "count", len(plans))

	generator := gen.NewGenerator(gen.Config{
		OutputFile:  cfg.Output,
		RuntimePath: cfg.Runtime,
	}, graph)

	files, err := generator.Generate(ctx, plans)
	if err != nil {
		return nil, err
	}

	return &result{root: root, graph: graph, plans: plans, files: files}, nil
}

func (f *pipelineFlags) root() (string, error) {
	if f.dir != "" {
		return filepath.Abs(f.dir)
	}

	return os.Getwd()
}

// loadConfig reads the config file and applies the command-line overrides.
// A missing default file is not an error; a missing explicit one is.
func (f *pipelineFlags) loadConfig(root string) (*config.File, error) {
	path := f.configPath
	explicit := path != ""

	if !explicit {
		path = filepath.Join(root, config.DefaultFile)
	}

	cfg, err := config.LoadFile(path)

	switch {
	case err == nil:
	case !explicit && errors.Is(err, os.ErrNotExist):
		cfg = config.Default()
	default:
		return nil, err
	}

	if f.output != "" {
		cfg.Output = f.output
	}

	if f.runtime != "" {
		cfg.Runtime = f.runtime
	}

	return cfg, nil
}

// report logs every diagnostic and returns false if any is an error.
func report(log logger.Logger, diags diagnostic.Diagnostics) bool {
	for _, d := range diags.Infos {
		log.Info(d.String())
	}

	for _, d := range diags.Warnings {
		log.Warn(d.String())
	}

	for _, d := range diags.Errors {
		log.Error(d.String())
	}

	return diags.IsValid()
}

func (r *result) fs() (*gen.GenFS, error) {
	fs, err := gen.ToFS(r.root, r.files)
	if err != nil {
		return nil, fmt.Errorf("collecting generated files: %w", err)
	}

	return fs, nil
}
