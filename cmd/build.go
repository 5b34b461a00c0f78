package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mailtempl/mailtempl/internal/build"
	"github.com/mailtempl/mailtempl/internal/compiler"
	"github.com/mailtempl/mailtempl/internal/config"
	"github.com/mailtempl/mailtempl/internal/renderer"
)

var buildCmd = &cobra.Command{
	Use:     "build [documents...]",
	Aliases: []string{"b"},
	Short:   "Build all documents without watching",
	Long: `Build every MJML document found under the configured scan paths and write
the rendered HTML into the output directory. Unchanged documents are served
from the build cache.

Examples:
  mailtempl build                     # Build everything under the scan paths
  mailtempl build welcome.mjml        # Build specific documents
  mailtempl build --output out        # Build to a specific output directory
  mailtempl build --clean             # Remove stale output before building`,
	RunE: runBuild,
}

var (
	buildOutput  string
	buildWorkers int
	buildClean   bool
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output directory")
	buildCmd.Flags().IntVar(&buildWorkers, "workers", 0, "Number of concurrent render workers")
	buildCmd.Flags().BoolVar(&buildClean, "clean", false, "Remove the output directory before building")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cmd.Flags().Changed("output") {
		cfg.Documents.OutputDir = buildOutput
	}
	if err := compiler.ValidationLevel(cfg.ValidationLevel).Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := newLogger(cfg)

	fmt.Println("🔨 Starting build process...")

	if buildClean && cfg.Documents.OutputDir != "" {
		if err := os.RemoveAll(cfg.Documents.OutputDir); err != nil {
			return fmt.Errorf("failed to clean output directory: %w", err)
		}
		fmt.Printf("   - Cleaned output directory: %s\n", cfg.Documents.OutputDir)
	}

	fmt.Println("📁 Scanning for documents...")
	reg, _, names, err := discoverDocuments(ctx, cfg, logger, args)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No documents found to build.")
		return nil
	}
	fmt.Printf("Found %d documents\n", len(names))

	options := build.OptionsFromConfig(cfg)
	if cmd.Flags().Changed("workers") {
		options.Workers = buildWorkers
	}

	rend := renderer.New(renderer.OptionsFromConfig(cfg), logger)
	pipeline := build.NewPipeline(reg, rend, options, logger)

	perf := logger.StartOperation("build")
	summary, err := pipeline.BuildDocuments(ctx, names)
	if err != nil {
		perf.EndWithError(ctx, err)
		return err
	}
	perf.End(ctx)

	printSummary(os.Stdout, summary)
	fmt.Printf("   - Output written to: %s\n", cfg.Documents.OutputDir)

	if summary.Failed > 0 {
		printFailures(os.Stderr, summary)
		return fmt.Errorf("build finished with %d failed document(s)", summary.Failed)
	}
	return nil
}
