package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mailtempl/mailtempl/internal/compiler"
	"github.com/mailtempl/mailtempl/internal/config"
	"github.com/mailtempl/mailtempl/internal/errors"
	"github.com/mailtempl/mailtempl/internal/renderer"
)

var lintCmd = &cobra.Command{
	Use:     "lint [documents...]",
	Aliases: []string{"l"},
	Short:   "Check documents for template and MJML errors",
	Long: `Compile every document without writing output and report template errors,
missing data references, and MJML validation problems. Validation defaults
to strict for linting regardless of the configured level.

Examples:
  mailtempl lint                          # Lint everything under the scan paths
  mailtempl lint welcome.mjml             # Lint specific documents
  mailtempl lint --validation-level soft  # Relax MJML validation`,
	RunE: runLint,
}

var lintValidationLevel string

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().Var(newLevelValue(&lintValidationLevel), "validation-level", "MJML validation level (strict, soft, skip)")
}

func runLint(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level := compiler.ValidationStrict
	if cmd.Flags().Changed("validation-level") {
		level = compiler.ValidationLevel(lintValidationLevel)
	}
	if err := level.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := newLogger(cfg)

	reg, _, names, err := discoverDocuments(ctx, cfg, logger, args)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No documents found to lint.")
		return nil
	}

	// Lint is a compile check only, so post-processing stays off.
	rend := renderer.New(renderer.Options{ValidationLevel: level}, logger)

	collector := errors.NewCollector()
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		info, ok := reg.Get(name)
		if !ok {
			continue
		}
		result, err := rend.RenderFile(ctx, info.Path)
		if err != nil {
			collector.AddFatal(info.Path, err)
			continue
		}
		collector.AddCompile(info.Path, result.Errors...)
	}

	if collector.HasErrors() {
		fmt.Fprint(os.Stderr, collector.Report())
		return fmt.Errorf("lint found problems in %d document(s)", len(collector.Documents()))
	}

	fmt.Printf("✅ %d document(s) lint clean\n", len(names))
	return nil
}
