package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mailtempl/mailtempl/internal/compiler"
	"github.com/mailtempl/mailtempl/internal/config"
	"github.com/mailtempl/mailtempl/internal/renderer"
)

var renderCmd = &cobra.Command{
	Use:     "render <document.mjml>",
	Aliases: []string{"r"},
	Short:   "Render a single MJML document to HTML",
	Long: `Render one MJML document through the full pipeline: data resolution,
Handlebars evaluation, MJML compilation, and post-processing. The HTML is
written to stdout unless --output is given.

Examples:
  mailtempl render index.mjml                  # Render to stdout
  mailtempl render index.mjml -o out.html      # Render to a file
  mailtempl render index.mjml --minify         # Minified output
  mailtempl render index.mjml --validation-level strict`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var (
	renderOutput          string
	renderMinify          bool
	renderBeautify        bool
	renderEmbedImages     bool
	renderInlineCSS       bool
	renderFormat          bool
	renderValidationLevel string
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Write HTML to this file instead of stdout")
	renderCmd.Flags().BoolVar(&renderMinify, "minify", false, "Minify the HTML output")
	renderCmd.Flags().BoolVar(&renderBeautify, "beautify", false, "Beautify the HTML output")
	renderCmd.Flags().BoolVar(&renderEmbedImages, "embed-images", false, "Embed local images as data URIs")
	renderCmd.Flags().BoolVar(&renderInlineCSS, "inline-css", false, "Inline stylesheets into element style attributes")
	renderCmd.Flags().BoolVar(&renderFormat, "format", false, "Reformat the HTML output")
	renderCmd.Flags().Var(newLevelValue(&renderValidationLevel), "validation-level", "MJML validation level (strict, soft, skip)")
}

// applyRenderFlags overlays changed command flags onto the loaded config.
func applyRenderFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("minify") {
		cfg.MinifyHTMLOutput = renderMinify
	}
	if cmd.Flags().Changed("beautify") {
		cfg.BeautifyHTMLOutput = renderBeautify
	}
	if cmd.Flags().Changed("embed-images") {
		cfg.EmbedImages = renderEmbedImages
	}
	if cmd.Flags().Changed("inline-css") {
		cfg.InlineCSS = renderInlineCSS
	}
	if cmd.Flags().Changed("format") {
		cfg.FormatOutput = renderFormat
	}
	if cmd.Flags().Changed("validation-level") {
		cfg.ValidationLevel = renderValidationLevel
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyRenderFlags(cmd, cfg)
	if err := compiler.ValidationLevel(cfg.ValidationLevel).Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg)
	r := renderer.New(renderer.OptionsFromConfig(cfg), logger)

	result, err := r.RenderFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if result.Failed() {
		fmt.Fprintf(os.Stderr, "%s:\n", args[0])
		for _, ce := range result.Errors {
			fmt.Fprintf(os.Stderr, "  %s\n", ce.Error())
		}
		return fmt.Errorf("%s failed to compile with %d error(s)", args[0], len(result.Errors))
	}

	// Soft validation can succeed with diagnostics attached
	for _, ce := range result.Errors {
		fmt.Fprintf(os.Stderr, "warning: %s: %s\n", args[0], ce.Error())
	}

	if renderOutput != "" {
		if dir := filepath.Dir(renderOutput); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
		}
		if err := os.WriteFile(renderOutput, []byte(result.HTML), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", renderOutput, err)
		}
		fmt.Printf("✅ Rendered %s to %s\n", args[0], renderOutput)
		return nil
	}

	if _, err := os.Stdout.WriteString(result.HTML); err != nil {
		return err
	}
	if !strings.HasSuffix(result.HTML, "\n") {
		fmt.Println()
	}
	return nil
}
