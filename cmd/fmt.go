package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mailtempl/mailtempl/internal/beautify"
	"github.com/mailtempl/mailtempl/internal/config"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [documents...]",
	Short: "Reformat MJML document source files",
	Long: `Reformat MJML source files with the configured beautify options. Style
blocks keep their CSS verbatim. By default the formatted source is printed
to stdout; use --write to update files in place or --check to list files
that are not formatted.

Examples:
  mailtempl fmt welcome.mjml      # Print formatted source
  mailtempl fmt --write           # Reformat all documents in place
  mailtempl fmt --check           # List unformatted documents, exit 1 if any`,
	RunE: runFmt,
}

var (
	fmtWrite bool
	fmtCheck bool
)

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Write the result back to the source file")
	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "List files whose formatting differs and exit non-zero")
}

func runFmt(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	opts := beautify.OptionsFromMap(cfg.Beautify)
	// Source files always end with a newline, whatever the output config says.
	opts.EndWithNewline = true

	ctx := cmd.Context()
	logger := newLogger(cfg)

	reg, _, names, err := discoverDocuments(ctx, cfg, logger, args)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No documents found to format.")
		return nil
	}

	var unformatted []string
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		info, ok := reg.Get(name)
		if !ok {
			continue
		}
		src, err := os.ReadFile(info.Path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", info.Path, err)
		}
		formatted, err := beautify.FormatPreservingStyles(string(src), opts)
		if err != nil {
			return fmt.Errorf("formatting %s: %w", info.Path, err)
		}

		switch {
		case fmtCheck:
			if formatted != string(src) {
				unformatted = append(unformatted, info.Path)
			}
		case fmtWrite:
			if formatted == string(src) {
				continue
			}
			if err := os.WriteFile(info.Path, []byte(formatted), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", info.Path, err)
			}
			fmt.Println(info.Path)
		default:
			if _, err := os.Stdout.WriteString(formatted); err != nil {
				return err
			}
		}
	}

	if fmtCheck && len(unformatted) > 0 {
		for _, path := range unformatted {
			fmt.Println(path)
		}
		return fmt.Errorf("%d file(s) need formatting", len(unformatted))
	}
	return nil
}
