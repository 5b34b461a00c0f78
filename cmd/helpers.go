package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/mailtempl/mailtempl/internal/build"
	"github.com/mailtempl/mailtempl/internal/config"
	"github.com/mailtempl/mailtempl/internal/logging"
	"github.com/mailtempl/mailtempl/internal/registry"
	"github.com/mailtempl/mailtempl/internal/scanner"
)

// newLogger builds the CLI logger from the loaded configuration.
func newLogger(cfg *config.Config) *logging.MailLogger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.ParseLevel(cfg.Log.Level),
		Format:    cfg.Log.Format,
		Output:    os.Stderr,
		Component: "mailtempl",
	})
}

// discoverDocuments scans the configured roots and returns the registry,
// scanner, and sorted document names. Explicit targets (command arguments or
// the targetFiles config key) short-circuit the directory scan; their names
// are derived relative to the working directory.
func discoverDocuments(ctx context.Context, cfg *config.Config, logger logging.Logger, targets []string) (*registry.DocumentRegistry, *scanner.DocumentScanner, []string, error) {
	reg := registry.NewDocumentRegistry()
	s := scanner.NewDocumentScanner(reg, logger)
	s.SetExcludes(cfg.Documents.Exclude)

	if len(targets) == 0 {
		targets = cfg.TargetFiles
	}

	if len(targets) > 0 {
		names := make([]string, 0, len(targets))
		for _, target := range targets {
			name, err := s.ScanFile(ctx, ".", target)
			if err != nil {
				return nil, nil, nil, err
			}
			names = append(names, name)
		}
		sort.Strings(names)
		return reg, s, names, nil
	}

	seen, err := s.ScanAll(ctx, cfg.Documents.ScanPaths)
	if err != nil {
		return nil, nil, nil, err
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return reg, s, names, nil
}

// printSummary writes the per-run totals of a pipeline build.
func printSummary(out io.Writer, summary *build.Summary) {
	fmt.Fprintf(out, "✅ Build completed in %v\n", summary.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "   - %d rendered, %d cached, %d failed\n", summary.Rendered, summary.Cached, summary.Failed)
}

// printFailures writes per-document diagnostics for every failed result.
func printFailures(out io.Writer, summary *build.Summary) {
	for _, result := range summary.Results {
		if !result.Failed() {
			continue
		}
		fmt.Fprintf(out, "%s:\n", result.Path)
		if result.Err != nil {
			fmt.Fprintf(out, "  %v\n", result.Err)
		}
		for _, ce := range result.Errors {
			fmt.Fprintf(out, "  %s\n", ce.Error())
		}
	}
}
