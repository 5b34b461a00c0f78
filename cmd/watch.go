package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mailtempl/mailtempl/internal/build"
	"github.com/mailtempl/mailtempl/internal/compiler"
	"github.com/mailtempl/mailtempl/internal/config"
	"github.com/mailtempl/mailtempl/internal/registry"
	"github.com/mailtempl/mailtempl/internal/renderer"
	"github.com/mailtempl/mailtempl/internal/scanner"
	"github.com/mailtempl/mailtempl/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Watch for file changes and rebuild documents",
	Long: `Watch the configured scan paths and automatically rebuild documents when
templates or data files change. Changes are debounced so rapid edit bursts
trigger a single rebuild.

Examples:
  mailtempl watch                 # Watch all configured paths
  mailtempl watch --verbose       # Print every change event
  mailtempl watch --output out    # Rebuild into a specific directory`,
	RunE: runWatch,
}

var (
	watchOutput  string
	watchVerbose bool
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "Output directory")
	watchCmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "Verbose output")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cmd.Flags().Changed("output") {
		cfg.Documents.OutputDir = watchOutput
	}
	if err := compiler.ValidationLevel(cfg.ValidationLevel).Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg)

	reg := registry.NewDocumentRegistry()
	documentScanner := scanner.NewDocumentScanner(reg, logger)
	documentScanner.SetExcludes(cfg.Documents.Exclude)

	rend := renderer.New(renderer.OptionsFromConfig(cfg), logger)
	pipeline := build.NewPipeline(reg, rend, build.OptionsFromConfig(cfg), logger)

	fileWatcher, err := watcher.NewFileWatcher(watcher.DefaultDebounce, logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fileWatcher.Stop()

	fileWatcher.AddFilter(watcher.TemplateOrPropsFilter)
	fileWatcher.AddFilter(watcher.NoHiddenFilter)
	fileWatcher.AddFilter(watcher.NoNodeModulesFilter)
	if cfg.Documents.OutputDir != "" {
		fileWatcher.AddFilter(watcher.ExcludeDirFilter(cfg.Documents.OutputDir))
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	fileWatcher.AddHandler(func(events []watcher.ChangeEvent) error {
		if watchVerbose {
			fmt.Printf("📁 File changes detected:\n")
			for _, event := range events {
				fmt.Printf("   %s: %s\n", event.Type, event.Path)
			}
		} else {
			fmt.Printf("📁 %d file(s) changed\n", len(events))
		}

		seen, err := documentScanner.ScanAll(ctx, cfg.Documents.ScanPaths)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to rescan documents: %v\n", err)
			return nil
		}
		if removed := reg.Prune(seen); removed > 0 && watchVerbose {
			fmt.Printf("   - %d document(s) removed\n", removed)
		}

		// Template edits can change the output of documents that include
		// them as partials, which the per-document cache key cannot see.
		if templatesChanged(events) {
			pipeline.ClearCache()
		}

		summary, err := pipeline.BuildAll(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
			return nil
		}
		printSummary(os.Stdout, summary)
		if summary.Failed > 0 {
			printFailures(os.Stderr, summary)
		}
		return nil
	})

	fmt.Println("🔍 Setting up file watching...")
	for _, path := range cfg.Documents.ScanPaths {
		if err := fileWatcher.AddRecursive(path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to watch path %s: %v\n", path, err)
		} else {
			fmt.Printf("   - Watching: %s\n", path)
		}
	}

	fmt.Println("📁 Performing initial scan...")
	seen, err := documentScanner.ScanAll(ctx, cfg.Documents.ScanPaths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: initial scan failed: %v\n", err)
	}
	fmt.Printf("Found %d documents\n", len(seen))

	if len(seen) > 0 {
		summary, err := pipeline.BuildAll(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Initial build failed: %v\n", err)
		} else {
			printSummary(os.Stdout, summary)
			if summary.Failed > 0 {
				printFailures(os.Stderr, summary)
			}
		}
	}

	if err := fileWatcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	fmt.Println("👀 Watching for changes... (Press Ctrl+C to stop)")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
	case <-ctx.Done():
	}
	fmt.Println("\n🛑 Stopping file watcher...")
	cancel()

	return nil
}

// templatesChanged reports whether any event touches an MJML document.
func templatesChanged(events []watcher.ChangeEvent) bool {
	for _, event := range events {
		if filepath.Ext(event.Path) == scanner.DocumentExtension {
			return true
		}
	}
	return false
}
