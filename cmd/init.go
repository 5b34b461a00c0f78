package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mailtempl/mailtempl/internal/config"
	"github.com/mailtempl/mailtempl/internal/scaffolding"
)

var initCmd = &cobra.Command{
	Use:     "init [directory]",
	Aliases: []string{"i"},
	Short:   "Initialize a new mailtempl project",
	Long: `Initialize a new mailtempl project with a starter document, a shared
header partial, theme and sample data files, and a configuration file.
If no directory is provided, initializes in the current directory.

Examples:
  mailtempl init                  # Initialize in current directory
  mailtempl init newsletters      # Initialize in new directory 'newsletters'
  mailtempl init --name "Acme"    # Override the project display name
  mailtempl init --force          # Overwrite existing files`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var (
	initName  string
	initForce bool
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initName, "name", "", "Project display name (default: directory name)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite files that already exist")
}

func runInit(cmd *cobra.Command, args []string) error {
	projectDir := "."
	if len(args) > 0 {
		projectDir = args[0]
		if err := os.MkdirAll(projectDir, 0o755); err != nil {
			return fmt.Errorf("failed to create project directory: %w", err)
		}
	}

	fmt.Printf("Initializing mailtempl project in %s\n", projectDir)

	// The project has no config yet, so the logger runs on defaults.
	logger := newLogger(config.Default())
	generator := scaffolding.NewGenerator(scaffolding.Options{
		ProjectName: initName,
		Force:       initForce,
	}, logger)

	created, err := generator.Scaffold(cmd.Context(), projectDir)
	if err != nil {
		return err
	}
	for _, path := range created {
		fmt.Printf("   - Created: %s\n", path)
	}

	fmt.Println("✓ Project initialized successfully!")
	fmt.Println("\nNext steps:")
	step := 1
	if projectDir != "." {
		fmt.Printf("  %d. cd %s\n", step, projectDir)
		step++
	}
	fmt.Printf("  %d. mailtempl build\n", step)
	fmt.Printf("  %d. Open %s/index.html in your email testing tool\n", step+1, config.Default().Documents.OutputDir)

	return nil
}
