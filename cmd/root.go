// Package cmd provides the command-line interface for mailtempl with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --output, etc.) - highest priority
//	2. MAILTEMPL_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (MAILTEMPL_EXPORTTYPE, etc.)
//	4. Configuration files (.mailtempl.yml) - lowest priority
//
// Environment Variables:
//
//	MAILTEMPL_CONFIG_FILE: Path to custom configuration file
//	MAILTEMPL_VALIDATIONLEVEL: Override MJML validation level
//	MAILTEMPL_LOG_LEVEL: Override log level
//	And more following the MAILTEMPL_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mailtempl",
	Short: "An MJML email template build tool with data-driven rendering",
	Long: `Mailtempl renders MJML email templates to responsive HTML. Documents are
Handlebars templates resolved against sibling theme and sample data files,
compiled through MJML, and post-processed for email client delivery.

Key Features:
  • Handlebars interpolation with conditionals and partials
  • Theme and per-document sample data resolution
  • Batch builds with caching and a bounded worker pool
  • Image embedding as data URIs and CSS inlining
  • HTML beautification tuned for MJML style blocks
  • File watching with debounced rebuilds

Quick Start:
  mailtempl init                  Initialize a new project
  mailtempl build                 Render all documents
  mailtempl render index.mjml     Render a single document
  mailtempl watch                 Rebuild on file changes

Command Aliases (for faster typing):
  build (b), render (r), watch (w), lint (l), init (i)

Documentation: https://github.com/mailtempl/mailtempl`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .mailtempl.yml, can also use MAILTEMPL_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text, json)")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig initializes the configuration system with support for multiple
// config sources.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. MAILTEMPL_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .mailtempl.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("MAILTEMPL_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".mailtempl")
	}

	viper.SetEnvPrefix("MAILTEMPL")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing config file is fine; defaults and flags still apply
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
