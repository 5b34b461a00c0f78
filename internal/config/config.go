// Package config provides configuration management for the mailtempl CLI
// using Viper for flexible configuration loading from files, environment
// variables, and command-line flags.
//
// The configuration system supports YAML files (.mailtempl.yml), environment
// variable overrides with the MAILTEMPL_ prefix, and validation. It manages
// render options (minify, beautify, image embedding, CSS inlining, output
// formatting), document scanning paths, and logging settings.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Validation levels accepted by the markup compiler.
const (
	ValidationStrict = "strict"
	ValidationSoft   = "soft"
	ValidationSkip   = "skip"
)

// DefaultConfigFile is the configuration file written by `mailtempl init`
// and looked up by every command.
const DefaultConfigFile = ".mailtempl.yml"

type Config struct {
	MinifyHTMLOutput   bool                   `yaml:"minifyHtmlOutput" mapstructure:"minifyHtmlOutput"`
	BeautifyHTMLOutput bool                   `yaml:"beautifyHtmlOutput" mapstructure:"beautifyHtmlOutput"`
	EmbedImages        bool                   `yaml:"embedImages" mapstructure:"embedImages"`
	InlineCSS          bool                   `yaml:"inlineCss" mapstructure:"inlineCss"`
	FormatOutput       bool                   `yaml:"formatOutput" mapstructure:"formatOutput"`
	ValidationLevel    string                 `yaml:"validationLevel" mapstructure:"validationLevel"`
	ExportType         string                 `yaml:"exportType" mapstructure:"exportType"`
	Beautify           map[string]interface{} `yaml:"beautify,omitempty" mapstructure:"beautify"`
	Documents          DocumentsConfig        `yaml:"documents" mapstructure:"documents"`
	Log                LogConfig              `yaml:"log" mapstructure:"log"`
	TargetFiles        []string               `yaml:"-" mapstructure:"-"` // CLI arguments, not from config file
}

type DocumentsConfig struct {
	ScanPaths []string `yaml:"scanPaths" mapstructure:"scanPaths"`
	Exclude   []string `yaml:"exclude" mapstructure:"exclude"`
	OutputDir string   `yaml:"outputDir" mapstructure:"outputDir"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Default returns the configuration used when no file, environment
// variable, or flag overrides a value. `mailtempl init` marshals this
// into the project's .mailtempl.yml.
func Default() *Config {
	return &Config{
		MinifyHTMLOutput:   false,
		BeautifyHTMLOutput: true,
		EmbedImages:        false,
		InlineCSS:          false,
		FormatOutput:       false,
		ValidationLevel:    ValidationSkip,
		ExportType:         ".html",
		Documents: DocumentsConfig{
			ScanPaths: []string{"."},
			Exclude:   []string{"node_modules"},
			OutputDir: "dist",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	defaults := Default()

	// Handle scanPaths set via viper (workaround for viper slice handling)
	if viper.IsSet("documents.scanPaths") && len(config.Documents.ScanPaths) == 0 {
		scanPaths := viper.GetStringSlice("documents.scanPaths")
		if len(scanPaths) > 0 {
			config.Documents.ScanPaths = scanPaths
		}
	}
	if len(config.Documents.ScanPaths) == 0 {
		config.Documents.ScanPaths = defaults.Documents.ScanPaths
	}

	// Handle exclude patterns set via viper (workaround for viper slice handling)
	if viper.IsSet("documents.exclude") && len(config.Documents.Exclude) == 0 {
		exclude := viper.GetStringSlice("documents.exclude")
		if len(exclude) > 0 {
			config.Documents.Exclude = exclude
		}
	}
	if len(config.Documents.Exclude) == 0 {
		config.Documents.Exclude = defaults.Documents.Exclude
	}

	// Handle render flags set via viper (workaround for viper bool handling)
	if viper.IsSet("minifyHtmlOutput") {
		config.MinifyHTMLOutput = viper.GetBool("minifyHtmlOutput")
	}
	if viper.IsSet("beautifyHtmlOutput") {
		config.BeautifyHTMLOutput = viper.GetBool("beautifyHtmlOutput")
	} else {
		config.BeautifyHTMLOutput = defaults.BeautifyHTMLOutput
	}
	if viper.IsSet("embedImages") {
		config.EmbedImages = viper.GetBool("embedImages")
	}
	if viper.IsSet("inlineCss") {
		config.InlineCSS = viper.GetBool("inlineCss")
	}
	if viper.IsSet("formatOutput") {
		config.FormatOutput = viper.GetBool("formatOutput")
	}

	if config.ValidationLevel == "" {
		config.ValidationLevel = defaults.ValidationLevel
	}
	if config.ExportType == "" {
		config.ExportType = defaults.ExportType
	}
	if config.Documents.OutputDir == "" {
		config.Documents.OutputDir = defaults.Documents.OutputDir
	}
	if config.Log.Level == "" {
		config.Log.Level = defaults.Log.Level
	}
	if config.Log.Format == "" {
		config.Log.Format = defaults.Log.Format
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateRenderConfig(config); err != nil {
		return fmt.Errorf("render config: %w", err)
	}

	if err := validateDocumentsConfig(&config.Documents); err != nil {
		return fmt.Errorf("documents config: %w", err)
	}

	return nil
}

// validateRenderConfig validates render-related configuration values
func validateRenderConfig(config *Config) error {
	switch config.ValidationLevel {
	case ValidationStrict, ValidationSoft, ValidationSkip:
	default:
		return fmt.Errorf("validationLevel %q is not one of strict, soft, skip", config.ValidationLevel)
	}

	if !strings.HasPrefix(config.ExportType, ".") {
		return fmt.Errorf("exportType %q must begin with a dot", config.ExportType)
	}
	if strings.ContainsAny(config.ExportType, "/\\") {
		return fmt.Errorf("exportType %q must not contain path separators", config.ExportType)
	}

	return nil
}

// validateDocumentsConfig validates document scanning configuration values
func validateDocumentsConfig(config *DocumentsConfig) error {
	for _, path := range config.ScanPaths {
		if err := validatePath(path); err != nil {
			return fmt.Errorf("invalid scan path '%s': %w", path, err)
		}
	}

	if config.OutputDir != "" {
		cleanPath := filepath.Clean(config.OutputDir)
		if strings.Contains(cleanPath, "..") {
			return fmt.Errorf("outputDir contains path traversal: %s", config.OutputDir)
		}
	}

	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
