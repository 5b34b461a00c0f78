package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name          string
		setup         func()
		expectError   bool
		expectedPaths []string
	}{
		{
			name: "successful load with defaults",
			setup: func() {
				viper.Reset()
			},
			expectError:   false,
			expectedPaths: []string{"."},
		},
		{
			name: "successful load with custom scan paths",
			setup: func() {
				viper.Reset()
				viper.Set("documents.scanPaths", []string{"./emails", "./newsletters"})
			},
			expectError:   false,
			expectedPaths: []string{"./emails", "./newsletters"},
		},
		{
			name: "invalid validation level",
			setup: func() {
				viper.Reset()
				viper.Set("validationLevel", "pedantic")
			},
			expectError: true,
		},
		{
			name: "export type without dot",
			setup: func() {
				viper.Reset()
				viper.Set("exportType", "html")
			},
			expectError: true,
		},
		{
			name: "scan path with traversal",
			setup: func() {
				viper.Reset()
				viper.Set("documents.scanPaths", []string{"../outside"})
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			config, err := Load()

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, config)
			} else {
				require.NoError(t, err)
				require.NotNil(t, config)
				assert.Equal(t, tt.expectedPaths, config.Documents.ScanPaths)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	viper.Reset()

	config, err := Load()
	require.NoError(t, err)

	assert.False(t, config.MinifyHTMLOutput)
	assert.True(t, config.BeautifyHTMLOutput)
	assert.False(t, config.EmbedImages)
	assert.False(t, config.InlineCSS)
	assert.False(t, config.FormatOutput)
	assert.Equal(t, ValidationSkip, config.ValidationLevel)
	assert.Equal(t, ".html", config.ExportType)
	assert.Equal(t, "dist", config.Documents.OutputDir)
	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
}

func TestLoadOverrides(t *testing.T) {
	viper.Reset()
	viper.Set("minifyHtmlOutput", true)
	viper.Set("beautifyHtmlOutput", false)
	viper.Set("embedImages", true)
	viper.Set("inlineCss", true)
	viper.Set("formatOutput", true)
	viper.Set("validationLevel", "strict")
	viper.Set("exportType", ".htm")
	viper.Set("beautify", map[string]interface{}{"indent_size": 4})
	viper.Set("documents.outputDir", "out")
	viper.Set("log.level", "debug")
	viper.Set("log.format", "json")

	config, err := Load()
	require.NoError(t, err)

	assert.True(t, config.MinifyHTMLOutput)
	assert.False(t, config.BeautifyHTMLOutput)
	assert.True(t, config.EmbedImages)
	assert.True(t, config.InlineCSS)
	assert.True(t, config.FormatOutput)
	assert.Equal(t, ValidationStrict, config.ValidationLevel)
	assert.Equal(t, ".htm", config.ExportType)
	assert.Equal(t, map[string]interface{}{"indent_size": 4}, config.Beautify)
	assert.Equal(t, "out", config.Documents.OutputDir)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
}

func TestValidateDocumentsConfig(t *testing.T) {
	err := validateDocumentsConfig(&DocumentsConfig{
		ScanPaths: []string{"./emails"},
		OutputDir: "../elsewhere",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "path traversal")

	err = validateDocumentsConfig(&DocumentsConfig{
		ScanPaths: []string{"emails;rm -rf"},
	})
	assert.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, validateConfig(Default()))
}
