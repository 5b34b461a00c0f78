// Package scaffolding generates starter projects for the init command: an
// example document with a partial, theme and sample data files, and a
// default configuration file.
package scaffolding

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/mailtempl/mailtempl/internal/config"
	"github.com/mailtempl/mailtempl/internal/logging"
)

// Options configures project generation.
type Options struct {
	// ProjectName overrides the display name. Defaults to the target
	// directory base name.
	ProjectName string
	// Force overwrites files that already exist.
	Force bool
}

// Generator scaffolds new mailtempl projects.
type Generator struct {
	options Options
	logger  logging.Logger
}

// TemplateContext is the data passed to scaffold templates.
type TemplateContext struct {
	// DisplayName is the title-cased project name.
	DisplayName string
}

// scaffoldFile pairs a project-relative path with its template source.
type scaffoldFile struct {
	path     string
	template string
}

// NewGenerator creates a project generator. A nil logger disables logging.
func NewGenerator(options Options, logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Generator{
		options: options,
		logger:  logger.WithComponent("scaffolding"),
	}
}

// Scaffold generates a starter project in dir and returns the files written.
// Without Force it refuses to touch a directory that already contains any of
// the scaffold files.
func (g *Generator) Scaffold(ctx context.Context, dir string) ([]string, error) {
	name := g.options.ProjectName
	if name == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolving project directory: %w", err)
		}
		name = filepath.Base(abs)
	}

	data := TemplateContext{DisplayName: displayName(name)}

	configContent, err := defaultConfigYAML()
	if err != nil {
		return nil, err
	}

	files := []scaffoldFile{
		{path: "index.mjml", template: indexTemplate},
		{path: filepath.Join("partials", "header.mjml"), template: headerPartialTemplate},
		{path: "email-theme.json", template: themeTemplate},
		{path: "index.sample.json", template: sampleTemplate},
		{path: config.DefaultConfigFile, template: configContent},
	}

	if !g.options.Force {
		for _, f := range files {
			target := filepath.Join(dir, f.path)
			if _, err := os.Stat(target); err == nil {
				return nil, fmt.Errorf("%s already exists (use --force to overwrite)", target)
			}
		}
	}

	var written []string
	for _, f := range files {
		target := filepath.Join(dir, f.path)
		content, err := renderTemplate(f.path, f.template, data)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
		}
		if err := os.WriteFile(target, content, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", target, err)
		}
		written = append(written, target)
	}

	g.logger.Info(ctx, "Project scaffolded", "dir", dir, "files", len(written))
	return written, nil
}

// renderTemplate executes a scaffold template with [[ ]] delimiters.
func renderTemplate(name, source string, data TemplateContext) ([]byte, error) {
	tmpl, err := template.New(name).Delims("[[", "]]").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parsing scaffold template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering scaffold template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// defaultConfigYAML serializes the default configuration for the generated
// project.
func defaultConfigYAML() (string, error) {
	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return "", fmt.Errorf("marshaling default config: %w", err)
	}
	return configHeader + string(data), nil
}

// displayName turns a directory name like "transactional-emails" into
// "Transactional Emails".
func displayName(name string) string {
	spaced := strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return cases.Title(language.English).String(spaced)
}
