// Package renderer orchestrates the document render pipeline.
//
// One render is one full pass: property resolution, template execution,
// compilation with the malformed-root retry, then the optional
// post-processing stages (image embedding, CSS inlining, output
// formatting). Post-processing failures degrade to the prior HTML and
// are logged; property and template failures propagate to the caller.
package renderer

import (
	"context"
	"fmt"
	"os"

	"github.com/mailtempl/mailtempl/internal/beautify"
	"github.com/mailtempl/mailtempl/internal/compiler"
	"github.com/mailtempl/mailtempl/internal/config"
	"github.com/mailtempl/mailtempl/internal/errors"
	"github.com/mailtempl/mailtempl/internal/inline"
	"github.com/mailtempl/mailtempl/internal/logging"
	"github.com/mailtempl/mailtempl/internal/props"
	"github.com/mailtempl/mailtempl/internal/template"
	"github.com/mailtempl/mailtempl/internal/types"
)

// Options are the per-render settings derived from configuration and
// flags. They are immutable for the renderer's lifetime.
type Options struct {
	Minify          bool
	Beautify        bool
	EmbedImages     bool
	InlineCSS       bool
	FormatOutput    bool
	ValidationLevel compiler.ValidationLevel
	BeautifyOptions beautify.Options
	RootDir         string
}

// OptionsFromConfig derives render options from loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Minify:          cfg.MinifyHTMLOutput,
		Beautify:        cfg.BeautifyHTMLOutput,
		EmbedImages:     cfg.EmbedImages,
		InlineCSS:       cfg.InlineCSS,
		FormatOutput:    cfg.FormatOutput,
		ValidationLevel: compiler.ValidationLevel(cfg.ValidationLevel),
		BeautifyOptions: beautify.OptionsFromMap(cfg.Beautify),
	}
}

// Result is a render outcome. Empty HTML means the compile failed;
// Errors may accompany non-empty HTML as warnings.
type Result struct {
	HTML   string
	Errors []errors.CompileError
}

// Failed reports whether the render produced no usable HTML.
func (r Result) Failed() bool {
	return r.HTML == ""
}

// Compiler is the compile stage of the pipeline.
type Compiler interface {
	CompileWithRetry(ctx context.Context, req compiler.Request) compiler.Result
}

// Renderer renders documents. Renders are independent: the renderer
// holds only immutable options and stateless collaborators, so it is
// safe for concurrent use.
type Renderer struct {
	engine   *template.Engine
	compiler Compiler
	options  Options
	logger   logging.Logger
}

// New creates a renderer with the embedded transpiler.
func New(opts Options, logger logging.Logger) *Renderer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Renderer{
		engine:   template.New(),
		compiler: compiler.New(),
		options:  opts,
		logger:   logger.WithComponent("renderer"),
	}
}

// Options returns the renderer's settings.
func (r *Renderer) Options() Options {
	return r.options
}

// RenderFile reads the document at path and renders it.
func (r *Renderer) RenderFile(ctx context.Context, path string) (Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading document: %w", err)
	}
	return r.Render(ctx, types.Document{Path: path, Content: string(content)})
}

// Render runs the full pipeline for one document. Property and template
// failures return an error; compile failures return a Result carrying
// the compiler's structured errors and a nil error.
func (r *Renderer) Render(ctx context.Context, doc types.Document) (Result, error) {
	r.logger.Debug(ctx, "Rendering document", "document", doc.Path)

	set, err := props.Resolve(doc.Path)
	if err != nil {
		return Result{}, err
	}

	markup, err := r.engine.Render(doc, set)
	if err != nil {
		return Result{}, err
	}

	compiled := r.compiler.CompileWithRetry(ctx, compiler.Request{
		Markup:          markup,
		Path:            doc.Path,
		RootDir:         r.options.RootDir,
		Minify:          r.options.Minify,
		Beautify:        r.options.Beautify,
		ValidationLevel: r.options.ValidationLevel,
	})
	if compiled.HTML == "" {
		r.logger.Warn(ctx, nil, "Compile failed",
			"document", doc.Path,
			"errors", len(compiled.Errors))
		return Result{Errors: compiled.Errors}, nil
	}

	html := compiled.HTML

	if r.options.EmbedImages {
		html = inline.Images(html, doc.Path)
	}

	if r.options.InlineCSS {
		inlined, err := inline.CSS(html)
		if err != nil {
			r.logger.Warn(ctx, err, "CSS inlining skipped", "document", doc.Path)
		} else {
			html = inlined
		}
	}

	if r.options.FormatOutput {
		formatted, err := beautify.FormatPreservingStyles(html, r.options.BeautifyOptions)
		if err != nil {
			r.logger.Warn(ctx, err, "Beautification skipped", "document", doc.Path)
		} else {
			html = formatted
		}
	}

	return Result{HTML: html, Errors: compiled.Errors}, nil
}
