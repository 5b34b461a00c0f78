// Package compiler adapts the MJML-to-HTML transpiler. The adapter
// never returns a Go error: every transpiler outcome is converted into
// a Result value so callers decide how to report failures. An empty
// Result.HTML means the compile failed entirely; Result.Errors carries
// the transpiler's structured error list.
package compiler

import (
	"context"
	stderrors "errors"
	"fmt"

	mjml "github.com/Boostport/mjml-go"

	"github.com/mailtempl/mailtempl/internal/errors"
)

// ValidationLevel governs how strictly the transpiler enforces
// structural correctness.
type ValidationLevel string

const (
	ValidationStrict ValidationLevel = "strict"
	ValidationSoft   ValidationLevel = "soft"
	ValidationSkip   ValidationLevel = "skip"
)

// Validate reports whether the level is one of the supported values.
func (l ValidationLevel) Validate() error {
	switch l {
	case ValidationStrict, ValidationSoft, ValidationSkip:
		return nil
	}
	return fmt.Errorf("invalid validation level %q (supported: strict, soft, skip)", string(l))
}

// Request describes one compile invocation. Path and RootDir identify
// the document for post-processing and diagnostics; the transpiler
// itself runs sandboxed without filesystem access.
type Request struct {
	Markup          string
	Path            string
	RootDir         string
	Minify          bool
	Beautify        bool
	ValidationLevel ValidationLevel
}

// Result is the compile outcome. Empty HTML means total failure;
// non-empty HTML with errors means partial success.
type Result struct {
	HTML   string
	Errors []errors.CompileError
}

// transpileFunc matches mjml.ToHTML and lets tests substitute the
// transpiler.
type transpileFunc func(ctx context.Context, markup string, options ...mjml.ToHTMLOption) (string, error)

// Adapter invokes the transpiler and converts its outcomes into Result
// values.
type Adapter struct {
	transpile transpileFunc
}

// New creates an adapter backed by the embedded transpiler.
func New() *Adapter {
	return &Adapter{transpile: mjml.ToHTML}
}

// Compile runs the transpiler for the request. It never returns a Go
// error: transpiler errors become Result.Errors and any other failure
// (context cancellation, runtime fault) becomes a single wrapped entry.
func (a *Adapter) Compile(ctx context.Context, req Request) Result {
	html, err := a.transpile(ctx, req.Markup,
		mjml.WithMinify(req.Minify),
		mjml.WithBeautify(req.Beautify),
		mjml.WithValidationLevel(req.ValidationLevel.mjmlLevel()),
	)
	if err != nil {
		var mjmlErr mjml.Error
		if stderrors.As(err, &mjmlErr) {
			return Result{Errors: toCompileErrors(mjmlErr)}
		}
		return Result{Errors: []errors.CompileError{{Message: err.Error()}}}
	}
	return Result{HTML: html}
}

func (l ValidationLevel) mjmlLevel() mjml.ValidationLevel {
	switch l {
	case ValidationStrict:
		return mjml.Strict
	case ValidationSoft:
		return mjml.Soft
	default:
		return mjml.Skip
	}
}

func toCompileErrors(mjmlErr mjml.Error) []errors.CompileError {
	if len(mjmlErr.Details) == 0 {
		return []errors.CompileError{{Message: mjmlErr.Message}}
	}
	out := make([]errors.CompileError, 0, len(mjmlErr.Details))
	for _, detail := range mjmlErr.Details {
		out = append(out, errors.CompileError{
			Line:    detail.Line,
			TagName: detail.TagName,
			Message: detail.Message,
		})
	}
	return out
}
