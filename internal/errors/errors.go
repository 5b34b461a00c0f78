// Package errors defines the error taxonomy of the render pipeline.
//
// Resolver and template errors (PropertyParseError, TemplateCompileError,
// PartialNotFoundError) are fatal to a render and propagate to the caller.
// Transpiler diagnostics are value-typed CompileErrors carried inside compile
// results, never Go errors. Formatting failures (FormatError) are caught at
// the pipeline boundary and reported as warnings.
package errors

import (
	"errors"
	"fmt"
)

// CompileError is a single structured diagnostic reported by the MJML
// transpiler. Line and TagName are zero-valued when the transpiler does not
// attribute the error to a location.
type CompileError struct {
	Line    int
	TagName string
	Message string
}

// Error implements the error interface.
func (e CompileError) Error() string {
	switch {
	case e.Line > 0 && e.TagName != "":
		return fmt.Sprintf("line %d (%s): %s", e.Line, e.TagName, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	case e.TagName != "":
		return fmt.Sprintf("%s: %s", e.TagName, e.Message)
	default:
		return e.Message
	}
}

// PropertyParseError reports a sibling property file (theme or sample data)
// that exists but does not contain valid JSON. A missing file is not an
// error; only a malformed one is.
type PropertyParseError struct {
	Path string
	Err  error
}

func (e *PropertyParseError) Error() string {
	return fmt.Sprintf("parsing properties %s: %v", e.Path, e.Err)
}

func (e *PropertyParseError) Unwrap() error { return e.Err }

// TemplateCompileError reports invalid template syntax in a document or one
// of its partials.
type TemplateCompileError struct {
	Path string
	Err  error
}

func (e *TemplateCompileError) Error() string {
	return fmt.Sprintf("compiling template %s: %v", e.Path, e.Err)
}

func (e *TemplateCompileError) Unwrap() error { return e.Err }

// PartialNotFoundError reports an include directive whose resolved partial
// file does not exist.
type PartialNotFoundError struct {
	// Name is the partial name as written in the include directive.
	Name string
	// Path is the resolved filesystem path that was probed.
	Path string
	// IncludedFrom is the document that contained the directive.
	IncludedFrom string
}

func (e *PartialNotFoundError) Error() string {
	return fmt.Sprintf("partial %q not found at %s (included from %s)", e.Name, e.Path, e.IncludedFrom)
}

// FormatError reports a beautifier failure. Callers treat it as
// "beautification skipped": the pre-format HTML stays in effect.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("formatting HTML: %v", e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// IsPartialNotFound reports whether err is or wraps a PartialNotFoundError.
func IsPartialNotFound(err error) bool {
	var target *PartialNotFoundError
	return errors.As(err, &target)
}

// IsPropertyParse reports whether err is or wraps a PropertyParseError.
func IsPropertyParse(err error) bool {
	var target *PropertyParseError
	return errors.As(err, &target)
}

// IsTemplateCompile reports whether err is or wraps a TemplateCompileError.
func IsTemplateCompile(err error) bool {
	var target *TemplateCompileError
	return errors.As(err, &target)
}
