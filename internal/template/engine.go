// Package template implements the document template engine. Documents
// are handlebars templates: interpolation reads from the merged property
// set, the ifEquals block helper compares loosely the way template data
// sourced from JSON expects, and the include helper splices sibling
// partial documents rendered with the same property set.
package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymerick/raymond"

	"github.com/mailtempl/mailtempl/internal/errors"
	"github.com/mailtempl/mailtempl/internal/props"
	"github.com/mailtempl/mailtempl/internal/types"
)

// PartialExtension is appended to include names when resolving partial
// files next to the including document.
const PartialExtension = ".mjml"

// maxIncludeDepth bounds recursive partial inclusion so mutually
// including documents fail instead of recursing unboundedly.
const maxIncludeDepth = 16

// Engine renders documents. It holds no per-render state; helpers are
// registered on each parsed template with closures over that render's
// state, so concurrent renders never share mutable data.
type Engine struct{}

// New creates a template engine.
func New() *Engine {
	return &Engine{}
}

// renderState carries one render's context through helper invocations.
// Helpers cannot return errors, so the first failure is recorded here
// and checked after template execution.
type renderState struct {
	doc   types.Document
	props props.PropertySet
	depth int
	err   error
}

func (s *renderState) record(err error) {
	if s.err == nil {
		s.err = err
	}
}

// Render resolves the document's template against the property set and
// returns the resulting markup. Parse and execution failures wrap into
// *errors.TemplateCompileError; a missing partial surfaces as
// *errors.PartialNotFoundError. Missing interpolation paths render as
// empty strings, never as errors.
func (e *Engine) Render(doc types.Document, set props.PropertySet) (string, error) {
	return e.render(doc, set, 0)
}

func (e *Engine) render(doc types.Document, set props.PropertySet, depth int) (string, error) {
	if depth > maxIncludeDepth {
		return "", &errors.TemplateCompileError{
			Path: doc.Path,
			Err:  fmt.Errorf("include depth exceeds %d", maxIncludeDepth),
		}
	}

	tpl, err := raymond.Parse(doc.Content)
	if err != nil {
		return "", &errors.TemplateCompileError{Path: doc.Path, Err: err}
	}

	state := &renderState{doc: doc, props: set, depth: depth}
	tpl.RegisterHelper("ifEquals", ifEqualsHelper)
	tpl.RegisterHelper("include", e.includeHelper(state))

	out, err := tpl.Exec(map[string]interface{}(set))
	if err != nil {
		return "", &errors.TemplateCompileError{Path: doc.Path, Err: err}
	}
	if state.err != nil {
		return "", state.err
	}
	return out, nil
}

// ifEqualsHelper renders the primary block when both values stringify to
// the same text, so "1" from a template literal equals 1 from JSON data.
func ifEqualsHelper(a, b interface{}, options *raymond.Options) string {
	if raymond.Str(a) == raymond.Str(b) {
		return options.Fn()
	}
	return options.Inverse()
}

// includeHelper resolves {{include "name"}} against the including
// document's directory, renders the partial with the same property set,
// and splices the result unescaped.
func (e *Engine) includeHelper(state *renderState) func(string) raymond.SafeString {
	return func(name string) raymond.SafeString {
		if state.err != nil {
			return ""
		}

		if !validPartialName(name) {
			state.record(&errors.TemplateCompileError{
				Path: state.doc.Path,
				Err:  fmt.Errorf("invalid partial name %q", name),
			})
			return ""
		}

		partialPath := filepath.Join(filepath.Dir(state.doc.Path), name+PartialExtension)
		content, err := os.ReadFile(partialPath)
		if err != nil {
			if os.IsNotExist(err) {
				state.record(&errors.PartialNotFoundError{
					Name:         name,
					Path:         partialPath,
					IncludedFrom: state.doc.Path,
				})
			} else {
				state.record(&errors.TemplateCompileError{Path: partialPath, Err: err})
			}
			return ""
		}

		partial := types.Document{Path: partialPath, Content: string(content)}
		rendered, err := e.render(partial, state.props, state.depth+1)
		if err != nil {
			state.record(err)
			return ""
		}
		return raymond.SafeString(rendered)
	}
}

// validPartialName rejects absolute paths and upward traversal so a
// document can only include siblings and descendants of its directory.
func validPartialName(name string) bool {
	if name == "" {
		return false
	}
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) || strings.HasPrefix(name, "\\") {
		return false
	}
	return !strings.Contains(clean, "..")
}
