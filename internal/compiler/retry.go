package compiler

import "context"

// MalformedDocumentMessage is the transpiler's report for markup whose
// root structure is not enclosed in mjml tags. Document fragments and
// partials trigger it.
const MalformedDocumentMessage = "Malformed MJML. Check that your structure is correct and enclosed in <mjml> tags."

// CompileWithRetry compiles the request and, when the result is exactly
// one malformed-root error, compiles once more with the markup wrapped
// in a full document skeleton. The second result is returned whether or
// not it succeeded; there is no further retry.
func (a *Adapter) CompileWithRetry(ctx context.Context, req Request) Result {
	result := a.Compile(ctx, req)
	if !isMalformedRoot(result) {
		return result
	}

	retried := req
	retried.Markup = WrapBody(req.Markup)
	return a.Compile(ctx, retried)
}

func isMalformedRoot(r Result) bool {
	return len(r.Errors) == 1 && r.Errors[0].Message == MalformedDocumentMessage
}

// WrapBody nests fragment markup inside an mjml/mj-body skeleton so the
// transpiler accepts it as a complete document.
func WrapBody(markup string) string {
	return "<mjml><mj-body>" + markup + "</mj-body></mjml>"
}
