package compiler

import (
	"context"
	stderrors "errors"
	"testing"

	mjml "github.com/Boostport/mjml-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubAdapter(fn transpileFunc) *Adapter {
	return &Adapter{transpile: fn}
}

func TestCompileSuccess(t *testing.T) {
	a := stubAdapter(func(ctx context.Context, markup string, options ...mjml.ToHTMLOption) (string, error) {
		return "<html>" + markup + "</html>", nil
	})

	result := a.Compile(context.Background(), Request{Markup: "body"})

	assert.Equal(t, "<html>body</html>", result.HTML)
	assert.Empty(t, result.Errors)
}

func TestCompileTranspilerErrorWithDetails(t *testing.T) {
	a := stubAdapter(func(ctx context.Context, markup string, options ...mjml.ToHTMLOption) (string, error) {
		return "", mjml.Error{
			Message: "validation failed",
			Details: []struct {
				Line    int    `json:"line"`
				Message string `json:"message"`
				TagName string `json:"tagName"`
			}{
				{Line: 4, TagName: "mj-image", Message: "missing src"},
				{Line: 9, TagName: "mj-button", Message: "bad href"},
			},
		}
	})

	result := a.Compile(context.Background(), Request{Markup: "x"})

	assert.Empty(t, result.HTML)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 4, result.Errors[0].Line)
	assert.Equal(t, "mj-image", result.Errors[0].TagName)
	assert.Equal(t, "missing src", result.Errors[0].Message)
	assert.Equal(t, "bad href", result.Errors[1].Message)
}

func TestCompileTranspilerErrorWithoutDetails(t *testing.T) {
	a := stubAdapter(func(ctx context.Context, markup string, options ...mjml.ToHTMLOption) (string, error) {
		return "", mjml.Error{Message: MalformedDocumentMessage}
	})

	result := a.Compile(context.Background(), Request{Markup: "x"})

	assert.Empty(t, result.HTML)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, MalformedDocumentMessage, result.Errors[0].Message)
}

func TestCompileOtherErrorNeverPropagates(t *testing.T) {
	a := stubAdapter(func(ctx context.Context, markup string, options ...mjml.ToHTMLOption) (string, error) {
		return "", stderrors.New("wasm runtime panic")
	})

	result := a.Compile(context.Background(), Request{Markup: "x"})

	assert.Empty(t, result.HTML)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "wasm runtime panic", result.Errors[0].Message)
}

func TestCompileContextCancellation(t *testing.T) {
	a := stubAdapter(func(ctx context.Context, markup string, options ...mjml.ToHTMLOption) (string, error) {
		return "", ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := a.Compile(ctx, Request{Markup: "x"})

	assert.Empty(t, result.HTML)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "context canceled")
}

func TestValidationLevelValidate(t *testing.T) {
	assert.NoError(t, ValidationStrict.Validate())
	assert.NoError(t, ValidationSoft.Validate())
	assert.NoError(t, ValidationSkip.Validate())

	err := ValidationLevel("loose").Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"loose"`)
	assert.Error(t, ValidationLevel("").Validate())
}

func TestValidationLevelMapping(t *testing.T) {
	assert.Equal(t, mjml.Strict, ValidationStrict.mjmlLevel())
	assert.Equal(t, mjml.Soft, ValidationSoft.mjmlLevel())
	assert.Equal(t, mjml.Skip, ValidationSkip.mjmlLevel())
	assert.Equal(t, mjml.Skip, ValidationLevel("").mjmlLevel())
	assert.Equal(t, mjml.Skip, ValidationLevel("bogus").mjmlLevel())
}

func TestNewUsesEmbeddedTranspiler(t *testing.T) {
	a := New()
	assert.NotNil(t, a.transpile)
}
