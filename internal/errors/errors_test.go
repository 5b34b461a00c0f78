package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileErrorFormatting(t *testing.T) {
	testCases := []struct {
		name     string
		err      CompileError
		expected string
	}{
		{
			name:     "message only",
			err:      CompileError{Message: "something went wrong"},
			expected: "something went wrong",
		},
		{
			name:     "with line",
			err:      CompileError{Line: 12, Message: "unexpected element"},
			expected: "line 12: unexpected element",
		},
		{
			name:     "with line and tag",
			err:      CompileError{Line: 3, TagName: "mj-image", Message: "missing src"},
			expected: "line 3 (mj-image): missing src",
		},
		{
			name:     "with tag only",
			err:      CompileError{TagName: "mj-button", Message: "bad attribute"},
			expected: "mj-button: bad attribute",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestPropertyParseErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("unexpected end of JSON input")
	err := &PropertyParseError{Path: "/emails/email-theme.json", Err: cause}

	assert.Contains(t, err.Error(), "email-theme.json")
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsPropertyParse(err))
	assert.True(t, IsPropertyParse(fmt.Errorf("render: %w", err)))
	assert.False(t, IsPropertyParse(cause))
}

func TestTemplateCompileErrorUnwrap(t *testing.T) {
	cause := errors.New("unclosed block")
	err := &TemplateCompileError{Path: "/emails/welcome.mjml", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsTemplateCompile(err))
	assert.False(t, IsTemplateCompile(cause))
}

func TestPartialNotFoundError(t *testing.T) {
	err := &PartialNotFoundError{
		Name:         "header",
		Path:         "/emails/header.mjml",
		IncludedFrom: "/emails/welcome.mjml",
	}

	assert.Contains(t, err.Error(), `"header"`)
	assert.Contains(t, err.Error(), "/emails/header.mjml")
	assert.True(t, IsPartialNotFound(err))
	assert.True(t, IsPartialNotFound(fmt.Errorf("wrapped: %w", err)))

	var target *PartialNotFoundError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "header", target.Name)
}

func TestFormatErrorUnwrap(t *testing.T) {
	cause := errors.New("unexpected EOF in tag")
	err := &FormatError{Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "formatting HTML")
}
