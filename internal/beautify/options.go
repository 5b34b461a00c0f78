// Package beautify reformats HTML and MJML markup. The formatter is
// tokenizer-based so documents are never restructured the way a full
// HTML5 parse would restructure them; unknown elements such as mj-*
// pass through untouched. FormatPreservingStyles additionally protects
// mj-style blocks, whose CSS content the tokenizer would otherwise
// mangle, by renaming them to standard style tags around the format.
package beautify

import "github.com/spf13/cast"

// Options configures the formatter. The names mirror the js-beautify
// option keys the configuration mapping has always used.
type Options struct {
	IndentSize       int
	IndentChar       string
	PreserveNewlines bool
	EndWithNewline   bool
}

// DefaultOptions returns the formatter defaults: two-space indentation,
// blank lines preserved, no forced trailing newline.
func DefaultOptions() Options {
	return Options{
		IndentSize:       2,
		IndentChar:       " ",
		PreserveNewlines: true,
		EndWithNewline:   false,
	}
}

// OptionsFromMap parses the opaque beautify configuration mapping.
// Recognized keys are indent_size, indent_char, preserve_newlines, and
// end_with_newline; unrecognized keys are ignored. Values are coerced
// leniently, so YAML strings and numbers both work.
func OptionsFromMap(m map[string]interface{}) Options {
	opts := DefaultOptions()
	if m == nil {
		return opts
	}

	if v, ok := m["indent_size"]; ok {
		if n := cast.ToInt(v); n > 0 {
			opts.IndentSize = n
		}
	}
	if v, ok := m["indent_char"]; ok {
		if s := cast.ToString(v); s != "" {
			opts.IndentChar = s
		}
	}
	if v, ok := m["preserve_newlines"]; ok {
		opts.PreserveNewlines = cast.ToBool(v)
	}
	if v, ok := m["end_with_newline"]; ok {
		opts.EndWithNewline = cast.ToBool(v)
	}

	return opts
}
