package beautify

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/mailtempl/mailtempl/internal/errors"
)

// voidElements never receive end tags and must not affect indentation
// depth.
var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {},
	"img": {}, "input": {}, "link": {}, "meta": {}, "param": {},
	"source": {}, "track": {}, "wbr": {},
}

// verbatimContent lists the elements whose text content the tokenizer
// delivers raw; their content is emitted unmodified.
var verbatimContent = map[string]struct{}{
	"iframe": {}, "noembed": {}, "noframes": {}, "noscript": {},
	"plaintext": {}, "script": {}, "style": {}, "textarea": {},
	"title": {}, "xmp": {},
}

// Format reformats markup one tag per line with depth indentation.
// Raw-text element content (style, script, textarea and friends) and
// pre blocks pass through verbatim, comments and doctypes are
// preserved, and with PreserveNewlines a blank line in the source keeps
// one blank line in the output. Tokenizer failures surface as
// *errors.FormatError.
func Format(src string, opts Options) (string, error) {
	f := &formatter{opts: opts}
	z := html.NewTokenizer(strings.NewReader(src))

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", &errors.FormatError{Err: err}
			}
			return f.finish(), nil

		case html.DoctypeToken:
			f.writeLine(string(z.Raw()))

		case html.CommentToken:
			f.writeLine(string(z.Raw()))

		case html.TextToken:
			f.text(string(z.Raw()))

		case html.StartTagToken:
			// Raw must be copied before TagName lower-cases the shared buffer.
			raw := string(z.Raw())
			name, _ := z.TagName()
			if string(name) == "pre" {
				if err := f.preBlock(z, normalizeTag(raw)); err != nil {
					return "", err
				}
				continue
			}
			f.startTag(normalizeTag(raw), string(name))

		case html.SelfClosingTagToken:
			f.writeLine(normalizeTag(string(z.Raw())))

		case html.EndTagToken:
			raw := string(z.Raw())
			name, _ := z.TagName()
			f.endTag(normalizeTag(raw), string(name))
		}
	}
}

type formatter struct {
	opts         Options
	b            strings.Builder
	stack        []string
	pendingBlank bool
}

func (f *formatter) top() string {
	if len(f.stack) == 0 {
		return ""
	}
	return f.stack[len(f.stack)-1]
}

func (f *formatter) indent() string {
	return strings.Repeat(strings.Repeat(f.opts.IndentChar, f.opts.IndentSize), len(f.stack))
}

func (f *formatter) writeLine(line string) {
	if line == "" {
		return
	}
	f.flushBlank()
	f.b.WriteString(f.indent())
	f.b.WriteString(line)
	f.b.WriteByte('\n')
}

func (f *formatter) flushBlank() {
	if f.pendingBlank && f.b.Len() > 0 {
		f.b.WriteByte('\n')
	}
	f.pendingBlank = false
}

func (f *formatter) startTag(tag, name string) {
	f.writeLine(tag)
	if _, void := voidElements[name]; !void {
		f.stack = append(f.stack, name)
	}
}

func (f *formatter) endTag(tag, name string) {
	for i := len(f.stack) - 1; i >= 0; i-- {
		if f.stack[i] == name {
			f.stack = f.stack[:i]
			break
		}
	}
	f.writeLine(tag)
}

func (f *formatter) text(raw string) {
	if _, verbatim := verbatimContent[f.top()]; verbatim {
		f.verbatim(raw)
		return
	}

	if strings.TrimSpace(raw) == "" {
		if f.opts.PreserveNewlines && strings.Count(raw, "\n") >= 2 {
			f.pendingBlank = true
		}
		return
	}

	f.writeLine(strings.Join(strings.Fields(raw), " "))
}

// verbatim writes raw-text content as-is, trimming only the newlines
// that separated it from its enclosing tags.
func (f *formatter) verbatim(raw string) {
	content := strings.TrimRight(strings.TrimLeft(raw, "\r\n"), " \t\r\n")
	if content == "" {
		return
	}
	f.flushBlank()
	f.b.WriteString(content)
	f.b.WriteByte('\n')
}

// preBlock streams a pre element and everything inside it byte-exact;
// reindenting preformatted content would change what it renders.
func (f *formatter) preBlock(z *html.Tokenizer, openTag string) error {
	f.flushBlank()
	f.b.WriteString(f.indent())
	f.b.WriteString(openTag)

	depth := 1
	for depth > 0 {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return &errors.FormatError{Err: err}
			}
			f.b.WriteByte('\n')
			return nil

		case html.StartTagToken:
			raw := string(z.Raw())
			name, _ := z.TagName()
			if string(name) == "pre" {
				depth++
			}
			f.b.WriteString(raw)

		case html.EndTagToken:
			raw := string(z.Raw())
			name, _ := z.TagName()
			if string(name) == "pre" {
				depth--
				if depth == 0 {
					f.b.WriteString(raw)
					f.b.WriteByte('\n')
					continue
				}
			}
			f.b.WriteString(raw)

		default:
			f.b.WriteString(string(z.Raw()))
		}
	}
	return nil
}

func (f *formatter) finish() string {
	out := strings.TrimRight(f.b.String(), "\n")
	if f.opts.EndWithNewline && out != "" {
		out += "\n"
	}
	return out
}

// normalizeTag collapses whitespace runs inside a tag to single spaces,
// leaving quoted attribute values untouched. Spaces directly after '<'
// and directly before '>' are dropped.
func normalizeTag(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	var quote byte
	space := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]

		if quote != 0 {
			b.WriteByte(c)
			if c == quote {
				quote = 0
			}
			continue
		}

		switch c {
		case '"', '\'':
			quote = c
			b.WriteByte(c)
		case ' ', '\t', '\n', '\r':
			space = true
		default:
			if space {
				last := byte(0)
				if b.Len() > 0 {
					last = b.String()[b.Len()-1]
				}
				if last != '<' && c != '>' {
					b.WriteByte(' ')
				}
				space = false
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}
