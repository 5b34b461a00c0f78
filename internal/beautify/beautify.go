package beautify

import "regexp"

// mjStyleBlockPattern delimits a whole mj-style block, open tag through
// close tag, case-insensitively and across lines.
var mjStyleBlockPattern = regexp.MustCompile(`(?is)(<mj-style\b[^>]*>)(.*?)(</mj-style\s*>)`)

// styleBlockPattern is the narrower restore-side match: whole standard
// style blocks in the beautified output.
var styleBlockPattern = regexp.MustCompile(`(?is)(<style\b[^>]*>)(.*?)(</style\s*>)`)

// FormatPreservingStyles formats markup while keeping mj-style blocks
// intact. The formatter treats only standard style elements as raw
// text, so mj-style tags are renamed to style inside their matched
// blocks first, the document is formatted, and, only when a rename
// happened, every style block in the output is renamed back. Block
// content is never rewritten by either rename.
//
// A document that mixes real style blocks with mj-style blocks gets its
// real style blocks renamed to mj-style as well; compiled pipeline HTML
// never contains mj-style, so the rename guard keeps it safe.
func FormatPreservingStyles(src string, opts Options) (string, error) {
	renamed := false
	prepared := mjStyleBlockPattern.ReplaceAllStringFunc(src, func(block string) string {
		renamed = true
		parts := mjStyleBlockPattern.FindStringSubmatch(block)
		open, content, _ := parts[1], parts[2], parts[3]
		return "<style" + open[len("<mj-style"):] + content + "</style>"
	})

	formatted, err := Format(prepared, opts)
	if err != nil {
		return "", err
	}
	if !renamed {
		return formatted, nil
	}

	return styleBlockPattern.ReplaceAllStringFunc(formatted, func(block string) string {
		parts := styleBlockPattern.FindStringSubmatch(block)
		open, content, _ := parts[1], parts[2], parts[3]
		return "<mj-style" + open[len("<style"):] + content + "</mj-style>"
	}), nil
}
