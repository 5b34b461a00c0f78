package inline

import (
	"fmt"

	"github.com/aymerick/douceur/inliner"
)

// CSS moves style-block rules into element style attributes. MJML
// already inlines component styles, so this pass matters only for
// mj-style head blocks that some clients strip; it is off by default.
// On failure the caller keeps the prior HTML.
func CSS(html string) (string, error) {
	inlined, err := inliner.Inline(html)
	if err != nil {
		return "", fmt.Errorf("inlining css: %w", err)
	}
	return inlined, nil
}
