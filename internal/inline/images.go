// Package inline provides the post-compile embedding passes: local
// image references become data URIs and, optionally, style blocks are
// inlined into element style attributes for clients that strip heads.
package inline

import (
	"encoding/base64"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// imageRefPattern matches src= and url( references with their optional
// quoting. Prefix exclusions (http, UNC, quotes, fragments) are checked
// in code; RE2 has no lookahead.
var imageRefPattern = regexp.MustCompile(`(?i)((?:src|url)(?:=|\()['"]?)([^'")\n]+?)(['")])`)

// allowedExtensions are the canonical image extensions eligible for
// embedding.
var allowedExtensions = map[string]struct{}{
	"bmp":  {},
	"gif":  {},
	"jpeg": {},
	"jpg":  {},
	"png":  {},
	"svg":  {},
}

func init() {
	// Not in the platform-independent builtin table.
	_ = mime.AddExtensionType(".bmp", "image/bmp")
}

// Images rewrites local image references in html into base64 data URIs,
// resolving paths against the originating document's directory. The
// pass is best effort: remote URLs, unreadable files, and unsupported
// types are left untouched, and no error is ever reported.
func Images(html, docPath string) string {
	dir := filepath.Dir(docPath)

	return imageRefPattern.ReplaceAllStringFunc(html, func(match string) string {
		parts := imageRefPattern.FindStringSubmatch(match)
		if parts == nil {
			return match
		}
		prefix, value, suffix := parts[1], parts[2], parts[3]

		if skipValue(value) {
			return match
		}

		uri, ok := dataURI(filepath.Join(dir, value))
		if !ok {
			return match
		}
		return prefix + uri + suffix
	})
}

func skipValue(value string) bool {
	for _, p := range []string{"http", `\`, `'`, `"`, "#"} {
		if strings.HasPrefix(value, p) {
			return true
		}
	}
	return false
}

// dataURI encodes the file at path as a data URI when its extension
// maps to an embeddable image type and the path is a regular file.
func dataURI(path string) (string, bool) {
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if !embeddableType(mimeType) {
		return "", false
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), true
}

func embeddableType(mimeType string) bool {
	if mimeType == "" {
		return false
	}
	exts, err := mime.ExtensionsByType(mimeType)
	if err != nil {
		return false
	}
	for _, ext := range exts {
		if _, ok := allowedExtensions[strings.TrimPrefix(ext, ".")]; ok {
			return true
		}
	}
	return false
}
