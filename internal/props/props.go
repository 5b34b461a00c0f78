// Package props resolves the data a document is rendered with. Each
// document draws from two optional sibling files: a shared theme
// (email-theme.json in the document's directory) and document-specific
// sample data (<name>.sample.json next to the document). The two are
// merged into a single property set handed to the template engine.
package props

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/mailtempl/mailtempl/internal/errors"
)

// ThemeFileName is the shared theme file looked up in the document's
// directory.
const ThemeFileName = "email-theme.json"

// SampleSuffix replaces the document extension to locate sample data.
const SampleSuffix = ".sample.json"

// ThemeKey is the property-set key the theme is nested under.
const ThemeKey = "theme"

// PropertySet is the merged JSON-like data tree used for template
// resolution.
type PropertySet map[string]interface{}

// ThemePath returns the theme file path for a document.
func ThemePath(docPath string) string {
	return filepath.Join(filepath.Dir(docPath), ThemeFileName)
}

// SamplePath returns the sample-data file path for a document.
func SamplePath(docPath string) string {
	return strings.TrimSuffix(docPath, filepath.Ext(docPath)) + SampleSuffix
}

// Resolve reads and merges the theme and sample data for the document at
// docPath. A missing file contributes an empty set; a file that exists
// but does not parse as a JSON object fails with *errors.PropertyParseError.
func Resolve(docPath string) (PropertySet, error) {
	theme, err := readJSON(ThemePath(docPath))
	if err != nil {
		return nil, err
	}

	sample, err := readJSON(SamplePath(docPath))
	if err != nil {
		return nil, err
	}

	return Merge(theme, sample), nil
}

// Merge combines the theme and document sample data into one property
// set: the theme is nested under the "theme" key and the sample keys are
// spread at the top level, so a sample key named "theme" wins. Neither
// input is mutated.
func Merge(theme, sample PropertySet) PropertySet {
	merged := make(PropertySet, len(sample)+1)
	merged[ThemeKey] = theme
	for k, v := range sample {
		merged[k] = v
	}
	return merged
}

func readJSON(path string) (PropertySet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return PropertySet{}, nil
		}
		return nil, &errors.PropertyParseError{Path: path, Err: err}
	}

	var set PropertySet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, &errors.PropertyParseError{Path: path, Err: err}
	}
	if set == nil {
		set = PropertySet{}
	}
	return set, nil
}
