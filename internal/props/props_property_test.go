//go:build property
// +build property

package props

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func toPropertySet(m map[string]string) PropertySet {
	set := make(PropertySet, len(m))
	for k, v := range m {
		set[k] = v
	}
	return set
}

// TestMergeProperties tests the merge contract over generated inputs
func TestMergeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: merge always nests the full theme under "theme" unless
	// the sample overrides that key
	properties.Property("theme nested unless overridden", prop.ForAll(
		func(theme, sample map[string]string) bool {
			themeSet := toPropertySet(theme)
			sampleSet := toPropertySet(sample)

			merged := Merge(themeSet, sampleSet)

			if override, ok := sample[ThemeKey]; ok {
				return reflect.DeepEqual(merged[ThemeKey], override)
			}
			return reflect.DeepEqual(merged[ThemeKey], themeSet)
		},
		gen.MapOf(gen.Identifier(), gen.AlphaString()),
		gen.MapOf(gen.Identifier(), gen.AlphaString()),
	))

	// Property: every sample key survives the merge with its value
	properties.Property("sample keys preserved", prop.ForAll(
		func(theme, sample map[string]string) bool {
			merged := Merge(toPropertySet(theme), toPropertySet(sample))
			for k, v := range sample {
				if !reflect.DeepEqual(merged[k], v) {
					return false
				}
			}
			return true
		},
		gen.MapOf(gen.Identifier(), gen.AlphaString()),
		gen.MapOf(gen.Identifier(), gen.AlphaString()),
	))

	// Property: merge is deterministic and never mutates its inputs
	properties.Property("deterministic and non-mutating", prop.ForAll(
		func(theme, sample map[string]string) bool {
			themeSet := toPropertySet(theme)
			sampleSet := toPropertySet(sample)
			themeCopy := toPropertySet(theme)
			sampleCopy := toPropertySet(sample)

			first := Merge(themeSet, sampleSet)
			second := Merge(themeSet, sampleSet)

			return reflect.DeepEqual(first, second) &&
				reflect.DeepEqual(themeSet, themeCopy) &&
				reflect.DeepEqual(sampleSet, sampleCopy)
		},
		gen.MapOf(gen.Identifier(), gen.AlphaString()),
		gen.MapOf(gen.Identifier(), gen.AlphaString()),
	))

	properties.TestingRun(t)
}
