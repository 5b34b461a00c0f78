package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()

	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestInfoShort(t *testing.T) {
	testCases := []struct {
		name     string
		info     Info
		expected string
	}{
		{
			name:     "release with commit",
			info:     Info{Version: "1.2.3", GitCommit: "abcdef1234567890"},
			expected: "1.2.3 (abcdef1)",
		},
		{
			name:     "dev with commit",
			info:     Info{Version: "dev", GitCommit: "abcdef1234567890"},
			expected: "dev-abcdef1",
		},
		{
			name:     "no commit",
			info:     Info{Version: "1.2.3", GitCommit: "unknown"},
			expected: "1.2.3",
		},
		{
			name:     "short commit ignored",
			info:     Info{Version: "dev", GitCommit: "abc"},
			expected: "dev",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.info.Short())
		})
	}
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "1.2.3",
		GitCommit: "abcdef1",
		BuildTime: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		GoVersion: "go1.24.4",
		Platform:  "linux/amd64",
	}

	out := info.String()
	assert.Contains(t, out, "Version: 1.2.3")
	assert.Contains(t, out, "Commit: abcdef1")
	assert.Contains(t, out, "Built: 2025-06-01T12:00:00Z")
	assert.Contains(t, out, "Go: go1.24.4")
	assert.Contains(t, out, "Platform: linux/amd64")
}

func TestInfoStringOmitsUnknown(t *testing.T) {
	info := Info{Version: "dev", GitCommit: "unknown", GoVersion: "go1.24.4", Platform: "linux/amd64"}

	out := info.String()
	assert.NotContains(t, out, "Commit:")
	assert.NotContains(t, out, "Built:")
}

func TestParseBuildTime(t *testing.T) {
	assert.True(t, parseBuildTime("unknown").IsZero())
	assert.True(t, parseBuildTime("").IsZero())
	assert.True(t, parseBuildTime("not-a-time").IsZero())

	parsed := parseBuildTime("2025-06-01T12:00:00Z")
	assert.Equal(t, 2025, parsed.Year())

	parsed = parseBuildTime("2025-06-01T12:00:00")
	assert.Equal(t, time.June, parsed.Month())
}
