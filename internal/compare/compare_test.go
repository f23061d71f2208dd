// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compare

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGolden(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "expected.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGoldenSelfComparisonMatches(t *testing.T) {
	content := "<h1>Title</h1>\n<p>body</p>\n"
	path := writeGolden(t, content)

	res, err := Golden([]byte(content), path, 0)
	require.NoError(t, err)
	assert.True(t, res.Match)
	assert.Empty(t, res.Diff)
}

func TestGoldenMismatchProducesUnifiedDiff(t *testing.T) {
	path := writeGolden(t, "line one\nline two\nline three\n")

	res, err := Golden([]byte("line one\nline 2\nline three\n"), path, 0)
	require.NoError(t, err)
	assert.False(t, res.Match)
	assert.Contains(t, res.Diff, "-line two")
	assert.Contains(t, res.Diff, "+line 2")
	assert.Contains(t, res.Diff, "--- "+path)
	assert.Contains(t, res.Diff, "+++ actual")
}

func TestGoldenByteLevelStrictness(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		actual   string
		match    bool
	}{
		{"identical", "abc\n", "abc\n", true},
		{"trailing newline differs", "abc\n", "abc", false},
		{"whitespace differs", "a b\n", "a  b\n", false},
		{"case differs", "Header\n", "header\n", false},
		{"both empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeGolden(t, tt.expected)
			res, err := Golden([]byte(tt.actual), path, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.match, res.Match)
		})
	}
}

func TestGoldenDiffCap(t *testing.T) {
	var expected, actual strings.Builder
	for i := 0; i < 500; i++ {
		expected.WriteString("expected line\n")
		actual.WriteString("actual line\n")
	}
	path := writeGolden(t, expected.String())

	res, err := Golden([]byte(actual.String()), path, 20)
	require.NoError(t, err)
	assert.False(t, res.Match)
	assert.True(t, res.Truncated)
	assert.Contains(t, res.Diff, "diff truncated after 20 lines")

	gotLines := strings.Count(res.Diff, "\n")
	assert.LessOrEqual(t, gotLines, 21, "capped diff should be 20 lines plus the marker")
}

func TestGoldenWith(t *testing.T) {
	t.Run("empty tool uses built-in diff", func(t *testing.T) {
		path := writeGolden(t, "a\n")
		res, err := GoldenWith("", []byte("b\n"), path, 0)
		require.NoError(t, err)
		assert.False(t, res.Match)
		assert.Contains(t, res.Diff, "+b")
	})

	t.Run("external diff matches identical files", func(t *testing.T) {
		path := writeGolden(t, "same content\n")
		res, err := GoldenWith("diff", []byte("same content\n"), path, 0)
		require.NoError(t, err)
		assert.True(t, res.Match)
	})

	t.Run("external diff reports mismatch output", func(t *testing.T) {
		path := writeGolden(t, "old line\n")
		res, err := GoldenWith("diff", []byte("new line\n"), path, 0)
		require.NoError(t, err)
		assert.False(t, res.Match)
		assert.Contains(t, res.Diff, "old line")
		assert.Contains(t, res.Diff, "new line")
	})

	t.Run("missing tool is an error", func(t *testing.T) {
		path := writeGolden(t, "x\n")
		_, err := GoldenWith("no-such-diff-tool", []byte("y\n"), path, 0)
		require.Error(t, err)
	})
}

func TestGoldenMissingFileIsError(t *testing.T) {
	_, err := Golden([]byte("anything"), filepath.Join(t.TempDir(), "absent.html"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "golden file")
}
