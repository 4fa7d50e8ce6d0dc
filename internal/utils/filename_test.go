package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "keeps a plain name",
			input:    "books-list",
			expected: "books-list",
		},
		{
			name:     "removes invalid characters",
			input:    `file<>:"/\|?*name`,
			expected: "filename",
		},
		{
			name:     "replaces newlines and tabs with spaces",
			input:    "file\nname\twith\rspaces",
			expected: "file name with spaces",
		},
		{
			name:     "collapses multiple spaces",
			input:    "file   name  with    spaces",
			expected: "file name with spaces",
		},
		{
			name:     "strips leading dots",
			input:    "../secret",
			expected: "secret",
		},
		{
			name:     "trims whitespace",
			input:    "  filename  ",
			expected: "filename",
		},
		{
			name:     "returns fallback for empty",
			input:    "",
			expected: "books",
		},
		{
			name:     "returns fallback for only special chars",
			input:    "<>:?*",
			expected: "books",
		},
		{
			name:     "truncates long names",
			input:    strings.Repeat("a", 250),
			expected: strings.Repeat("a", 200),
		},
		{
			name:     "handles unicode",
			input:    "Pamiętnik znaleziony w wannie",
			expected: "Pamiętnik znaleziony w wannie",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeFilename(tt.input, "books")
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSanitizeFilename_TruncatesOnRuneBoundary(t *testing.T) {
	result := SanitizeFilename(strings.Repeat("ę", 150), "books")
	assert.True(t, utf8.ValidString(result))
	assert.LessOrEqual(t, len(result), 200)
	assert.Equal(t, 100, utf8.RuneCountInString(result))
}
