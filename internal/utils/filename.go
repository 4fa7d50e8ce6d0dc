package utils

import (
	"regexp"
	"strings"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	// Control characters, including newlines and tabs
	controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	// Multiple spaces to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

// maxFilenameLength leaves room for an extension within the usual 255 byte limit.
const maxFilenameLength = 200

// SanitizeFilename makes name safe to use as a file name and inside a
// Content-Disposition header. It returns fallback when nothing usable is left.
func SanitizeFilename(name, fallback string) string {
	name = invalidFilenameChars.ReplaceAllString(name, "")
	name = controlChars.ReplaceAllString(name, " ")
	name = multipleSpaces.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)

	// Leading dots would produce hidden files.
	name = strings.TrimLeft(name, ".")

	if len(name) > maxFilenameLength {
		name = truncateBytes(name, maxFilenameLength)
	}

	if name == "" {
		return fallback
	}
	return name
}

// truncateBytes cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := 0
	for i := range s {
		if i > n {
			break
		}
		cut = i
	}
	return strings.TrimSpace(s[:cut])
}
