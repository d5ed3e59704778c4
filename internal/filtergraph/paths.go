package filtergraph

import (
	"os"
	"regexp"
	"strings"
)

// DefaultKeyColor is pure green.
const DefaultKeyColor = "0x00FF00"

var (
	drivePrefix = regexp.MustCompile(`^([A-Za-z]):/`)
	keyColorHex = regexp.MustCompile(`^#?([0-9A-Fa-f]{6})$`)
)

// EscapePath prepares a file path for use inside a quoted filter argument:
// backslashes become slashes, a drive-letter colon is escaped and single
// quotes are backslash-escaped.
func EscapePath(path string) string {
	normalized := strings.ReplaceAll(path, `\`, "/")
	normalized = drivePrefix.ReplaceAllString(normalized, `$1\:/`)
	return strings.ReplaceAll(normalized, "'", `\'`)
}

// ParseKeyColor converts #RRGGBB or RRGGBB to ffmpeg's 0xRRGGBB form.
func ParseKeyColor(value string) (string, bool) {
	m := keyColorHex.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return "", false
	}
	return "0x" + strings.ToUpper(m[1]), true
}

// ReadKeyColor reads the key colour override at path, returning
// DefaultKeyColor when the file is missing or does not hold a hex colour.
func ReadKeyColor(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultKeyColor
	}
	if color, ok := ParseKeyColor(string(data)); ok {
		return color
	}
	return DefaultKeyColor
}
