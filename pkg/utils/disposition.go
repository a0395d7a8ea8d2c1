package utils

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	dispositionFilename    = regexp.MustCompile(`(?i)(?:^|[;\s])filename\s*=\s*(?:"((?:[^"\\]|\\.)*)"|([^;\s]+))`)
	dispositionExtFilename = regexp.MustCompile(`(?i)(?:^|[;\s])filename\*\s*=\s*([^;\s]+)`)
	quotedPair             = regexp.MustCompile(`\\(.)`)
)

// ParseDispositionFilename extracts the suggested filename from a
// Content-Disposition header value. filename*=UTF-8''name wins over
// filename="name" and filename=name when it decodes.
func ParseDispositionFilename(header string) (string, bool) {
	if m := dispositionExtFilename.FindStringSubmatch(header); m != nil {
		if name, ok := decodeExtValue(m[1]); ok {
			return name, true
		}
	}

	m := dispositionFilename.FindStringSubmatch(header)
	if m == nil {
		return "", false
	}

	name := quotedPair.ReplaceAllString(m[1], "$1")
	if name == "" {
		name = m[2]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	return name, true
}

// decodeExtValue decodes an RFC 5987 value of the form charset'lang'pct-encoded.
// Only UTF-8 is accepted.
func decodeExtValue(v string) (string, bool) {
	parts := strings.SplitN(v, "'", 3)
	if len(parts) != 3 || !strings.EqualFold(parts[0], "utf-8") {
		return "", false
	}
	name, err := url.PathUnescape(parts[2])
	if err != nil || !utf8.ValidString(name) {
		return "", false
	}
	name = strings.TrimSpace(name)
	return name, name != ""
}

// FormatAttachment builds a Content-Disposition value for name. Names that are
// not plain ASCII get an ASCII filename fallback plus a filename* parameter.
func FormatAttachment(name string) string {
	fallback, exact := asciiFilename(name)
	v := `attachment; filename="` + fallback + `"`
	if !exact {
		v += "; filename*=UTF-8''" + encodeExtValue(name)
	}
	return v
}

func asciiFilename(name string) (string, bool) {
	var b strings.Builder
	exact := true
	for _, r := range name {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20 || r >= 0x7f:
			b.WriteByte('_')
			exact = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), exact
}

func encodeExtValue(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}
