package uploads

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// SecureFilename reduces an uploaded filename to a flat, ASCII-only name that
// is safe to join onto the upload directory. The result may be empty.
//
// The name is NFKD-normalized and non-ASCII runes are dropped, slashes
// become spaces, whitespace runs become a single underscore,
// anything outside [A-Za-z0-9_.-] is removed, and leading or trailing dots
// and underscores are trimmed.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)

	var ascii strings.Builder
	ascii.Grow(len(name))
	for _, r := range name {
		if r < utf8.RuneSelf {
			ascii.WriteRune(r)
		}
	}
	name = ascii.String()
	name = strings.ReplaceAll(name, "/", " ")
	name = strings.Join(strings.FieldsFunc(name, isSeparatorSpace), "_")

	var kept strings.Builder
	kept.Grow(len(name))
	for i := 0; i < len(name); i++ {
		if c := name[i]; isSafeByte(c) {
			kept.WriteByte(c)
		}
	}
	return strings.Trim(kept.String(), "._")
}

// isSeparatorSpace reports ASCII whitespace, including the information
// separators 0x1c-0x1f which also split words.
func isSeparatorSpace(r rune) bool {
	switch {
	case r == ' ', r >= '\t' && r <= '\r', r >= 0x1c && r <= 0x1f:
		return true
	}
	return false
}

func isSafeByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '.', c == '-':
		return true
	}
	return false
}
