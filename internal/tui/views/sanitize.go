package views

import (
	"strings"
	"unicode/utf8"
)

// sanitizeForTerminal strips what backend text must not bring to the screen:
// - ANSI escape sequences and other C0/C1 controls, except newline and tab
// - Skin tone modifiers (U+1F3FB..U+1F3FF) that create multi-codepoint emoji
// - Zero Width Joiner (U+200D) used in emoji sequences
// - Variation Selectors (U+FE00..U+FE0F, U+E0100..U+E01EF)
func sanitizeForTerminal(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == 0x1b {
			i += escapeLen(s[i:])
			continue
		}
		if !isProblematicRune(r) {
			b.WriteRune(r)
		}
		i += size
	}
	return b.String()
}

// escapeLen returns the length of the escape sequence at the start of s:
// a CSI sequence up to its final byte, or the ESC and one following byte.
func escapeLen(s string) int {
	if len(s) < 2 {
		return len(s)
	}
	if s[1] != '[' {
		return 2
	}
	for j := 2; j < len(s); j++ {
		if s[j] >= 0x40 && s[j] <= 0x7e {
			return j + 1
		}
	}
	return len(s)
}

func isProblematicRune(r rune) bool {
	switch {
	case r == '\n' || r == '\t':
		return false
	case r < 0x20 || (r >= 0x7f && r <= 0x9f):
		return true
	case r == utf8.RuneError:
		return true
	case r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	case r == 0x200D:
		return true
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	case r >= 0xE0100 && r <= 0xE01EF:
		return true
	default:
		return false
	}
}
