package text

import (
	"fmt"
	"unicode/utf8"
)

// Truncate cuts s to at most max bytes on a rune boundary and notes how much was dropped.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return fmt.Sprintf("%s...(%d bytes omitted)", s[:cut], len(s)-cut)
}
