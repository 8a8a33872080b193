package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "short", Truncate("short", 0))
	assert.Equal(t, "abc...(3 bytes omitted)", Truncate("abcdef", 3))
	// "é" is two bytes; cutting inside it backs off to the rune start
	assert.Equal(t, "a...(4 bytes omitted)", Truncate("aébc", 2))
}
