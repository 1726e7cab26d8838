package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "abc...", truncateString("abcdef", 3))

	// "é" is two bytes; a cut inside it backs off to the rune start.
	got := truncateString("aé", 2)
	assert.Equal(t, "a...", got)
	assert.True(t, utf8.ValidString(got))
}

func TestStatusError_MultibyteBody(t *testing.T) {
	body := strings.Repeat("错误", 200)
	err := &StatusError{Provider: "watson", StatusCode: 500, Body: body}

	msg := err.Error()
	assert.True(t, utf8.ValidString(msg))
	assert.True(t, strings.HasPrefix(msg, "watson returned status 500: "))
	assert.True(t, strings.HasSuffix(msg, "..."))
}
