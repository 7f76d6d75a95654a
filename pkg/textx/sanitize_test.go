package textx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "hello\nworld\t!", SanitizeText("he\x00llo\nwo\x7frld\t!"))
	assert.Equal(t, "", SanitizeText("\x01\x02\x03"))
	assert.Equal(t, "kept", SanitizeText("  kept  "))
	assert.Equal(t, "a\r\nb", SanitizeText("a\r\nb"))
}
