package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDesktopBrowser(t *testing.T) {
	s := Parse("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	assert.Equal(t, "Chrome", s.Browser)
	assert.Contains(t, s.OS, "Mac")
	assert.False(t, s.Mobile)
	assert.False(t, s.Bot)
}

func TestParseMobileBrowser(t *testing.T) {
	s := Parse("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")

	assert.True(t, s.Mobile)
}

func TestParseEmptyUserAgent(t *testing.T) {
	s := Parse("")

	assert.Equal(t, "unknown", s.Browser)
	assert.Equal(t, "unknown", s.OS)
	assert.Equal(t, "unknown on unknown", s.Display())
}
