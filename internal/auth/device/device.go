// Package device derives display-safe device summaries from User-Agent
// strings for login logging. Raw User-Agent values are never stored.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// Summary is a parsed, reduced view of a login device.
type Summary struct {
	Browser string
	OS      string
	Mobile  bool
	Bot     bool
}

// Parse extracts a device summary from a User-Agent string.
func Parse(userAgentString string) Summary {
	if userAgentString == "" {
		return Summary{Browser: "unknown", OS: "unknown"}
	}

	ua := useragent.New(userAgentString)
	browser, _ := ua.Browser()
	os := ua.OS()

	if browser = strings.TrimSpace(browser); browser == "" {
		browser = "unknown"
	}
	if os = strings.TrimSpace(os); os == "" {
		os = "unknown"
	}

	return Summary{
		Browser: browser,
		OS:      os,
		Mobile:  ua.Mobile(),
		Bot:     ua.Bot(),
	}
}

// Display renders the summary as "Browser on OS".
func (s Summary) Display() string {
	return s.Browser + " on " + s.OS
}
