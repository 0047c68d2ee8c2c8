// Package device derives a human-readable device description from the
// User-Agent header. The description only feeds audit events; it is never
// used for authorization.
package device

import (
	"fmt"

	"github.com/mssola/useragent"
)

// ParseUserAgent turns a raw User-Agent string into a short display name
// like "Chrome on Mac OS X". Unknown or empty agents degrade gracefully.
func ParseUserAgent(rawUA string) string {
	if rawUA == "" {
		return "Unknown Device"
	}

	ua := useragent.New(rawUA)

	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}

	osInfo := ua.OSInfo()
	osName := osInfo.Name
	if osName == "" {
		osName = ua.Platform()
	}
	if osName == "" {
		osName = "Unknown OS"
	}

	return fmt.Sprintf("%s on %s", browser, osName)
}
