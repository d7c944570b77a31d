// Package admission decides whether capture runs at all for a given page.
// The check happens once per page context before any listeners attach, and
// again for each inbound message.
package admission

import (
	"strings"

	"github.com/hpungsan/imprint/internal/settings"
)

// ShouldCapture reports whether capture is admitted for hostname under the
// given settings. The blacklist always overrides the whitelist; an empty
// whitelist admits every domain not blacklisted.
func ShouldCapture(s settings.Settings, hostname string) bool {
	if !s.Enabled || strings.TrimSpace(hostname) == "" {
		return false
	}

	for _, d := range s.BlacklistDomains {
		if matchesDomain(hostname, d) {
			return false
		}
	}

	if len(s.WhitelistDomains) == 0 {
		return true
	}

	for _, d := range s.WhitelistDomains {
		if matchesDomain(hostname, d) {
			return true
		}
	}
	return false
}

// matchesDomain reports a case-insensitive substring match in either
// direction, so "bank.com" matches both "online.bank.com" and "bank".
func matchesDomain(hostname, entry string) bool {
	hostname = strings.ToLower(strings.TrimSpace(hostname))
	entry = strings.ToLower(strings.TrimSpace(entry))
	if entry == "" {
		return false
	}
	return strings.Contains(hostname, entry) || strings.Contains(entry, hostname)
}
