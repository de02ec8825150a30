// Package policy implements the URL denylist consulted after every
// browser-environment computer call.
package policy

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultBlockedHosts are matched when no blocklist is configured. Entries
// are glob patterns matched against the URL hostname.
var DefaultBlockedHosts = []string{
	"maliciousbook.com",
	"*.maliciousbook.com",
	"evilvideos.com",
	"darkwebforum.com",
	"shadytok.com",
	"suspiciouspins.com",
}

// Blocklist matches navigated URLs against a set of host glob patterns.
type Blocklist struct {
	patterns []glob.Glob
	sources  []string
}

// NewBlocklist compiles the given host patterns. Empty input falls back to
// the default list. Invalid patterns are rejected up front so a bad config
// fails at startup rather than mid-run.
func NewBlocklist(hosts []string) (*Blocklist, error) {
	if len(hosts) == 0 {
		hosts = DefaultBlockedHosts
	}

	b := &Blocklist{}
	for _, h := range hosts {
		pattern, err := glob.Compile(strings.ToLower(h))
		if err != nil {
			return nil, fmt.Errorf("invalid blocklist pattern %q: %w", h, err)
		}
		b.patterns = append(b.patterns, pattern)
		b.sources = append(b.sources, h)
	}
	return b, nil
}

// Check returns the matching pattern if rawURL's host is denylisted, or ""
// when the URL is allowed. Unparseable URLs are allowed; the denylist only
// speaks to URLs the browser actually reached.
func (b *Blocklist) Check(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return ""
	}

	for i, pattern := range b.patterns {
		if pattern.Match(host) {
			return b.sources[i]
		}
	}
	return ""
}
