package common

import (
	"net/url"
	"strings"
)

// Hosts an episode link must never point at
var blockedLinkHosts = []string{
	"localhost",
	"127.0.0.1",
	"0.0.0.0",
}

// ValidateExternalLink checks that an episode link is an absolute http(s) URL
// to a public host. Returns an ErrInvalidInput-wrapped error otherwise.
func ValidateExternalLink(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Invalid("link is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Invalid("link is not a valid URL")
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return Invalid("link must use http or https")
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return Invalid("link must include a host")
	}
	for _, blocked := range blockedLinkHosts {
		if host == blocked {
			return Invalid("link host %q is not allowed", host)
		}
	}
	return nil
}
