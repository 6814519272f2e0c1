package dedup

import (
	"net/url"
	"strings"
)

// NormalizeURL lowercases a URL and strips protocol, leading "www." and the
// trailing slash, so that superficial variants of the same address compare
// equal.
func NormalizeURL(raw string) string {
	u := strings.ToLower(strings.TrimSpace(raw))

	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	u = strings.TrimPrefix(u, "www.")
	u = strings.TrimSuffix(u, "/")

	return u
}

// RegistrableDomain extracts the host of a URL without the "www." prefix.
// Malformed URLs fail closed to an empty domain: the domain-scoped fuzzy
// rule then simply cannot apply, while the other match rules still can.
func RegistrableDomain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	return host
}

// isReleasePage reports whether a URL points at a release announcement page.
func isReleasePage(raw string) bool {
	return strings.Contains(strings.ToLower(raw), "/releases")
}
