package tenant

import (
	"net"
	"regexp"
	"strings"
)

// SlugPattern is the shape of a tenant route parameter and subdomain key.
const SlugPattern = `[a-zA-Z0-9-_]+`

// MaxSlugLength keeps slugs usable as a single DNS label.
const MaxSlugLength = 63

var slugRegex = regexp.MustCompile(`^` + SlugPattern + `$`)

// ValidSlug reports whether s can identify a tenant.
func ValidSlug(s string) bool {
	return len(s) <= MaxSlugLength && slugRegex.MatchString(s)
}

// SubdomainFromHost returns the leftmost label of host when host sits below
// baseDomain (e.g. "acme" for "acme.example.com" with base "example.com").
// The port is ignored and the result is lowercased. It returns "" for the
// bare base domain, IP literals and hosts outside baseDomain.
//
// With an empty baseDomain the host needs at least three labels
// (sub.domain.tld). "www" is returned like any other label.
func SubdomainFromHost(host, baseDomain string) string {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" || net.ParseIP(strings.Trim(host, "[]")) != nil {
		return ""
	}

	baseDomain = strings.ToLower(strings.Trim(strings.TrimSpace(baseDomain), "."))
	if baseDomain != "" {
		rest, ok := strings.CutSuffix(host, "."+baseDomain)
		if !ok || rest == "" {
			return ""
		}
		label, _, _ := strings.Cut(rest, ".")
		return label
	}

	labels := strings.Split(host, ".")
	if len(labels) < 3 {
		return ""
	}
	return labels[0]
}
