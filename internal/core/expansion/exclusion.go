package expansion

import "strings"

// IsExcludedHost reports whether host matches an excluded site entry.
// An entry matches its exact host and any subdomain of it. Entries may be
// written as URLs; scheme, path and port are ignored, as is a "*." prefix.
func IsExcludedHost(host string, sites []string) bool {
	host = normalizeHost(host)
	if host == "" {
		return false
	}

	for _, site := range sites {
		site = strings.TrimPrefix(normalizeHost(site), "*.")
		if site == "" {
			continue
		}
		if host == site || strings.HasSuffix(host, "."+site) {
			return true
		}
	}
	return false
}

func normalizeHost(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if _, rest, ok := strings.Cut(s, "://"); ok {
		s = rest
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSuffix(s, ".")
}
