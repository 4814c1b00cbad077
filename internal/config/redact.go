package config

import (
	"net/url"
	"strings"
)

// RedactURL replaces the password in a PostgreSQL connection URL with "***".
// If the URL cannot be parsed or has no password, it is returned unchanged.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}

	if _, hasPassword := u.User.Password(); !hasPassword {
		return raw
	}

	// Redacted masks with "xxxxx". The username is escaped, so the first
	// ":xxxxx@" is always the password slot.
	return strings.Replace(u.Redacted(), ":xxxxx@", ":***@", 1)
}
