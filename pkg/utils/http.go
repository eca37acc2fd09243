package utils

import (
	"net/http"
	"net/url"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "roomcheck/1.0"

// IsValidURL reports whether raw is an absolute http or https URL with a host.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// BuildHeaders creates HTTP headers with defaults. Custom headers are added
// after the defaults and override them.
func BuildHeaders(userAgent string, customHeaders map[string]string) http.Header {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	headers := http.Header{}

	// Add default headers
	headers.Set("User-Agent", userAgent)
	headers.Set("Accept", "application/json, application/yaml;q=0.9")

	// Add custom headers
	for key, value := range customHeaders {
		headers.Set(key, value)
	}

	return headers
}
