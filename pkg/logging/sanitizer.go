package logging

import (
	"regexp"
)

const (
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// Pattern to match Basic auth headers (base64 credential blob)
	basicAuthPattern = regexp.MustCompile(`Basic\s+[A-Za-z0-9+/=]+`)

	// Pattern to match potential API keys and app secrets in query strings
	// or error text: key=xxx, secret=xxx, token=xxx
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|app[_-]?token|secret|token)=[A-Za-z0-9-_]{8,}`)

	// Pattern to match URL-embedded credentials (user:pass@host format)
	urlCredsPattern = regexp.MustCompile(`://[^:/\s]+:[^@/\s]+@[^/\s]+`)
)

// SanitizeURL removes embedded credentials from a URL before logging.
func SanitizeURL(url string) string {
	if url == "" {
		return ""
	}
	sanitized := urlCredsPattern.ReplaceAllString(url, "://"+RedactedText+"@"+RedactedText)
	return apiKeyPattern.ReplaceAllString(sanitized, "${1}="+RedactedText)
}

// SanitizeError sanitizes error messages that might contain sensitive data.
// Use this before logging any error from remote API operations.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	sanitized := basicAuthPattern.ReplaceAllString(err.Error(), "Basic "+RedactedText)
	sanitized = apiKeyPattern.ReplaceAllString(sanitized, "${1}="+RedactedText)
	sanitized = urlCredsPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)

	return sanitized
}

// TruncateString truncates a string to maxLen and adds ellipsis if needed
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
