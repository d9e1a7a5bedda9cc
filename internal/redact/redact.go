// Package redact scrubs sensitive fragments from strings before they are
// logged or echoed in error responses: recipient emails, bearer tokens,
// connection strings, and filesystem paths all travel through error
// values in this codebase and must never reach a log line verbatim.
package redact

import "regexp"

// Redaction placeholders
const (
	RedactedEmail      = "[REDACTED_EMAIL]"
	RedactedToken      = "[REDACTED_TOKEN]"
	RedactedCredential = "[REDACTED_CREDENTIAL]"
	RedactedPath       = "[REDACTED_PATH]"
)

var (
	// Share invites carry recipient emails through error wrapping.
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// Standard three-part base64url JWT shape.
	jwtRegex = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`)

	// Connection URLs with inline credentials.
	connRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`)

	// Secrets appearing as key=value or key: value pairs.
	secretRegex = regexp.MustCompile(`(?i)(password|secret|token|api[_-]?key)(['"\s:=]+)[^'"&\s]{6,}`)

	// Absolute filesystem paths from driver and OS errors.
	pathRegex = regexp.MustCompile(`(/[\w.-]+){2,}`)

	replacements = []struct {
		pattern     *regexp.Regexp
		placeholder string
	}{
		{jwtRegex, RedactedToken},
		{connRegex, RedactedCredential},
		{secretRegex, RedactedCredential},
		{emailRegex, RedactedEmail},
		{pathRegex, RedactedPath},
	}
)

// String scrubs every known sensitive pattern from input.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range replacements {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error scrubs an error's message. Returns "" for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
