// Package redact scrubs credentials, tokens and other sensitive fragments from
// strings before they are logged. Database drivers and HTTP clients happily put
// connection strings, SQL and bearer tokens into their error text.
package redact

import "regexp"

// Placeholders substituted for each kind of sensitive fragment.
const (
	RedactedCredential = "[REDACTED_CREDENTIAL]"
	RedactedKey        = "[REDACTED_KEY]"
	RedactedJWT        = "[REDACTED_JWT]"
	RedactedEmail      = "[REDACTED_EMAIL]"
	RedactedSQL        = "[REDACTED_SQL]"
	RedactedPath       = "[REDACTED_PATH]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// Order matters: connection strings and tokens go first so the broader path
// and email rules do not split them.
var rules = []rule{
	{regexp.MustCompile(`(?i)(postgres|postgresql|mongodb|db)://[^@\s]+@`), RedactedCredential},
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), RedactedJWT},
	{regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.~+/]+=*`), RedactedKey},
	{regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`), RedactedCredential},
	{regexp.MustCompile(`(?i)(api[_-]?key|token|secret)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`), RedactedKey},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), RedactedEmail},
	{
		regexp.MustCompile(
			`(?i)(SELECT|INSERT|UPDATE|DELETE)[\s\w,*()$]+(?:FROM|INTO|SET)(?:[\s\w,*()='"$]+)?`,
		),
		RedactedSQL,
	},
	{regexp.MustCompile(`(/[\w.-]+){3,}`), RedactedPath},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}
	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
