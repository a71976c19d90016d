// Package redact scrubs session credentials, connection strings and query
// text out of error messages before they reach logs.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	Placeholder           = "[REDACTED]"
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	TokenPlaceholder      = "[REDACTED_TOKEN]"
	EmailPlaceholder      = "[REDACTED_EMAIL]"
	SQLPlaceholder        = "[REDACTED_SQL]"
	PathPlaceholder       = "[REDACTED_PATH]"
)

type rule struct {
	re          *regexp.Regexp
	replacement string
}

// Order matters: credentials embedded in larger fragments (a JWT inside a
// cookie header, a password inside a DSN) go first.
var rules = []rule{
	{
		regexp.MustCompile(`(?i)\b(postgres(?:ql)?|pgx)://[^@\s]+@`),
		"$1://" + CredentialPlaceholder + "@",
	},
	{
		regexp.MustCompile(`(?i)\b(accessToken|refreshToken)=[^;\s"]+`),
		"$1=" + TokenPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9_\-.~+/]+=*`),
		"Bearer " + TokenPlaceholder,
	},
	{
		regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		TokenPlaceholder,
	},
	{
		// hex sha256 digests stored in the refresh slot
		regexp.MustCompile(`\b[a-f0-9]{64}\b`),
		TokenPlaceholder,
	},
	{
		regexp.MustCompile(`\$2[abxy]\$\d{2}\$[./A-Za-z0-9]{53}`),
		CredentialPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\b(password|passwd|secret)(["']?\s*[=:]\s*["']?)[^"'&\s,]{3,}`),
		"$1$2" + CredentialPlaceholder,
	},
	{
		regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		EmailPlaceholder,
	},
	{
		regexp.MustCompile(
			`(?i)\b(SELECT|INSERT|UPDATE|DELETE)\b[\s\S]*?\b(FROM|INTO|SET|WHERE)\b[^;]*`,
		),
		SQLPlaceholder,
	},
	{
		regexp.MustCompile(`(/[\w.-]+){2,}\.go(:\d+)?`),
		PathPlaceholder,
	},
}

// String returns s with every sensitive fragment replaced by a placeholder.
func String(s string) string {
	if s == "" {
		return s
	}
	for _, r := range rules {
		s = r.re.ReplaceAllString(s, r.replacement)
	}
	return s
}

// Error redacts err.Error(). A nil error yields "".
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
