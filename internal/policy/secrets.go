package policy

import "regexp"

// SecretPattern flags content that looks like credential material. The set
// is deliberately not user-configurable: a policy file must not be able to
// turn off secret scanning.
type SecretPattern struct {
	Regex *regexp.Regexp
	Label string
}

var secretPatterns = []SecretPattern{
	{
		Regex: regexp.MustCompile(`(?i)\b(api[_-]?key|secret|password|passwd|token|access[_-]?key|private[_-]?key)\b\s*[:=]\s*\S+`),
		Label: "credential assignment",
	},
	{
		Regex: regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{8,}\b`),
		Label: "api key token",
	},
	{
		Regex: regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`),
		Label: "aws access key id",
	},
	{
		Regex: regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{20,}\b`),
		Label: "github token",
	},
	{
		Regex: regexp.MustCompile(`\bxox[baprs]-[A-Za-z0-9-]{10,}\b`),
		Label: "slack token",
	},
	{
		Regex: regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----`),
		Label: "private key material",
	},
}

// ScanSecrets returns the labels of all secret patterns found in content,
// in pattern order. An empty result means no credential shapes were found.
func ScanSecrets(content string) []string {
	var labels []string
	for _, p := range secretPatterns {
		if p.Regex.MatchString(content) {
			labels = append(labels, p.Label)
		}
	}
	return labels
}

// SecretMatch wraps a secret-scan hit as a synthetic blocking match.
func SecretMatch(label, candidate string) Match {
	return BlockMatch(CategorySecretMaterial, "content contains "+label, candidate)
}
