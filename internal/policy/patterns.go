package policy

import (
	"regexp"
	"strings"
)

// BuildFlagPattern converts a flag specification to a regex pattern.
// "-f" becomes "(-f\s+)?"
// "-f <arg>" becomes "(-f\s*\S+\s+)?" (allows -f10 or -f 10)
// "<arg>" becomes "(\S+\s+)?" (positional argument)
// "" (empty) becomes "" (allows bare command)
func BuildFlagPattern(flag string) string {
	flag = strings.TrimSpace(flag)
	if flag == "" {
		return ""
	}
	if flag == "<arg>" {
		return `(\S+\s+)?`
	}
	if strings.HasSuffix(flag, " <arg>") {
		flagName := strings.TrimSuffix(flag, " <arg>")
		// Allow optional space between flag and argument (e.g., -n10 or -n 10)
		return `(` + regexp.QuoteMeta(flagName) + `\s*\S+\s+)?`
	}
	return `(` + regexp.QuoteMeta(flag) + `\s+)?`
}

// BuildWrapperPattern creates a regex for a wrapper command prefix.
// "timeout" with flags=["<arg>"] becomes "^timeout\s+(\S+\s+)?"
func BuildWrapperPattern(cmd string, flags []string) string {
	var flagPatterns string
	for _, f := range flags {
		flagPatterns += BuildFlagPattern(f)
	}
	if len(flags) > 0 {
		return `^` + regexp.QuoteMeta(cmd) + `\s+` + flagPatterns
	}
	return `^` + regexp.QuoteMeta(cmd) + `\s+`
}
