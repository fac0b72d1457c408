package policy

import (
	"path"
	"regexp"
	"strings"

	"github.com/tollgate/tollgate/internal/logger"
)

// Scope identifies which canonical input a rule applies to.
type Scope string

const (
	// ScopeCommand matches shell command segments. Patterns compile
	// case-insensitively; human-typed commands vary in case.
	ScopeCommand Scope = "command"
	// ScopePath matches project-relative file paths with globs.
	// Case-sensitive.
	ScopePath Scope = "path"
	// ScopeMessage matches inter-agent message bodies. Case-sensitive;
	// authors set inline (?i) flags where they want folding.
	ScopeMessage Scope = "message"
)

// Rule is one pattern/category/action/message tuple. Rules are immutable
// once compiled.
type Rule struct {
	Pattern  string
	Category string
	Action   Action
	Message  string
	Scope    Scope
	BuiltIn  bool
}

// CompiledRule pairs a Rule with its compiled matcher. Path-scope rules
// carry the raw glob instead of a regex.
type CompiledRule struct {
	Rule
	Regex *regexp.Regexp
	Glob  string
}

// Compile compiles r's pattern. Command-scope patterns are prefixed with
// (?i) unless the author already set inline flags.
func Compile(r Rule) (CompiledRule, error) {
	if r.Scope == ScopePath {
		// path.Match validates glob syntax up front so a bad glob is
		// dropped at load, not discovered per invocation.
		if _, err := path.Match(r.Pattern, ""); err != nil {
			return CompiledRule{}, err
		}
		return CompiledRule{Rule: r, Glob: r.Pattern}, nil
	}

	pattern := r.Pattern
	if r.Scope == ScopeCommand && !strings.HasPrefix(pattern, "(?") {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return CompiledRule{}, err
	}
	return CompiledRule{Rule: r, Regex: re}, nil
}

// MustCompile is like Compile but panics if the pattern is invalid.
// Reserved for built-in rule sets.
func MustCompile(r Rule) CompiledRule {
	cr, err := Compile(r)
	if err != nil {
		panic(err)
	}
	return cr
}

// CompileAll compiles rules in order, dropping any whose pattern fails to
// compile. A single bad pattern never aborts the rest of the set.
func CompileAll(rules []Rule) []CompiledRule {
	var out []CompiledRule
	for _, r := range rules {
		if strings.TrimSpace(r.Pattern) == "" {
			continue
		}
		cr, err := Compile(r)
		if err != nil {
			logger.Debug("dropping rule with invalid pattern",
				"category", r.Category,
				"pattern", r.Pattern,
				"error", err)
			continue
		}
		out = append(out, cr)
	}
	return out
}

// Matches reports whether the candidate triggers this rule. Regex rules use
// substring search; glob rules match segment-wise against the relative path.
func (c CompiledRule) Matches(candidate string) bool {
	if c.Glob != "" {
		return matchGlob(c.Glob, candidate)
	}
	if c.Regex == nil {
		return false
	}
	return c.Regex.MatchString(candidate)
}

// matchGlob applies a path glob one segment at a time, since path.Match
// wildcards never cross a separator. A glob that matches a leading run of
// segments covers everything nested beneath it, so a directory rule like
// ".git/*" fires for ".git/hooks/pre-commit". A single-segment glob also
// matches the final component alone, wherever the file sits in the tree.
func matchGlob(glob, candidate string) bool {
	globSegs := strings.Split(glob, "/")
	pathSegs := strings.Split(candidate, "/")

	if len(globSegs) == 1 {
		if ok, _ := path.Match(glob, pathSegs[len(pathSegs)-1]); ok {
			return true
		}
	}
	if len(globSegs) > len(pathSegs) {
		return false
	}
	for i, g := range globSegs {
		if ok, _ := path.Match(g, pathSegs[i]); !ok {
			return false
		}
	}
	return true
}

// CombineRules returns a single evaluation order with built-in rules ahead
// of configured ones, so a built-in block is always the primary reason.
func CombineRules(builtin, configured []CompiledRule) []CompiledRule {
	out := make([]CompiledRule, 0, len(builtin)+len(configured))
	out = append(out, builtin...)
	out = append(out, configured...)
	return out
}
