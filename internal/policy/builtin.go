package policy

// Built-in rule categories. These checks are not user-configurable and are
// injected ahead of configured rules in the same reduction, so a built-in
// block always outranks a configured allow.
const (
	CategoryDestructiveFilesystem = "destructive-filesystem"
	CategoryForcedGit             = "forced-git"
	CategoryDestructiveSQL        = "destructive-sql"
	CategoryCommandSubstitution   = "command-substitution"
	CategoryCodeInjection         = "code-injection"
	CategoryMessageSize           = "message-size"
	CategoryTeamSize              = "team-size"
	CategoryTeamLimit             = "team-limit"
	CategorySecretMaterial        = "secret-material"
)

var builtinCommandRules = compileBuiltins([]Rule{
	{
		Pattern:  `\brm\s+((-[a-z]+|--recursive|--force|--no-preserve-root)\s+)+(/|/\*|~|\$HOME)(\s|$)`,
		Category: CategoryDestructiveFilesystem,
		Action:   ActionBlock,
		Message:  "recursive removal of a root or home path",
		Scope:    ScopeCommand,
	},
	{
		Pattern:  `\bgit\s+push\b[^|;&]*\s(--force(-with-lease)?|-f)\b`,
		Category: CategoryForcedGit,
		Action:   ActionBlock,
		Message:  "force push rewrites remote history",
		Scope:    ScopeCommand,
	},
	{
		Pattern:  `\bgit\s+reset\s+--hard\b`,
		Category: CategoryForcedGit,
		Action:   ActionBlock,
		Message:  "hard reset discards local history",
		Scope:    ScopeCommand,
	},
	{
		Pattern:  `\bdrop\s+(database|table)\b`,
		Category: CategoryDestructiveSQL,
		Action:   ActionBlock,
		Message:  "destructive SQL statement",
		Scope:    ScopeCommand,
	},
})

// Message-body rules reuse the command categories where the idiom is the
// same hazard routed through a different channel.
var builtinMessageRules = compileBuiltins([]Rule{
	{
		Pattern:  "`[^`]*`",
		Category: CategoryCommandSubstitution,
		Action:   ActionBlock,
		Message:  "backtick command substitution",
		Scope:    ScopeMessage,
	},
	{
		Pattern:  `\$\(`,
		Category: CategoryCommandSubstitution,
		Action:   ActionBlock,
		Message:  "command substitution",
		Scope:    ScopeMessage,
	},
	{
		Pattern:  `\beval\s*\(`,
		Category: CategoryCodeInjection,
		Action:   ActionBlock,
		Message:  "eval call",
		Scope:    ScopeMessage,
	},
	{
		Pattern:  `\bexec\s*\(`,
		Category: CategoryCodeInjection,
		Action:   ActionBlock,
		Message:  "exec call",
		Scope:    ScopeMessage,
	},
	{
		Pattern:  `\$\{[^}]*\}`,
		Category: CategoryCodeInjection,
		Action:   ActionBlock,
		Message:  "template injection",
		Scope:    ScopeMessage,
	},
	{
		Pattern:  `(?i)\bgit\s+push\b[^\n]*\s(--force(-with-lease)?|-f)\b`,
		Category: CategoryForcedGit,
		Action:   ActionBlock,
		Message:  "forced git operation",
		Scope:    ScopeMessage,
	},
	{
		Pattern:  `(?i)\bgit\s+reset\s+--hard\b`,
		Category: CategoryForcedGit,
		Action:   ActionBlock,
		Message:  "forced git operation",
		Scope:    ScopeMessage,
	},
	{
		Pattern:  `(?i)\bdrop\s+(database|table)\b`,
		Category: CategoryDestructiveSQL,
		Action:   ActionBlock,
		Message:  "destructive SQL statement",
		Scope:    ScopeMessage,
	},
	{
		Pattern:  `(?i)\brm\s+-[a-z]*(r[a-z]*f|f[a-z]*r)[a-z]*\b`,
		Category: CategoryDestructiveFilesystem,
		Action:   ActionBlock,
		Message:  "recursive force removal",
		Scope:    ScopeMessage,
	},
})

// substitutionRule backs matches raised by the AST-aware substitution
// detector; the pattern is informational only.
var substitutionRule = MustCompile(Rule{
	Pattern:  `\$\(|` + "`",
	Category: CategoryCommandSubstitution,
	Action:   ActionBlock,
	Message:  "command substitution is not allowed",
	Scope:    ScopeMessage,
	BuiltIn:  true,
})

func compileBuiltins(rules []Rule) []CompiledRule {
	out := make([]CompiledRule, 0, len(rules))
	for i := range rules {
		rules[i].BuiltIn = true
		out = append(out, MustCompile(rules[i]))
	}
	return out
}

// BuiltinCommandRules returns the non-configurable command checks.
func BuiltinCommandRules() []CompiledRule {
	return builtinCommandRules
}

// BuiltinMessageRules returns the non-configurable message-body checks.
func BuiltinMessageRules() []CompiledRule {
	return builtinMessageRules
}

// CommandSubstitutionMatch wraps a detector hit as a synthetic match so it
// participates in the same reduction as configured rules.
func CommandSubstitutionMatch(candidate string) Match {
	return Match{Rule: substitutionRule, Candidate: candidate}
}

// BlockMatch builds a synthetic blocking match for built-in limit checks
// (sizes, counts) that have no pattern to speak of.
func BlockMatch(category, message, candidate string) Match {
	return Match{
		Rule: CompiledRule{Rule: Rule{
			Category: category,
			Action:   ActionBlock,
			Message:  message,
			BuiltIn:  true,
		}},
		Candidate: candidate,
	}
}
