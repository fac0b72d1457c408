package hook

import (
	"strings"

	"github.com/tollgate/tollgate/internal/config"
	"github.com/tollgate/tollgate/internal/logger"
	"github.com/tollgate/tollgate/internal/policy"
)

// BashValidator gates shell command execution. The command chain is split
// into segments with a real shell parser; the full command is checked for
// command substitution and pipeline-spanning rules, and each segment is
// stripped of safe wrapper prefixes and evaluated against built-in and
// configured command rules. All matches feed a single reduction so the most
// specific failing reason wins.
type BashValidator struct{}

// Name returns the validator's identifier.
func (v *BashValidator) Name() string { return "bash" }

// Validate renders a decision for one proposed command.
func (v *BashValidator) Validate(ctx *Context, cfg *config.Config) (policy.Decision, error) {
	call, ok := DecodeCall(ctx).(BashCall)
	if !ok {
		return policy.Allow(), nil
	}
	cmd := call.Command
	if strings.TrimSpace(cmd) == "" {
		return policy.Allow(), nil
	}

	segments, err := SplitCommandChain(cmd)
	if err != nil {
		logger.Debug("unparseable command", "command", cmd)
		return policy.Ask("unparseable command"), nil
	}

	rules := policy.CombineRules(policy.BuiltinCommandRules(), cfg.CommandRules)

	// Rules that span operators (pipe-to-shell and the like) need the
	// unsplit command; segment evaluation alone would never see the pipe.
	matches := policy.Evaluate(cmd, rules)

	// The substitution check also runs on the unsplit command: heredoc
	// bodies are attached to statements, not calls, so segments never
	// carry them and the quoted-heredoc exclusion needs original offsets.
	if ContainsSubstitution(cmd) {
		matches = append(matches, policy.CommandSubstitutionMatch(cmd))
	}

	for i, segment := range segments {
		core, wrappers := policy.StripWrappers(segment, cfg.Wrappers)
		logger.Debug("processing segment",
			"index", i,
			"segment", segment,
			"core", core,
			"wrappers", wrappers)

		matches = append(matches, policy.Evaluate(core, rules)...)
	}

	// Full-command and segment evaluation overlap for single-segment
	// commands; a rule may fire once per form but reports once.
	return policy.Reduce(policy.Dedupe(matches)), nil
}
