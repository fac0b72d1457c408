package hook

import (
	"fmt"

	"github.com/tollgate/tollgate/internal/config"
	"github.com/tollgate/tollgate/internal/logger"
	"github.com/tollgate/tollgate/internal/policy"
	"github.com/tollgate/tollgate/internal/state"
)

// MultiAgentValidator gates team, task, and messaging lifecycle operations.
//
// Team creation is rate-limited two ways: a per-call teammate maximum and a
// session-wide ceiling on concurrently active teams, tracked in the shared
// state store. Messages are bounded in size and scanned for injection
// idioms and credentials; task descriptions are scanned for credentials.
// Read operations always allow.
type MultiAgentValidator struct {
	// Store tracks the active-team counters. A nil store skips the
	// session ceiling (fail-open).
	Store *state.Store
}

// Name returns the validator's identifier.
func (v *MultiAgentValidator) Name() string { return "multiagent" }

// Validate renders a decision for one team/task/message operation.
func (v *MultiAgentValidator) Validate(ctx *Context, cfg *config.Config) (policy.Decision, error) {
	switch call := DecodeCall(ctx).(type) {
	case TeamCreateCall:
		return v.validateTeamCreate(call, cfg), nil
	case TeamDeleteCall:
		// Irreversible and affects every teammate.
		return policy.Ask(fmt.Sprintf("deleting team %q cannot be undone", call.Name)), nil
	case SendMessageCall:
		return v.validateMessage(call, cfg), nil
	case TaskCall:
		if call.ReadOnly {
			return policy.Allow(), nil
		}
		return v.validateTask(call), nil
	default:
		return policy.Allow(), nil
	}
}

func (v *MultiAgentValidator) validateTeamCreate(call TeamCreateCall, cfg *config.Config) policy.Decision {
	max := cfg.Limits.MaxTeammates
	if len(call.Teammates) > max {
		return policy.Block(fmt.Sprintf("%s: %d teammates exceeds maximum (%d)",
			policy.CategoryTeamSize, len(call.Teammates), max), "")
	}

	// The ask is rendered before the ceiling check touches the store: the
	// counter may only move for a team the decision actually admits.
	if len(call.Teammates) == 0 {
		return policy.Ask(fmt.Sprintf("team %q has no teammates", call.Name))
	}

	// TrySpawnTeam increments the counter under its lock only on admission.
	if v.Store != nil {
		ok, err := v.Store.TrySpawnTeam(call.Name, len(call.Teammates), cfg.Limits.MaxActiveTeams)
		if err != nil {
			logger.Debug("rate-limit state unavailable, skipping team ceiling",
				"team", call.Name, "error", err)
		} else if !ok {
			return policy.Block(fmt.Sprintf("%s: active team count has reached the ceiling (%d)",
				policy.CategoryTeamLimit, cfg.Limits.MaxActiveTeams), "")
		}
	}

	return policy.Allow()
}

func (v *MultiAgentValidator) validateMessage(call SendMessageCall, cfg *config.Config) policy.Decision {
	var matches []policy.Match

	limit := cfg.Limits.MaxMessageBytes
	if len(call.Content) > limit {
		matches = append(matches, policy.BlockMatch(policy.CategoryMessageSize,
			fmt.Sprintf("message is %d bytes, exceeding the %d byte limit", len(call.Content), limit),
			call.To))
	}

	rules := policy.CombineRules(policy.BuiltinMessageRules(), cfg.MessageRules)
	matches = append(matches, policy.Evaluate(call.Content, rules)...)

	for _, label := range policy.ScanSecrets(call.Content) {
		matches = append(matches, policy.SecretMatch(label, call.To))
	}

	return policy.Reduce(matches)
}

func (v *MultiAgentValidator) validateTask(call TaskCall) policy.Decision {
	content := call.Subject + "\n" + call.Description
	var matches []policy.Match
	for _, label := range policy.ScanSecrets(content) {
		matches = append(matches, policy.SecretMatch(label, call.TaskID))
	}
	return policy.Reduce(matches)
}
