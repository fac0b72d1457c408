// Package policy implements the rule model, the pattern matcher, and the
// decision resolver for tollgate.
package policy

// Action is the verdict a rule or built-in check renders for a candidate.
type Action string

// Permission decisions
const (
	ActionAllow Action = "allow"
	ActionAsk   Action = "ask"
	ActionBlock Action = "block"
)

// Valid reports whether a is one of the three known verdicts.
func (a Action) Valid() bool {
	switch a {
	case ActionAllow, ActionAsk, ActionBlock:
		return true
	}
	return false
}
