package policy

// Exit codes forming the host contract. Allow and ask both exit zero; an
// ask additionally emits a structured prompt on stdout. Only block uses a
// distinct code.
const (
	ExitAllow = 0
	ExitBlock = 2
)

// Decision is the single outcome rendered for one tool invocation.
type Decision struct {
	Action Action
	Reason string
	Detail string // secondary block reasons, newline separated
}

// Allow returns the permissive decision.
func Allow() Decision {
	return Decision{Action: ActionAllow}
}

// Ask returns a decision requesting confirmation from the host.
func Ask(reason string) Decision {
	return Decision{Action: ActionAsk, Reason: reason}
}

// Block returns a blocking decision.
func Block(reason, detail string) Decision {
	return Decision{Action: ActionBlock, Reason: reason, Detail: detail}
}

// ExitCode maps the decision to the process exit contract.
func (d Decision) ExitCode() int {
	if d.Action == ActionBlock {
		return ExitBlock
	}
	return ExitAllow
}
