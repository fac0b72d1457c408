package policy

import "strings"

// Reduce collapses a match set to one Decision using block > ask > allow
// precedence. The first block match in order supplies the primary reason;
// any further block reasons are retained in Detail. With an empty match set
// the decision is allow.
func Reduce(matches []Match) Decision {
	var blocks []Match
	askIdx := -1
	for i, m := range matches {
		switch m.Rule.Action {
		case ActionBlock:
			blocks = append(blocks, m)
		case ActionAsk:
			if askIdx < 0 {
				askIdx = i
			}
		}
	}

	if len(blocks) > 0 {
		var detail []string
		for _, m := range blocks[1:] {
			detail = append(detail, renderReason(m))
		}
		return Decision{
			Action: ActionBlock,
			Reason: renderReason(blocks[0]),
			Detail: strings.Join(detail, "\n"),
		}
	}
	if askIdx >= 0 {
		return Ask(renderReason(matches[askIdx]))
	}
	return Allow()
}

// Dedupe removes repeated matches of the same rule, keeping first-occurrence
// order. Callers that evaluate overlapping forms of one input (a full
// command and its segments) use it so a rule cannot supply both the primary
// reason and a verbatim detail line.
func Dedupe(matches []Match) []Match {
	seen := make(map[string]struct{}, len(matches))
	var out []Match
	for _, m := range matches {
		key := string(m.Rule.Scope) + "\x00" + m.Rule.Category + "\x00" +
			m.Rule.Pattern + "\x00" + m.Rule.Message
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}

// renderReason formats a match as "<category>: <message>", falling back to
// whichever part is present.
func renderReason(m Match) string {
	category := m.Rule.Category
	message := m.Rule.Message
	switch {
	case category != "" && message != "":
		return category + ": " + message
	case message != "":
		return message
	default:
		return category
	}
}
