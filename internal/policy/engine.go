package policy

// Match records a rule that fired against a candidate.
type Match struct {
	Rule      CompiledRule
	Candidate string
}

// Evaluate checks candidate against every rule and returns all matches in
// rule order. There is no short-circuit on the first hit: the resolver
// needs the full match set to surface the most specific failing reason.
func Evaluate(candidate string, rules []CompiledRule) []Match {
	var matches []Match
	for _, r := range rules {
		if r.Matches(candidate) {
			matches = append(matches, Match{Rule: r, Candidate: candidate})
		}
	}
	return matches
}
