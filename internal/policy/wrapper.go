package policy

import (
	"regexp"
	"strings"
)

// Wrapper is a safe command prefix (timeout, env, leading VAR=value
// assignments) stripped before rule matching so rules target the core
// command.
type Wrapper struct {
	Name  string
	Regex *regexp.Regexp
}

// envAssignment strips leading VAR=value assignments regardless of
// configuration.
var envAssignment = Wrapper{
	Name:  "env-assignment",
	Regex: regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*=\S*\s+`),
}

// CompileWrapper builds a Wrapper from a command name and optional flag
// specifications.
func CompileWrapper(cmd string, flags []string) (Wrapper, error) {
	re, err := regexp.Compile(BuildWrapperPattern(cmd, flags))
	if err != nil {
		return Wrapper{}, err
	}
	return Wrapper{Name: cmd, Regex: re}, nil
}

// StripWrappers strips safe wrapper prefixes from a command.
// Returns (core_cmd, list_of_wrapper_names)
func StripWrappers(cmd string, wrappers []Wrapper) (string, []string) {
	all := append([]Wrapper{envAssignment}, wrappers...)
	var names []string
	changed := true
	for changed {
		changed = false
		for _, w := range all {
			loc := w.Regex.FindStringIndex(cmd)
			if loc != nil && loc[0] == 0 && loc[1] > 0 {
				names = append(names, w.Name)
				cmd = cmd[loc[1]:]
				changed = true
				break
			}
		}
	}
	return strings.TrimSpace(cmd), names
}
