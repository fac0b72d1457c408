package main

import (
	"strings"
	"testing"

	"github.com/tollgate/tollgate/internal/hook"
	"github.com/tollgate/tollgate/internal/policy"
)

// BenchmarkSplitCommandChain benchmarks command chain splitting
func BenchmarkSplitCommandChain(b *testing.B) {
	benchmarks := []struct {
		name string
		cmd  string
	}{
		{"simple", "git status"},
		{"chained", "git add . && git commit -m 'test' && git push"},
		{"piped", "cat file.txt | grep foo | wc -l"},
		{"complex", "VAR=value timeout 30 make test && echo done"},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = hook.SplitCommandChain(bm.cmd)
			}
		})
	}
}

// BenchmarkRun benchmarks the full invocation pipeline
func BenchmarkRun(b *testing.B) {
	benchmarks := []struct {
		name  string
		input string
	}{
		{"bash_allowed", `{"tool_name":"Bash","tool_input":{"command":"git status"}}`},
		{"bash_blocked", `{"tool_name":"Bash","tool_input":{"command":"rm -rf /"}}`},
		{"bash_chained", `{"tool_name":"Bash","tool_input":{"command":"git status && git log"}}`},
		{"bash_wrapped", `{"tool_name":"Bash","tool_input":{"command":"timeout 30 make test"}}`},
		{"write", `{"tool_name":"Write","tool_input":{"file_path":"src/main.go"}}`},
		{"message", `{"tool_name":"SendMessage","tool_input":{"to":"peer","content":"ready for review"}}`},
		{"pass_through", `{"tool_name":"Read","tool_input":{"file_path":"/tmp/test"}}`},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			r := hook.NewRunner("", nil)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = r.Run(strings.NewReader(bm.input))
			}
		})
	}
}

// BenchmarkStripWrappers benchmarks wrapper stripping
func BenchmarkStripWrappers(b *testing.B) {
	cfg := defaultConfig(b)

	benchmarks := []struct {
		name string
		cmd  string
	}{
		{"no_wrapper", "make test"},
		{"single_wrapper", "timeout 30 make test"},
		{"double_wrapper", "env timeout 30 make test"},
		{"env_vars", "VAR=value OTHER=foo make test"},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = policy.StripWrappers(bm.cmd, cfg.Wrappers)
			}
		})
	}
}

// BenchmarkEvaluate benchmarks rule evaluation and reduction
func BenchmarkEvaluate(b *testing.B) {
	cfg := defaultConfig(b)
	rules := policy.CombineRules(policy.BuiltinCommandRules(), cfg.CommandRules)

	benchmarks := []struct {
		name string
		cmd  string
	}{
		{"allowed", "git status"},
		{"blocked", "git push --force origin main"},
		{"asked", "sudo apt install jq"},
		{"no_match_long", strings.Repeat("echo hello ", 50)},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = policy.Reduce(policy.Evaluate(bm.cmd, rules))
			}
		})
	}
}

// BenchmarkScanSecrets benchmarks credential scanning
func BenchmarkScanSecrets(b *testing.B) {
	content := "the deploy uses token=sk-abcdef123456 plus ghp_abcdefghij0123456789XY somewhere in " +
		strings.Repeat("ordinary prose ", 100)

	b.Run("with_hits", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = policy.ScanSecrets(content)
		}
	})
	b.Run("clean", func(b *testing.B) {
		clean := strings.Repeat("ordinary prose ", 100)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = policy.ScanSecrets(clean)
		}
	})
}
