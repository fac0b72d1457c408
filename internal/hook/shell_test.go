package hook

import (
	"errors"
	"reflect"
	"testing"
)

func TestSplitCommandChain(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"single command", "git status", []string{"git status"}},
		{"and chain", "make build && make test", []string{"make build", "make test"}},
		{"or chain", "test -f x || touch x", []string{"test -f x", "touch x"}},
		{"semicolons", "cd /tmp; ls; pwd", []string{"cd /tmp", "ls", "pwd"}},
		{"pipeline", "cat log | grep error | wc -l", []string{"cat log", "grep error", "wc -l"}},
		{
			"mixed operators",
			"ls && rm -rf / || echo done",
			[]string{"ls", "rm -rf /", "echo done"},
		},
		{
			"quoted operators stay whole",
			`echo "a && b"`,
			[]string{`echo "a && b"`},
		},
		{"subshell", "(ls; pwd)", []string{"ls", "pwd"}},
		{"background", "sleep 10 &", []string{"sleep 10"}},
		{
			"if clause",
			"if true; then rm -rf /; fi",
			[]string{"true", "rm -rf /"},
		},
		{
			"for loop body",
			"for f in *.go; do gofmt $f; done",
			[]string{"gofmt $f"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitCommandChain(tt.cmd)
			if err != nil {
				t.Fatalf("SplitCommandChain(%q) failed: %v", tt.cmd, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitCommandChain(%q) = %v, want %v", tt.cmd, got, tt.want)
			}
		})
	}
}

func TestSplitCommandChainUnparseable(t *testing.T) {
	for _, cmd := range []string{`echo "unclosed`, "if true; then", "ls ((("} {
		if _, err := SplitCommandChain(cmd); !errors.Is(err, ErrUnparseable) {
			t.Errorf("SplitCommandChain(%q) error = %v, want ErrUnparseable", cmd, err)
		}
	}
}
