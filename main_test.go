package main

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// buildBinary builds the tollgate binary once per test run.
func buildBinary(t *testing.T) string {
	t.Helper()
	bin := t.TempDir() + "/tollgate_test_binary"
	cmd := exec.Command("go", "build", "-o", bin, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build: %v\n%s", err, out)
	}
	return bin
}

// runTollgate runs the binary with input on stdin and an isolated
// environment, returning stdout, stderr, and the exit code.
func runTollgate(t *testing.T, bin, input string) (string, string, int) {
	t.Helper()

	cmd := exec.Command(bin)
	cmd.Stdin = strings.NewReader(input)
	cmd.Env = append(os.Environ(),
		"TOLLGATE_CONFIG=",
		"TOLLGATE_DATA="+t.TempDir(),
		"HOME="+t.TempDir(),
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			exitCode = exitError.ExitCode()
		} else {
			t.Fatalf("failed to run: %v", err)
		}
	}
	return stdout.String(), stderr.String(), exitCode
}

func TestIntegrationExitContract(t *testing.T) {
	bin := buildBinary(t)

	tests := []struct {
		name       string
		input      string
		wantExit   int
		wantStdout string
		wantStderr string
	}{
		{
			name:     "allow is silent",
			input:    `{"tool_name": "Bash", "tool_input": {"command": "git status"}}`,
			wantExit: 0,
		},
		{
			name:       "ask prints prompt",
			input:      `{"tool_name": "Bash", "tool_input": {"command": "sudo apt update"}}`,
			wantExit:   0,
			wantStdout: `"result":"ask"`,
		},
		{
			name:       "block exits 2 with reason",
			input:      `{"tool_name": "Bash", "tool_input": {"command": "git push --force"}}`,
			wantExit:   2,
			wantStderr: "[BLOCKED] forced-git",
		},
		{
			name:       "write escape blocks",
			input:      `{"tool_name": "Write", "cwd": "/tmp", "tool_input": {"file_path": "../../etc/passwd"}}`,
			wantExit:   2,
			wantStderr: "[BLOCKED] path-traversal",
		},
		{
			name:     "invalid json fails open",
			input:    "invalid json {{{",
			wantExit: 0,
		},
		{
			name:     "empty input fails open",
			input:    "",
			wantExit: 0,
		},
		{
			name:     "unregistered tool passes through",
			input:    `{"tool_name": "Read", "tool_input": {"file_path": "/etc/passwd"}}`,
			wantExit: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, exitCode := runTollgate(t, bin, tt.input)

			if exitCode != tt.wantExit {
				t.Errorf("exit code = %d, want %d (stderr: %s)", exitCode, tt.wantExit, stderr)
			}
			if tt.wantStdout == "" && stdout != "" {
				t.Errorf("stdout = %q, want empty", stdout)
			}
			if tt.wantStdout != "" && !strings.Contains(stdout, tt.wantStdout) {
				t.Errorf("stdout = %q, want it to contain %q", stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr, tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.wantStderr)
			}
		})
	}
}

func TestIntegrationValidateCommand(t *testing.T) {
	bin := buildBinary(t)

	cmd := exec.Command(bin, "validate")
	cmd.Env = append(os.Environ(), "TOLLGATE_CONFIG=", "HOME="+t.TempDir())
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("validate failed: %v\n%s", err, out)
	}
	if !strings.Contains(string(out), "Policy source: embedded") {
		t.Errorf("validate output missing policy source:\n%s", out)
	}
}
