package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tollgate/tollgate/internal/constants"
)

func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	if err := fn(); err != nil {
		t.Fatalf("command failed: %v", err)
	}
	w.Close()
	out, _ := io.ReadAll(r)
	return string(out)
}

func TestValidateEmbeddedDefaults(t *testing.T) {
	t.Setenv(constants.EnvConfig, "")
	t.Setenv("HOME", t.TempDir())

	out := captureStdout(t, func() error { return runValidate(validateCmd, nil) })

	if !strings.Contains(out, "Policy source: embedded") {
		t.Errorf("output missing embedded source marker:\n%s", out)
	}
	if !strings.Contains(out, "max_teammates=8") {
		t.Errorf("output missing default limits:\n%s", out)
	}
	if !strings.Contains(out, "privilege-escalation") {
		t.Errorf("output missing default command rules:\n%s", out)
	}
	if !strings.Contains(out, "dotenv") {
		t.Errorf("output missing default path rules:\n%s", out)
	}
}

func TestValidateCustomPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.toml")
	data := `
[limits]
max_teammates = 3

[[rules.command]]
pattern = '\bcustom-tool\b'
category = "custom-category"
action = "ask"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(constants.EnvConfig, path)

	out := captureStdout(t, func() error { return runValidate(validateCmd, nil) })

	if !strings.Contains(out, "Policy source: "+path) {
		t.Errorf("output missing file source:\n%s", out)
	}
	if !strings.Contains(out, "max_teammates=3") {
		t.Errorf("output missing configured limit:\n%s", out)
	}
	if !strings.Contains(out, "custom-category") {
		t.Errorf("output missing configured rule:\n%s", out)
	}
}

func TestValidateDegradedPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(constants.EnvConfig, path)

	out := captureStdout(t, func() error { return runValidate(validateCmd, nil) })

	if !strings.Contains(out, "degraded to embedded defaults") {
		t.Errorf("output missing degradation notice:\n%s", out)
	}
	if !strings.Contains(out, "Policy source: embedded") {
		t.Errorf("degraded run should report the embedded source:\n%s", out)
	}
}
