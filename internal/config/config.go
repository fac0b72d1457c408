// Package config handles policy configuration loading for tollgate.
//
// The policy source is resolved through an explicit, ordered candidate list
// and parsed fresh on every invocation so live edits to the policy file
// take effect immediately. Any load failure degrades to the embedded
// defaults; configuration problems are never fatal.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/tollgate/tollgate/internal/constants"
	"github.com/tollgate/tollgate/internal/logger"
	"github.com/tollgate/tollgate/internal/policy"
)

//go:embed policy.toml
var defaultPolicy []byte

// SourceEmbedded marks a Config built from the embedded defaults.
const SourceEmbedded = "embedded"

// Default numeric limits, overridable via the [limits] table.
const (
	DefaultMaxActiveTeams  = 4
	DefaultMaxTeammates    = 8
	DefaultMaxMessageBytes = 10240
)

// Limits holds the inline numeric ceilings.
type Limits struct {
	MaxActiveTeams  int `toml:"max_active_teams"`
	MaxTeammates    int `toml:"max_teammates"`
	MaxMessageBytes int `toml:"max_message_bytes"`
}

// Config holds the compiled rule sets and limits for one invocation.
type Config struct {
	CommandRules []policy.CompiledRule
	PathRules    []policy.CompiledRule
	MessageRules []policy.CompiledRule
	Wrappers     []policy.Wrapper
	Limits       Limits
	// Source records where the policy came from, for diagnostics.
	Source string
}

// fileConfig mirrors the TOML layout.
type fileConfig struct {
	Limits   Limits         `toml:"limits"`
	Rules    rulesSection   `toml:"rules"`
	Wrappers []wrapperEntry `toml:"wrappers"`
}

type rulesSection struct {
	Command []ruleEntry `toml:"command"`
	Path    []ruleEntry `toml:"path"`
	Message []ruleEntry `toml:"message"`
}

type ruleEntry struct {
	Pattern  string `toml:"pattern"`
	Category string `toml:"category"`
	Action   string `toml:"action"`
	Message  string `toml:"message"`
}

type wrapperEntry struct {
	Command string   `toml:"command"`
	Flags   []string `toml:"flags"`
}

// CandidatePaths returns the ordered list of policy source locations:
// the TOLLGATE_CONFIG override, the project-local policy, then the user
// config directory. The embedded default backs all of them.
func CandidatePaths(projectRoot string) []string {
	var out []string
	if v := os.Getenv(constants.EnvConfig); v != "" {
		if fi, err := os.Stat(v); err == nil && fi.IsDir() {
			v = filepath.Join(v, constants.ConfigFileName)
		}
		out = append(out, v)
	}
	if projectRoot != "" {
		out = append(out, filepath.Join(projectRoot, constants.ProjectSubdir, constants.ConfigFileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		out = append(out, filepath.Join(home, constants.XDGConfigSubdir, constants.AppName, constants.ConfigFileName))
	}
	return out
}

// ResolvePath returns the first existing policy source, or "" when only the
// embedded default is available.
func ResolvePath(projectRoot string) string {
	for _, p := range CandidatePaths(projectRoot) {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}
	return ""
}

// Load resolves and parses the policy for one invocation. The returned
// Config is always usable: any failure degrades to the embedded defaults,
// with the error reporting what went wrong so callers can record it.
func Load(projectRoot string) (*Config, error) {
	path := ResolvePath(projectRoot)
	if path == "" {
		return loadEmbedded(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("failed to read policy file, using embedded defaults", "path", path, "error", err)
		return loadEmbedded(), fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		logger.Debug("failed to parse policy file, using embedded defaults", "path", path, "error", err)
		return loadEmbedded(), fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// Parse parses TOML policy data into a Config. Rules with invalid patterns
// or unknown actions are dropped individually; only malformed TOML fails
// the whole parse.
func Parse(data []byte) (*Config, error) {
	var raw fileConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg := &Config{
		CommandRules: policy.CompileAll(toRules(raw.Rules.Command, policy.ScopeCommand)),
		PathRules:    policy.CompileAll(toRules(raw.Rules.Path, policy.ScopePath)),
		MessageRules: policy.CompileAll(toRules(raw.Rules.Message, policy.ScopeMessage)),
		Limits:       raw.Limits,
	}
	if cfg.Limits.MaxActiveTeams <= 0 {
		cfg.Limits.MaxActiveTeams = DefaultMaxActiveTeams
	}
	if cfg.Limits.MaxTeammates <= 0 {
		cfg.Limits.MaxTeammates = DefaultMaxTeammates
	}
	if cfg.Limits.MaxMessageBytes <= 0 {
		cfg.Limits.MaxMessageBytes = DefaultMaxMessageBytes
	}

	for _, w := range raw.Wrappers {
		if w.Command == "" {
			continue
		}
		wrapper, err := policy.CompileWrapper(w.Command, w.Flags)
		if err != nil {
			logger.Debug("dropping wrapper with invalid pattern", "command", w.Command, "error", err)
			continue
		}
		cfg.Wrappers = append(cfg.Wrappers, wrapper)
	}

	return cfg, nil
}

// toRules converts raw entries to policy rules, dropping entries whose
// action is not one of the three verdicts.
func toRules(entries []ruleEntry, scope policy.Scope) []policy.Rule {
	var out []policy.Rule
	for _, e := range entries {
		action := policy.Action(e.Action)
		if !action.Valid() {
			logger.Debug("dropping rule with unknown action",
				"category", e.Category, "action", e.Action)
			continue
		}
		out = append(out, policy.Rule{
			Pattern:  e.Pattern,
			Category: e.Category,
			Action:   action,
			Message:  e.Message,
			Scope:    scope,
		})
	}
	return out
}

// loadEmbedded parses the embedded default policy. The embedded file is
// covered by tests, so a parse failure here is a build defect; degrade to
// an empty config rather than panic regardless.
func loadEmbedded() *Config {
	cfg, err := Parse(defaultPolicy)
	if err != nil {
		cfg = &Config{Limits: Limits{
			MaxActiveTeams:  DefaultMaxActiveTeams,
			MaxTeammates:    DefaultMaxTeammates,
			MaxMessageBytes: DefaultMaxMessageBytes,
		}}
	}
	cfg.Source = SourceEmbedded
	return cfg
}

// DefaultPolicy returns the embedded default policy file.
func DefaultPolicy() []byte {
	return defaultPolicy
}

// UserConfigDir returns the per-user config directory
// (~/.config/tollgate, or TOLLGATE_CONFIG when set to a directory).
func UserConfigDir() (string, error) {
	if dir := os.Getenv(constants.EnvConfig); dir != "" {
		if fi, err := os.Stat(dir); err != nil || fi.IsDir() {
			return dir, nil
		}
		return filepath.Dir(dir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, constants.XDGConfigSubdir, constants.AppName), nil
}

// EnsureConfigFile creates the config directory and writes the default
// policy file if it doesn't exist.
func EnsureConfigFile(configDir string) error {
	if err := os.MkdirAll(configDir, constants.DirMode); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path := filepath.Join(configDir, constants.ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, defaultPolicy, constants.FileMode); err != nil {
			return fmt.Errorf("failed to write %s: %w", constants.ConfigFileName, err)
		}
	}
	return nil
}
