// Package constants defines shared constants used across the tollgate codebase.
package constants

import "os"

// File permissions
const (
	DirMode  os.FileMode = 0755
	FileMode os.FileMode = 0644
)

// Environment variables
const (
	EnvConfig      = "TOLLGATE_CONFIG"
	EnvDataDir     = "TOLLGATE_DATA"
	EnvProjectRoot = "TOLLGATE_PROJECT_ROOT"
)

// Application paths
const (
	AppName         = "tollgate"
	XDGConfigSubdir = ".config"
	XDGDataSubdir   = ".local/share"
	ProjectSubdir   = ".tollgate"
	ConfigFileName  = "policy.toml"
	StateFileName   = "state.json"
)
