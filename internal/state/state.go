// Package state persists session-scoped rate-limit counters shared by
// concurrent hook invocations.
//
// Multiple validator processes may race on this file-backed state, so every
// read-modify-write runs under a short-held exclusive file lock and writes
// go through an atomic rename.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/tollgate/tollgate/internal/constants"
)

const lockFileName = "state.lock"

// ErrStateLocked is returned when another invocation holds the state lock.
var ErrStateLocked = errors.New("rate-limit state is locked")

// TeamRecord tracks one active team.
type TeamRecord struct {
	Teammates int    `json:"teammates"`
	CreatedAt string `json:"created_at"`
}

// Counters is the persisted rate-limit document. The engine increments
// active_teams on admitted team creation; team teardown is the host's
// lifecycle and is read-only from the engine's perspective.
type Counters struct {
	ActiveTeams int                   `json:"active_teams"`
	Teams       map[string]TeamRecord `json:"teams,omitempty"`
}

// TimeProvider provides the current time (allows fixing it in tests).
type TimeProvider func() time.Time

// Store reads and updates counters in a session data directory.
type Store struct {
	dir string
	now TimeProvider
}

// DefaultDir returns the session data directory
// (TOLLGATE_DATA or ~/.local/share/tollgate).
func DefaultDir() (string, error) {
	if dir := os.Getenv(constants.EnvDataDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, constants.XDGDataSubdir, constants.AppName), nil
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// SetTimeProvider sets a custom time provider for testing.
func (s *Store) SetTimeProvider(tp TimeProvider) {
	s.now = tp
}

func (s *Store) statePath() string {
	return filepath.Join(s.dir, constants.StateFileName)
}

// Load returns the current counters. A missing state file yields zero
// counters, not an error.
func (s *Store) Load() (Counters, error) {
	return s.read()
}

// TrySpawnTeam admits a new team under the read-modify-write discipline.
// It returns false when the active-team count has already reached maxTeams.
// The counter increments only when the spawn is admitted, under the same
// lock, so two racing creations cannot both pass the ceiling.
func (s *Store) TrySpawnTeam(name string, teammates, maxTeams int) (bool, error) {
	if err := os.MkdirAll(s.dir, constants.DirMode); err != nil {
		return false, fmt.Errorf("failed to create state directory: %w", err)
	}

	fileLock := flock.New(filepath.Join(s.dir, lockFileName))
	locked, err := fileLock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to acquire state lock: %w", err)
	}
	if !locked {
		return false, ErrStateLocked
	}
	defer fileLock.Unlock()

	counters, err := s.read()
	if err != nil {
		return false, err
	}
	if counters.ActiveTeams >= maxTeams {
		return false, nil
	}

	if counters.Teams == nil {
		counters.Teams = make(map[string]TeamRecord)
	}
	counters.Teams[name] = TeamRecord{
		Teammates: teammates,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}
	counters.ActiveTeams++

	if err := s.write(counters); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) read() (Counters, error) {
	var counters Counters
	data, err := os.ReadFile(s.statePath())
	if err != nil {
		if os.IsNotExist(err) {
			return counters, nil
		}
		return counters, fmt.Errorf("failed to read state file: %w", err)
	}
	if err := json.Unmarshal(data, &counters); err != nil {
		return Counters{}, fmt.Errorf("failed to parse state file: %w", err)
	}
	return counters, nil
}

// write persists counters via a temp file and rename so readers never see a
// partial document.
func (s *Store) write(counters Counters) error {
	data, err := json.MarshalIndent(counters, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, constants.StateFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp state file: %w", err)
	}
	if err := os.Rename(tmpPath, s.statePath()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
