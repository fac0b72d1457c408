// Package metrics provides best-effort recording of tollgate decision
// outcomes and latency. Recording must never affect the decision: every
// failure here is a silent no-op beyond a debug log.
package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/tollgate/tollgate/internal/constants"
	"github.com/tollgate/tollgate/internal/logger"
)

const (
	fileName = "metrics.jsonl"

	// rotateBytes is the size at which the current log is compressed and
	// truncated.
	rotateBytes = 4 << 20
)

// TimestampFormat is the format used for metrics timestamps.
const TimestampFormat = "2006-01-02T15:04:05.0Z07:00"

// Entry is one recorded decision.
type Entry struct {
	ID         string  `json:"id"`
	Timestamp  string  `json:"timestamp"`
	Tool       string  `json:"tool,omitempty"`
	Action     string  `json:"action"`
	Category   string  `json:"category,omitempty"`
	Reason     string  `json:"reason,omitempty"`
	DurationMs float64 `json:"duration_ms"`
	Error      string  `json:"error,omitempty"`
}

var (
	mu      sync.Mutex
	enabled bool
	dir     string
)

// DefaultDir returns the default metrics directory
// (TOLLGATE_DATA or ~/.local/share/tollgate).
func DefaultDir() (string, error) {
	if d := os.Getenv(constants.EnvDataDir); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, constants.XDGDataSubdir, constants.AppName), nil
}

// Init initializes metrics recording. If path is empty, uses the default
// directory. Pass disable=true to turn recording off.
func Init(path string, disable bool) error {
	mu.Lock()
	defer mu.Unlock()

	if disable {
		enabled = false
		return nil
	}

	if path == "" {
		var err error
		path, err = DefaultDir()
		if err != nil {
			logger.Debug("failed to get default metrics directory", "error", err)
			return err
		}
	}
	if err := os.MkdirAll(path, constants.DirMode); err != nil {
		logger.Debug("failed to create metrics directory", "error", err)
		return err
	}

	dir = path
	enabled = true
	return nil
}

// Record appends an entry to the metrics log. It fills in the entry ID and
// timestamp. If recording is disabled or anything fails, this is a no-op.
func Record(entry Entry) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || dir == "" {
		return
	}

	entry.ID = uuid.NewString()
	entry.Timestamp = time.Now().UTC().Format(TimestampFormat)

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Debug("failed to marshal metrics entry", "error", err)
		return
	}

	path := filepath.Join(dir, fileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FileMode)
	if err != nil {
		logger.Debug("failed to open metrics log", "error", err)
		return
	}
	_, werr := f.Write(append(data, '\n'))
	f.Close()
	if werr != nil {
		logger.Debug("failed to write metrics entry", "error", werr)
		return
	}

	if fi, err := os.Stat(path); err == nil && fi.Size() >= rotateBytes {
		if err := rotate(path); err != nil {
			logger.Debug("failed to rotate metrics log", "error", err)
		}
	}
}

// rotate compresses the current log to a timestamped .zst archive and
// truncates it.
func rotate(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	compressed := enc.EncodeAll(data, nil)
	enc.Close()

	archive := filepath.Join(dir, fmt.Sprintf("metrics-%s.jsonl.zst",
		time.Now().UTC().Format("20060102T150405")))
	if err := os.WriteFile(archive, compressed, constants.FileMode); err != nil {
		return err
	}
	return os.Truncate(path, 0)
}

// IsEnabled returns whether metrics recording is enabled.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Reset resets the metrics state. Used for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	enabled = false
	dir = ""
}
