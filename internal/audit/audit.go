// Package audit provides audit logging for omg hook decisions.
//
// Each hook invocation appends one JSONL entry describing the event,
// the matched pattern (if any), and the outcome. The log rotates by
// size, compressing the old file with gzip.
package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/omglearn/omg/internal/constants"
	"github.com/omglearn/omg/internal/logger"
)

// Version of the entry format.
const Version = 1

// TimestampFormat is the format used for audit log timestamps.
const TimestampFormat = "2006-01-02T15:04:05.0Z07:00"

// Entry represents a single audit log entry (v1 format).
type Entry struct {
	Version    int     `json:"version"`
	Timestamp  string  `json:"timestamp"`
	Platform   string  `json:"platform"`
	Hook       string  `json:"hook"`
	ToolName   string  `json:"tool_name,omitempty"`
	Text       string  `json:"text,omitempty"`
	Matched    bool    `json:"matched"`
	PatternID  string  `json:"pattern_id,omitempty"`
	Action     string  `json:"action,omitempty"`
	RunState   string  `json:"run_state,omitempty"`
	RunExit    int     `json:"run_exit,omitempty"`
	DurationMs float64 `json:"duration_ms"`
	Output     string  `json:"output,omitempty"`
}

var (
	auditFile *os.File
	mu        sync.Mutex
	enabled   bool
)

// DefaultLogPath returns the default audit log path
// (~/.local/share/omg/audit.log).
func DefaultLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", constants.AppName, "audit.log"), nil
}

// Init initializes the audit log. If path is empty, the default path
// is used. maxSizeMB > 0 rotates the existing log once it exceeds that
// size. Pass disable=true to turn audit logging off.
func Init(path string, maxSizeMB int, disable bool) error {
	mu.Lock()
	defer mu.Unlock()

	if disable {
		enabled = false
		return nil
	}

	if path == "" {
		var err error
		path, err = DefaultLogPath()
		if err != nil {
			logger.Debug("failed to get default audit log path", "error", err)
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirMode); err != nil {
		logger.Debug("failed to create audit log directory", "error", err)
		return err
	}

	if maxSizeMB > 0 {
		if err := rotate(path, int64(maxSizeMB)*1024*1024); err != nil {
			logger.Debug("audit log rotation failed", "error", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FileMode)
	if err != nil {
		logger.Debug("failed to open audit log file", "error", err)
		return err
	}

	auditFile = f
	enabled = true
	logger.Debug("audit logging initialized", "path", path)
	return nil
}

// rotate compresses the log into <path>.<timestamp>.gz and removes
// the original once it exceeds maxBytes.
func rotate(path string, maxBytes int64) error {
	info, err := os.Stat(path)
	if err != nil || info.Size() <= maxBytes {
		return nil
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	rotated := fmt.Sprintf("%s.%s.gz", path, time.Now().UTC().Format("20060102T150405"))
	dst, err := os.OpenFile(rotated, os.O_CREATE|os.O_EXCL|os.O_WRONLY, constants.FileMode)
	if err != nil {
		return err
	}

	gz := gzip.NewWriter(dst)
	if _, err := io.Copy(gz, src); err != nil {
		gz.Close()
		dst.Close()
		os.Remove(rotated)
		return err
	}
	if err := gz.Close(); err != nil {
		dst.Close()
		os.Remove(rotated)
		return err
	}
	if err := dst.Close(); err != nil {
		os.Remove(rotated)
		return err
	}

	logger.Debug("rotated audit log", "to", rotated, "size", info.Size())
	return os.Remove(path)
}

// Close closes the audit log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if auditFile != nil {
		err := auditFile.Close()
		auditFile = nil
		enabled = false
		return err
	}
	return nil
}

// Log writes an entry to the audit log.
// If audit logging is not initialized or disabled, this is a no-op.
func Log(entry Entry) error {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || auditFile == nil {
		return nil
	}

	entry.Version = Version
	entry.Timestamp = time.Now().UTC().Format(TimestampFormat)

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Debug("failed to marshal audit entry", "error", err)
		return err
	}

	if _, err := auditFile.Write(append(data, '\n')); err != nil {
		logger.Debug("failed to write audit entry", "error", err)
		return err
	}

	return nil
}

// IsEnabled returns whether audit logging is enabled.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Reset resets the audit state. Used for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if auditFile != nil {
		auditFile.Close()
	}
	auditFile = nil
	enabled = false
}
