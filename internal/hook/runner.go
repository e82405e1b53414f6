package hook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"mvdan.cc/sh/v3/syntax"

	"github.com/omglearn/omg/internal/logger"
	"github.com/omglearn/omg/internal/pattern"
)

// RunState classifies the outcome of a run action.
type RunState int

const (
	// RunSkipped means no process was spawned: the command template
	// referenced a placeholder not derivable from the event, or the
	// substituted command was not valid shell.
	RunSkipped RunState = iota
	// RunCompleted means the command ran to completion (any exit code).
	RunCompleted
	// RunTimedOut means the command was killed at the pattern's timeout.
	RunTimedOut
	// RunSpawnFailed means the shell could not be started.
	RunSpawnFailed
)

// RunResult is the bounded-task outcome of a run action. Run actions
// sit on the host's critical path, so every failure mode is folded
// into this result instead of an error.
type RunResult struct {
	State    RunState
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
	// Err carries the skip/spawn detail for logging. It is never
	// surfaced verbatim to the host's agent or user.
	Err error
}

// Failed reports whether the action produced no successful run.
func (r RunResult) Failed() bool {
	return r.State != RunCompleted || r.ExitCode != 0
}

// Runner executes run actions.
type Runner struct {
	// DefaultTimeout, in seconds, applies when the pattern has no
	// timeout of its own. Zero means pattern.DefaultRunTimeout.
	DefaultTimeout int
}

func (r *Runner) timeoutFor(p *pattern.Pattern) time.Duration {
	secs := p.Timeout
	if secs <= 0 {
		secs = r.DefaultTimeout
	}
	if secs <= 0 {
		secs = pattern.DefaultRunTimeout
	}
	return time.Duration(secs) * time.Second
}

// Execute runs the matched pattern's command template against the
// event: substitutes the file placeholders, validates the result as
// shell, and runs it via sh -c with the pattern's timeout, capturing
// both streams. The working directory is the file's directory when one
// is derivable.
func (r *Runner) Execute(p *pattern.Pattern, ev *Event) RunResult {
	cmdStr, err := ExpandTemplate(p.Command, templateVars(ev))
	if err != nil {
		logger.Debug("command template error", "id", p.ID, "error", err)
		return RunResult{State: RunSkipped, Err: err}
	}

	// Reject templates that expand to broken shell before spawning
	// anything.
	if _, err := syntax.NewParser().Parse(strings.NewReader(cmdStr), ""); err != nil {
		logger.Debug("command is not valid shell", "id", p.ID, "command", cmdStr, "error", err)
		return RunResult{State: RunSkipped, Command: cmdStr, Err: err}
	}

	timeout := r.timeoutFor(p)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", cmdStr)
	if dir := fileDir(ev.FilePath); dir != "" {
		cmd.Dir = dir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		logger.Debug("run action timed out", "id", p.ID, "command", cmdStr, "timeout", timeout)
		return RunResult{State: RunTimedOut, Command: cmdStr}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			logger.Debug("run action spawn failed", "id", p.ID, "error", err)
			return RunResult{State: RunSpawnFailed, Command: cmdStr, Err: err}
		}
	}

	return RunResult{
		State:    RunCompleted,
		Command:  cmdStr,
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
}

// templateVars derives the placeholder values from the event. The
// file placeholders exist only when the event carries a file path, so
// a template referencing them without one is a template error.
func templateVars(ev *Event) map[string]string {
	vars := map[string]string{}
	if ev.FilePath != "" {
		vars["file_path"] = ev.FilePath
		vars["file_name"] = filepath.Base(ev.FilePath)
		vars["file_dir"] = filepath.Dir(ev.FilePath)
		vars["file_ext"] = filepath.Ext(ev.FilePath)
	}
	return vars
}

// fileDir returns the directory to run the action in, or "".
func fileDir(path string) string {
	if path == "" {
		return ""
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return ""
	}
	return dir
}

// ExpandTemplate substitutes {name} placeholders in tmpl from vars.
// Doubled braces escape literal braces. Referencing a name missing
// from vars is an error; nothing is partially substituted.
func ExpandTemplate(tmpl string, vars map[string]string) (string, error) {
	var out strings.Builder
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				out.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("unterminated placeholder at offset %d", i)
			}
			name := tmpl[i+1 : i+end]
			val, ok := vars[name]
			if !ok {
				return "", fmt.Errorf("undefined placeholder %q", name)
			}
			out.WriteString(val)
			i += end
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				out.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("unmatched '}' at offset %d", i)
		default:
			out.WriteByte(c)
		}
	}
	return out.String(), nil
}
