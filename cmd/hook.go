package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/omglearn/omg/internal/audit"
	"github.com/omglearn/omg/internal/config"
	"github.com/omglearn/omg/internal/hook"
	"github.com/omglearn/omg/internal/logger"
	"github.com/omglearn/omg/internal/pattern"
	"github.com/omglearn/omg/internal/protocol"
	"github.com/omglearn/omg/internal/store"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Hook entry points invoked by the host",
	Long: `Hook reads one event as JSON from stdin, evaluates it against the
configured patterns, and emits the response the invoking host expects.

These subcommands are wired into the host's hook configuration and are
not normally run by hand. They fail open: malformed input or a broken
pattern store results in the default allow/continue response.`,
}

var hookPreToolCmd = &cobra.Command{
	Use:   "pre-tool",
	Short: "Gate a tool call before it runs (PreToolUse / beforeShellExecution)",
	Run: func(cmd *cobra.Command, args []string) {
		runHook(hookKindPreTool, os.Stdin)
	},
}

var hookPostToolCmd = &cobra.Command{
	Use:   "post-tool",
	Short: "React to a finished tool call (PostToolUse / afterShellExecution / afterMCPExecution)",
	Run: func(cmd *cobra.Command, args []string) {
		runHook(hookKindPostTool, os.Stdin)
	},
}

var hookPromptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Check a user prompt before submission (UserPromptSubmit / beforeSubmitPrompt)",
	Run: func(cmd *cobra.Command, args []string) {
		runHook(hookKindPrompt, os.Stdin)
	},
}

func init() {
	rootCmd.AddCommand(hookCmd)
	hookCmd.AddCommand(hookPreToolCmd)
	hookCmd.AddCommand(hookPostToolCmd)
	hookCmd.AddCommand(hookPromptCmd)
}

type hookKind int

const (
	hookKindPreTool hookKind = iota
	hookKindPostTool
	hookKindPrompt
)

// runHook is the single evaluation path behind all hook entry points:
// parse the event, resolve the decision, run the side-effect action
// when one applies, serialize per dialect, audit, and emit.
func runHook(kind hookKind, stdin io.Reader) {
	start := time.Now()
	platform := activePlatform()
	cfg := config.Get()

	data, err := io.ReadAll(stdin)
	if err != nil {
		logger.Debug("failed to read hook input", "error", err)
		emit(defaultResponse(kind, platform))
		return
	}

	ev, err := parseEvent(kind, platform, data)
	if err != nil {
		logger.Debug("failed to parse hook input", "error", err)
		emit(defaultResponse(kind, platform))
		return
	}

	resolver := hook.NewResolver(store.New(platform))
	resolver.Matcher.CheckTimeout = time.Duration(cfg.CheckScriptTimeout) * time.Second
	decision := resolver.Resolve(ev)

	var run *hook.RunResult
	if kind == hookKindPostTool && decision.Matched && decision.Action == pattern.ActionRun {
		runner := &hook.Runner{DefaultTimeout: cfg.RunTimeout}
		result := runner.Execute(decision.Pattern, ev)
		run = &result
	}

	resp := serialize(kind, platform, decision, run)

	logAudit(platform, ev, decision, run, time.Since(start), resp)
	emit(resp)
}

// parseEvent maps (entry point, platform) onto the wire shape the host
// sends and the hook-event name patterns are matched against.
func parseEvent(kind hookKind, platform store.Platform, data []byte) (*hook.Event, error) {
	switch kind {
	case hookKindPreTool:
		if platform == store.PlatformCursor {
			return protocol.ParseShellEvent(data, pattern.BeforeShellExecution)
		}
		return protocol.ParseToolEvent(data, pattern.PreToolUse)

	case hookKindPostTool:
		if platform == store.PlatformCursor {
			// Cursor has two post hooks with different payloads: shell
			// events carry a command, MCP events carry a tool_name.
			var probe struct {
				Command string `json:"command"`
			}
			if err := json.Unmarshal(data, &probe); err == nil && probe.Command != "" {
				return protocol.ParseShellEvent(data, pattern.AfterShellExecution)
			}
			return protocol.ParseToolEvent(data, pattern.AfterMCPExecution)
		}
		return protocol.ParseToolEvent(data, pattern.PostToolUse)

	default:
		hookEv := pattern.UserPromptSubmit
		if platform == store.PlatformCursor {
			hookEv = pattern.BeforeSubmitPrompt
		}
		return protocol.ParsePromptEvent(data, hookEv)
	}
}

// serialize hands the decision to the dialect adapter for this entry
// point.
func serialize(kind hookKind, platform store.Platform, d hook.Decision, run *hook.RunResult) protocol.Response {
	if platform == store.PlatformCursor {
		cursor := protocol.Cursor{}
		switch kind {
		case hookKindPreTool:
			return cursor.PreShell(d)
		case hookKindPostTool:
			return cursor.PostEvent(d, run)
		default:
			return cursor.PromptSubmit(d)
		}
	}
	claude := protocol.Claude{}
	switch kind {
	case hookKindPreTool:
		return claude.PreToolUse(d)
	case hookKindPostTool:
		return claude.PostToolUse(d, run)
	default:
		return claude.PromptSubmit(d)
	}
}

// defaultResponse is the fail-open response for unusable input.
func defaultResponse(kind hookKind, platform store.Platform) protocol.Response {
	return serialize(kind, platform, hook.Decision{}, nil)
}

// emit writes the response streams and exits non-zero when the dialect
// signals the decision through the exit code.
func emit(resp protocol.Response) {
	if resp.Stdout != "" {
		fmt.Fprintln(os.Stdout, resp.Stdout)
	}
	if resp.Stderr != "" {
		fmt.Fprintln(os.Stderr, resp.Stderr)
	}
	if resp.ExitCode != 0 {
		audit.Close()
		os.Exit(resp.ExitCode)
	}
}

// logAudit records one decision in the audit log.
func logAudit(platform store.Platform, ev *hook.Event, d hook.Decision, run *hook.RunResult, elapsed time.Duration, resp protocol.Response) {
	entry := audit.Entry{
		Platform:   string(platform),
		Hook:       string(ev.Hook),
		ToolName:   ev.ToolName,
		Text:       ev.Text,
		Matched:    d.Matched,
		PatternID:  d.PatternID,
		Action:     string(d.Action),
		DurationMs: float64(elapsed.Microseconds()) / 1000.0,
		Output:     resp.Stdout,
	}
	if run != nil {
		entry.RunState = runStateName(run.State)
		entry.RunExit = run.ExitCode
	}
	audit.Log(entry)
}

func runStateName(s hook.RunState) string {
	switch s {
	case hook.RunCompleted:
		return "completed"
	case hook.RunTimedOut:
		return "timed_out"
	case hook.RunSpawnFailed:
		return "spawn_failed"
	default:
		return "skipped"
	}
}
