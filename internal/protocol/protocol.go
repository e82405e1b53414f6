// Package protocol translates between the engine's internal types and
// the wire formats of the two supported hosts.
//
// Input parsing turns each host's stdin JSON into a hook.Event; the
// two adapters (claude.go, cursor.go) serialize a Decision into the
// response shape the host expects. Adapters are pure serialization:
// they never re-evaluate matching logic.
package protocol

import (
	"encoding/json"

	"github.com/omglearn/omg/internal/hook"
	"github.com/omglearn/omg/internal/pattern"
)

// Response is what the hook process should emit for one event:
// payloads for the two streams plus the exit code. Hosts that use the
// exit-code convention read all three; JSON-response hosts only read
// stdout.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// toolInput is the nested tool_input object sent by both hosts for
// tool-scoped events.
type toolInput struct {
	Command  string `json:"command"`
	FilePath string `json:"file_path"`
	Path     string `json:"path"`
	Content  string `json:"content"`
}

func (t toolInput) filePath() string {
	if t.FilePath != "" {
		return t.FilePath
	}
	return t.Path
}

// primaryText is the text patterns match against, in priority order:
// command, file path, content.
func (t toolInput) primaryText() string {
	switch {
	case t.Command != "":
		return t.Command
	case t.filePath() != "":
		return t.filePath()
	default:
		return t.Content
	}
}

// toolEvent is the stdin shape for Claude Code tool hooks and Cursor
// MCP hooks.
type toolEvent struct {
	ToolName   string          `json:"tool_name"`
	ToolInput  toolInput       `json:"tool_input"`
	ToolOutput json.RawMessage `json:"tool_output"`
	Result     json.RawMessage `json:"result"`
	ResultJSON json.RawMessage `json:"result_json"`
}

// shellEvent is the stdin shape for Cursor shell hooks.
type shellEvent struct {
	Command string `json:"command"`
	Output  string `json:"output"`
}

// promptEvent is the stdin shape for prompt-submission hooks in both
// dialects.
type promptEvent struct {
	Prompt string `json:"prompt"`
}

// ParseToolEvent parses a tool-scoped event (pre or post) from stdin
// JSON. Used for Claude Code PreToolUse/PostToolUse and Cursor
// afterMCPExecution payloads.
func ParseToolEvent(data []byte, hookEv pattern.HookEvent) (*hook.Event, error) {
	var in toolEvent
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	return &hook.Event{
		Hook:     hookEv,
		ToolName: in.ToolName,
		Text:     in.ToolInput.primaryText(),
		FilePath: in.ToolInput.filePath(),
		Output:   rawText(in.ToolOutput, in.Result, in.ResultJSON),
	}, nil
}

// ParseShellEvent parses a Cursor shell event ({command, output, ...}).
// The tool name is fixed to Bash so tool matchers behave identically
// across dialects.
func ParseShellEvent(data []byte, hookEv pattern.HookEvent) (*hook.Event, error) {
	var in shellEvent
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	return &hook.Event{
		Hook:     hookEv,
		ToolName: "Bash",
		Text:     in.Command,
		Output:   in.Output,
	}, nil
}

// ParsePromptEvent parses a prompt-submission event ({prompt}).
func ParsePromptEvent(data []byte, hookEv pattern.HookEvent) (*hook.Event, error) {
	var in promptEvent
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	return &hook.Event{
		Hook: hookEv,
		Text: in.Prompt,
	}, nil
}

// rawText returns the first non-empty raw JSON value as text, with
// surrounding quotes stripped for plain strings.
func rawText(values ...json.RawMessage) string {
	for _, v := range values {
		if len(v) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
		return string(v)
	}
	return ""
}
