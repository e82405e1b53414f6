package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/omglearn/omg/internal/hook"
	"github.com/omglearn/omg/internal/pattern"
)

// Permission values for the Claude Code pre-tool response.
const (
	PermissionAllow = "allow"
	PermissionAsk   = "ask"
	PermissionDeny  = "deny"
)

// permissionResponse is the Claude Code PreToolUse response shape. It
// distinguishes allow/ask/deny and carries separate channels for the
// user and the agent.
type permissionResponse struct {
	Permission   string `json:"permission"`
	UserMessage  string `json:"user_message,omitempty"`
	AgentMessage string `json:"agent_message,omitempty"`
}

// continueResponse is the Claude Code PostToolUse response shape.
type continueResponse struct {
	Decision     string `json:"decision"`
	UserMessage  string `json:"user_message,omitempty"`
	AgentMessage string `json:"agent_message,omitempty"`
}

// Claude serializes decisions for the Claude Code host.
type Claude struct{}

// PreToolUse maps a decision onto the permission response: block
// becomes deny, ask stays ask, and every other action allows with a
// warning handed to the agent.
func (Claude) PreToolUse(d hook.Decision) Response {
	resp := permissionResponse{Permission: PermissionAllow}
	if d.Matched {
		switch d.Action {
		case pattern.ActionBlock:
			resp = permissionResponse{Permission: PermissionDeny, UserMessage: d.Message}
		case pattern.ActionAsk:
			resp = permissionResponse{Permission: PermissionAsk, UserMessage: d.Message}
		default:
			resp.AgentMessage = "⚠️ Warning: " + d.Message
		}
	}
	return Response{Stdout: marshal(resp)}
}

// PostToolUse maps a decision (and the run result, when the action
// was run) onto the continue response. Failures go to the agent
// channel on stderr; the event itself is never blocked.
func (Claude) PostToolUse(d hook.Decision, run *hook.RunResult) Response {
	plain := Response{Stdout: marshal(continueResponse{Decision: "continue"})}
	if !d.Matched {
		return plain
	}

	switch d.Action {
	case pattern.ActionRun:
		return claudeRunResponse(d, run)
	case pattern.ActionNotify:
		return Response{Stdout: marshal(continueResponse{
			Decision:    "continue",
			UserMessage: "ℹ️ " + d.Message,
		})}
	case pattern.ActionWarn:
		return Response{Stdout: marshal(continueResponse{
			Decision:     "continue",
			AgentMessage: "⚠️ " + d.Message,
		})}
	default:
		// block/ask have no post-event representation.
		return plain
	}
}

func claudeRunResponse(d hook.Decision, run *hook.RunResult) Response {
	plain := Response{Stdout: marshal(continueResponse{Decision: "continue"})}
	if run == nil {
		return plain
	}

	switch run.State {
	case hook.RunSkipped:
		return Response{Stderr: marshal(continueResponse{
			Decision:     "continue",
			AgentMessage: "⚠️ Command template error",
		})}
	case hook.RunTimedOut:
		return Response{Stderr: marshal(continueResponse{
			Decision:     "continue",
			AgentMessage: fmt.Sprintf("⚠️ Command timeout (%ds): %s", d.Pattern.RunTimeout(), run.Command),
		})}
	case hook.RunSpawnFailed:
		return Response{Stderr: marshal(continueResponse{
			Decision:     "continue",
			AgentMessage: "⚠️ Command execution failed",
		})}
	}

	if d.Pattern != nil && d.Pattern.ShowOutput {
		msg := "✓ " + d.Message
		if run.Stdout != "" {
			msg += "\n\n" + run.Stdout
		}
		if run.ExitCode != 0 && run.Stderr != "" {
			msg += "\n\nErrors:\n" + run.Stderr
		}
		return Response{Stdout: marshal(continueResponse{
			Decision:    "continue",
			UserMessage: msg,
		})}
	}

	if run.ExitCode != 0 && run.Stderr != "" {
		return Response{Stderr: marshal(continueResponse{
			Decision:     "continue",
			AgentMessage: fmt.Sprintf("⚠️ %s (command failed)\n%s", d.Message, run.Stderr),
		})}
	}
	return plain
}

// PromptSubmit uses the exit-code convention: exit 0 with the message
// on stdout adds context for the agent; exit 2 with the message on
// stderr blocks the prompt and shows the message to the user only.
func (Claude) PromptSubmit(d hook.Decision) Response {
	if !d.Matched {
		return Response{}
	}
	if d.Action == pattern.ActionBlock {
		return Response{Stderr: d.Message, ExitCode: 2}
	}
	return Response{Stdout: d.Message}
}

// marshal encodes a response payload, degrading to an empty object on
// the (unreachable) marshal failure so the host always sees valid JSON.
func marshal(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
