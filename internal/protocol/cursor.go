package protocol

import (
	"github.com/omglearn/omg/internal/hook"
	"github.com/omglearn/omg/internal/pattern"
)

// allowedResponse is the Cursor pre-event response shape: a boolean
// gate plus an optional message.
type allowedResponse struct {
	Allowed bool   `json:"allowed"`
	Message string `json:"message,omitempty"`
}

// Cursor serializes decisions for the Cursor host. Cursor's dialect
// has no native "ask": anything short of a block degrades to an
// allow-with-warning.
type Cursor struct{}

// PreShell maps a decision onto the beforeShellExecution response.
func (Cursor) PreShell(d hook.Decision) Response {
	if !d.Matched {
		return Response{Stdout: marshal(allowedResponse{Allowed: true})}
	}
	if d.Action == pattern.ActionBlock {
		return Response{Stdout: marshal(allowedResponse{Allowed: false, Message: d.Message})}
	}
	return Response{Stdout: marshal(allowedResponse{
		Allowed: true,
		Message: "⚠️ Warning: " + d.Message,
	})}
}

// PromptSubmit maps a decision onto the beforeSubmitPrompt response.
// Unlike shell warnings, prompt messages are passed through without a
// prefix.
func (Cursor) PromptSubmit(d hook.Decision) Response {
	if !d.Matched {
		return Response{Stdout: marshal(allowedResponse{Allowed: true})}
	}
	if d.Action == pattern.ActionBlock {
		return Response{Stdout: marshal(allowedResponse{Allowed: false, Message: d.Message})}
	}
	return Response{Stdout: marshal(allowedResponse{Allowed: true, Message: d.Message})}
}

// PostEvent is the afterShellExecution/afterMCPExecution response.
// Cursor's post hooks are observation-only: any run action has already
// executed as a side effect, and the host expects no output.
func (Cursor) PostEvent(hook.Decision, *hook.RunResult) Response {
	return Response{}
}
