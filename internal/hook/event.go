// Package hook implements the core pattern evaluation logic for omg:
// matching one event against the configured patterns, resolving the
// first-match decision, and executing run actions.
package hook

import "github.com/omglearn/omg/internal/pattern"

// Event is one lifecycle event as seen by the engine, already parsed
// out of the host's wire format by the protocol layer.
type Event struct {
	// Hook is the lifecycle moment, in either dialect's spelling.
	Hook pattern.HookEvent
	// ToolName is the invoking tool for tool-scoped hooks (Bash,
	// Write, Edit, ...). Empty for prompt-submission events.
	ToolName string
	// Text is the primary text the patterns match against: the shell
	// command, the file path, or the content, in that priority order.
	Text string
	// FilePath is the file being edited, when the event carries one.
	FilePath string
	// Output is the captured tool output for post hooks.
	Output string
}
