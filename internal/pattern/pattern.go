// Package pattern defines the pattern data model shared by the store,
// the matching engine, and the CLI.
//
// A pattern is one policy rule: a set of match conditions (hook event,
// tool matcher, regex or external check script) plus an action to take
// when the conditions are satisfied.
package pattern

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Action is what happens when a pattern matches.
type Action string

const (
	ActionBlock  Action = "block"
	ActionWarn   Action = "warn"
	ActionAsk    Action = "ask"
	ActionNotify Action = "notify"
	ActionRun    Action = "run"
)

// HookEvent names a lifecycle moment. Claude Code and Cursor use
// different literal names for the same semantic hook points; both
// spellings are accepted and folded by Canonical.
type HookEvent string

const (
	PreToolUse       HookEvent = "PreToolUse"
	PostToolUse      HookEvent = "PostToolUse"
	UserPromptSubmit HookEvent = "UserPromptSubmit"

	// Cursor dialect synonyms
	BeforeShellExecution HookEvent = "beforeShellExecution"
	AfterShellExecution  HookEvent = "afterShellExecution"
	AfterMCPExecution    HookEvent = "afterMCPExecution"
	BeforeSubmitPrompt   HookEvent = "beforeSubmitPrompt"
)

// Canonical folds dialect synonyms onto the Claude Code spelling.
// Unknown values are returned unchanged.
func (h HookEvent) Canonical() HookEvent {
	switch h {
	case BeforeShellExecution:
		return PreToolUse
	case AfterShellExecution, AfterMCPExecution:
		return PostToolUse
	case BeforeSubmitPrompt:
		return UserPromptSubmit
	}
	return h
}

// Matches reports whether two hook event names refer to the same
// semantic hook point.
func (h HookEvent) Matches(other HookEvent) bool {
	return h.Canonical() == other.Canonical()
}

// IsPost reports whether the event fires after the tool ran.
func (h HookEvent) IsPost() bool {
	return h.Canonical() == PostToolUse
}

// IsPrompt reports whether the event is a prompt-submission hook.
func (h HookEvent) IsPrompt() bool {
	return h.Canonical() == UserPromptSubmit
}

// Default timeouts, in seconds.
const (
	DefaultRunTimeout  = 30
	CheckScriptTimeout = 5
)

// Pattern is one policy rule as persisted in the pattern file.
//
// Enabled defaults to true when absent from the JSON document; the
// custom UnmarshalJSON below makes that default explicit rather than
// relying on the zero value.
type Pattern struct {
	ID               string    `json:"id,omitempty"`
	Enabled          bool      `json:"enabled"`
	Hook             HookEvent `json:"hook,omitempty"`
	Matcher          string    `json:"matcher,omitempty"`
	Pattern          string    `json:"pattern,omitempty"`
	ExcludePattern   string    `json:"exclude_pattern,omitempty"`
	FilePattern      string    `json:"file_pattern,omitempty"`
	CheckScript      string    `json:"check_script,omitempty"`
	CommandOnSuccess bool      `json:"command_on_success,omitempty"`
	Action           Action    `json:"action,omitempty"`
	Command          string    `json:"command,omitempty"`
	Timeout          int       `json:"timeout,omitempty"`
	ShowOutput       bool      `json:"show_output,omitempty"`
	Message          string    `json:"message,omitempty"`
}

// UnmarshalJSON applies field defaults for absent keys (enabled=true).
func (p *Pattern) UnmarshalJSON(data []byte) error {
	type alias Pattern
	aux := alias{Enabled: true}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = Pattern(aux)
	return nil
}

// EffectiveAction resolves the default action for the pattern's hook
// point: post hooks default to notify, everything else to warn.
func (p *Pattern) EffectiveAction() Action {
	if p.Action != "" {
		return p.Action
	}
	if p.Hook.IsPost() {
		return ActionNotify
	}
	return ActionWarn
}

// EffectiveMessage returns the pattern's message or a generic fallback.
func (p *Pattern) EffectiveMessage() string {
	if p.Message != "" {
		return p.Message
	}
	return "Pattern matched"
}

// RunTimeout returns the run-action timeout in seconds.
func (p *Pattern) RunTimeout() int {
	if p.Timeout > 0 {
		return p.Timeout
	}
	return DefaultRunTimeout
}

// MatcherApplies reports whether the pattern's tool matcher covers
// toolName. An empty matcher or "*" covers any tool; otherwise the
// matcher is a |-separated set of tool names compared member-for-member
// (exact, case-sensitive).
func (p *Pattern) MatcherApplies(toolName string) bool {
	m := strings.TrimSpace(p.Matcher)
	if m == "" || m == "*" {
		return true
	}
	for _, member := range strings.Split(m, "|") {
		if strings.TrimSpace(member) == toolName {
			return true
		}
	}
	return false
}

// Validate checks the pattern's regular expressions and run-action
// requirements. It returns the first problem found, or nil.
func (p *Pattern) Validate() error {
	for _, field := range []struct{ name, expr string }{
		{"pattern", p.Pattern},
		{"exclude_pattern", p.ExcludePattern},
		{"file_pattern", p.FilePattern},
	} {
		if field.expr == "" {
			continue
		}
		if _, err := regexp.Compile(field.expr); err != nil {
			return fmt.Errorf("invalid %s %q: %w", field.name, field.expr, err)
		}
	}
	if p.Action == ActionRun && p.Command == "" {
		return fmt.Errorf("action %q requires a command", ActionRun)
	}
	return nil
}

// Update holds partial field updates for the repository. Nil fields
// are left untouched.
type Update struct {
	Enabled          *bool
	Hook             *HookEvent
	Matcher          *string
	Pattern          *string
	ExcludePattern   *string
	FilePattern      *string
	CheckScript      *string
	CommandOnSuccess *bool
	Action           *Action
	Command          *string
	Timeout          *int
	ShowOutput       *bool
	Message          *string
}

// Apply copies the non-nil fields of u onto p.
func (u Update) Apply(p *Pattern) {
	if u.Enabled != nil {
		p.Enabled = *u.Enabled
	}
	if u.Hook != nil {
		p.Hook = *u.Hook
	}
	if u.Matcher != nil {
		p.Matcher = *u.Matcher
	}
	if u.Pattern != nil {
		p.Pattern = *u.Pattern
	}
	if u.ExcludePattern != nil {
		p.ExcludePattern = *u.ExcludePattern
	}
	if u.FilePattern != nil {
		p.FilePattern = *u.FilePattern
	}
	if u.CheckScript != nil {
		p.CheckScript = *u.CheckScript
	}
	if u.CommandOnSuccess != nil {
		p.CommandOnSuccess = *u.CommandOnSuccess
	}
	if u.Action != nil {
		p.Action = *u.Action
	}
	if u.Command != nil {
		p.Command = *u.Command
	}
	if u.Timeout != nil {
		p.Timeout = *u.Timeout
	}
	if u.ShowOutput != nil {
		p.ShowOutput = *u.ShowOutput
	}
	if u.Message != nil {
		p.Message = *u.Message
	}
}
