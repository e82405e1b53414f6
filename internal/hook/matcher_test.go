package hook_test

import (
	"strings"
	"testing"
	"time"

	"github.com/omglearn/omg/internal/hook"
	"github.com/omglearn/omg/internal/pattern"
	"github.com/omglearn/omg/internal/testutil"
)

func bashEvent(text string) *hook.Event {
	return &hook.Event{Hook: pattern.PreToolUse, ToolName: "Bash", Text: text}
}

func TestMatchDisabled(t *testing.T) {
	m := &hook.Matcher{}
	p := pattern.Pattern{ID: "p1", Enabled: false, Hook: pattern.PreToolUse, Pattern: "."}
	if got := m.Match(&p, bashEvent("anything")); got.Matched {
		t.Error("disabled pattern must never match")
	}
}

func TestMatchHookPoint(t *testing.T) {
	tests := []struct {
		name        string
		patternHook pattern.HookEvent
		eventHook   pattern.HookEvent
		want        bool
	}{
		{"same hook", pattern.PreToolUse, pattern.PreToolUse, true},
		{"cursor synonym matches claude spelling", pattern.PreToolUse, pattern.BeforeShellExecution, true},
		{"claude spelling matches cursor synonym", pattern.BeforeShellExecution, pattern.PreToolUse, true},
		{"post synonym pair", pattern.AfterShellExecution, pattern.PostToolUse, true},
		{"pre vs post", pattern.PreToolUse, pattern.PostToolUse, false},
		{"prompt vs pre", pattern.UserPromptSubmit, pattern.PreToolUse, false},
	}

	m := &hook.Matcher{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pattern.Pattern{ID: "p1", Enabled: true, Hook: tt.patternHook, Pattern: "x"}
			ev := &hook.Event{Hook: tt.eventHook, ToolName: "Bash", Text: "x"}
			if got := m.Match(&p, ev); got.Matched != tt.want {
				t.Errorf("Match() = %v (%s), want %v", got.Matched, got.Reason, tt.want)
			}
		})
	}
}

func TestMatchToolMatcher(t *testing.T) {
	m := &hook.Matcher{}
	p := pattern.Pattern{ID: "p1", Enabled: true, Hook: pattern.PreToolUse, Matcher: "Write|Edit", Pattern: "secret"}

	ev := &hook.Event{Hook: pattern.PreToolUse, ToolName: "Edit", Text: "secret file"}
	if got := m.Match(&p, ev); !got.Matched {
		t.Errorf("matcher member should match: %s", got.Reason)
	}

	ev.ToolName = "Bash"
	if got := m.Match(&p, ev); got.Matched {
		t.Error("non-member tool should not match")
	}
}

func TestMatchPromptIgnoresToolMatcher(t *testing.T) {
	// Prompt events carry no tool, so a leftover matcher field does not
	// stop the pattern from applying.
	m := &hook.Matcher{}
	p := pattern.Pattern{ID: "p1", Enabled: true, Hook: pattern.UserPromptSubmit, Matcher: "Bash", Pattern: "deploy"}
	ev := &hook.Event{Hook: pattern.UserPromptSubmit, Text: "please deploy to prod"}
	if got := m.Match(&p, ev); !got.Matched {
		t.Errorf("prompt pattern should ignore matcher: %s", got.Reason)
	}
}

func TestMatchRegex(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		exclude string
		text    string
		want    bool
	}{
		{"substring search", "force", "", "git push --force", true},
		{"anchored miss", "^push", "", "git push", false},
		{"case sensitive for tools", "RM", "", "rm -rf /", false},
		{"exclude suppresses", `push.*--force`, `--force-with-lease`, "git push --force-with-lease", false},
		{"exclude not matching", `push.*--force`, `--force-with-lease`, "git push --force origin main", true},
		{"no match no exclude consulted", "absent", "git", "git status", false},
	}

	m := &hook.Matcher{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pattern.Pattern{
				ID:             "p1",
				Enabled:        true,
				Hook:           pattern.PreToolUse,
				Pattern:        tt.expr,
				ExcludePattern: tt.exclude,
			}
			if got := m.Match(&p, bashEvent(tt.text)); got.Matched != tt.want {
				t.Errorf("Match(%q vs %q) = %v (%s), want %v", p.Pattern, tt.text, got.Matched, got.Reason, tt.want)
			}
		})
	}
}

func TestMatchPromptCaseInsensitive(t *testing.T) {
	m := &hook.Matcher{}
	p := pattern.Pattern{ID: "p1", Enabled: true, Hook: pattern.UserPromptSubmit, Pattern: "delete production"}
	ev := &hook.Event{Hook: pattern.UserPromptSubmit, Text: "DELETE Production database"}
	if got := m.Match(&p, ev); !got.Matched {
		t.Errorf("prompt matching should be case-insensitive: %s", got.Reason)
	}

	// The same pattern on a tool hook stays case-sensitive.
	p.Hook = pattern.PreToolUse
	if got := m.Match(&p, bashEvent("DELETE Production database")); got.Matched {
		t.Error("tool matching should be case-sensitive")
	}
}

func TestMatchEmptyPattern(t *testing.T) {
	m := &hook.Matcher{}
	p := pattern.Pattern{ID: "p1", Enabled: true, Hook: pattern.PreToolUse}
	if got := m.Match(&p, bashEvent("anything")); got.Matched {
		t.Error("pattern with no regex and no check script must never match")
	}
}

func TestMatchInvalidRegex(t *testing.T) {
	m := &hook.Matcher{}
	p := pattern.Pattern{ID: "p1", Enabled: true, Hook: pattern.PreToolUse, Pattern: "[unclosed"}
	got := m.Match(&p, bashEvent("anything"))
	if got.Matched {
		t.Error("invalid regex must not match")
	}
	if !strings.Contains(got.Reason, "invalid") {
		t.Errorf("reason = %q", got.Reason)
	}
}

func TestMatchFilePattern(t *testing.T) {
	m := &hook.Matcher{}
	p := pattern.Pattern{
		ID:          "p1",
		Enabled:     true,
		Hook:        pattern.PostToolUse,
		Matcher:     "Write|Edit",
		FilePattern: `\.py$`,
		Pattern:     ".",
	}

	tests := []struct {
		name     string
		filePath string
		want     bool
	}{
		{"matching extension", "/src/app.py", true},
		{"other extension", "/src/app.go", false},
		{"no file path", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := &hook.Event{Hook: pattern.PostToolUse, ToolName: "Edit", Text: tt.filePath, FilePath: tt.filePath}
			if got := m.Match(&p, ev); got.Matched != tt.want {
				t.Errorf("Match() = %v (%s), want %v", got.Matched, got.Reason, tt.want)
			}
		})
	}
}

func TestMatchCommandOnSuccess(t *testing.T) {
	m := &hook.Matcher{}
	p := pattern.Pattern{
		ID:               "p1",
		Enabled:          true,
		Hook:             pattern.PostToolUse,
		Pattern:          ".",
		CommandOnSuccess: true,
	}

	tests := []struct {
		name   string
		output string
		want   bool
	}{
		{"clean output", "3 files changed", true},
		{"empty output", "", true},
		{"error marker", "Error: connection refused", false},
		{"fail marker lowercase", "2 tests failed", false},
		{"marker case folded", "FAILED", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := &hook.Event{Hook: pattern.PostToolUse, ToolName: "Bash", Text: "make test", Output: tt.output}
			if got := m.Match(&p, ev); got.Matched != tt.want {
				t.Errorf("Match() = %v (%s), want %v", got.Matched, got.Reason, tt.want)
			}
		})
	}
}

func TestMatchCheckScript(t *testing.T) {
	m := &hook.Matcher{}

	tests := []struct {
		name string
		body string
		want bool
	}{
		{"nonzero exit matches", "exit 1", true},
		{"zero exit does not", "exit 0", false},
		{"script sees the text", `case "$1" in *force*) exit 1;; esac; exit 0`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pattern.Pattern{
				ID:          "p1",
				Enabled:     true,
				Hook:        pattern.PreToolUse,
				CheckScript: testutil.WriteScript(t, tt.body),
			}
			if got := m.Match(&p, bashEvent("git push --force")); got.Matched != tt.want {
				t.Errorf("Match() = %v (%s), want %v", got.Matched, got.Reason, tt.want)
			}
		})
	}
}

func TestMatchCheckScriptTimeout(t *testing.T) {
	m := &hook.Matcher{CheckTimeout: 100 * time.Millisecond}
	p := pattern.Pattern{
		ID:          "p1",
		Enabled:     true,
		Hook:        pattern.PreToolUse,
		CheckScript: testutil.WriteScript(t, "sleep 5; exit 1"),
	}
	got := m.Match(&p, bashEvent("anything"))
	if got.Matched {
		t.Error("hung check script must not match")
	}
	if !strings.Contains(got.Reason, "timed out") {
		t.Errorf("reason = %q, want timeout", got.Reason)
	}
}

func TestMatchCheckScriptMissing(t *testing.T) {
	m := &hook.Matcher{}
	p := pattern.Pattern{
		ID:          "p1",
		Enabled:     true,
		Hook:        pattern.PreToolUse,
		CheckScript: "/nonexistent/check.sh",
	}
	if got := m.Match(&p, bashEvent("anything")); got.Matched {
		t.Error("unrunnable check script must not match")
	}
}

func TestMatchCheckScriptReplacesRegex(t *testing.T) {
	// When both are set the script decides; the regex is not consulted.
	m := &hook.Matcher{}
	p := pattern.Pattern{
		ID:          "p1",
		Enabled:     true,
		Hook:        pattern.PreToolUse,
		Pattern:     "never-in-the-text",
		CheckScript: testutil.WriteScript(t, "exit 1"),
	}
	if got := m.Match(&p, bashEvent("git status")); !got.Matched {
		t.Errorf("check script verdict should win: %s", got.Reason)
	}
}
