package hook

import (
	"context"
	"errors"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/omglearn/omg/internal/logger"
	"github.com/omglearn/omg/internal/pattern"
)

// MatchResult reports whether a pattern applied to an event and why.
type MatchResult struct {
	Matched bool
	Reason  string
}

// predicate is a bounded match condition over the event's primary
// text. Two implementations exist: the regex test and the external
// check-script process.
type predicate interface {
	evaluate(text string) (bool, error)
}

// Matcher evaluates a single pattern against a single event.
type Matcher struct {
	// CheckTimeout bounds check-script execution. Zero means the
	// default of pattern.CheckScriptTimeout seconds.
	CheckTimeout time.Duration
}

func (m *Matcher) checkTimeout() time.Duration {
	if m.CheckTimeout > 0 {
		return m.CheckTimeout
	}
	return pattern.CheckScriptTimeout * time.Second
}

// Match evaluates p against ev, short-circuiting on the first failing
// condition. Evaluation errors (invalid regex, unrunnable check
// script) make the pattern non-matching; they never block the event.
func (m *Matcher) Match(p *pattern.Pattern, ev *Event) MatchResult {
	if !p.Enabled {
		return MatchResult{Reason: "disabled"}
	}

	if !p.Hook.Matches(ev.Hook) {
		return MatchResult{Reason: "hook mismatch"}
	}

	// Prompt-submission events have no tool; the matcher field only
	// applies to tool-scoped hooks.
	if !ev.Hook.IsPrompt() && !p.MatcherApplies(ev.ToolName) {
		return MatchResult{Reason: "matcher does not cover tool " + ev.ToolName}
	}

	if ev.Hook.IsPost() && p.FilePattern != "" {
		if ev.FilePath == "" {
			return MatchResult{Reason: "no file path for file_pattern"}
		}
		ok, err := (&regexPredicate{expr: p.FilePattern}).evaluate(ev.FilePath)
		if err != nil {
			logger.Debug("invalid file_pattern", "id", p.ID, "error", err)
			return MatchResult{Reason: "invalid file_pattern"}
		}
		if !ok {
			return MatchResult{Reason: "file_pattern does not match"}
		}
	}

	if p.CommandOnSuccess && ev.Hook.IsPost() && outputIndicatesFailure(ev.Output) {
		return MatchResult{Reason: "success-only pattern saw a failure"}
	}

	// The external check script replaces the regex test entirely when
	// present.
	if p.CheckScript != "" {
		pred := &scriptPredicate{path: p.CheckScript, timeout: m.checkTimeout()}
		matched, err := pred.evaluate(ev.Text)
		if err != nil {
			logger.Debug("check script failed", "id", p.ID, "script", p.CheckScript, "error", err)
			return MatchResult{Reason: "check script error: " + err.Error()}
		}
		if !matched {
			return MatchResult{Reason: "check script did not match"}
		}
		return MatchResult{Matched: true, Reason: "check script matched"}
	}

	if p.Pattern == "" {
		return MatchResult{Reason: "pattern has no regex or check script"}
	}

	caseInsensitive := ev.Hook.IsPrompt()
	matched, err := (&regexPredicate{expr: p.Pattern, caseInsensitive: caseInsensitive}).evaluate(ev.Text)
	if err != nil {
		logger.Debug("invalid pattern regex", "id", p.ID, "error", err)
		return MatchResult{Reason: "invalid regex"}
	}
	if !matched {
		return MatchResult{Reason: "pattern does not match"}
	}

	if p.ExcludePattern != "" {
		excluded, err := (&regexPredicate{expr: p.ExcludePattern, caseInsensitive: caseInsensitive}).evaluate(ev.Text)
		if err != nil {
			logger.Debug("invalid exclude regex", "id", p.ID, "error", err)
			return MatchResult{Reason: "invalid exclude regex"}
		}
		if excluded {
			return MatchResult{Reason: "excluded"}
		}
	}

	return MatchResult{Matched: true, Reason: "pattern matched"}
}

// outputIndicatesFailure reports whether captured output contains a
// failure marker ("error" or "fail", case-insensitive).
func outputIndicatesFailure(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "error") || strings.Contains(lower, "fail")
}

// regexPredicate tests the text with an unanchored regexp search.
type regexPredicate struct {
	expr            string
	caseInsensitive bool
}

func (r *regexPredicate) evaluate(text string) (bool, error) {
	expr := r.expr
	if r.caseInsensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return false, err
	}
	return re.MatchString(text), nil
}

// scriptPredicate runs an external executable with the text as its
// single argument. A non-zero exit code means the pattern matched;
// exit 0 means it did not. Spawn failures and timeouts are errors.
type scriptPredicate struct {
	path    string
	timeout time.Duration
}

func (s *scriptPredicate) evaluate(text string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.path, text)
	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return false, errors.New("check script timed out")
	}
	if err == nil {
		return false, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return true, nil
	}
	return false, err
}
