package main

import (
	"strings"
	"testing"

	"github.com/omglearn/omg/internal/hook"
	"github.com/omglearn/omg/internal/pattern"
)

// FuzzExpandTemplate tests command template expansion for crashes.
func FuzzExpandTemplate(f *testing.F) {
	f.Add("black {file_path}")
	f.Add("cd {file_dir} && lint {file_name}")
	f.Add("awk '{{print $1}}'")
	f.Add("{unterminated")
	f.Add("}")
	f.Add("{}")
	f.Add("")
	f.Add("plain command with no placeholders")
	f.Add("{file_ext}{file_ext}{file_ext}")

	vars := map[string]string{
		"file_path": "/a/b/c.py",
		"file_name": "c.py",
		"file_dir":  "/a/b",
		"file_ext":  ".py",
	}

	f.Fuzz(func(t *testing.T, tmpl string) {
		out, err := hook.ExpandTemplate(tmpl, vars)
		if err != nil {
			return
		}
		// A successful expansion of a brace-free template is the identity.
		if !strings.ContainsAny(tmpl, "{}") && out != tmpl {
			t.Errorf("ExpandTemplate(%q) = %q, want unchanged", tmpl, out)
		}
	})
}

// FuzzMatch tests pattern evaluation for crashes on arbitrary input.
func FuzzMatch(f *testing.F) {
	f.Add("git push --force", `push.*--force`, "")
	f.Add("git push --force-with-lease", `push.*--force`, `--force-with-lease`)
	f.Add("", "", "")
	f.Add("rm -rf /", "[unclosed", "")
	f.Add("ls", ".*", "(")
	f.Add("echo \x00binary", "echo", "")

	m := &hook.Matcher{}
	f.Fuzz(func(t *testing.T, text, expr, exclude string) {
		p := pattern.Pattern{
			ID:             "fuzz",
			Enabled:        true,
			Hook:           pattern.PreToolUse,
			Pattern:        expr,
			ExcludePattern: exclude,
		}
		ev := &hook.Event{Hook: pattern.PreToolUse, ToolName: "Bash", Text: text}
		// Just ensure no panics; invalid regexes must degrade to no-match.
		res := m.Match(&p, ev)
		if expr == "" && res.Matched {
			t.Error("pattern without regex or script must never match")
		}
	})
}
