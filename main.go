// omg - pattern-based lifecycle hooks for AI coding agents
//
// omg intercepts lifecycle events from Claude Code or Cursor (before
// and after shell commands and file edits, before prompt submission)
// and matches them against user-configured patterns to allow, warn
// about, block, or react to the event.
//
// Usage in ~/.claude/settings.json:
//
//	"hooks": {
//	  "PreToolUse": [{
//	    "matcher": "*",
//	    "hooks": [{"type": "command", "command": "omg hook pre-tool"}]
//	  }],
//	  "PostToolUse": [{
//	    "matcher": "*",
//	    "hooks": [{"type": "command", "command": "omg hook post-tool"}]
//	  }],
//	  "UserPromptSubmit": [{
//	    "hooks": [{"type": "command", "command": "omg hook prompt"}]
//	  }]
//	}
//
// Test:
//
//	echo '{"tool_name": "Bash", "tool_input": {"command": "git push --force"}}' | omg hook pre-tool
package main

import (
	"os"

	"github.com/omglearn/omg/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
