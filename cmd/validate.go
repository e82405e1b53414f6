package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/syntax"

	"github.com/omglearn/omg/internal/hook"
	"github.com/omglearn/omg/internal/pattern"
	"github.com/omglearn/omg/internal/store"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the pattern stores",
	Long: `Validate parses both pattern files strictly and checks every pattern:
regular expressions must compile, run actions must have a command, and
run-command templates must expand to valid shell.

The hook path tolerates broken files (it degrades to "no patterns
configured"), so this is the place to find out why a pattern is
silently not firing.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	s := store.New(activePlatform())

	problems := 0
	for _, scope := range []store.Scope{store.ScopeGlobal, store.ScopeLocal} {
		path := s.Path(scope)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			fmt.Printf("%s: %s (missing, treated as empty)\n", scope, path)
			continue
		}
		if err != nil {
			fmt.Printf("%s: %s: %v\n", scope, path, err)
			problems++
			continue
		}

		var doc store.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			fmt.Printf("%s: %s: invalid JSON: %v\n", scope, path, err)
			problems++
			continue
		}

		fmt.Printf("%s: %s (%d patterns)\n", scope, path, len(doc.Patterns))
		for i, p := range doc.Patterns {
			label := p.ID
			if label == "" {
				label = fmt.Sprintf("#%d (no id: excluded from merged view)", i)
			}
			for _, err := range checkPattern(&p) {
				fmt.Printf("  - %s: %v\n", label, err)
				problems++
			}
		}
	}

	if problems > 0 {
		return fmt.Errorf("%d problem(s) found", problems)
	}
	fmt.Println("All patterns valid.")
	return nil
}

// checkPattern collects every problem with one pattern.
func checkPattern(p *pattern.Pattern) []error {
	var errs []error
	if err := p.Validate(); err != nil {
		errs = append(errs, err)
	}
	if p.Pattern == "" && p.CheckScript == "" {
		errs = append(errs, fmt.Errorf("neither pattern nor check_script set: will never match"))
	}
	if p.Action == pattern.ActionRun && p.Command != "" {
		if err := checkCommandTemplate(p.Command); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// checkCommandTemplate expands the template with placeholder sample
// values and verifies the result parses as shell.
func checkCommandTemplate(tmpl string) error {
	sample := map[string]string{
		"file_path": "/tmp/sample/file.txt",
		"file_name": "file.txt",
		"file_dir":  "/tmp/sample",
		"file_ext":  ".txt",
	}
	expanded, err := hook.ExpandTemplate(tmpl, sample)
	if err != nil {
		return fmt.Errorf("command template: %w", err)
	}
	if _, err := syntax.NewParser().Parse(strings.NewReader(expanded), ""); err != nil {
		return fmt.Errorf("command is not valid shell: %w", err)
	}
	return nil
}
