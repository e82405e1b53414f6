package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omglearn/omg/internal/hook"
	"github.com/omglearn/omg/internal/pattern"
	"github.com/omglearn/omg/internal/store"
)

var testTool string

var testCmd = &cobra.Command{
	Use:   "test <id> <input>",
	Short: "Test a pattern against sample input",
	Long: `Test simulates matching one pattern against a sample input without
invoking any hook, reporting whether it would fire and with which
action and message.

Only pre-event and prompt patterns can be tested: post-event patterns
depend on captured tool output that a simulation does not have.`,
	Args: cobra.ExactArgs(2),
	RunE: runTest,
}

func init() {
	testCmd.Flags().StringVar(&testTool, "tool", "Bash", "Tool name for tool-scoped hooks (Bash, Write, Edit, ...)")
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	id, input := args[0], args[1]

	repo := store.NewRepository(store.New(activePlatform()))
	p, scope, err := repo.Get(id)
	if err != nil {
		return err
	}

	switch p.Hook.Canonical() {
	case pattern.PreToolUse, pattern.UserPromptSubmit:
	default:
		return fmt.Errorf("pattern %s has hook %q; only pre-event and prompt patterns can be tested", id, p.Hook)
	}

	ev := &hook.Event{
		Hook:     p.Hook,
		ToolName: testTool,
		Text:     input,
	}
	result := (&hook.Matcher{}).Match(&p, ev)

	fmt.Printf("Pattern: %s (%s scope)\n", id, scope)
	if !result.Matched {
		fmt.Printf("Matched: false (%s)\n", result.Reason)
		return nil
	}
	fmt.Println("Matched: true")
	fmt.Printf("Action:  %s\n", p.EffectiveAction())
	fmt.Printf("Message: %s\n", p.EffectiveMessage())
	return nil
}
