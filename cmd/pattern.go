package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/omglearn/omg/internal/pattern"
	"github.com/omglearn/omg/internal/store"
)

var patternCmd = &cobra.Command{
	Use:   "pattern",
	Short: "Manage stored patterns",
	Long: `Pattern provides CRUD over the stored patterns.

Patterns live in two scopes: global (~/.claude or ~/.cursor, shared
across projects) and local (the project's .claude or .cursor folder).
A local pattern with the same id as a global one overrides it.`,
}

var (
	listScope          string
	patternEnabledOnly bool
	addScope           string
	opScope            string
	addFields          patternFields
	addDisabled        bool
)

// patternFields mirrors the pattern flags shared by add and update.
type patternFields struct {
	id               string
	hook             string
	matcher          string
	regex            string
	exclude          string
	filePattern      string
	checkScript      string
	action           string
	command          string
	timeout          int
	message          string
	showOutput       bool
	commandOnSuccess bool
}

func registerPatternFlags(cmd *cobra.Command, f *patternFields) {
	cmd.Flags().StringVar(&f.id, "id", "", "Pattern id (generated if empty)")
	cmd.Flags().StringVar(&f.hook, "hook", "", "Hook event (PreToolUse, PostToolUse, UserPromptSubmit or the cursor spellings)")
	cmd.Flags().StringVar(&f.matcher, "matcher", "", "Tool matcher: *, a tool name, or a |-separated set")
	cmd.Flags().StringVar(&f.regex, "pattern", "", "Regex tested against the event text")
	cmd.Flags().StringVar(&f.exclude, "exclude-pattern", "", "Regex that suppresses a match")
	cmd.Flags().StringVar(&f.filePattern, "file-pattern", "", "Regex tested against the file path (post hooks)")
	cmd.Flags().StringVar(&f.checkScript, "check-script", "", "External predicate executable (replaces --pattern)")
	cmd.Flags().StringVar(&f.action, "action", "", "Action: block, warn, ask, notify, run")
	cmd.Flags().StringVar(&f.command, "command", "", "Command template for action=run")
	cmd.Flags().IntVar(&f.timeout, "timeout", 0, "Run-action timeout in seconds")
	cmd.Flags().StringVar(&f.message, "message", "", "Message shown when the pattern fires")
	cmd.Flags().BoolVar(&f.showOutput, "show-output", false, "Show run-action output to the user")
	cmd.Flags().BoolVar(&f.commandOnSuccess, "command-on-success", false, "Only fire when the tool output has no failure markers")
}

var patternListCmd = &cobra.Command{
	Use:   "list",
	Short: "List patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := store.NewRepository(store.New(activePlatform()))
		entries := repo.List(store.ListScope(listScope), patternEnabledOnly)

		type listed struct {
			pattern.Pattern
			Scope           store.Scope `json:"_scope"`
			OverridesGlobal bool        `json:"_overrides_global,omitempty"`
		}
		out := make([]listed, 0, len(entries))
		for _, e := range entries {
			out = append(out, listed{Pattern: e.Pattern, Scope: e.Scope, OverridesGlobal: e.OverridesGlobal})
		}
		return printJSON(out)
	},
}

var patternShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := store.NewRepository(store.New(activePlatform()))
		p, scope, err := repo.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "scope: %s\n", scope)
		return printJSON(p)
	},
}

var patternAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a pattern",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := pattern.Pattern{
			ID:               addFields.id,
			Enabled:          !addDisabled,
			Hook:             pattern.HookEvent(addFields.hook),
			Matcher:          addFields.matcher,
			Pattern:          addFields.regex,
			ExcludePattern:   addFields.exclude,
			FilePattern:      addFields.filePattern,
			CheckScript:      addFields.checkScript,
			CommandOnSuccess: addFields.commandOnSuccess,
			Action:           pattern.Action(addFields.action),
			Command:          addFields.command,
			Timeout:          addFields.timeout,
			ShowOutput:       addFields.showOutput,
			Message:          addFields.message,
		}
		if err := p.Validate(); err != nil {
			return err
		}

		scope := store.ScopeGlobal
		if addScope == string(store.ScopeLocal) {
			scope = store.ScopeLocal
		}
		repo := store.NewRepository(store.New(activePlatform()))
		added, err := repo.Add(p, scope)
		if err != nil {
			return err
		}
		fmt.Printf("Added pattern %s to %s scope\n", added.ID, scope)
		return nil
	},
}

var patternUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		upd := updateFromFlags(cmd, &addFields)
		repo := store.NewRepository(store.New(activePlatform()))
		if err := repo.Update(args[0], upd, store.Scope(opScope)); err != nil {
			return err
		}
		fmt.Printf("Updated pattern: %s\n", args[0])
		return nil
	},
}

var patternEnableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable a pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := store.NewRepository(store.New(activePlatform()))
		if err := repo.Enable(args[0], store.Scope(opScope)); err != nil {
			return err
		}
		fmt.Printf("Enabled pattern: %s\n", args[0])
		return nil
	},
}

var patternDisableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Disable a pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := store.NewRepository(store.New(activePlatform()))
		if err := repo.Disable(args[0], store.Scope(opScope)); err != nil {
			return err
		}
		fmt.Printf("Disabled pattern: %s\n", args[0])
		return nil
	},
}

var patternDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := store.NewRepository(store.New(activePlatform()))
		if err := repo.Delete(args[0], store.Scope(opScope)); err != nil {
			return err
		}
		fmt.Printf("Deleted pattern: %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(patternCmd)

	patternListCmd.Flags().StringVar(&listScope, "scope", "all", "Scope: all, global, or local")
	patternListCmd.Flags().BoolVar(&patternEnabledOnly, "enabled", false, "Only show enabled patterns")
	patternCmd.AddCommand(patternListCmd)

	patternCmd.AddCommand(patternShowCmd)

	registerPatternFlags(patternAddCmd, &addFields)
	patternAddCmd.Flags().BoolVar(&addDisabled, "disabled", false, "Add the pattern disabled")
	patternAddCmd.Flags().StringVar(&addScope, "scope", "global", "Scope: global or local")
	patternCmd.AddCommand(patternAddCmd)

	registerPatternFlags(patternUpdateCmd, &addFields)
	patternUpdateCmd.Flags().StringVar(&opScope, "scope", "", "Scope (auto-detected if not specified)")
	patternCmd.AddCommand(patternUpdateCmd)

	for _, c := range []*cobra.Command{patternEnableCmd, patternDisableCmd, patternDeleteCmd} {
		c.Flags().StringVar(&opScope, "scope", "", "Scope (auto-detected if not specified)")
		patternCmd.AddCommand(c)
	}
}

// updateFromFlags builds a partial update from the flags the user
// actually set.
func updateFromFlags(cmd *cobra.Command, f *patternFields) pattern.Update {
	var upd pattern.Update
	if cmd.Flags().Changed("hook") {
		h := pattern.HookEvent(f.hook)
		upd.Hook = &h
	}
	if cmd.Flags().Changed("matcher") {
		upd.Matcher = &f.matcher
	}
	if cmd.Flags().Changed("pattern") {
		upd.Pattern = &f.regex
	}
	if cmd.Flags().Changed("exclude-pattern") {
		upd.ExcludePattern = &f.exclude
	}
	if cmd.Flags().Changed("file-pattern") {
		upd.FilePattern = &f.filePattern
	}
	if cmd.Flags().Changed("check-script") {
		upd.CheckScript = &f.checkScript
	}
	if cmd.Flags().Changed("action") {
		a := pattern.Action(f.action)
		upd.Action = &a
	}
	if cmd.Flags().Changed("command") {
		upd.Command = &f.command
	}
	if cmd.Flags().Changed("timeout") {
		upd.Timeout = &f.timeout
	}
	if cmd.Flags().Changed("message") {
		upd.Message = &f.message
	}
	if cmd.Flags().Changed("show-output") {
		upd.ShowOutput = &f.showOutput
	}
	if cmd.Flags().Changed("command-on-success") {
		upd.CommandOnSuccess = &f.commandOnSuccess
	}
	return upd
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
