package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/bkocaman/stagehand/internal/config"
	"github.com/bkocaman/stagehand/internal/core"
)

var validateCmd = &cobra.Command{
	Use:   "validate [playbook...]",
	Short: "Check playbooks without touching the target",
	Long: `Parses each playbook and validates every task definition: known
types, required parameters. Nothing is executed. --lint adds style
warnings on top.`,
	Run: func(cmd *cobra.Command, args []string) {
		syntaxOnly, _ := cmd.Flags().GetBool("syntax-only")
		lint, _ := cmd.Flags().GetBool("lint")

		if len(args) == 0 {
			playbookFile, _ := cmd.Flags().GetString("playbook")
			args = []string{playbookFile}
		}

		failed := false
		for _, path := range args {
			if err := validatePlaybook(path, syntaxOnly, lint); err != nil {
				pterm.Error.Printfln("%s: %v", path, err)
				failed = true
				continue
			}
			pterm.Success.Printfln("%s: OK", path)
		}
		if failed {
			os.Exit(1)
		}
	},
}

func validatePlaybook(path string, syntaxOnly, lint bool) error {
	pb, err := config.Load(path)
	if err != nil {
		return err
	}
	if lint {
		for _, warning := range lintPlaybook(pb) {
			pterm.Warning.Printfln("%s: %s", path, warning)
		}
	}
	if syntaxOnly {
		return nil
	}

	// Validation never reaches a target, the mock transport guarantees it.
	ctx := core.NewSystemContext(true, core.NewMockTransport(), core.NewDefaultLogger(os.Stderr, logLevel()))
	ctx.Vars = pb.Vars

	known := core.GetRegisteredTypes()
	for _, item := range pb.Items() {
		if !slices.Contains(known, item.Type) {
			return fmt.Errorf("task %q: unknown type %q", item.Name, item.Type)
		}
		if item.Params == nil {
			item.Params = make(map[string]interface{})
		}
		item.Params["state"] = item.State

		res, err := core.CreateResource(item.Type, item.Name, item.Params, ctx)
		if err != nil {
			return fmt.Errorf("task %q: %w", item.Name, err)
		}
		if err := res.Validate(ctx); err != nil {
			return fmt.Errorf("task %q: %w", item.Name, err)
		}
	}
	return nil
}

// lintPlaybook reports style problems that don't make the playbook invalid.
func lintPlaybook(pb *config.Playbook) []string {
	var warnings []string

	seen := make(map[string]bool)
	for _, task := range pb.Tasks {
		if seen[task.Name] {
			warnings = append(warnings, fmt.Sprintf("duplicate task name %q", task.Name))
		}
		seen[task.Name] = true

		if len(task.Params) == 0 && task.Type != "exec" && task.Type != "shell" && task.Type != "cmd" {
			warnings = append(warnings, fmt.Sprintf("task %q has no params", task.Name))
		}
	}

	for _, host := range pb.Hosts {
		if host.KeyPath == "" && host.Password == "" {
			warnings = append(warnings, fmt.Sprintf("host %q has neither ssh_key_path nor password", host.Name))
		}
	}

	return warnings
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("playbook", "p", "playbook.yaml", "Playbook file")
	validateCmd.Flags().Bool("syntax-only", false, "Only check YAML structure, skip task validation")
	validateCmd.Flags().Bool("lint", false, "Emit style warnings (duplicate names, empty params)")
}
