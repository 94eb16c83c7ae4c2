package cmd

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/bkocaman/stagehand/internal/core"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Preview the changes apply would make",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		playbookFile, _ := cmd.Flags().GetString("playbook")
		if len(args) == 1 {
			playbookFile = args[0]
		}
		envFile, _ := cmd.Flags().GetString("env-file")
		host, _ := cmd.Flags().GetString("host")

		pb, err := loadPlaybook(playbookFile, envFile)
		if err != nil {
			pterm.Error.Println("Playbook error:", err)
			os.Exit(1)
		}

		ctx, err := buildContext(pb, host, true)
		if err != nil {
			pterm.Error.Println(err)
			os.Exit(1)
		}
		defer ctx.Transport.Close()

		engine := core.NewEngine(ctx, nil)
		result, err := engine.Plan(pb.Items(), core.CreateResource)
		if err != nil {
			pterm.Error.Println("Plan failed:", err)
			os.Exit(1)
		}

		if len(result.Changes) == 0 {
			pterm.Success.Println("No changes, target is converged")
			return
		}

		pterm.DefaultHeader.Printfln("Pending changes: %d", len(result.Changes))
		for _, change := range result.Changes {
			pterm.Info.Printfln("~ %s %q", change.Type, change.Name)
			if change.Diff != "" {
				pterm.Println(change.Diff)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringP("playbook", "p", "playbook.yaml", "Playbook file")
	planCmd.Flags().String("env-file", ".env", "Dotenv file overlaid onto playbook vars")
	planCmd.Flags().String("host", "", "Remote host name (from the playbook hosts list)")
}
