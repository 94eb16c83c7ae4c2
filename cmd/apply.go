package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/bkocaman/stagehand/internal/core"
	"github.com/bkocaman/stagehand/internal/state"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Converge the target towards the playbook state",
	Long: `Reads the playbook and applies every task in order. A failed task
aborts the remaining sequence; there is no retry and no rollback.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		playbookFile, _ := cmd.Flags().GetString("playbook")
		if len(args) == 1 {
			playbookFile = args[0]
		}
		envFile, _ := cmd.Flags().GetString("env-file")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		host, _ := cmd.Flags().GetString("host")

		sigCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		pb, err := loadPlaybook(playbookFile, envFile)
		if err != nil {
			pterm.Error.Println("Playbook error:", err)
			os.Exit(1)
		}

		ctx, err := buildContext(pb, host, dryRun)
		if err != nil {
			pterm.Error.Println(err)
			os.Exit(1)
		}
		ctx.Context = sigCtx
		defer ctx.Transport.Close()

		recorder := state.NewManager(state.DefaultPath(), &core.RealFS{})
		engine := core.NewEngine(ctx, recorder)

		changed, err := engine.Run(pb.Items(), core.CreateResource)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				pterm.Warning.Println("Run cancelled")
				os.Exit(130)
			}
			pterm.Error.Println("Run failed:", err)
			os.Exit(1)
		}

		if changed == 0 {
			pterm.Success.Println("Target already converged, nothing to do")
		} else {
			pterm.Success.Printfln("Applied %d change(s)", changed)
		}
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringP("playbook", "p", "playbook.yaml", "Playbook file")
	applyCmd.Flags().String("env-file", ".env", "Dotenv file overlaid onto playbook vars")
	applyCmd.Flags().Bool("dry-run", false, "Show what would change without changing anything")
	applyCmd.Flags().String("host", "", "Remote host name (from the playbook hosts list)")
}
