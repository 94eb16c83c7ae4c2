package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/bkocaman/stagehand/internal/core"
	"github.com/bkocaman/stagehand/internal/state"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View recorded runs",
	Run: func(cmd *cobra.Command, args []string) {
		mgr := state.NewManager(state.DefaultPath(), &core.RealFS{})

		runs := mgr.Runs()
		if len(runs) == 0 {
			pterm.Info.Println("No runs recorded yet.")
			return
		}

		pterm.DefaultHeader.Println("Run History")

		tableData := [][]string{{"ID", "Date", "Status", "Changes"}}

		// Latest first.
		for i := len(runs) - 1; i >= 0; i-- {
			run := runs[i]

			statusStyle := pterm.NewStyle(pterm.FgGreen)
			if run.Status == "failed" {
				statusStyle = pterm.NewStyle(pterm.FgRed)
			}

			tableData = append(tableData, []string{
				run.ID,
				run.Timestamp.Format("2006-01-02 15:04:05"),
				statusStyle.Sprint(run.Status),
				fmt.Sprintf("%d", len(run.Changes)),
			})
		}

		pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
	},
}

func init() {
	rootCmd.AddCommand(logCmd)
}
