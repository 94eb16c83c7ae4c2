package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/bkocaman/stagehand/internal/core"
	"github.com/bkocaman/stagehand/internal/pipeline"
	"github.com/bkocaman/stagehand/internal/system"
	"github.com/bkocaman/stagehand/internal/transport"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run a staged delivery pipeline",
	Long: `Executes the pipeline stages strictly in order. The first failing
stage aborts the remainder, then the post hooks fire: always hooks in every
case, success or failure hooks depending on the outcome.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pipelineFile, _ := cmd.Flags().GetString("file")
		if len(args) == 1 {
			pipelineFile = args[0]
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		sigCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		cfg, err := pipeline.Load(pipelineFile)
		if err != nil {
			pterm.Error.Println("Pipeline error:", err)
			os.Exit(1)
		}

		ctx := core.NewSystemContext(dryRun, transport.NewLocal(), core.NewDefaultLogger(os.Stderr, logLevel()))
		ctx.Context = sigCtx
		if err := system.Detect(ctx); err != nil {
			pterm.Error.Println(err)
			os.Exit(1)
		}

		report, err := pipeline.NewRunner(cfg, ctx).Run()
		printReport(report)

		if err != nil {
			if errors.Is(err, context.Canceled) {
				os.Exit(130)
			}
			os.Exit(1)
		}
	},
}

func printReport(report *pipeline.Report) {
	pterm.DefaultHeader.Printfln("Pipeline: %s", report.Pipeline)

	tableData := [][]string{{"Stage", "Status", "Duration"}}
	for _, st := range report.Stages {
		style := pterm.NewStyle(pterm.FgGreen)
		switch st.Status {
		case pipeline.StageFailed:
			style = pterm.NewStyle(pterm.FgRed)
		case pipeline.StageSkipped, pipeline.StageAborted:
			style = pterm.NewStyle(pterm.FgYellow)
		}
		tableData = append(tableData, []string{
			st.Name,
			style.Sprint(st.Status),
			st.Duration.Round(time.Millisecond).String(),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()

	for _, st := range report.Stages {
		if st.Err != nil {
			pterm.Error.Printfln("%s: %v", st.Name, st.Err)
		}
	}

	if report.Failed {
		pterm.Error.Println("Pipeline failed")
	} else {
		pterm.Success.Println(fmt.Sprintf("Pipeline passed (%d stage(s))", len(report.Stages)))
	}
}

func init() {
	rootCmd.AddCommand(pipelineCmd)
	pipelineCmd.Flags().StringP("file", "f", "pipeline.yaml", "Pipeline file")
	pipelineCmd.Flags().Bool("dry-run", false, "Print stages and hooks without executing them")
}
