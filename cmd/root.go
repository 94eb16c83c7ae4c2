package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/bkocaman/stagehand/internal/config"
	"github.com/bkocaman/stagehand/internal/core"
	"github.com/bkocaman/stagehand/internal/system"
	"github.com/bkocaman/stagehand/internal/transport"
)

var rootCmd = &cobra.Command{
	Use:   "stagehand",
	Short: "Provision hosts and run delivery pipelines from declarative YAML",
	Long: `Stagehand converges hosts towards a declared state and drives staged
delivery pipelines, including scenario tests against throwaway containers.`,
}

var verboseCount int

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	// PTerm output to Stderr (to keep Stdout clean for piping)
	pterm.SetDefaultOutput(os.Stderr)
	pterm.Success.Writer = os.Stderr
	pterm.Info.Writer = os.Stderr
	pterm.Error.Writer = os.Stderr
	pterm.Warning.Writer = os.Stderr
	pterm.DefaultHeader.Writer = os.Stderr

	rootCmd.PersistentFlags().CountVarP(&verboseCount, "verbose", "v", "Increase verbosity level (-v, -vv)")
}

func logLevel() core.LogLevel {
	switch {
	case verboseCount >= 2:
		return core.LevelTrace
	case verboseCount == 1:
		return core.LevelDebug
	}
	return core.LevelInfo
}

// buildContext assembles the run context for a playbook: transport (local
// or SSH when --host is given), logger, vars and detected target facts.
func buildContext(pb *config.Playbook, hostName string, dryRun bool) (*core.SystemContext, error) {
	logger := core.NewDefaultLogger(os.Stderr, logLevel())

	var tr core.Transport
	if hostName != "" {
		host, err := pb.FindHost(hostName)
		if err != nil {
			return nil, err
		}
		tr, err = transport.NewSSH(transport.SSHOptions{
			Address:  host.Address,
			User:     host.User,
			Port:     host.Port,
			KeyPath:  host.KeyPath,
			Password: host.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("ssh connection to %s: %w", hostName, err)
		}
	} else {
		tr = transport.NewLocal()
	}

	ctx := core.NewSystemContext(dryRun, tr, logger)
	ctx.Vars = pb.Vars
	if err := system.Detect(ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}

// loadPlaybook reads the playbook and overlays the dotenv file.
func loadPlaybook(path, envFile string) (*config.Playbook, error) {
	pb, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := pb.MergeEnv(envFile); err != nil {
		return nil, fmt.Errorf("env file %s: %w", envFile, err)
	}
	return pb, nil
}
