package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bkocaman/stagehand/internal/core"
)

// Stage outcomes.
const (
	StagePassed  = "passed"
	StageFailed  = "failed"
	StageSkipped = "skipped"
	StageAborted = "aborted"
)

// StageReport is the per-stage entry of a pipeline run.
type StageReport struct {
	Name     string
	Status   string
	Duration time.Duration
	Err      error
}

// Report summarizes a full pipeline run.
type Report struct {
	Pipeline string
	Stages   []StageReport
	Failed   bool
}

// ScenarioFunc runs a scenario stage. Pluggable so the runner can be tested
// without a container engine.
type ScenarioFunc func(ctx *core.SystemContext, pipelineName string, spec *ScenarioSpec) error

// Runner executes pipeline stages strictly in order. The first failing
// stage aborts the remainder, then the post hooks fire: always hooks in
// every case, success or failure hooks depending on the outcome.
type Runner struct {
	Config   *Config
	Context  *core.SystemContext
	Scenario ScenarioFunc
}

func NewRunner(cfg *Config, ctx *core.SystemContext) *Runner {
	return &Runner{
		Config:   cfg,
		Context:  ctx,
		Scenario: RunScenario,
	}
}

// Run executes the pipeline and returns its report. The report is always
// complete, even when a stage failed; the error mirrors report.Failed.
func (r *Runner) Run() (*Report, error) {
	report := &Report{Pipeline: r.Config.Name}
	var failedStage string

	for _, stage := range r.Config.Stages {
		if failedStage != "" {
			report.Stages = append(report.Stages, StageReport{Name: stage.Name, Status: StageAborted})
			continue
		}

		entry := r.runStage(stage)
		report.Stages = append(report.Stages, entry)
		if entry.Status == StageFailed {
			failedStage = stage.Name
		}
	}

	report.Failed = failedStage != ""
	r.runPost(report.Failed)

	if report.Failed {
		return report, fmt.Errorf("pipeline %q: stage %q failed", r.Config.Name, failedStage)
	}
	return report, nil
}

func (r *Runner) runStage(stage Stage) StageReport {
	log := r.Context.Logger

	if stage.When != "" {
		shouldRun, err := core.EvaluateCondition(stage.When, r.Context)
		if err != nil {
			return StageReport{Name: stage.Name, Status: StageFailed, Err: fmt.Errorf("condition: %w", err)}
		}
		if !shouldRun {
			log.Info(fmt.Sprintf("Stage %q skipped (condition not met)", stage.Name))
			return StageReport{Name: stage.Name, Status: StageSkipped}
		}
	}

	log.Info(fmt.Sprintf("=== Stage: %s ===", stage.Name))
	start := time.Now()

	var err error
	if stage.Scenario != nil {
		err = r.Scenario(r.Context, r.Config.Name, stage.Scenario)
	} else {
		err = r.runCommands(stage.Run)
	}

	entry := StageReport{Name: stage.Name, Duration: time.Since(start)}
	if err != nil {
		entry.Status = StageFailed
		entry.Err = err
		log.Error(fmt.Sprintf("Stage %q failed: %v", stage.Name, err))
	} else {
		entry.Status = StagePassed
		log.Info(fmt.Sprintf("Stage %q passed (%s)", stage.Name, entry.Duration.Round(time.Millisecond)))
	}
	return entry
}

func (r *Runner) runCommands(commands []string) error {
	for _, cmd := range commands {
		full := r.wrapCommand(cmd)
		if r.Context.DryRun {
			r.Context.Logger.Info(fmt.Sprintf("[DryRun] Would execute: %s", full))
			continue
		}
		out, err := r.Context.Transport.Execute(r.Context.Context, full)
		if err != nil {
			return fmt.Errorf("command %q failed: %w, output: %s", cmd, err, strings.TrimSpace(out))
		}
		if out = strings.TrimSpace(out); out != "" {
			r.Context.Logger.Debug(out)
		}
	}
	return nil
}

// wrapCommand prefixes the pipeline workspace and environment. Env keys are
// sorted so commands stay stable across runs.
func (r *Runner) wrapCommand(cmd string) string {
	if len(r.Config.Env) > 0 {
		keys := make([]string, 0, len(r.Config.Env))
		for k := range r.Config.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%s", k, r.Config.Env[k]))
		}
		cmd = "export " + strings.Join(pairs, " ") + " && " + cmd
	}
	if r.Config.Workspace != "" {
		cmd = fmt.Sprintf("cd %s && %s", r.Config.Workspace, cmd)
	}
	return cmd
}

// runPost fires the post hooks. Hook failures are logged, never escalated:
// cleanup must not mask the pipeline outcome.
func (r *Runner) runPost(failed bool) {
	hooks := append([]string{}, r.Config.Post.Always...)
	if failed {
		hooks = append(hooks, r.Config.Post.Failure...)
	} else {
		hooks = append(hooks, r.Config.Post.Success...)
	}

	for _, cmd := range hooks {
		full := r.wrapCommand(cmd)
		if r.Context.DryRun {
			r.Context.Logger.Info(fmt.Sprintf("[DryRun] Would execute post hook: %s", full))
			continue
		}
		if out, err := r.Context.Transport.Execute(r.Context.Context, full); err != nil {
			r.Context.Logger.Warn(fmt.Sprintf("Post hook %q failed: %v, output: %s", cmd, err, strings.TrimSpace(out)))
		}
	}
}
