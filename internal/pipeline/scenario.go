package pipeline

import (
	"fmt"
	"strings"

	"github.com/bkocaman/stagehand/internal/adapters/docker"
	"github.com/bkocaman/stagehand/internal/config"
	"github.com/bkocaman/stagehand/internal/core"
	"github.com/bkocaman/stagehand/internal/system"
	"github.com/bkocaman/stagehand/internal/transport"
)

// RunScenario drives the full scenario cycle against a throwaway container:
// create, prepare, converge, verify, destroy. Destroy always runs, even when
// an earlier phase failed. With Idempotence set, the playbook is converged a
// second time and must report zero changes.
func RunScenario(ctx *core.SystemContext, pipelineName string, spec *ScenarioSpec) error {
	log := ctx.Logger
	name := spec.ContainerName(pipelineName)

	if ctx.DryRun {
		log.Info(fmt.Sprintf("[DryRun] Would run scenario against %s container %q (image %s)", spec.Binary(), name, spec.Image))
		return nil
	}

	runtime, err := newRuntime(spec.Binary(), ctx)
	if err != nil {
		return err
	}

	// Create. A leftover container from an interrupted run is replaced.
	existing, err := runtime.Inspect(ctx.Context, name)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if existing != nil {
		log.Warn(fmt.Sprintf("Replacing leftover container %q", name))
		if err := runtime.Remove(ctx.Context, name, true); err != nil {
			return fmt.Errorf("create: %w", err)
		}
	}

	command := spec.Command
	if command == "" {
		command = "sleep infinity"
	}
	log.Info(fmt.Sprintf("Creating container %q from %s", name, spec.Image))
	if err := runtime.Run(ctx.Context, name, &docker.ContainerConfig{
		Image:   spec.Image,
		Command: command,
	}); err != nil {
		return fmt.Errorf("create: %w", err)
	}

	defer func() {
		log.Info(fmt.Sprintf("Destroying container %q", name))
		if err := runtime.Remove(ctx.Context, name, true); err != nil {
			log.Warn(fmt.Sprintf("Destroy failed: %v", err))
		}
	}()

	return runScenarioPhases(ctx, spec, name)
}

// runScenarioPhases executes everything between create and destroy.
func runScenarioPhases(ctx *core.SystemContext, spec *ScenarioSpec, name string) error {
	log := ctx.Logger

	target := transport.NewContainer(spec.Binary(), name, ctx.Transport)
	targetCtx := core.NewSystemContext(false, target, log)
	targetCtx.Context = ctx.Context
	if err := system.Detect(targetCtx); err != nil {
		return fmt.Errorf("detect: %w", err)
	}

	for _, cmd := range spec.Prepare {
		log.Debug(fmt.Sprintf("Prepare: %s", cmd))
		if out, err := target.Execute(ctx.Context, cmd); err != nil {
			return fmt.Errorf("prepare %q: %w, output: %s", cmd, err, strings.TrimSpace(out))
		}
	}

	pb, err := config.Load(spec.Playbook)
	if err != nil {
		return fmt.Errorf("converge: %w", err)
	}
	if spec.EnvFile != "" {
		if err := pb.MergeEnv(spec.EnvFile); err != nil {
			return fmt.Errorf("converge: %w", err)
		}
	}
	targetCtx.Vars = pb.Vars

	log.Info(fmt.Sprintf("Converging playbook %s", spec.Playbook))
	engine := core.NewEngine(targetCtx, nil)
	if _, err := engine.Run(pb.Items(), core.CreateResource); err != nil {
		return fmt.Errorf("converge: %w", err)
	}

	if spec.Idempotence {
		log.Info("Converging again to check idempotence")
		changed, err := engine.Run(pb.Items(), core.CreateResource)
		if err != nil {
			return fmt.Errorf("idempotence: %w", err)
		}
		if changed != 0 {
			return fmt.Errorf("idempotence: second converge reported %d change(s)", changed)
		}
	}

	for _, cmd := range spec.Verify {
		log.Info(fmt.Sprintf("Verify: %s", cmd))
		if out, err := target.Execute(ctx.Context, cmd); err != nil {
			return fmt.Errorf("verify %q: %w, output: %s", cmd, err, strings.TrimSpace(out))
		}
	}

	return nil
}

func newRuntime(binary string, ctx *core.SystemContext) (docker.ContainerRuntime, error) {
	switch binary {
	case "docker":
		return docker.NewDockerRuntime(ctx), nil
	case "podman":
		return docker.NewPodmanRuntime(ctx), nil
	}
	return nil, fmt.Errorf("unsupported container driver: %s", binary)
}
