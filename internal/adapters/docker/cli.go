package docker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bkocaman/stagehand/internal/core"
)

// CLIRuntime drives a container engine through its command line over the
// context's transport. The same wrapper serves docker and podman, their
// surfaces are identical for everything used here.
type CLIRuntime struct {
	binary string
	ctx    *core.SystemContext
}

func NewDockerRuntime(ctx *core.SystemContext) ContainerRuntime {
	return &CLIRuntime{binary: "docker", ctx: ctx}
}

func NewPodmanRuntime(ctx *core.SystemContext) ContainerRuntime {
	return &CLIRuntime{binary: "podman", ctx: ctx}
}

func (r *CLIRuntime) Name() string {
	return r.binary
}

func (r *CLIRuntime) runCmd(ctx context.Context, args ...string) (string, error) {
	return r.ctx.Transport.Execute(ctx, r.binary+" "+strings.Join(args, " "))
}

func (r *CLIRuntime) Inspect(ctx context.Context, name string) (*ContainerState, error) {
	out, err := r.runCmd(ctx, "inspect", name)
	if err != nil {
		// A non-zero exit from inspect means the container is unknown.
		return nil, nil
	}

	var results []InspectResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		return nil, fmt.Errorf("failed to parse %s inspect: %w", r.binary, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	container := results[0]
	return &ContainerState{
		Running:   container.State.Running,
		Status:    container.State.Status,
		ImageID:   container.Image,
		ImageName: container.Config.Image,
	}, nil
}

func (r *CLIRuntime) Run(ctx context.Context, name string, config *ContainerConfig) error {
	args := []string{"run", "-d", "--name", name}

	for _, p := range config.Ports {
		args = append(args, "-p", p)
	}
	for _, v := range config.Volumes {
		args = append(args, "-v", v)
	}
	for k, v := range config.Env {
		args = append(args, "-e", fmt.Sprintf("%s=%s", k, v))
	}

	args = append(args, config.Image)
	if config.Command != "" {
		args = append(args, config.Command)
	}

	_, err := r.runCmd(ctx, args...)
	return err
}

func (r *CLIRuntime) Stop(ctx context.Context, name string, timeout time.Duration) error {
	seconds := int(timeout.Seconds())
	if seconds == 0 {
		seconds = 10
	}
	_, err := r.runCmd(ctx, "stop", "-t", fmt.Sprintf("%d", seconds), name)
	return err
}

func (r *CLIRuntime) Start(ctx context.Context, name string) error {
	_, err := r.runCmd(ctx, "start", name)
	return err
}

func (r *CLIRuntime) Remove(ctx context.Context, name string, force bool) error {
	args := []string{"rm"}
	if force {
		args = append(args, "-f")
	}
	args = append(args, name)
	_, err := r.runCmd(ctx, args...)
	return err
}
