package docker

import (
	"fmt"
	"time"

	"github.com/bkocaman/stagehand/internal/core"
)

func init() {
	core.RegisterResource("docker_container", NewDockerAdapter)
	core.RegisterResource("podman_container", NewPodmanAdapter)
}

// ContainerAdapter converges a named container towards running, stopped or
// absent. The scenario harness uses it for its ephemeral targets.
type ContainerAdapter struct {
	Name    string
	State   string // running, stopped, absent
	Runtime ContainerRuntime
	Params  map[string]interface{}
}

func NewDockerAdapter(name string, params map[string]interface{}, ctx *core.SystemContext) (core.Resource, error) {
	return newContainerAdapter(name, params, NewDockerRuntime(ctx))
}

func NewPodmanAdapter(name string, params map[string]interface{}, ctx *core.SystemContext) (core.Resource, error) {
	return newContainerAdapter(name, params, NewPodmanRuntime(ctx))
}

func newContainerAdapter(name string, params map[string]interface{}, runtime ContainerRuntime) (core.Resource, error) {
	desiredState, _ := params["state"].(string)
	if desiredState == "" || desiredState == "present" {
		desiredState = "running"
	}

	return &ContainerAdapter{
		Name:    name,
		State:   desiredState,
		Runtime: runtime,
		Params:  params,
	}, nil
}

func (a *ContainerAdapter) GetName() string { return a.Name }
func (a *ContainerAdapter) GetType() string { return a.Runtime.Name() + "_container" }

func (a *ContainerAdapter) Validate(ctx *core.SystemContext) error {
	if a.Params["image"] == nil && a.State != "absent" {
		return fmt.Errorf("image is required for container %s", a.Name)
	}
	switch a.State {
	case "running", "stopped", "absent":
		return nil
	}
	return fmt.Errorf("invalid state %q: must be one of [running, stopped, absent]", a.State)
}

func (a *ContainerAdapter) Check(ctx *core.SystemContext) (bool, error) {
	state, err := a.Runtime.Inspect(ctx.Context, a.Name)
	if err != nil {
		return false, err
	}

	exists := state != nil

	if a.State == "absent" {
		return exists, nil
	}
	if !exists {
		return true, nil
	}

	if a.State == "running" && !state.Running {
		return true, nil
	}
	if a.State == "stopped" && state.Running {
		return true, nil
	}

	// Image drift forces a recreate.
	desiredImage, _ := a.Params["image"].(string)
	if desiredImage != "" && state.ImageName != desiredImage {
		return true, nil
	}

	return false, nil
}

func (a *ContainerAdapter) Apply(ctx *core.SystemContext) (core.Result, error) {
	state, err := a.Runtime.Inspect(ctx.Context, a.Name)
	if err != nil {
		return core.Failure(err, "Failed to inspect container"), err
	}
	exists := state != nil

	if a.State == "absent" {
		if !exists {
			return core.SuccessNoChange("Container already absent"), nil
		}
		if ctx.DryRun {
			return core.SuccessChange(fmt.Sprintf("[DryRun] Would remove container %s", a.Name)), nil
		}
		if err := a.Runtime.Remove(ctx.Context, a.Name, true); err != nil {
			return core.Failure(err, "Failed to remove container"), err
		}
		return core.SuccessChange("Container removed"), nil
	}

	desiredImage, _ := a.Params["image"].(string)

	if exists {
		imageChanged := desiredImage != "" && state.ImageName != desiredImage

		if imageChanged {
			if ctx.DryRun {
				return core.SuccessChange(fmt.Sprintf("[DryRun] Would recreate container %s with image %s", a.Name, desiredImage)), nil
			}
			if err := a.Runtime.Remove(ctx.Context, a.Name, true); err != nil {
				return core.Failure(err, "Failed to remove container for recreation"), err
			}
			exists = false
		} else {
			if a.State == "running" && !state.Running {
				if ctx.DryRun {
					return core.SuccessChange(fmt.Sprintf("[DryRun] Would start container %s", a.Name)), nil
				}
				if err := a.Runtime.Start(ctx.Context, a.Name); err != nil {
					return core.Failure(err, "Failed to start container"), err
				}
				return core.SuccessChange("Container started"), nil
			}
			if a.State == "stopped" && state.Running {
				if ctx.DryRun {
					return core.SuccessChange(fmt.Sprintf("[DryRun] Would stop container %s", a.Name)), nil
				}
				if err := a.Runtime.Stop(ctx.Context, a.Name, 10*time.Second); err != nil {
					return core.Failure(err, "Failed to stop container"), err
				}
				return core.SuccessChange("Container stopped"), nil
			}
			return core.SuccessNoChange("Container up to date"), nil
		}
	}

	if ctx.DryRun {
		return core.SuccessChange(fmt.Sprintf("[DryRun] Would create container %s from %s", a.Name, desiredImage)), nil
	}

	config := a.parseConfig()
	if err := a.Runtime.Run(ctx.Context, a.Name, config); err != nil {
		return core.Failure(err, "Failed to run container"), err
	}

	if a.State == "stopped" {
		if err := a.Runtime.Stop(ctx.Context, a.Name, 5*time.Second); err != nil {
			return core.Failure(err, "Failed to stop newly created container"), err
		}
		return core.SuccessChange("Container created (stopped)"), nil
	}

	return core.SuccessChange("Container created and started"), nil
}

func (a *ContainerAdapter) parseConfig() *ContainerConfig {
	config := &ContainerConfig{}

	if img, ok := a.Params["image"].(string); ok {
		config.Image = img
	}
	if ports, ok := a.Params["ports"].([]interface{}); ok {
		for _, p := range ports {
			config.Ports = append(config.Ports, fmt.Sprintf("%v", p))
		}
	}
	if vols, ok := a.Params["volumes"].([]interface{}); ok {
		for _, v := range vols {
			config.Volumes = append(config.Volumes, fmt.Sprintf("%v", v))
		}
	}
	if env, ok := a.Params["env"].(map[string]interface{}); ok {
		config.Env = make(map[string]string)
		for k, v := range env {
			config.Env[k] = fmt.Sprintf("%v", v)
		}
	}
	if cmd, ok := a.Params["command"].(string); ok {
		config.Command = cmd
	}

	return config
}

func (a *ContainerAdapter) Diff(ctx *core.SystemContext) (string, error) {
	state, err := a.Runtime.Inspect(ctx.Context, a.Name)
	if err != nil {
		return "", err
	}

	if a.State == "absent" {
		if state != nil {
			return fmt.Sprintf("- container %s (running: %v)", a.Name, state.Running), nil
		}
		return "", nil
	}

	if state == nil {
		return fmt.Sprintf("+ container %s (image: %v)", a.Name, a.Params["image"]), nil
	}

	diff := ""
	desiredImage, _ := a.Params["image"].(string)
	if desiredImage != "" && state.ImageName != desiredImage {
		diff += fmt.Sprintf("image: %s -> %s\n", state.ImageName, desiredImage)
	}
	if a.State == "running" && !state.Running {
		diff += "state: stopped -> running\n"
	} else if a.State == "stopped" && state.Running {
		diff += "state: running -> stopped\n"
	}
	return diff, nil
}
