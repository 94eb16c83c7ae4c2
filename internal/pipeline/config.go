// Package pipeline runs staged delivery flows: shell stages, scenario
// stages against ephemeral containers, and post hooks that fire on
// success, failure or always.
package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Stage is a single pipeline step. Exactly one of Run or Scenario must be
// set.
type Stage struct {
	Name     string        `yaml:"name"`
	When     string        `yaml:"when"`
	Run      []string      `yaml:"run"`
	Scenario *ScenarioSpec `yaml:"scenario"`
}

// ScenarioSpec describes a converge test against a throwaway container.
type ScenarioSpec struct {
	Driver      string   `yaml:"driver"` // docker or podman
	Image       string   `yaml:"image"`
	Container   string   `yaml:"container"`
	Command     string   `yaml:"command"` // keeps the target alive, default sleep infinity
	Playbook    string   `yaml:"playbook"`
	EnvFile     string   `yaml:"env_file"`
	Prepare     []string `yaml:"prepare"`
	Verify      []string `yaml:"verify"`
	Idempotence bool     `yaml:"idempotence"`
}

// Post holds the commands run after all stages have finished.
type Post struct {
	Always  []string `yaml:"always"`
	Success []string `yaml:"success"`
	Failure []string `yaml:"failure"`
}

// Config is a full pipeline document.
type Config struct {
	Name      string            `yaml:"name"`
	Workspace string            `yaml:"workspace"`
	Env       map[string]string `yaml:"env"`
	Stages    []Stage           `yaml:"stages"`
	Post      Post              `yaml:"post"`
}

// Load reads and validates a pipeline file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read pipeline: %w", err)
	}
	return Parse(data)
}

// Parse validates a pipeline document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("yaml parse error: %w", err)
	}

	if len(cfg.Stages) == 0 {
		return nil, fmt.Errorf("pipeline has no stages")
	}
	for i, st := range cfg.Stages {
		if st.Name == "" {
			return nil, fmt.Errorf("stage %d has no name", i)
		}
		if len(st.Run) == 0 && st.Scenario == nil {
			return nil, fmt.Errorf("stage %q defines neither run nor scenario", st.Name)
		}
		if len(st.Run) > 0 && st.Scenario != nil {
			return nil, fmt.Errorf("stage %q defines both run and scenario", st.Name)
		}
		if st.Scenario != nil {
			if err := st.Scenario.validate(st.Name); err != nil {
				return nil, err
			}
		}
	}
	return &cfg, nil
}

func (s *ScenarioSpec) validate(stage string) error {
	switch s.Driver {
	case "", "docker", "podman":
	default:
		return fmt.Errorf("stage %q: unknown driver %q", stage, s.Driver)
	}
	if s.Image == "" {
		return fmt.Errorf("stage %q: scenario needs an image", stage)
	}
	if s.Playbook == "" {
		return fmt.Errorf("stage %q: scenario needs a playbook", stage)
	}
	return nil
}

// Binary returns the container engine executable for the scenario.
func (s *ScenarioSpec) Binary() string {
	if s.Driver == "" {
		return "docker"
	}
	return s.Driver
}

// ContainerName returns the configured container name or a default derived
// from the pipeline.
func (s *ScenarioSpec) ContainerName(pipeline string) string {
	if s.Container != "" {
		return s.Container
	}
	if pipeline == "" {
		return "scenario-target"
	}
	return pipeline + "-scenario"
}
