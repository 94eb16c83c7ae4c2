// Package config loads playbook definitions from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bkocaman/stagehand/internal/core"
)

// Task is the raw task definition read from YAML.
type Task struct {
	Name   string                 `yaml:"name"`
	Type   string                 `yaml:"type"`
	State  string                 `yaml:"state"`
	When   string                 `yaml:"when"`
	Params map[string]interface{} `yaml:"params"`
	Hooks  core.Hooks             `yaml:"hooks"`
}

// Host describes a remote SSH target.
type Host struct {
	Name     string `yaml:"name"`
	Address  string `yaml:"address"`
	User     string `yaml:"user"`
	Port     int    `yaml:"port"`
	KeyPath  string `yaml:"ssh_key_path"`
	Password string `yaml:"password"`
}

// Playbook is a full provisioning document.
type Playbook struct {
	Name  string            `yaml:"name"`
	Vars  map[string]string `yaml:"vars"`
	Hosts []Host            `yaml:"hosts"`
	Tasks []Task            `yaml:"tasks"`
}

// Load reads and parses a playbook file.
func Load(path string) (*Playbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read playbook: %w", err)
	}

	var pb Playbook
	if err := yaml.Unmarshal(data, &pb); err != nil {
		return nil, fmt.Errorf("yaml parse error: %w", err)
	}

	for i, task := range pb.Tasks {
		if task.Name == "" {
			return nil, fmt.Errorf("task %d has no name", i)
		}
		if task.Type == "" {
			return nil, fmt.Errorf("task %q has no type", task.Name)
		}
	}

	return &pb, nil
}

// FindHost returns the named host entry.
func (p *Playbook) FindHost(name string) (Host, error) {
	for _, h := range p.Hosts {
		if h.Name == name {
			return h, nil
		}
	}
	return Host{}, fmt.Errorf("host not found in playbook: %s", name)
}

// Items converts the playbook tasks into engine task items.
func (p *Playbook) Items() []core.TaskItem {
	items := make([]core.TaskItem, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		items = append(items, core.TaskItem{
			Name:   t.Name,
			Type:   t.Type,
			State:  t.State,
			When:   t.When,
			Params: t.Params,
			Hooks:  t.Hooks,
		})
	}
	return items
}
