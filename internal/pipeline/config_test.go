package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePipeline = `
name: appserver-ci
workspace: /work
env:
  APP_ENV: ci
stages:
  - name: lint
    run:
      - yamllint playbooks/
  - name: syntax
    run:
      - stagehand validate playbooks/site.yaml
  - name: test
    scenario:
      driver: docker
      image: centos:7
      playbook: playbooks/site.yaml
      verify:
        - java -version 2>&1 | grep 1.8.0
post:
  always:
    - rm -rf .tmp
  failure:
    - cat .tmp/debug.log
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(samplePipeline))
	require.NoError(t, err)

	assert.Equal(t, "appserver-ci", cfg.Name)
	assert.Equal(t, "/work", cfg.Workspace)
	require.Len(t, cfg.Stages, 3)

	test := cfg.Stages[2]
	require.NotNil(t, test.Scenario)
	assert.Equal(t, "docker", test.Scenario.Binary())
	assert.Equal(t, "appserver-ci-scenario", test.Scenario.ContainerName(cfg.Name))

	assert.Equal(t, []string{"rm -rf .tmp"}, cfg.Post.Always)
	assert.Equal(t, []string{"cat .tmp/debug.log"}, cfg.Post.Failure)
	assert.Empty(t, cfg.Post.Success)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"no stages":        "name: x\n",
		"unnamed stage":    "stages:\n  - run: [ls]\n",
		"empty stage":      "stages:\n  - name: x\n",
		"run and scenario": "stages:\n  - name: x\n    run: [ls]\n    scenario:\n      image: a\n      playbook: b\n",
		"bad driver":       "stages:\n  - name: x\n    scenario:\n      driver: lxc\n      image: a\n      playbook: b\n",
		"no image":         "stages:\n  - name: x\n    scenario:\n      playbook: b\n",
		"no playbook":      "stages:\n  - name: x\n    scenario:\n      image: a\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestScenarioSpec_Defaults(t *testing.T) {
	spec := &ScenarioSpec{Image: "centos:7", Playbook: "site.yaml"}
	assert.Equal(t, "docker", spec.Binary())
	assert.Equal(t, "scenario-target", spec.ContainerName(""))

	spec.Container = "custom"
	assert.Equal(t, "custom", spec.ContainerName("ci"))
}
