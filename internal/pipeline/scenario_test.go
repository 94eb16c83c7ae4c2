package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bkocaman/stagehand/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/bkocaman/stagehand/internal/adapters/shell"
)

const scenarioPlaybook = `
name: scenario
tasks:
  - name: install marker
    type: exec
    params:
      command: touch /var/run/marker
      unless: test -f /var/run/marker
`

func writeScenarioPlaybook(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioPlaybook), 0644))
	return path
}

// stubTarget wires up the container lifecycle commands a scenario issues
// against the host transport.
func stubTarget(mock *core.MockTransport, name string) {
	mock.OnExecute("docker inspect "+name, "", errors.New("no such object"))
	mock.OnExecute("docker run -d --name "+name, "abc123", nil)
	mock.OnExecute("docker rm -f "+name, "", nil)
	mock.OnExecute("uname -s", "Linux\n", nil)
	mock.OnExecute("cat /etc/os-release", "ID=\"centos\"\nVERSION_ID=\"7\"\n", nil)
	mock.OnExecute("hostname", name+"\n", nil)
}

func TestRunScenario_FullCycle(t *testing.T) {
	mock := core.NewMockTransport()
	stubTarget(mock, "ci-scenario")
	mock.OnExecute("yum install -y java-1.8.0-openjdk", "", nil)
	mock.OnExecute("test -f /var/run/marker", "", nil) // guard satisfied, converge is a no-op
	mock.OnExecute("java -version", "", nil)

	ctx := newRunnerContext(mock)
	spec := &ScenarioSpec{
		Image:       "centos:7",
		Playbook:    writeScenarioPlaybook(t),
		Prepare:     []string{"yum install -y java-1.8.0-openjdk"},
		Verify:      []string{"java -version"},
		Idempotence: true,
	}

	require.NoError(t, RunScenario(ctx, "ci", spec))

	assert.True(t, mock.AssertCalled("docker run -d --name ci-scenario centos:7 sleep infinity"))
	assert.True(t, mock.AssertCalled(`docker exec ci-scenario sh -c 'yum install -y java-1.8.0-openjdk'`))
	assert.True(t, mock.AssertCalled(`docker exec ci-scenario sh -c 'java -version'`))
	assert.True(t, mock.AssertCalled("docker rm -f ci-scenario"), "destroy must run")
	assert.False(t, mock.AssertCalled("touch /var/run/marker"), "guarded task must not run")
	assert.Equal(t, 2, mock.CallCount("test -f /var/run/marker"), "idempotence reconverges the playbook")
}

func TestRunScenario_VerifyFailureStillDestroys(t *testing.T) {
	mock := core.NewMockTransport()
	stubTarget(mock, "ci-scenario")
	mock.OnExecute("test -f /var/run/marker", "", nil)
	mock.OnExecute("java -version", "sh: java: command not found", errors.New("exit 127"))

	ctx := newRunnerContext(mock)
	spec := &ScenarioSpec{
		Image:    "centos:7",
		Playbook: writeScenarioPlaybook(t),
		Verify:   []string{"java -version"},
	}

	err := RunScenario(ctx, "ci", spec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verify")
	assert.True(t, mock.AssertCalled("docker rm -f ci-scenario"), "destroy must run after a failed verify")
}

func TestRunScenario_ReplacesLeftoverContainer(t *testing.T) {
	mock := core.NewMockTransport()
	stubTarget(mock, "ci-scenario")
	// Inspect finds a leftover from an interrupted run.
	mock.OnExecute("docker inspect ci-scenario",
		`[{"State":{"Running":true,"Status":"running"},"Config":{"Image":"centos:7"},"Image":"sha256:1"}]`, nil)
	mock.OnExecute("test -f /var/run/marker", "", nil)

	ctx := newRunnerContext(mock)
	spec := &ScenarioSpec{
		Image:    "centos:7",
		Playbook: writeScenarioPlaybook(t),
	}

	require.NoError(t, RunScenario(ctx, "ci", spec))
	assert.Equal(t, 2, mock.CallCount("docker rm -f ci-scenario"), "leftover removal plus destroy")
}

func TestRunScenario_DryRunTouchesNothing(t *testing.T) {
	mock := core.NewMockTransport()
	ctx := core.NewSystemContext(true, mock, core.NewDefaultLogger(os.Stderr, core.LevelError))

	spec := &ScenarioSpec{Image: "centos:7", Playbook: "site.yaml"}
	require.NoError(t, RunScenario(ctx, "ci", spec))
	assert.Empty(t, mock.Calls)
}

func TestRunScenario_UnknownDriver(t *testing.T) {
	ctx := newRunnerContext(core.NewMockTransport())
	spec := &ScenarioSpec{Driver: "lxc", Image: "a", Playbook: "b"}
	assert.Error(t, RunScenario(ctx, "ci", spec))
}
