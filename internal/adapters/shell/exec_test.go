package shell

import (
	"errors"
	"os"
	"testing"

	"github.com/bkocaman/stagehand/internal/core"
)

func newTestContext(transport core.Transport) *core.SystemContext {
	return core.NewSystemContext(false, transport, core.NewDefaultLogger(os.Stderr, core.LevelError))
}

func TestExecAdapter_Apply(t *testing.T) {
	mockTransport := core.NewMockTransport()
	ctx := newTestContext(mockTransport)

	mockTransport.OnExecute("echo hello", "hello", nil)

	adapter := NewExecAdapter("test-exec", map[string]interface{}{
		"command": "echo hello",
	})

	result, err := adapter.Apply(ctx)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !result.Changed {
		t.Fatal("Expected Changed=true for exec")
	}
	if !mockTransport.AssertCalled("echo hello") {
		t.Fatal("Command was not executed")
	}
}

func TestExecAdapter_Check_Unless(t *testing.T) {
	mockTransport := core.NewMockTransport()
	ctx := newTestContext(mockTransport)

	// Unless command succeeds (exit 0) -> skip
	mockTransport.OnExecute("test -f /tmp/lock", "", nil)

	adapter := NewExecAdapter("test-unless-skip", map[string]interface{}{
		"command": "do something",
		"unless":  "test -f /tmp/lock",
	})

	needsAction, err := adapter.Check(ctx)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if needsAction {
		t.Fatal("Expected needsAction=false when unless succeeds")
	}
}

func TestExecAdapter_Check_Unless_Fail(t *testing.T) {
	mockTransport := core.NewMockTransport()
	ctx := newTestContext(mockTransport)

	// Unless command fails (exit 1) -> run
	mockTransport.OnExecute("test -f /tmp/lock", "", errors.New("exit status 1"))

	adapter := NewExecAdapter("test-unless-run", map[string]interface{}{
		"command": "do something",
		"unless":  "test -f /tmp/lock",
	})

	needsAction, err := adapter.Check(ctx)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !needsAction {
		t.Fatal("Expected needsAction=true when unless fails")
	}
}

func TestExecAdapter_Apply_Chdir(t *testing.T) {
	mockTransport := core.NewMockTransport()
	ctx := newTestContext(mockTransport)

	mockTransport.OnExecute("cd /opt/appserver && ./bin/standalone.sh --version", "", nil)

	adapter := NewExecAdapter("version banner", map[string]interface{}{
		"command": "./bin/standalone.sh --version",
		"chdir":   "/opt/appserver",
	})

	if _, err := adapter.Apply(ctx); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !mockTransport.AssertCalled("cd /opt/appserver && ./bin/standalone.sh --version") {
		t.Fatalf("chdir prefix missing, calls: %v", mockTransport.Calls)
	}
}

func TestExecAdapter_Check_Creates(t *testing.T) {
	mockTransport := core.NewMockTransport()
	ctx := newTestContext(mockTransport)

	marker := t.TempDir() + "/done"
	if err := os.WriteFile(marker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	adapter := NewExecAdapter("guarded", map[string]interface{}{
		"command": "expensive-setup",
		"creates": marker,
	})

	needsAction, err := adapter.Check(ctx)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if needsAction {
		t.Fatal("Expected needsAction=false when creates path exists")
	}
}
