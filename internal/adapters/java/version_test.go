package java

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/bkocaman/stagehand/internal/core"
)

const jdk8Banner = `openjdk version "1.8.0_402"
OpenJDK Runtime Environment (build 1.8.0_402-b06)
OpenJDK 64-Bit Server VM (build 25.402-b06, mixed mode)`

const jdk11Banner = `openjdk version "11.0.22" 2024-01-16
OpenJDK Runtime Environment (build 11.0.22+7)
OpenJDK 64-Bit Server VM (build 11.0.22+7, mixed mode)`

func newTestContext(transport core.Transport) *core.SystemContext {
	return core.NewSystemContext(false, transport, core.NewDefaultLogger(os.Stderr, core.LevelError))
}

func TestVersionAdapter_Apply_MarkerPresent(t *testing.T) {
	mockTransport := core.NewMockTransport()
	mockTransport.OnExecute("java -version 2>&1", jdk8Banner, nil)
	ctx := newTestContext(mockTransport)

	adapter := NewVersionAdapter("require jdk8", nil)

	result, err := adapter.Apply(ctx)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if result.Changed {
		t.Fatal("Version assertion must never report a change")
	}
	if result.Failed {
		t.Fatal("Expected success for a 1.8.0 runtime")
	}
}

func TestVersionAdapter_Apply_MarkerMissing(t *testing.T) {
	mockTransport := core.NewMockTransport()
	mockTransport.OnExecute("java -version 2>&1", jdk11Banner, nil)
	ctx := newTestContext(mockTransport)

	adapter := NewVersionAdapter("require jdk8", nil)

	result, err := adapter.Apply(ctx)
	if err == nil {
		t.Fatal("Expected failure for a non-1.8.0 runtime")
	}
	if !result.Failed {
		t.Fatal("Result must be marked failed")
	}
	if !strings.Contains(err.Error(), "1.8.0") {
		t.Errorf("Error should name the required marker: %v", err)
	}
}

func TestVersionAdapter_Apply_CommandError(t *testing.T) {
	mockTransport := core.NewMockTransport()
	mockTransport.OnExecute("java -version 2>&1", "java: command not found", errors.New("exit status 127"))
	ctx := newTestContext(mockTransport)

	adapter := NewVersionAdapter("require jdk8", nil)

	if _, err := adapter.Apply(ctx); err == nil {
		t.Fatal("Expected error when the version command fails")
	}
}

func TestVersionAdapter_CustomCommandAndMarker(t *testing.T) {
	mockTransport := core.NewMockTransport()
	mockTransport.OnExecute("/opt/jdk/bin/java -version 2>&1", `java version "17.0.9"`, nil)
	ctx := newTestContext(mockTransport)

	adapter := NewVersionAdapter("require jdk17", map[string]interface{}{
		"command":  "/opt/jdk/bin/java -version 2>&1",
		"contains": "17.0",
	})

	result, err := adapter.Apply(ctx)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if result.Failed {
		t.Fatal("Expected success for matching custom marker")
	}
}
