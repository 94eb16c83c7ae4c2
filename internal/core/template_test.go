package core_test

import (
	"testing"

	"github.com/bkocaman/stagehand/internal/core"
)

func TestExecuteTemplate_ContextFields(t *testing.T) {
	ctx := core.NewSystemContext(false, nil, nil)
	ctx.Distro = "ubuntu"
	ctx.Vars = map[string]string{"install_dir": "/opt/appserver"}

	out, err := core.ExecuteTemplate("{{ .Vars.install_dir }}/releases/{{ .Distro }}", ctx)
	if err != nil {
		t.Fatalf("ExecuteTemplate failed: %v", err)
	}
	if out != "/opt/appserver/releases/ubuntu" {
		t.Errorf("Unexpected rendering: %q", out)
	}
}

func TestExecuteTemplate_SprigFunctions(t *testing.T) {
	ctx := core.NewSystemContext(false, nil, nil)

	out, err := core.ExecuteTemplate(`{{ .Vars.missing | default "fallback" | upper }}`, ctx)
	if err != nil {
		t.Fatalf("ExecuteTemplate failed: %v", err)
	}
	if out != "FALLBACK" {
		t.Errorf("Expected sprig default/upper pipeline, got %q", out)
	}
}

func TestExecuteTemplate_ParseError(t *testing.T) {
	if _, err := core.ExecuteTemplate("{{ .Broken", nil); err == nil {
		t.Fatal("Expected parse error")
	}
}
