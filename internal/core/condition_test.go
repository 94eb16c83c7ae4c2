package core_test

import (
	"testing"

	"github.com/bkocaman/stagehand/internal/core"
)

func TestEvaluateCondition(t *testing.T) {
	ctx := core.NewSystemContext(false, nil, nil)
	ctx.OS = "linux"
	ctx.Distro = "ubuntu"
	ctx.Vars = map[string]string{"install_mode": "archive"}

	cases := []struct {
		expr string
		want bool
	}{
		{`os == "linux"`, true},
		{`distro == "fedora"`, false},
		{`distro in ["ubuntu", "debian"]`, true},
		{`vars.install_mode == "archive"`, true},
		{`vars.install_mode == "package"`, false},
		{`!dry_run`, true},
	}

	for _, tc := range cases {
		got, err := core.EvaluateCondition(tc.expr, ctx)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.expr, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestEvaluateCondition_NonBoolean(t *testing.T) {
	ctx := core.NewSystemContext(false, nil, nil)
	if _, err := core.EvaluateCondition(`os + "x"`, ctx); err == nil {
		t.Fatal("Expected error for non-boolean condition")
	}
}

func TestEvaluateCondition_Invalid(t *testing.T) {
	ctx := core.NewSystemContext(false, nil, nil)
	if _, err := core.EvaluateCondition(`distro ==`, ctx); err == nil {
		t.Fatal("Expected error for invalid expression")
	}
}
