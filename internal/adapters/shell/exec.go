package shell

import (
	"fmt"
	"strings"

	"github.com/bkocaman/stagehand/internal/core"
)

func init() {
	factory := func(name string, params map[string]interface{}, ctx *core.SystemContext) (core.Resource, error) {
		return NewExecAdapter(name, params), nil
	}
	core.RegisterResource("exec", factory)
	core.RegisterResource("shell", factory)
	core.RegisterResource("cmd", factory)
}

// ExecAdapter runs a shell command through the transport. Unless/creates
// guards keep re-runs idempotent; without a guard, every run is a change.
type ExecAdapter struct {
	core.BaseResource
	Command string
	Unless  string // skip when this command exits 0
	Creates string // skip when this path exists
	Chdir   string
}

func NewExecAdapter(name string, params map[string]interface{}) core.Resource {
	command, _ := params["command"].(string)
	if command == "" {
		command = name
	}
	unless, _ := params["unless"].(string)
	creates, _ := params["creates"].(string)
	chdir, _ := params["chdir"].(string)

	return &ExecAdapter{
		BaseResource: core.BaseResource{Name: name, Type: "exec"},
		Command:      command,
		Unless:       unless,
		Creates:      creates,
		Chdir:        chdir,
	}
}

func (r *ExecAdapter) Validate(ctx *core.SystemContext) error {
	if strings.TrimSpace(r.Command) == "" {
		return fmt.Errorf("exec command is required")
	}
	return nil
}

func (r *ExecAdapter) Check(ctx *core.SystemContext) (bool, error) {
	if r.Creates != "" {
		if _, err := ctx.FS.Stat(r.Creates); err == nil {
			return false, nil
		}
	}
	if r.Unless != "" {
		if _, err := ctx.Transport.Execute(ctx.Context, r.Unless); err == nil {
			return false, nil
		}
	}
	return true, nil
}

func (r *ExecAdapter) Apply(ctx *core.SystemContext) (core.Result, error) {
	needsAction, err := r.Check(ctx)
	if err != nil {
		return core.Failure(err, "Check failed"), err
	}
	if !needsAction {
		return core.SuccessNoChange("Guard satisfied, command skipped"), nil
	}

	if ctx.DryRun {
		return core.SuccessChange(fmt.Sprintf("[DryRun] Would execute: %s", r.Command)), nil
	}

	cmd := r.Command
	if r.Chdir != "" {
		cmd = fmt.Sprintf("cd %s && %s", r.Chdir, cmd)
	}

	out, err := ctx.Transport.Execute(ctx.Context, cmd)
	if err != nil {
		return core.Failure(err, "Command failed"), fmt.Errorf("command %q: %w, output: %s", r.Command, err, out)
	}

	msg := "Command executed"
	if trimmed := strings.TrimSpace(out); trimmed != "" {
		msg = fmt.Sprintf("Command executed: %s", firstLine(trimmed))
	}
	return core.SuccessChange(msg), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
