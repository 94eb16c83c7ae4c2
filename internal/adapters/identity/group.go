package identity

import (
	"fmt"

	"github.com/bkocaman/stagehand/internal/core"
)

type GroupAdapter struct {
	core.BaseResource
	State  string
	GID    string
	System bool
}

func NewGroupAdapter(name string, params map[string]interface{}) core.Resource {
	return &GroupAdapter{
		BaseResource: core.BaseResource{Name: name, Type: "group"},
		State:        stateParam(params),
		GID:          stringParam(params, "gid"),
		System:       boolParam(params, "system"),
	}
}

func (r *GroupAdapter) Validate(ctx *core.SystemContext) error {
	if r.Name == "" {
		return fmt.Errorf("group name is required")
	}
	if r.State != "present" && r.State != "absent" {
		return fmt.Errorf("invalid state %q: must be present or absent", r.State)
	}
	return nil
}

func (r *GroupAdapter) exists(ctx *core.SystemContext) bool {
	_, err := ctx.Transport.Execute(ctx.Context, "getent group "+r.Name)
	return err == nil
}

func (r *GroupAdapter) Check(ctx *core.SystemContext) (bool, error) {
	exists := r.exists(ctx)
	if r.State == "absent" {
		return exists, nil
	}
	return !exists, nil
}

func (r *GroupAdapter) Apply(ctx *core.SystemContext) (core.Result, error) {
	exists := r.exists(ctx)

	if r.State == "absent" {
		if !exists {
			return core.SuccessNoChange(fmt.Sprintf("Group %s already absent", r.Name)), nil
		}
		if ctx.DryRun {
			return core.SuccessChange(fmt.Sprintf("[DryRun] Would remove group %s", r.Name)), nil
		}
		if out, err := ctx.Transport.Execute(ctx.Context, "groupdel "+r.Name); err != nil {
			return core.Failure(err, "groupdel failed"), fmt.Errorf("groupdel %s: %w, output: %s", r.Name, err, out)
		}
		return core.SuccessChange(fmt.Sprintf("Group %s removed", r.Name)), nil
	}

	if exists {
		return core.SuccessNoChange(fmt.Sprintf("Group %s already present", r.Name)), nil
	}

	if ctx.DryRun {
		return core.SuccessChange(fmt.Sprintf("[DryRun] Would create group %s", r.Name)), nil
	}

	cmd := "groupadd"
	if r.System {
		cmd += " -r"
	}
	if r.GID != "" {
		cmd += " -g " + r.GID
	}
	cmd += " " + r.Name

	if out, err := ctx.Transport.Execute(ctx.Context, cmd); err != nil {
		return core.Failure(err, "groupadd failed"), fmt.Errorf("groupadd %s: %w, output: %s", r.Name, err, out)
	}
	return core.SuccessChange(fmt.Sprintf("Group %s created", r.Name)), nil
}

func (r *GroupAdapter) Diff(ctx *core.SystemContext) (string, error) {
	needsAction, err := r.Check(ctx)
	if err != nil || !needsAction {
		return "", err
	}
	if r.State == "absent" {
		return fmt.Sprintf("- group %s", r.Name), nil
	}
	return fmt.Sprintf("+ group %s", r.Name), nil
}
