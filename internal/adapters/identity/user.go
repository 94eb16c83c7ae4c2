package identity

import (
	"fmt"
	"strings"

	"github.com/bkocaman/stagehand/internal/core"
)

type UserAdapter struct {
	core.BaseResource
	State        string
	Group        string   // primary group
	Groups       []string // supplementary groups, appended
	Shell        string
	Home         string
	PasswordHash string // pre-hashed, passed to useradd -p verbatim
	System       bool
	CreateHome   bool
}

func NewUserAdapter(name string, params map[string]interface{}) core.Resource {
	createHome := true
	if v, ok := params["create_home"].(bool); ok {
		createHome = v
	}
	return &UserAdapter{
		BaseResource: core.BaseResource{Name: name, Type: "user"},
		State:        stateParam(params),
		Group:        stringParam(params, "group"),
		Groups:       stringSliceParam(params, "groups"),
		Shell:        stringParam(params, "shell"),
		Home:         stringParam(params, "home"),
		PasswordHash: stringParam(params, "password_hash"),
		System:       boolParam(params, "system"),
		CreateHome:   createHome,
	}
}

func (r *UserAdapter) Validate(ctx *core.SystemContext) error {
	if r.Name == "" {
		return fmt.Errorf("user name is required")
	}
	if r.State != "present" && r.State != "absent" {
		return fmt.Errorf("invalid state %q: must be present or absent", r.State)
	}
	// A plaintext password has no business here; only crypt(3) hashes.
	if r.PasswordHash != "" && !strings.HasPrefix(r.PasswordHash, "$") {
		return fmt.Errorf("password_hash must be a crypt hash, not a plaintext password")
	}
	return nil
}

func (r *UserAdapter) exists(ctx *core.SystemContext) bool {
	_, err := ctx.Transport.Execute(ctx.Context, "getent passwd "+r.Name)
	return err == nil
}

// missingGroups returns the configured supplementary groups the user is not
// yet a member of.
func (r *UserAdapter) missingGroups(ctx *core.SystemContext) ([]string, error) {
	if len(r.Groups) == 0 {
		return nil, nil
	}
	out, err := ctx.Transport.Execute(ctx.Context, "id -Gn "+r.Name)
	if err != nil {
		return nil, fmt.Errorf("group membership check: %w", err)
	}
	current := make(map[string]bool)
	for _, g := range strings.Fields(out) {
		current[g] = true
	}
	var missing []string
	for _, g := range r.Groups {
		if !current[g] {
			missing = append(missing, g)
		}
	}
	return missing, nil
}

func (r *UserAdapter) Check(ctx *core.SystemContext) (bool, error) {
	exists := r.exists(ctx)
	if r.State == "absent" {
		return exists, nil
	}
	if !exists {
		return true, nil
	}
	missing, err := r.missingGroups(ctx)
	if err != nil {
		return false, err
	}
	return len(missing) > 0, nil
}

func (r *UserAdapter) Apply(ctx *core.SystemContext) (core.Result, error) {
	exists := r.exists(ctx)

	if r.State == "absent" {
		if !exists {
			return core.SuccessNoChange(fmt.Sprintf("User %s already absent", r.Name)), nil
		}
		if ctx.DryRun {
			return core.SuccessChange(fmt.Sprintf("[DryRun] Would remove user %s", r.Name)), nil
		}
		if out, err := ctx.Transport.Execute(ctx.Context, "userdel "+r.Name); err != nil {
			return core.Failure(err, "userdel failed"), fmt.Errorf("userdel %s: %w, output: %s", r.Name, err, out)
		}
		return core.SuccessChange(fmt.Sprintf("User %s removed", r.Name)), nil
	}

	if !exists {
		if ctx.DryRun {
			return core.SuccessChange(fmt.Sprintf("[DryRun] Would create user %s", r.Name)), nil
		}
		if out, err := ctx.Transport.Execute(ctx.Context, r.useraddCommand()); err != nil {
			return core.Failure(err, "useradd failed"), fmt.Errorf("useradd %s: %w, output: %s", r.Name, err, out)
		}
		return core.SuccessChange(fmt.Sprintf("User %s created", r.Name)), nil
	}

	// User exists; converge group membership only. Shell, home and the
	// password hash are creation-time attributes.
	missing, err := r.missingGroups(ctx)
	if err != nil {
		return core.Failure(err, "group membership check failed"), err
	}
	if len(missing) == 0 {
		return core.SuccessNoChange(fmt.Sprintf("User %s already present", r.Name)), nil
	}

	if ctx.DryRun {
		return core.SuccessChange(fmt.Sprintf("[DryRun] Would add user %s to groups %s", r.Name, strings.Join(missing, ","))), nil
	}

	cmd := fmt.Sprintf("usermod -aG %s %s", strings.Join(missing, ","), r.Name)
	if out, err := ctx.Transport.Execute(ctx.Context, cmd); err != nil {
		return core.Failure(err, "usermod failed"), fmt.Errorf("usermod %s: %w, output: %s", r.Name, err, out)
	}
	return core.SuccessChange(fmt.Sprintf("User %s added to groups %s", r.Name, strings.Join(missing, ","))), nil
}

func (r *UserAdapter) useraddCommand() string {
	parts := []string{"useradd"}
	if r.CreateHome {
		parts = append(parts, "-m")
	}
	if r.System {
		parts = append(parts, "-r")
	}
	if r.Home != "" {
		parts = append(parts, "-d", r.Home)
	}
	if r.Shell != "" {
		parts = append(parts, "-s", r.Shell)
	}
	if r.Group != "" {
		parts = append(parts, "-g", r.Group)
	}
	if len(r.Groups) > 0 {
		parts = append(parts, "-G", strings.Join(r.Groups, ","))
	}
	if r.PasswordHash != "" {
		parts = append(parts, "-p", "'"+r.PasswordHash+"'")
	}
	parts = append(parts, r.Name)
	return strings.Join(parts, " ")
}

func (r *UserAdapter) Diff(ctx *core.SystemContext) (string, error) {
	needsAction, err := r.Check(ctx)
	if err != nil || !needsAction {
		return "", err
	}
	if r.State == "absent" {
		return fmt.Sprintf("- user %s", r.Name), nil
	}
	if !r.exists(ctx) {
		return fmt.Sprintf("+ user %s (shell: %s, groups: %s)", r.Name, r.Shell, strings.Join(r.Groups, ",")), nil
	}
	return fmt.Sprintf("~ user %s (group membership)", r.Name), nil
}
