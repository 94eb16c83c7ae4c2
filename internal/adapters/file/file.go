package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bkocaman/stagehand/internal/core"
)

func init() {
	core.RegisterResource("file", func(name string, params map[string]interface{}, ctx *core.SystemContext) (core.Resource, error) {
		return NewFileAdapter(name, params), nil
	})
}

// FileAdapter manages a file's content and mode. Content is declared inline
// (already rendered by the engine) or copied from a source path.
type FileAdapter struct {
	core.BaseResource
	State   string
	Path    string
	Content string
	Source  string
	Mode    os.FileMode
}

func NewFileAdapter(name string, params map[string]interface{}) core.Resource {
	path, _ := params["path"].(string)
	if path == "" {
		path = name
	}

	state, _ := params["state"].(string)
	if state == "" {
		state = "present"
	}

	mode := os.FileMode(0644)
	if m, ok := params["mode"].(int); ok {
		mode = os.FileMode(m)
	} else if mDouble, ok := params["mode"].(float64); ok {
		mode = os.FileMode(int(mDouble))
	}

	content, _ := params["content"].(string)
	src, _ := params["src"].(string)

	return &FileAdapter{
		BaseResource: core.BaseResource{Name: name, Type: "file"},
		State:        state,
		Path:         path,
		Content:      content,
		Source:       src,
		Mode:         mode,
	}
}

func (r *FileAdapter) Validate(ctx *core.SystemContext) error {
	if r.Path == "" {
		return fmt.Errorf("file path is required")
	}
	if r.State != "present" && r.State != "absent" {
		return fmt.Errorf("invalid state %q: must be present or absent", r.State)
	}
	if r.Content != "" && r.Source != "" {
		return fmt.Errorf("content and src are mutually exclusive")
	}
	return nil
}

func (r *FileAdapter) desired(ctx *core.SystemContext) (string, error) {
	if r.Source == "" {
		return r.Content, nil
	}
	data, err := ctx.FS.ReadFile(r.Source)
	if err != nil {
		return "", fmt.Errorf("source %s: %w", r.Source, err)
	}
	return string(data), nil
}

func (r *FileAdapter) Check(ctx *core.SystemContext) (bool, error) {
	current, err := ctx.FS.ReadFile(r.Path)
	exists := err == nil

	if r.State == "absent" {
		return exists, nil
	}
	if !exists {
		return true, nil
	}

	desired, err := r.desired(ctx)
	if err != nil {
		return false, err
	}
	return string(current) != desired, nil
}

func (r *FileAdapter) Apply(ctx *core.SystemContext) (core.Result, error) {
	needsAction, err := r.Check(ctx)
	if err != nil {
		return core.Failure(err, "Check failed"), err
	}
	if !needsAction {
		return core.SuccessNoChange(fmt.Sprintf("File %s up to date", r.Path)), nil
	}

	if r.State == "absent" {
		if ctx.DryRun {
			return core.SuccessChange(fmt.Sprintf("[DryRun] Would remove %s", r.Path)), nil
		}
		if err := ctx.FS.Remove(r.Path); err != nil {
			return core.Failure(err, "Remove failed"), err
		}
		return core.SuccessChange(fmt.Sprintf("File %s removed", r.Path)), nil
	}

	if ctx.DryRun {
		return core.SuccessChange(fmt.Sprintf("[DryRun] Would write %s", r.Path)), nil
	}

	desired, err := r.desired(ctx)
	if err != nil {
		return core.Failure(err, "Source unreadable"), err
	}

	if err := ctx.FS.MkdirAll(filepath.Dir(r.Path), 0755); err != nil {
		return core.Failure(err, "Parent directory creation failed"), err
	}
	if err := ctx.FS.WriteFile(r.Path, []byte(desired), r.Mode); err != nil {
		return core.Failure(err, "Write failed"), err
	}
	return core.SuccessChange(fmt.Sprintf("File %s written", r.Path)), nil
}

func (r *FileAdapter) Diff(ctx *core.SystemContext) (string, error) {
	current := ""
	if data, err := ctx.FS.ReadFile(r.Path); err == nil {
		current = string(data)
	}

	if r.State == "absent" {
		if current == "" {
			return "", nil
		}
		return core.GenerateDiff(current, ""), nil
	}

	desired, err := r.desired(ctx)
	if err != nil {
		return "", err
	}
	return core.GenerateDiff(current, desired), nil
}
