package file

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bkocaman/stagehand/internal/core"
)

func init() {
	core.RegisterResource("download", func(name string, params map[string]interface{}, ctx *core.SystemContext) (core.Resource, error) {
		return NewDownloadAdapter(name, params), nil
	})
}

// DownloadAdapter fetches a source URI (http(s):// or file://) to a local
// path. Skipped when the destination already exists unless force is set.
type DownloadAdapter struct {
	core.BaseResource
	URL   string
	Dest  string
	Mode  os.FileMode
	Force bool
}

func NewDownloadAdapter(name string, params map[string]interface{}) core.Resource {
	url, _ := params["url"].(string)
	if url == "" {
		url, _ = params["src"].(string)
	}
	dest, _ := params["dest"].(string)

	mode := os.FileMode(0644)
	if m, ok := params["mode"].(int); ok {
		mode = os.FileMode(m)
	} else if mDouble, ok := params["mode"].(float64); ok {
		mode = os.FileMode(int(mDouble))
	}

	return &DownloadAdapter{
		BaseResource: core.BaseResource{Name: name, Type: "download"},
		URL:          url,
		Dest:         dest,
		Mode:         mode,
		Force:        boolParamValue(params, "force"),
	}
}

func boolParamValue(params map[string]interface{}, key string) bool {
	v, _ := params[key].(bool)
	return v
}

func (r *DownloadAdapter) Validate(ctx *core.SystemContext) error {
	if r.URL == "" {
		return fmt.Errorf("download url is required")
	}
	if r.Dest == "" {
		return fmt.Errorf("download destination is required")
	}
	if !strings.HasPrefix(r.URL, "http://") && !strings.HasPrefix(r.URL, "https://") && !strings.HasPrefix(r.URL, "file://") {
		return fmt.Errorf("unsupported url scheme: %s", r.URL)
	}
	return nil
}

func (r *DownloadAdapter) Check(ctx *core.SystemContext) (bool, error) {
	if r.Force {
		return true, nil
	}
	if _, err := ctx.FS.Stat(r.Dest); err == nil {
		return false, nil
	}
	return true, nil
}

func (r *DownloadAdapter) Apply(ctx *core.SystemContext) (core.Result, error) {
	needsAction, err := r.Check(ctx)
	if err != nil {
		return core.Failure(err, "Check failed"), err
	}
	if !needsAction {
		return core.SuccessNoChange(fmt.Sprintf("File already present: %s", r.Dest)), nil
	}

	if ctx.DryRun {
		return core.SuccessChange(fmt.Sprintf("[DryRun] Would download %s to %s", r.URL, r.Dest)), nil
	}

	if err := r.fetch(ctx); err != nil {
		return core.Failure(err, "Download failed"), err
	}
	return core.SuccessChange(fmt.Sprintf("Downloaded %s to %s", r.URL, r.Dest)), nil
}

func (r *DownloadAdapter) fetch(ctx *core.SystemContext) error {
	var src io.ReadCloser
	if strings.HasPrefix(r.URL, "file://") {
		f, err := ctx.FS.Open(strings.TrimPrefix(r.URL, "file://"))
		if err != nil {
			return err
		}
		src = f
	} else {
		req, err := http.NewRequestWithContext(ctx.Context, http.MethodGet, r.URL, nil)
		if err != nil {
			return err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("bad status: %s", resp.Status)
		}
		src = resp.Body
	}
	defer src.Close()

	if err := ctx.FS.MkdirAll(filepath.Dir(r.Dest), 0755); err != nil {
		return err
	}

	out, err := ctx.FS.Create(r.Dest)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, src)
	out.Close()
	if err != nil {
		return err
	}
	return ctx.FS.Chmod(r.Dest, r.Mode)
}

func (r *DownloadAdapter) Diff(ctx *core.SystemContext) (string, error) {
	needsAction, err := r.Check(ctx)
	if err != nil || !needsAction {
		return "", err
	}
	return fmt.Sprintf("+ download %s -> %s", r.URL, r.Dest), nil
}
