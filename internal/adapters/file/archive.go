package file

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bkocaman/stagehand/internal/core"
)

func init() {
	factory := func(name string, params map[string]interface{}, ctx *core.SystemContext) (core.Resource, error) {
		return NewArchiveAdapter(name, params), nil
	}
	core.RegisterResource("archive", factory)
	core.RegisterResource("extract", factory)
}

// ArchiveAdapter extracts a local archive to a destination directory. The
// whole task is skipped when the guard path already exists, and
// StripComponents removes leading path components from every entry (the
// usual release tarball with a single top-level directory).
type ArchiveAdapter struct {
	core.BaseResource
	Source          string
	Dest            string
	Creates         string // guard path; defaults to Dest
	StripComponents int
	Mode            os.FileMode
}

func NewArchiveAdapter(name string, params map[string]interface{}) core.Resource {
	src, _ := params["src"].(string)
	if src == "" {
		src, _ = params["source"].(string)
	}
	if src == "" {
		src = name
	}

	dest, _ := params["dest"].(string)
	if dest == "" {
		dest = strings.TrimSuffix(src, filepath.Ext(src))
	}

	creates, _ := params["creates"].(string)
	if creates == "" {
		creates = dest
	}

	strip := 0
	switch v := params["strip_components"].(type) {
	case int:
		strip = v
	case float64:
		strip = int(v)
	}

	mode := os.FileMode(0755)
	if m, ok := params["mode"].(int); ok {
		mode = os.FileMode(m)
	} else if mDouble, ok := params["mode"].(float64); ok {
		mode = os.FileMode(int(mDouble))
	}

	return &ArchiveAdapter{
		BaseResource:    core.BaseResource{Name: name, Type: "archive"},
		Source:          src,
		Dest:            dest,
		Creates:         creates,
		StripComponents: strip,
		Mode:            mode,
	}
}

func (r *ArchiveAdapter) Validate(ctx *core.SystemContext) error {
	if r.Source == "" {
		return fmt.Errorf("archive source is required")
	}
	if r.Dest == "" {
		return fmt.Errorf("archive destination is required")
	}
	if r.StripComponents < 0 {
		return fmt.Errorf("strip_components must not be negative")
	}
	return nil
}

func (r *ArchiveAdapter) Check(ctx *core.SystemContext) (bool, error) {
	// Guard path present means the archive was already extracted.
	if _, err := ctx.FS.Stat(r.Creates); err == nil {
		return false, nil
	}
	if _, err := ctx.FS.Stat(r.Source); os.IsNotExist(err) {
		return false, fmt.Errorf("archive source not found: %s", r.Source)
	}
	return true, nil
}

func (r *ArchiveAdapter) Apply(ctx *core.SystemContext) (core.Result, error) {
	needsAction, err := r.Check(ctx)
	if err != nil {
		return core.Failure(err, "Check failed"), err
	}
	if !needsAction {
		return core.SuccessNoChange(fmt.Sprintf("Archive already extracted (%s exists)", r.Creates)), nil
	}

	if ctx.DryRun {
		return core.SuccessChange(fmt.Sprintf("[DryRun] Would extract %s to %s", r.Source, r.Dest)), nil
	}

	if err := ctx.FS.MkdirAll(r.Dest, r.Mode); err != nil {
		return core.Failure(err, "Failed to create destination directory"), err
	}

	switch {
	case strings.HasSuffix(r.Source, ".zip"):
		err = r.unzip(ctx, r.Source, r.Dest)
	case strings.HasSuffix(r.Source, ".tar.gz"), strings.HasSuffix(r.Source, ".tgz"):
		err = r.untar(ctx, r.Source, r.Dest)
	default:
		err = fmt.Errorf("unsupported archive format: %s", r.Source)
		return core.Failure(err, "Unsupported archive format"), err
	}

	if err != nil {
		return core.Failure(err, "Extraction failed"), err
	}

	return core.SuccessChange(fmt.Sprintf("Archive extracted to %s", r.Dest)), nil
}

func (r *ArchiveAdapter) Diff(ctx *core.SystemContext) (string, error) {
	needsAction, err := r.Check(ctx)
	if err != nil || !needsAction {
		return "", err
	}
	return fmt.Sprintf("+ extract %s -> %s (strip %d)", r.Source, r.Dest, r.StripComponents), nil
}

// stripEntry drops the leading StripComponents path elements. ok is false
// when the entry is consumed entirely by stripping (e.g. the top-level
// directory itself).
func (r *ArchiveAdapter) stripEntry(name string) (string, bool) {
	clean := strings.Trim(filepath.ToSlash(name), "/")
	if r.StripComponents == 0 {
		return clean, clean != ""
	}
	parts := strings.Split(clean, "/")
	if len(parts) <= r.StripComponents {
		return "", false
	}
	return strings.Join(parts[r.StripComponents:], "/"), true
}

// safeTarget joins the entry name under dest, rejecting path traversal.
func safeTarget(dest, name string) (string, error) {
	target := filepath.Join(dest, name)
	rel, err := filepath.Rel(dest, target)
	if err != nil || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) || rel == ".." {
		return "", fmt.Errorf("illegal file path: %s", target)
	}
	return target, nil
}

func (r *ArchiveAdapter) unzip(ctx *core.SystemContext, src, dest string) error {
	file, err := ctx.FS.Open(src)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	reader, err := zip.NewReader(file, info.Size())
	if err != nil {
		return err
	}

	for _, f := range reader.File {
		name, ok := r.stripEntry(f.Name)
		if !ok {
			continue
		}
		fpath, err := safeTarget(dest, name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := ctx.FS.MkdirAll(fpath, 0755); err != nil {
				return err
			}
			continue
		}

		if err := ctx.FS.MkdirAll(filepath.Dir(fpath), 0755); err != nil {
			return err
		}

		outFile, err := ctx.FS.Create(fpath)
		if err != nil {
			return err
		}

		rc, err := f.Open()
		if err != nil {
			outFile.Close()
			return err
		}

		_, err = io.Copy(outFile, rc)
		outFile.Close()
		rc.Close()
		if err != nil {
			return err
		}

		if err := ctx.FS.Chmod(fpath, f.Mode()); err != nil {
			return err
		}
	}
	return nil
}

func (r *ArchiveAdapter) untar(ctx *core.SystemContext, src, dest string) error {
	file, err := ctx.FS.Open(src)
	if err != nil {
		return err
	}
	defer file.Close()

	gzr, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer gzr.Close()

	tr := tar.NewReader(gzr)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		name, ok := r.stripEntry(header.Name)
		if !ok {
			continue
		}
		target, err := safeTarget(dest, name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := ctx.FS.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := ctx.FS.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			f, err := ctx.FS.Create(target)
			if err != nil {
				return err
			}
			_, err = io.Copy(f, tr)
			f.Close()
			if err != nil {
				return err
			}
			if err := ctx.FS.Chmod(target, os.FileMode(header.Mode)); err != nil {
				return err
			}
		}
	}
	return nil
}
