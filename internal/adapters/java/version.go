// Package java holds runtime checks for the Java application server
// playbooks.
package java

import (
	"fmt"
	"strings"

	"github.com/bkocaman/stagehand/internal/core"
)

const (
	// DefaultMarker is the JDK version the application server is certified
	// against.
	DefaultMarker = "1.8.0"

	// java -version writes the banner to stderr; fold it into stdout.
	defaultCommand = "java -version 2>&1"
)

func init() {
	core.RegisterResource("java_version", func(name string, params map[string]interface{}, ctx *core.SystemContext) (core.Resource, error) {
		return NewVersionAdapter(name, params), nil
	})
}

// VersionAdapter asserts that the installed runtime reports a version
// containing the required marker. It never changes the system: a match is a
// no-op, anything else fails the run.
type VersionAdapter struct {
	core.BaseResource
	Command string
	Marker  string
}

func NewVersionAdapter(name string, params map[string]interface{}) core.Resource {
	command, _ := params["command"].(string)
	if command == "" {
		command = defaultCommand
	}
	marker, _ := params["contains"].(string)
	if marker == "" {
		marker = DefaultMarker
	}
	return &VersionAdapter{
		BaseResource: core.BaseResource{Name: name, Type: "java_version"},
		Command:      command,
		Marker:       marker,
	}
}

func (r *VersionAdapter) Validate(ctx *core.SystemContext) error {
	if strings.TrimSpace(r.Marker) == "" {
		return fmt.Errorf("version marker is required")
	}
	return nil
}

// reported runs the version command and returns its first output line.
func (r *VersionAdapter) reported(ctx *core.SystemContext) (string, error) {
	out, err := ctx.Transport.Execute(ctx.Context, r.Command)
	if err != nil {
		return "", fmt.Errorf("version command %q failed: %w, output: %s", r.Command, err, strings.TrimSpace(out))
	}
	return strings.TrimSpace(out), nil
}

func (r *VersionAdapter) Check(ctx *core.SystemContext) (bool, error) {
	out, err := r.reported(ctx)
	if err != nil {
		return false, err
	}
	if !strings.Contains(out, r.Marker) {
		return false, fmt.Errorf("installed runtime reports %q, required marker %q not found", firstLine(out), r.Marker)
	}
	return false, nil
}

func (r *VersionAdapter) Apply(ctx *core.SystemContext) (core.Result, error) {
	// The assertion is read-only, so it also runs in dry-run mode.
	out, err := r.reported(ctx)
	if err != nil {
		return core.Failure(err, "Version check failed"), err
	}

	if !strings.Contains(out, r.Marker) {
		err := fmt.Errorf("installed runtime reports %q, required marker %q not found", firstLine(out), r.Marker)
		return core.Failure(err, "Version mismatch"), err
	}

	return core.SuccessNoChange(fmt.Sprintf("Runtime version contains %s", r.Marker)), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
