// Package system fills target facts by probing over the transport, so the
// same detection works for local runs, SSH hosts and containers.
package system

import (
	"strings"

	"github.com/bkocaman/stagehand/internal/core"
)

// Detect probes the target behind the context's transport and fills in its
// facts. Probe failures leave the corresponding fact untouched; a target
// without /etc/os-release is still usable.
func Detect(ctx *core.SystemContext) error {
	if ctx.Transport == nil {
		return nil
	}

	if out, err := ctx.Transport.Execute(ctx.Context, "uname -s"); err == nil {
		ctx.OS = strings.ToLower(strings.TrimSpace(out))
	}

	if out, err := ctx.Transport.Execute(ctx.Context, "cat /etc/os-release"); err == nil {
		id, version := parseOSRelease(out)
		if id != "" {
			ctx.Distro = id
		}
		if version != "" {
			ctx.Version = version
		}
	}

	if out, err := ctx.Transport.Execute(ctx.Context, "hostname"); err == nil {
		ctx.Hostname = strings.TrimSpace(out)
	}

	return nil
}

// parseOSRelease extracts ID and VERSION_ID from os-release content.
func parseOSRelease(content string) (id, version string) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		value = strings.Trim(value, `"`)
		switch key {
		case "ID":
			id = value
		case "VERSION_ID":
			version = value
		}
	}
	return id, version
}
