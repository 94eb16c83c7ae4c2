package transport

import (
	"context"
	"fmt"

	"github.com/bkocaman/stagehand/internal/core"
)

// Container routes commands into a running container via the container
// engine CLI (docker or podman). The scenario harness uses it so the same
// engine that provisions real hosts converges the ephemeral test target.
type Container struct {
	// Binary is the container engine executable, "docker" or "podman".
	Binary string
	// Name is the container to exec into.
	Name string
	// Host is the transport the container engine itself is reached over.
	Host core.Transport
}

func NewContainer(binary, name string, host core.Transport) *Container {
	if host == nil {
		host = NewLocal()
	}
	return &Container{Binary: binary, Name: name, Host: host}
}

func (t *Container) Execute(ctx context.Context, cmd string) (string, error) {
	return t.Host.Execute(ctx, fmt.Sprintf("%s exec %s sh -c %s", t.Binary, t.Name, shellQuote(cmd)))
}

func (t *Container) CopyFile(ctx context.Context, localPath, remotePath string) error {
	_, err := t.Host.Execute(ctx, fmt.Sprintf("%s cp %s %s:%s", t.Binary, shellQuote(localPath), t.Name, remotePath))
	return err
}

func (t *Container) Close() error {
	return nil
}

// shellQuote single-quotes a string for sh, escaping embedded quotes.
func shellQuote(s string) string {
	out := "'"
	for _, r := range s {
		if r == '\'' {
			out += `'\''`
			continue
		}
		out += string(r)
	}
	return out + "'"
}

var _ core.Transport = (*Container)(nil)
