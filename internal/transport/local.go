package transport

import (
	"context"
	"os"
	"os/exec"

	"github.com/bkocaman/stagehand/internal/core"
)

// Local executes commands on the controller itself through the shell.
type Local struct{}

func NewLocal() *Local {
	return &Local{}
}

func (t *Local) Execute(ctx context.Context, cmd string) (string, error) {
	out, err := exec.CommandContext(ctx, "sh", "-c", cmd).CombinedOutput()
	return string(out), err
}

func (t *Local) CopyFile(ctx context.Context, localPath, remotePath string) error {
	info, err := os.Stat(localPath)
	if err != nil {
		return err
	}
	return core.CopyFile(&core.RealFS{}, localPath, remotePath, info.Mode().Perm())
}

func (t *Local) Close() error {
	return nil
}

var _ core.Transport = (*Local)(nil)
