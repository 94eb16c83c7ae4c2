package core

import "context"

// Transport abstracts how commands and files reach the target host: local
// shell, SSH session or an exec into an ephemeral container.
type Transport interface {
	// Execute runs a shell command on the target and returns its combined
	// output.
	Execute(ctx context.Context, cmd string) (string, error)
	// CopyFile places a local file on the target.
	CopyFile(ctx context.Context, localPath, remotePath string) error
	Close() error
}
