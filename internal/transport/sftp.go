package transport

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// sftpCopy uploads a local file over an existing SSH connection, creating
// the remote parent directory when needed and preserving the mode.
func sftpCopy(client *ssh.Client, localPath, remotePath string) error {
	sc, err := sftp.NewClient(client)
	if err != nil {
		return err
	}
	defer sc.Close()

	src, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(remotePath); dir != "." && dir != "/" {
		if err := sc.MkdirAll(dir); err != nil {
			return err
		}
	}

	dst, err := sc.Create(remotePath)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return sc.Chmod(remotePath, info.Mode().Perm())
}

func normalizeOS(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func normalizeArch(raw string) string {
	switch strings.TrimSpace(raw) {
	case "x86_64":
		return "amd64"
	case "aarch64", "arm64":
		return "arm64"
	case "i386", "i686":
		return "386"
	default:
		return "amd64"
	}
}
