package transport

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/bkocaman/stagehand/internal/core"
)

// SSHOptions describes how to reach a remote target.
type SSHOptions struct {
	Address  string
	User     string
	Port     int
	KeyPath  string
	Password string
}

// SSH manages all communication with a remote host.
type SSH struct {
	client *ssh.Client
	opts   SSHOptions
}

// NewSSH opens a verified SSH connection to the given host. The server key
// must already be present in ~/.ssh/known_hosts; there is no insecure
// fallback.
func NewSSH(opts SSHOptions) (*SSH, error) {
	var authMethods []ssh.AuthMethod

	if opts.KeyPath != "" {
		key, err := os.ReadFile(opts.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("cannot read ssh key %s: %w", opts.KeyPath, err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("cannot parse ssh key %s: %w", opts.KeyPath, err)
		}
		authMethods = append(authMethods, ssh.PublicKeys(signer))
	}
	if opts.Password != "" {
		authMethods = append(authMethods, ssh.Password(opts.Password))
	}
	if len(authMethods) == 0 {
		return nil, fmt.Errorf("host %s: no ssh authentication configured", opts.Address)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot resolve home directory: %w", err)
	}
	knownHostsPath := filepath.Join(homeDir, ".ssh", "known_hosts")

	hostKeyCallback, err := knownhosts.New(knownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("cannot load known_hosts (%s): %w; connect once with ssh to record the host key", knownHostsPath, err)
	}

	clientConfig := &ssh.ClientConfig{
		User:            opts.User,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
		Timeout:         15 * time.Second,
	}

	port := opts.Port
	if port == 0 {
		port = 22
	}

	addr := fmt.Sprintf("%s:%d", opts.Address, port)
	client, err := ssh.Dial("tcp", addr, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("ssh connection to %s failed: %w", addr, err)
	}

	return &SSH{client: client, opts: opts}, nil
}

// Execute runs a command on the remote host and returns its combined
// output.
func (t *SSH) Execute(ctx context.Context, cmd string) (string, error) {
	session, err := t.client.NewSession()
	if err != nil {
		return "", err
	}
	defer session.Close()

	var out bytes.Buffer
	session.Stdout = &out
	session.Stderr = &out

	done := make(chan error, 1)
	go func() { done <- session.Run(cmd) }()

	select {
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		return out.String(), ctx.Err()
	case err := <-done:
		return out.String(), err
	}
}

// CopyFile uploads a local file to the remote host over SFTP.
func (t *SSH) CopyFile(ctx context.Context, localPath, remotePath string) error {
	return sftpCopy(t.client, localPath, remotePath)
}

// RemoteSystemInfo reports the remote OS and architecture in GOOS/GOARCH
// terms.
func (t *SSH) RemoteSystemInfo(ctx context.Context) (string, string, error) {
	osOut, err := t.Execute(ctx, "uname -s")
	if err != nil {
		return "", "", err
	}
	archOut, err := t.Execute(ctx, "uname -m")
	if err != nil {
		return "", "", err
	}
	return normalizeOS(osOut), normalizeArch(archOut), nil
}

// Close shuts the SSH connection down.
func (t *SSH) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}

var _ core.Transport = (*SSH)(nil)
