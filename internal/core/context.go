package core

import (
	"context"
	"os"
)

// SystemContext carries the runtime context of a run. It wraps the standard
// Go context and adds the fields resources need: target facts, variables,
// the transport to reach the target and the filesystem abstraction.
type SystemContext struct {
	context.Context

	// Target facts
	OS       string // linux, darwin
	Distro   string // ubuntu, fedora, arch
	Version  string // 22.04, 38
	Hostname string

	// Current user on the controller
	User    string
	HomeDir string

	// Vars are playbook variables, available to templates and conditions.
	Vars map[string]string

	// DryRun simulates everything, nothing is changed.
	DryRun bool

	// TxID is the id of the transaction currently being recorded.
	TxID string

	FS        FileSystem
	Transport Transport
	Logger    Logger
}

// NewSystemContext creates a context with sane defaults. A nil transport or
// logger is allowed; callers that only need the filesystem (or tests using
// mock resources) can leave them unset.
func NewSystemContext(dryRun bool, transport Transport, logger Logger) *SystemContext {
	if logger == nil {
		logger = NewDefaultLogger(os.Stderr, LevelInfo)
	}
	return &SystemContext{
		Context:   context.Background(),
		OS:        "unknown",
		Distro:    "unknown",
		User:      os.Getenv("USER"),
		HomeDir:   os.Getenv("HOME"),
		Vars:      make(map[string]string),
		DryRun:    dryRun,
		FS:        &RealFS{},
		Transport: transport,
		Logger:    logger,
	}
}
