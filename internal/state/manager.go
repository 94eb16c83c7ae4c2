package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bkocaman/stagehand/internal/core"
)

// FileSystem defines the minimum operations required for storage. It
// matches the core FileSystem methods used here.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
}

// Manager reads and writes the run history file.
type Manager struct {
	FilePath string
	Current  *History
	FS       FileSystem
	mu       sync.RWMutex
}

// DefaultPath returns the history file location. STAGEHAND_HOME overrides
// the base directory.
func DefaultPath() string {
	base := os.Getenv("STAGEHAND_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		base = filepath.Join(home, ".stagehand")
	}
	return filepath.Join(base, "history.json")
}

// NewManager creates a manager and loads the existing history file if
// present. A missing file is not an error, the history starts empty.
func NewManager(path string, fs FileSystem) *Manager {
	if path == "" {
		path = DefaultPath()
	}
	mgr := &Manager{
		FilePath: path,
		Current:  NewHistory(),
		FS:       fs,
	}
	_ = mgr.Load()
	return mgr
}

// Load reads the history file.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := m.FS.ReadFile(m.FilePath)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, m.Current)
}

// Save writes the history to disk.
func (m *Manager) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.Current.LastRun = time.Now()

	data, err := json.MarshalIndent(m.Current, "", "  ")
	if err != nil {
		return err
	}

	if err := m.FS.MkdirAll(filepath.Dir(m.FilePath), 0755); err != nil {
		return err
	}
	return m.FS.WriteFile(m.FilePath, data, 0644)
}

// Record implements core.RunRecorder.
func (m *Manager) Record(runID string, status string, changes []core.ChangeRecord) error {
	tx := Transaction{
		ID:        runID,
		Timestamp: time.Now(),
		Status:    status,
	}
	for _, c := range changes {
		tx.Changes = append(tx.Changes, TransactionChange{
			Type:   c.Type,
			Name:   c.Name,
			Action: c.Action,
			Target: c.Target,
		})
	}

	m.mu.Lock()
	m.Current.Runs = append(m.Current.Runs, tx)
	m.mu.Unlock()

	return m.Save()
}

// Runs returns a copy of the recorded runs, newest last.
func (m *Manager) Runs() []Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	runs := make([]Transaction, len(m.Current.Runs))
	copy(runs, m.Current.Runs)
	return runs
}

// Run finds a recorded run by id.
func (m *Manager) Run(id string) (Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, tx := range m.Current.Runs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return Transaction{}, fmt.Errorf("run not found: %s", id)
}

var _ core.RunRecorder = (*Manager)(nil)
