package state

import "time"

// TransactionChange represents a single change within a transaction.
type TransactionChange struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Action string `json:"action"`
	Target string `json:"target,omitempty"`
}

// Transaction represents one apply run.
type Transaction struct {
	ID        string              `json:"id"`
	Timestamp time.Time           `json:"timestamp"`
	Status    string              `json:"status"` // success, failed
	Changes   []TransactionChange `json:"changes"`
}

// History is the on-disk run log.
type History struct {
	Version string        `json:"version"`
	LastRun time.Time     `json:"last_run"`
	Runs    []Transaction `json:"runs,omitempty"`
}

func NewHistory() *History {
	return &History{Version: "1.0"}
}
