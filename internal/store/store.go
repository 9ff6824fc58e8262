package store

import (
	"context"
	"time"
)

// RunKind distinguishes scope runs from orchestrator runs.
type RunKind string

const (
	KindScope  RunKind = "scope"
	KindGlobal RunKind = "global"
)

// RunRecord is one persisted audit run.
type RunRecord struct {
	ID           string    `json:"id"`
	Kind         RunKind   `json:"kind"`
	Scope        string    `json:"scope,omitempty"`
	FailCount    int       `json:"fail_count"`
	WarningCount int       `json:"warning_count"`
	ReportPath   string    `json:"report_path"`
	Detail       string    `json:"detail,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Kind         RunKind   `json:"kind,omitempty"`
	Scope        string    `json:"scope,omitempty"`
	CreatedAfter time.Time `json:"created_after,omitempty"`
	Limit        int       `json:"limit,omitempty"`
}

// Store persists audit run history.
type Store interface {
	RecordRun(ctx context.Context, run RunRecord) error
	GetRun(ctx context.Context, id string) (*RunRecord, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]RunRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
