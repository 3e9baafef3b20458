package backend

import (
	"context"
	"errors"

	"obras/internal/services"
	"obras/internal/store"
)

// ErrNoWorkspace is returned for a session that was never opened or has
// been released.
var ErrNoWorkspace = errors.New("no workspace for session")

// Provider hands out the workspace a session works on.
type Provider interface {
	// Open creates the workspace of sessionID at login.
	Open(ctx context.Context, sessionID string) (store.Workspace, error)
	// Workspace returns the workspace of an opened session or ErrNoWorkspace.
	Workspace(ctx context.Context, sessionID string) (store.Workspace, error)
	// Release forgets sessionID. Shared backends ignore it.
	Release(sessionID string)
	// Ready reports whether the backend can serve requests.
	Ready(ctx context.Context) error
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult is everything the web server needs from the backend.
// Publisher is nil when report events are disabled.
type BackendResult struct {
	Provider  Provider
	Publisher services.ReportPublisher
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type Config struct {
	Type BackendType

	SQLiteDBPath string
	SeedDemoData bool

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
