package backend

import (
	"context"
	"fmt"
	"sync"

	"obras/internal/storage"
	"obras/internal/store"
	"obras/internal/store/memory"
)

// MemoryProvider keeps one in-memory workspace per session. A released
// session's data is gone for good.
type MemoryProvider struct {
	mu         sync.Mutex
	workspaces map[string]*memory.Store
	seed       bool
}

func NewMemoryProvider(seed bool) *MemoryProvider {
	return &MemoryProvider{workspaces: make(map[string]*memory.Store), seed: seed}
}

// Open creates the workspace of a new session. Opening a live session
// returns its existing workspace.
func (p *MemoryProvider) Open(_ context.Context, sessionID string) (store.Workspace, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("empty session id")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	ws, ok := p.workspaces[sessionID]
	if !ok {
		if p.seed {
			ws = memory.NewSeeded()
		} else {
			ws = memory.New()
		}
		p.workspaces[sessionID] = ws
	}
	return ws, nil
}

// Workspace never creates one: a released session stays released.
func (p *MemoryProvider) Workspace(_ context.Context, sessionID string) (store.Workspace, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ws, ok := p.workspaces[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", sessionID, ErrNoWorkspace)
	}
	return ws, nil
}

func (p *MemoryProvider) Release(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.workspaces, sessionID)
}

func (p *MemoryProvider) Ready(context.Context) error { return nil }

// Len returns the number of live workspaces.
func (p *MemoryProvider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.workspaces)
}

// SharedProvider serves the same SQLite workspace to every session.
type SharedProvider struct {
	repo *storage.SQLiteRepository
}

func NewSharedProvider(repo *storage.SQLiteRepository) *SharedProvider {
	return &SharedProvider{repo: repo}
}

func (p *SharedProvider) Open(context.Context, string) (store.Workspace, error) {
	return p.repo, nil
}

func (p *SharedProvider) Workspace(context.Context, string) (store.Workspace, error) {
	return p.repo, nil
}

func (p *SharedProvider) Release(string) {}

func (p *SharedProvider) Ready(ctx context.Context) error {
	return p.repo.Ping(ctx)
}
