// Package memory is the default workspace backend: a mutex-guarded snapshot
// that lives as long as the session owning it.
package memory

import (
	"context"
	"fmt"
	"sync"

	"obras/internal/core"
	"obras/internal/store"
)

type Store struct {
	mu   sync.Mutex
	snap core.Snapshot
}

var _ store.Workspace = (*Store)(nil)

// New returns an empty workspace.
func New() *Store {
	return &Store{}
}

// NewFromSnapshot returns a workspace holding a copy of s.
func NewFromSnapshot(s core.Snapshot) *Store {
	return &Store{snap: clone(s)}
}

// NewSeeded returns a workspace holding the demo data.
func NewSeeded() *Store {
	return NewFromSnapshot(DemoSnapshot())
}

func (s *Store) CreateProject(_ context.Context, p core.Project) (core.Project, error) {
	if p.ID == "" {
		p.ID = core.NewID()
	}
	if err := p.Validate(); err != nil {
		return core.Project{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Projects = append(s.snap.Projects, p)
	return p, nil
}

func (s *Store) GetProject(_ context.Context, id string) (core.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.snap.FindProject(id)
	if !ok {
		return core.Project{}, fmt.Errorf("project %s: %w", id, core.ErrNotFound)
	}
	return p, nil
}

func (s *Store) ListProjects(_ context.Context) ([]core.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Project(nil), s.snap.Projects...), nil
}

func (s *Store) DeleteProject(_ context.Context, id string) (core.CascadeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res, err := core.DeleteProjectCascade(s.snap, id)
	if err != nil {
		return core.CascadeResult{}, err
	}
	s.snap = next
	return res, nil
}

func (s *Store) CreateStage(_ context.Context, st core.Stage) (core.Stage, error) {
	if st.ID == "" {
		st.ID = core.NewID()
	}
	if err := st.Validate(); err != nil {
		return core.Stage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snap.FindProject(st.ProjectID); !ok {
		return core.Stage{}, fmt.Errorf("project %s: %w", st.ProjectID, core.ErrNotFound)
	}
	s.snap.Stages = append(s.snap.Stages, st)
	return st, nil
}

func (s *Store) ListStages(_ context.Context, projectID string) ([]core.Stage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.StagesOf(projectID), nil
}

func (s *Store) SetStageStatus(_ context.Context, id string, status core.StageStatus) (core.Stage, error) {
	if !status.Valid() {
		return core.Stage{}, fmt.Errorf("stage status %q: %w", status, core.ErrInvalidStatus)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.snap.Stages {
		if s.snap.Stages[i].ID == id {
			s.snap.Stages[i].Status = status
			return s.snap.Stages[i], nil
		}
	}
	return core.Stage{}, fmt.Errorf("stage %s: %w", id, core.ErrNotFound)
}

func (s *Store) AddMaterial(_ context.Context, m core.Material) (core.Material, error) {
	if m.ID == "" {
		m.ID = core.NewID()
	}
	if err := m.Validate(); err != nil {
		return core.Material{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snap.FindStage(m.StageID); !ok {
		return core.Material{}, fmt.Errorf("stage %s: %w", m.StageID, core.ErrNotFound)
	}
	s.snap.Materials = append(s.snap.Materials, m)
	return m, nil
}

func (s *Store) DeleteMaterial(_ context.Context, id string) (core.Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.snap.Materials {
		if m.ID == id {
			s.snap.Materials = append(s.snap.Materials[:i:i], s.snap.Materials[i+1:]...)
			return m, nil
		}
	}
	return core.Material{}, fmt.Errorf("material %s: %w", id, core.ErrNotFound)
}

func (s *Store) AddLabor(_ context.Context, l core.Labor) (core.Labor, error) {
	if l.ID == "" {
		l.ID = core.NewID()
	}
	if err := l.Validate(); err != nil {
		return core.Labor{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snap.FindStage(l.StageID); !ok {
		return core.Labor{}, fmt.Errorf("stage %s: %w", l.StageID, core.ErrNotFound)
	}
	s.snap.Labor = append(s.snap.Labor, l)
	return l, nil
}

func (s *Store) DeleteLabor(_ context.Context, id string) (core.Labor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.snap.Labor {
		if l.ID == id {
			s.snap.Labor = append(s.snap.Labor[:i:i], s.snap.Labor[i+1:]...)
			return l, nil
		}
	}
	return core.Labor{}, fmt.Errorf("labor %s: %w", id, core.ErrNotFound)
}

func (s *Store) AddExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	if e.ID == "" {
		e.ID = core.NewID()
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snap.FindProject(e.ProjectID); !ok {
		return core.Expense{}, fmt.Errorf("project %s: %w", e.ProjectID, core.ErrNotFound)
	}
	s.snap.Expenses = append(s.snap.Expenses, e)
	return e, nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.snap.Expenses {
		if e.ID == id {
			s.snap.Expenses = append(s.snap.Expenses[:i:i], s.snap.Expenses[i+1:]...)
			return e, nil
		}
	}
	return core.Expense{}, fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
}

// Snapshot returns a copy; callers may hold it without the lock.
func (s *Store) Snapshot(_ context.Context) (core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.snap), nil
}

func clone(s core.Snapshot) core.Snapshot {
	return core.Snapshot{
		Projects:  append([]core.Project(nil), s.Projects...),
		Stages:    append([]core.Stage(nil), s.Stages...),
		Materials: append([]core.Material(nil), s.Materials...),
		Labor:     append([]core.Labor(nil), s.Labor...),
		Expenses:  append([]core.Expense(nil), s.Expenses...),
	}
}
