// Package store defines the persistence ports of a workspace: the set of
// projects and cost entries owned by one session (memory backend) or shared
// by everyone (sqlite backend).
package store

import (
	"context"

	"obras/internal/core"
)

type (
	ProjectStore interface {
		CreateProject(ctx context.Context, p core.Project) (core.Project, error)
		GetProject(ctx context.Context, id string) (core.Project, error)
		ListProjects(ctx context.Context) ([]core.Project, error)
		// DeleteProject removes the project and everything that references it.
		DeleteProject(ctx context.Context, id string) (core.CascadeResult, error)
	}

	StageStore interface {
		CreateStage(ctx context.Context, s core.Stage) (core.Stage, error)
		ListStages(ctx context.Context, projectID string) ([]core.Stage, error)
		SetStageStatus(ctx context.Context, id string, status core.StageStatus) (core.Stage, error)
	}

	CostStore interface {
		AddMaterial(ctx context.Context, m core.Material) (core.Material, error)
		DeleteMaterial(ctx context.Context, id string) (core.Material, error)
		AddLabor(ctx context.Context, l core.Labor) (core.Labor, error)
		DeleteLabor(ctx context.Context, id string) (core.Labor, error)
		AddExpense(ctx context.Context, e core.Expense) (core.Expense, error)
		DeleteExpense(ctx context.Context, id string) (core.Expense, error)
	}

	// SnapshotReader returns a consistent copy of the whole workspace, the
	// input of every financial computation.
	SnapshotReader interface {
		Snapshot(ctx context.Context) (core.Snapshot, error)
	}

	Workspace interface {
		ProjectStore
		StageStore
		CostStore
		SnapshotReader
	}
)
