package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"obras/internal/amqp"
	"obras/internal/core"
	"obras/internal/metrics"
	"obras/internal/store"
)

// ReportPublisher sends project report events. *amqp.Client implements it.
type ReportPublisher interface {
	PublishProjectReport(ctx context.Context, msg *amqp.ProjectReportMessage) error
}

// ProjectService orchestrates workspace mutations and report publishing.
// It is cheap to build and is created per request around the session's
// workspace.
type ProjectService struct {
	ws        store.Workspace
	publisher ReportPublisher
	today     func() core.Date
}

func NewProjectService(ws store.Workspace, publisher ReportPublisher) *ProjectService {
	return &ProjectService{ws: ws, publisher: publisher, today: core.Today}
}

// ProjectView is everything the project detail page shows.
type ProjectView struct {
	Project    core.Project
	Financials core.Financials
	Stages     []StageView
	Materials  []core.Material
	Labor      []core.Labor
	Expenses   []core.Expense
	Progress   core.StageProgress
	// StageNames resolves a stage id to its name for cost tables.
	StageNames map[string]string
}

// StageView is a stage with its estimated and actual cost.
type StageView struct {
	core.Stage
	Cost core.StageCost
}

// Dashboard returns the portfolio summary and the projects it covers.
func (s *ProjectService) Dashboard(ctx context.Context) (core.PortfolioSummary, []core.Project, error) {
	snap, err := s.ws.Snapshot(ctx)
	if err != nil {
		return core.PortfolioSummary{}, nil, fmt.Errorf("snapshot: %w", err)
	}
	return core.Portfolio(snap), snap.Projects, nil
}

// Project loads one project with all derived figures.
func (s *ProjectService) Project(ctx context.Context, id string) (ProjectView, error) {
	snap, err := s.ws.Snapshot(ctx)
	if err != nil {
		return ProjectView{}, fmt.Errorf("snapshot: %w", err)
	}
	p, ok := snap.FindProject(id)
	if !ok {
		return ProjectView{}, fmt.Errorf("project %s: %w", id, core.ErrNotFound)
	}
	view := ProjectView{
		Project:    p,
		Financials: core.ComputeFinancials(id, snap),
		Materials:  snap.MaterialsOf(id),
		Labor:      snap.LaborOf(id),
		Expenses:   snap.ExpensesOf(id),
		StageNames: map[string]string{},
	}
	stages := snap.StagesOf(id)
	view.Progress = core.Progress(stages)
	for _, st := range stages {
		view.Stages = append(view.Stages, StageView{Stage: st, Cost: core.StageCosts(st.ID, snap)})
		view.StageNames[st.ID] = st.Name
	}
	return view, nil
}

func (s *ProjectService) CreateProject(ctx context.Context, in ProjectInput) (core.Project, error) {
	p, v := BuildProject(in)
	if !v.Empty() {
		metrics.IncrementValidationFailure("project")
		return core.Project{}, v.Err()
	}
	p, err := s.ws.CreateProject(ctx, p)
	if err != nil {
		return core.Project{}, fmt.Errorf("create project: %w", err)
	}
	s.after(ctx, "project", "create", amqp.EventProjectCreated, p.ID)
	return p, nil
}

// DeleteProject removes the project and everything referencing it.
func (s *ProjectService) DeleteProject(ctx context.Context, id string) (core.CascadeResult, error) {
	p, err := s.ws.GetProject(ctx, id)
	if err != nil {
		return core.CascadeResult{}, err
	}
	res, err := s.ws.DeleteProject(ctx, id)
	if err != nil {
		return core.CascadeResult{}, fmt.Errorf("delete project: %w", err)
	}
	metrics.IncrementMutation("project", "delete")
	s.publish(ctx, amqp.NewProjectReportMessage(amqp.EventProjectDeleted, p, core.Snapshot{}))
	slog.InfoContext(ctx, "Project deleted",
		"component", "service", "project_id", id,
		"stages", res.Stages, "materials", res.Materials, "labor", res.Labor, "expenses", res.Expenses)
	return res, nil
}

func (s *ProjectService) CreateStage(ctx context.Context, projectID string, in StageInput, defaultResponsible string) (core.Stage, error) {
	if _, err := s.ws.GetProject(ctx, projectID); err != nil {
		return core.Stage{}, err
	}
	st, v := BuildStage(projectID, in, defaultResponsible)
	if !v.Empty() {
		metrics.IncrementValidationFailure("stage")
		return core.Stage{}, v.Err()
	}
	st, err := s.ws.CreateStage(ctx, st)
	if err != nil {
		return core.Stage{}, fmt.Errorf("create stage: %w", err)
	}
	s.after(ctx, "stage", "create", amqp.EventStageCreated, projectID)
	return st, nil
}

// SetStageStatus moves a stage to any status; the workflow is unguarded.
func (s *ProjectService) SetStageStatus(ctx context.Context, stageID, status string) (core.Stage, error) {
	st, err := s.ws.SetStageStatus(ctx, stageID, core.StageStatus(status))
	if err != nil {
		if errors.Is(err, core.ErrInvalidStatus) {
			return core.Stage{}, core.Violations{"status": core.CodeInvalidChoice}.Err()
		}
		return core.Stage{}, err
	}
	s.after(ctx, "stage", "status", amqp.EventStageStatus, st.ProjectID)
	return st, nil
}

func (s *ProjectService) AddMaterial(ctx context.Context, projectID string, in MaterialInput) (core.Material, error) {
	m, v := BuildMaterial(in, s.today())
	if !v.Empty() {
		metrics.IncrementValidationFailure("material")
		return core.Material{}, v.Err()
	}
	if err := s.stageBelongsTo(ctx, m.StageID, projectID); err != nil {
		return core.Material{}, err
	}
	m, err := s.ws.AddMaterial(ctx, m)
	if err != nil {
		return core.Material{}, fmt.Errorf("add material: %w", err)
	}
	s.after(ctx, "material", "create", amqp.EventCostAdded, projectID)
	return m, nil
}

// DeleteMaterial removes one material and returns the owning project id.
func (s *ProjectService) DeleteMaterial(ctx context.Context, id string) (string, error) {
	snap, err := s.ws.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	m, err := s.ws.DeleteMaterial(ctx, id)
	if err != nil {
		return "", err
	}
	projectID := projectOfStage(snap, m.StageID)
	s.after(ctx, "material", "delete", amqp.EventCostRemoved, projectID)
	return projectID, nil
}

func (s *ProjectService) AddLabor(ctx context.Context, projectID string, in LaborInput) (core.Labor, error) {
	l, v := BuildLabor(in, s.today())
	if !v.Empty() {
		metrics.IncrementValidationFailure("labor")
		return core.Labor{}, v.Err()
	}
	if err := s.stageBelongsTo(ctx, l.StageID, projectID); err != nil {
		return core.Labor{}, err
	}
	l, err := s.ws.AddLabor(ctx, l)
	if err != nil {
		return core.Labor{}, fmt.Errorf("add labor: %w", err)
	}
	s.after(ctx, "labor", "create", amqp.EventCostAdded, projectID)
	return l, nil
}

// DeleteLabor removes one labor entry and returns the owning project id.
func (s *ProjectService) DeleteLabor(ctx context.Context, id string) (string, error) {
	snap, err := s.ws.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	l, err := s.ws.DeleteLabor(ctx, id)
	if err != nil {
		return "", err
	}
	projectID := projectOfStage(snap, l.StageID)
	s.after(ctx, "labor", "delete", amqp.EventCostRemoved, projectID)
	return projectID, nil
}

func (s *ProjectService) AddExpense(ctx context.Context, projectID string, in ExpenseInput) (core.Expense, error) {
	if _, err := s.ws.GetProject(ctx, projectID); err != nil {
		return core.Expense{}, err
	}
	e, v := BuildExpense(projectID, in, s.today())
	if !v.Empty() {
		metrics.IncrementValidationFailure("expense")
		return core.Expense{}, v.Err()
	}
	e, err := s.ws.AddExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}
	s.after(ctx, "expense", "create", amqp.EventCostAdded, projectID)
	return e, nil
}

// DeleteExpense removes one expense and returns the owning project id.
func (s *ProjectService) DeleteExpense(ctx context.Context, id string) (string, error) {
	e, err := s.ws.DeleteExpense(ctx, id)
	if err != nil {
		return "", err
	}
	s.after(ctx, "expense", "delete", amqp.EventCostRemoved, e.ProjectID)
	return e.ProjectID, nil
}

func (s *ProjectService) stageBelongsTo(ctx context.Context, stageID, projectID string) error {
	stages, err := s.ws.ListStages(ctx, projectID)
	if err != nil {
		return fmt.Errorf("list stages: %w", err)
	}
	for _, st := range stages {
		if st.ID == stageID {
			return nil
		}
	}
	return fmt.Errorf("stage %s of project %s: %w", stageID, projectID, core.ErrNotFound)
}

func projectOfStage(snap core.Snapshot, stageID string) string {
	if st, ok := snap.FindStage(stageID); ok {
		return st.ProjectID
	}
	return ""
}

// after records a successful mutation and publishes the refreshed report.
func (s *ProjectService) after(ctx context.Context, entity, op, event, projectID string) {
	metrics.IncrementMutation(entity, op)
	if s.publisher == nil || projectID == "" {
		return
	}
	snap, err := s.ws.Snapshot(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to read snapshot for report", "component", "service", "error", err)
		return
	}
	p, ok := snap.FindProject(projectID)
	if !ok {
		return
	}
	s.publish(ctx, amqp.NewProjectReportMessage(event, p, snap))
}

// publish never fails the request; the mutation is already stored.
func (s *ProjectService) publish(ctx context.Context, msg *amqp.ProjectReportMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishProjectReport(ctx, msg); err != nil {
		metrics.IncrementEventPublished("failed")
		slog.ErrorContext(ctx, "Failed to publish project report",
			"component", "service", "project_id", msg.ProjectID, "event", msg.Event, "error", err)
		return
	}
	metrics.IncrementEventPublished("success")
}
