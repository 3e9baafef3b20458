package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"obras/internal/core"
	"obras/internal/store"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is a single shared workspace persisted in a SQLite file.
type SQLiteRepository struct {
	db *sql.DB
}

var _ store.Workspace = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows one writer; serializing here avoids SQLITE_BUSY under load.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Seed loads s into an empty database. A database that already holds
// projects is left alone.
func (r *SQLiteRepository) Seed(ctx context.Context, s core.Snapshot) error {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n); err != nil {
		return fmt.Errorf("count projects: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, p := range s.Projects {
		if _, err := r.CreateProject(ctx, p); err != nil {
			return err
		}
	}
	for _, st := range s.Stages {
		if _, err := r.CreateStage(ctx, st); err != nil {
			return err
		}
	}
	for _, m := range s.Materials {
		if _, err := r.AddMaterial(ctx, m); err != nil {
			return err
		}
	}
	for _, l := range s.Labor {
		if _, err := r.AddLabor(ctx, l); err != nil {
			return err
		}
	}
	for _, e := range s.Expenses {
		if _, err := r.AddExpense(ctx, e); err != nil {
			return err
		}
	}
	slog.InfoContext(ctx, "Seeded demo data", "component", "storage", "projects", len(s.Projects))
	return nil
}

func (r *SQLiteRepository) CreateProject(ctx context.Context, p core.Project) (core.Project, error) {
	if p.ID == "" {
		p.ID = core.NewID()
	}
	if err := p.Validate(); err != nil {
		return core.Project{}, err
	}
	_, err := r.db.ExecContext(ctx, insertProject,
		p.ID, p.Name, p.Address, p.Responsible, p.StartDate.String(), p.ExpectedEndDate.String(),
		p.TotalBudget.Cents, p.ProfitMargin, string(p.Status))
	if err != nil {
		return core.Project{}, fmt.Errorf("insert project: %w", err)
	}
	slog.InfoContext(ctx, "Project saved to SQLite", "id", p.ID, "name", p.Name, "budget_cents", p.TotalBudget.Cents)
	return p, nil
}

func (r *SQLiteRepository) GetProject(ctx context.Context, id string) (core.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, selectProjects+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Project{}, fmt.Errorf("project %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Project{}, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) ListProjects(ctx context.Context) ([]core.Project, error) {
	rows, err := r.db.QueryContext(ctx, selectProjects+` ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return collect(rows, scanProject)
}

// DeleteProject removes the project and its dependents in one transaction.
func (r *SQLiteRepository) DeleteProject(ctx context.Context, id string) (core.CascadeResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.CascadeResult{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res := core.CascadeResult{ProjectID: id}
	steps := []struct {
		query string
		count *int
	}{
		{`DELETE FROM materials WHERE stage_id IN (SELECT id FROM stages WHERE project_id = ?)`, &res.Materials},
		{`DELETE FROM labor WHERE stage_id IN (SELECT id FROM stages WHERE project_id = ?)`, &res.Labor},
		{`DELETE FROM stages WHERE project_id = ?`, &res.Stages},
		{`DELETE FROM expenses WHERE project_id = ?`, &res.Expenses},
	}
	for _, s := range steps {
		n, err := execCount(ctx, tx, s.query, id)
		if err != nil {
			return core.CascadeResult{}, err
		}
		*s.count = n
	}
	n, err := execCount(ctx, tx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return core.CascadeResult{}, err
	}
	if n == 0 {
		return core.CascadeResult{}, fmt.Errorf("project %s: %w", id, core.ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return core.CascadeResult{}, fmt.Errorf("commit: %w", err)
	}
	slog.InfoContext(ctx, "Project deleted with cascade",
		"id", id, "stages", res.Stages, "materials", res.Materials, "labor", res.Labor, "expenses", res.Expenses)
	return res, nil
}

func (r *SQLiteRepository) CreateStage(ctx context.Context, st core.Stage) (core.Stage, error) {
	if st.ID == "" {
		st.ID = core.NewID()
	}
	if err := st.Validate(); err != nil {
		return core.Stage{}, err
	}
	if err := r.exists(ctx, "projects", st.ProjectID); err != nil {
		return core.Stage{}, err
	}
	_, err := r.db.ExecContext(ctx, insertStage,
		st.ID, st.ProjectID, st.Name, st.EstimatedCost.Cents, string(st.Status), st.Responsible, st.Deadline.String())
	if err != nil {
		return core.Stage{}, fmt.Errorf("insert stage: %w", err)
	}
	return st, nil
}

func (r *SQLiteRepository) ListStages(ctx context.Context, projectID string) ([]core.Stage, error) {
	rows, err := r.db.QueryContext(ctx, selectStages+` WHERE project_id = ? ORDER BY rowid`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	return collect(rows, scanStage)
}

func (r *SQLiteRepository) SetStageStatus(ctx context.Context, id string, status core.StageStatus) (core.Stage, error) {
	if !status.Valid() {
		return core.Stage{}, fmt.Errorf("stage status %q: %w", status, core.ErrInvalidStatus)
	}
	n, err := execCount(ctx, r.db, `UPDATE stages SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return core.Stage{}, err
	}
	if n == 0 {
		return core.Stage{}, fmt.Errorf("stage %s: %w", id, core.ErrNotFound)
	}
	st, err := scanStage(r.db.QueryRowContext(ctx, selectStages+` WHERE id = ?`, id))
	if err != nil {
		return core.Stage{}, fmt.Errorf("reload stage: %w", err)
	}
	return st, nil
}

func (r *SQLiteRepository) AddMaterial(ctx context.Context, m core.Material) (core.Material, error) {
	if m.ID == "" {
		m.ID = core.NewID()
	}
	if err := m.Validate(); err != nil {
		return core.Material{}, err
	}
	if err := r.exists(ctx, "stages", m.StageID); err != nil {
		return core.Material{}, err
	}
	_, err := r.db.ExecContext(ctx, insertMaterial,
		m.ID, m.StageID, m.Name, m.Unit, m.Quantity.String(), m.UnitPrice.Cents, m.Supplier, m.PurchaseDate.String())
	if err != nil {
		return core.Material{}, fmt.Errorf("insert material: %w", err)
	}
	return m, nil
}

func (r *SQLiteRepository) DeleteMaterial(ctx context.Context, id string) (core.Material, error) {
	m, err := scanMaterial(r.db.QueryRowContext(ctx, selectMaterials+` WHERE id = ?`, id))
	if err != nil {
		return core.Material{}, notFound("material", id, err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM materials WHERE id = ?`, id); err != nil {
		return core.Material{}, fmt.Errorf("delete material: %w", err)
	}
	return m, nil
}

func (r *SQLiteRepository) AddLabor(ctx context.Context, l core.Labor) (core.Labor, error) {
	if l.ID == "" {
		l.ID = core.NewID()
	}
	if err := l.Validate(); err != nil {
		return core.Labor{}, err
	}
	if err := r.exists(ctx, "stages", l.StageID); err != nil {
		return core.Labor{}, err
	}
	_, err := r.db.ExecContext(ctx, insertLabor,
		l.ID, l.StageID, l.Role, l.WorkerName, l.HourlyRate.Cents, l.HoursWorked.String(), l.Date.String())
	if err != nil {
		return core.Labor{}, fmt.Errorf("insert labor: %w", err)
	}
	return l, nil
}

func (r *SQLiteRepository) DeleteLabor(ctx context.Context, id string) (core.Labor, error) {
	l, err := scanLabor(r.db.QueryRowContext(ctx, selectLabor+` WHERE id = ?`, id))
	if err != nil {
		return core.Labor{}, notFound("labor", id, err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM labor WHERE id = ?`, id); err != nil {
		return core.Labor{}, fmt.Errorf("delete labor: %w", err)
	}
	return l, nil
}

func (r *SQLiteRepository) AddExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.ID == "" {
		e.ID = core.NewID()
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	if err := r.exists(ctx, "projects", e.ProjectID); err != nil {
		return core.Expense{}, err
	}
	_, err := r.db.ExecContext(ctx, insertExpense,
		e.ID, e.ProjectID, e.Description, string(e.Category), e.Amount.Cents, e.Date.String())
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) (core.Expense, error) {
	e, err := scanExpense(r.db.QueryRowContext(ctx, selectExpenses+` WHERE id = ?`, id))
	if err != nil {
		return core.Expense{}, notFound("expense", id, err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return core.Expense{}, fmt.Errorf("delete expense: %w", err)
	}
	return e, nil
}

// Snapshot reads every table inside one transaction.
func (r *SQLiteRepository) Snapshot(ctx context.Context) (core.Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var s core.Snapshot
	if s.Projects, err = queryAll(ctx, tx, selectProjects+` ORDER BY rowid`, scanProject); err != nil {
		return core.Snapshot{}, err
	}
	if s.Stages, err = queryAll(ctx, tx, selectStages+` ORDER BY rowid`, scanStage); err != nil {
		return core.Snapshot{}, err
	}
	if s.Materials, err = queryAll(ctx, tx, selectMaterials+` ORDER BY rowid`, scanMaterial); err != nil {
		return core.Snapshot{}, err
	}
	if s.Labor, err = queryAll(ctx, tx, selectLabor+` ORDER BY rowid`, scanLabor); err != nil {
		return core.Snapshot{}, err
	}
	if s.Expenses, err = queryAll(ctx, tx, selectExpenses+` ORDER BY rowid`, scanExpense); err != nil {
		return core.Snapshot{}, err
	}
	return s, nil
}

func (r *SQLiteRepository) exists(ctx context.Context, table, id string) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", table, id, core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("check %s: %w", table, err)
	}
	return nil
}

func notFound(kind, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, id, core.ErrNotFound)
	}
	return fmt.Errorf("get %s: %w", kind, err)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func execCount(ctx context.Context, db execer, query string, args ...any) (int, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("exec: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

// parseStoredDate reads a date column; an empty column is an unset date.
func parseStoredDate(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, nil
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}, fmt.Errorf("stored date %q: %w", s, err)
	}
	return d, nil
}

func parseStoredDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("stored decimal %q: %w", s, err)
	}
	return d, nil
}
