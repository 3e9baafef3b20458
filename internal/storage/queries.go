package storage

import (
	"context"
	"database/sql"
	"fmt"

	"obras/internal/core"
)

const (
	insertProject = `INSERT INTO projects
		(id, name, address, responsible, start_date, expected_end_date, total_budget, profit_margin, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	insertStage = `INSERT INTO stages
		(id, project_id, name, estimated_cost, status, responsible, deadline)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	insertMaterial = `INSERT INTO materials
		(id, stage_id, name, unit, quantity, unit_price, supplier, purchase_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	insertLabor = `INSERT INTO labor
		(id, stage_id, role, worker_name, hourly_rate, hours_worked, work_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	insertExpense = `INSERT INTO expenses
		(id, project_id, description, category, amount, expense_date)
		VALUES (?, ?, ?, ?, ?, ?)`

	selectProjects = `SELECT id, name, address, responsible, start_date, expected_end_date,
		total_budget, profit_margin, status FROM projects`
	selectStages    = `SELECT id, project_id, name, estimated_cost, status, responsible, deadline FROM stages`
	selectMaterials = `SELECT id, stage_id, name, unit, quantity, unit_price, supplier, purchase_date FROM materials`
	selectLabor     = `SELECT id, stage_id, role, worker_name, hourly_rate, hours_worked, work_date FROM labor`
	selectExpenses  = `SELECT id, project_id, description, category, amount, expense_date FROM expenses`
)

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (core.Project, error) {
	var (
		p          core.Project
		start, end string
		status     string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Address, &p.Responsible, &start, &end,
		&p.TotalBudget.Cents, &p.ProfitMargin, &status); err != nil {
		return core.Project{}, err
	}
	var err error
	if p.StartDate, err = parseStoredDate(start); err != nil {
		return core.Project{}, err
	}
	if p.ExpectedEndDate, err = parseStoredDate(end); err != nil {
		return core.Project{}, err
	}
	p.Status = core.ProjectStatus(status)
	return p, nil
}

func scanStage(row scanner) (core.Stage, error) {
	var (
		st       core.Stage
		status   string
		deadline string
	)
	if err := row.Scan(&st.ID, &st.ProjectID, &st.Name, &st.EstimatedCost.Cents, &status,
		&st.Responsible, &deadline); err != nil {
		return core.Stage{}, err
	}
	st.Status = core.StageStatus(status)
	var err error
	if st.Deadline, err = parseStoredDate(deadline); err != nil {
		return core.Stage{}, err
	}
	return st, nil
}

func scanMaterial(row scanner) (core.Material, error) {
	var (
		m         core.Material
		qty, date string
	)
	if err := row.Scan(&m.ID, &m.StageID, &m.Name, &m.Unit, &qty, &m.UnitPrice.Cents,
		&m.Supplier, &date); err != nil {
		return core.Material{}, err
	}
	q, err := parseStoredDecimal(qty)
	if err != nil {
		return core.Material{}, err
	}
	m.Quantity = q
	if m.PurchaseDate, err = parseStoredDate(date); err != nil {
		return core.Material{}, err
	}
	return m, nil
}

func scanLabor(row scanner) (core.Labor, error) {
	var (
		l           core.Labor
		hours, date string
	)
	if err := row.Scan(&l.ID, &l.StageID, &l.Role, &l.WorkerName, &l.HourlyRate.Cents, &hours, &date); err != nil {
		return core.Labor{}, err
	}
	h, err := parseStoredDecimal(hours)
	if err != nil {
		return core.Labor{}, err
	}
	l.HoursWorked = h
	if l.Date, err = parseStoredDate(date); err != nil {
		return core.Labor{}, err
	}
	return l, nil
}

func scanExpense(row scanner) (core.Expense, error) {
	var (
		e              core.Expense
		category, date string
	)
	if err := row.Scan(&e.ID, &e.ProjectID, &e.Description, &category, &e.Amount.Cents, &date); err != nil {
		return core.Expense{}, err
	}
	e.Category = core.ExpenseCategory(category)
	var err error
	if e.Date, err = parseStoredDate(date); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

func collect[T any](rows *sql.Rows, scan func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func queryAll[T any](ctx context.Context, tx *sql.Tx, query string, scan func(scanner) (T, error)) ([]T, error) {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return collect(rows, scan)
}
