package services

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"obras/internal/core"
)

// Form inputs hold raw submitted strings keyed the same way as the
// violation field names.
type (
	ProjectInput struct {
		Name            string
		Address         string
		Responsible     string
		StartDate       string
		ExpectedEndDate string
		TotalBudget     string
		ProfitMargin    string
	}

	StageInput struct {
		Name          string
		EstimatedCost string
		Responsible   string
		Deadline      string
	}

	MaterialInput struct {
		StageID      string
		Name         string
		Unit         string
		Quantity     string
		UnitPrice    string
		Supplier     string
		PurchaseDate string
	}

	LaborInput struct {
		StageID     string
		Role        string
		WorkerName  string
		HourlyRate  string
		HoursWorked string
		Date        string
	}

	ExpenseInput struct {
		Description string
		Category    string
		Amount      string
		Date        string
	}
)

// Default unit of a material when none is given.
const DefaultUnit = "un"

// SanitizeText trims s and drops control characters.
func SanitizeText(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// BuildProject converts a submitted project form. Syntax problems are
// collected in the returned violations; entity rules are checked by
// core.Project.Validate afterwards.
func BuildProject(in ProjectInput) (core.Project, core.Violations) {
	v := core.Violations{}
	p := core.Project{
		Name:         SanitizeText(in.Name),
		Address:      SanitizeText(in.Address),
		Responsible:  SanitizeText(in.Responsible),
		ProfitMargin: core.DefaultProfitMargin,
		Status:       core.ProjectPlanning,
	}
	p.TotalBudget = money(v, "total_budget", in.TotalBudget)
	p.StartDate = optionalDate(v, "start_date", in.StartDate)
	p.ExpectedEndDate = optionalDate(v, "expected_end_date", in.ExpectedEndDate)
	if s := strings.TrimSpace(in.ProfitMargin); s != "" {
		m, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil || math.IsNaN(m) || math.IsInf(m, 0) {
			v.Add("profit_margin", core.CodeInvalidNumber)
		} else {
			p.ProfitMargin = m
		}
	}
	mergeViolations(v, p.Validate())
	return p, v
}

func BuildStage(projectID string, in StageInput, defaultResponsible string) (core.Stage, core.Violations) {
	v := core.Violations{}
	st := core.Stage{
		ProjectID:   projectID,
		Name:        SanitizeText(in.Name),
		Responsible: SanitizeText(in.Responsible),
		Status:      core.StagePending,
	}
	if st.Responsible == "" {
		st.Responsible = defaultResponsible
	}
	st.EstimatedCost = money(v, "estimated_cost", in.EstimatedCost)
	st.Deadline = optionalDate(v, "deadline", in.Deadline)
	mergeViolations(v, st.Validate())
	return st, v
}

func BuildMaterial(in MaterialInput, today core.Date) (core.Material, core.Violations) {
	v := core.Violations{}
	m := core.Material{
		StageID:  strings.TrimSpace(in.StageID),
		Name:     SanitizeText(in.Name),
		Unit:     SanitizeText(in.Unit),
		Supplier: SanitizeText(in.Supplier),
	}
	if m.Unit == "" {
		m.Unit = DefaultUnit
	}
	m.Quantity = quantity(v, "quantity", in.Quantity)
	m.UnitPrice = money(v, "unit_price", in.UnitPrice)
	m.PurchaseDate = date(v, "purchase_date", in.PurchaseDate, today)
	mergeViolations(v, m.Validate())
	return m, v
}

func BuildLabor(in LaborInput, today core.Date) (core.Labor, core.Violations) {
	v := core.Violations{}
	l := core.Labor{
		StageID:    strings.TrimSpace(in.StageID),
		Role:       SanitizeText(in.Role),
		WorkerName: SanitizeText(in.WorkerName),
	}
	l.HourlyRate = money(v, "hourly_rate", in.HourlyRate)
	l.HoursWorked = quantity(v, "hours_worked", in.HoursWorked)
	l.Date = date(v, "date", in.Date, today)
	mergeViolations(v, l.Validate())
	return l, v
}

func BuildExpense(projectID string, in ExpenseInput, today core.Date) (core.Expense, core.Violations) {
	v := core.Violations{}
	e := core.Expense{
		ProjectID:   projectID,
		Description: SanitizeText(in.Description),
		Category:    core.ExpenseCategory(strings.TrimSpace(in.Category)),
	}
	e.Amount = money(v, "amount", in.Amount)
	e.Date = date(v, "date", in.Date, today)
	mergeViolations(v, e.Validate())
	return e, v
}

func money(v core.Violations, field, raw string) core.Money {
	if strings.TrimSpace(raw) == "" {
		v.Add(field, core.CodeRequired)
		return core.Money{}
	}
	cents, err := core.ParseDecimalToCents(raw)
	switch {
	case errors.Is(err, core.ErrNonPositive):
		v.Add(field, core.CodeMustBePositive)
	case errors.Is(err, core.ErrOutOfRange):
		v.Add(field, core.CodeOutOfRange)
	case err != nil:
		v.Add(field, core.CodeInvalidNumber)
	}
	return core.Money{Cents: cents}
}

func quantity(v core.Violations, field, raw string) decimal.Decimal {
	if strings.TrimSpace(raw) == "" {
		v.Add(field, core.CodeRequired)
		return decimal.Zero
	}
	d, err := core.ParseQuantity(raw)
	switch {
	case errors.Is(err, core.ErrNonPositive):
		v.Add(field, core.CodeMustBePositive)
	case errors.Is(err, core.ErrOutOfRange):
		v.Add(field, core.CodeOutOfRange)
	case err != nil:
		v.Add(field, core.CodeInvalidNumber)
	}
	return d
}

// date parses a required date, falling back to fallback when blank.
func date(v core.Violations, field, raw string, fallback core.Date) core.Date {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	d, err := core.ParseDate(raw)
	if err != nil {
		v.Add(field, core.CodeInvalidDate)
	}
	return d
}

func optionalDate(v core.Violations, field, raw string) core.Date {
	return date(v, field, raw, core.Date{})
}

// mergeViolations adds entity-level violations without overwriting the
// more precise parse errors already recorded.
func mergeViolations(v core.Violations, err error) {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		for field, code := range ve.Fields {
			v.Add(field, code)
		}
	}
}
