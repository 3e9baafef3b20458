package core

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Violation codes. They are translated by the i18n package.
const (
	CodeRequired       = "required"
	CodeMustBePositive = "must_be_positive"
	CodeInvalidNumber  = "invalid_number"
	CodeInvalidDate    = "invalid_date"
	CodeInvalidChoice  = "invalid_choice"
	CodeOutOfRange     = "out_of_range"
	CodeTooLong        = "too_long"
)

// MaxTextLength bounds every free-text field.
const MaxTextLength = 200

// Violations maps a form field name to a violation code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records code for field unless the field already has a violation.
func (v Violations) Add(field, code string) {
	if _, ok := v[field]; !ok {
		v[field] = code
	}
}

// Err returns nil when there are no violations.
func (v Violations) Err() error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Fields: v}
}

// ValidationError carries field-level violations of a rejected record.
type ValidationError struct {
	Fields Violations
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func requiredText(v Violations, field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		v.Add(field, CodeRequired)
		return
	}
	maxText(v, field, value)
}

func maxText(v Violations, field, value string) {
	if utf8.RuneCountInString(value) > MaxTextLength {
		v.Add(field, CodeTooLong)
	}
}

func positiveMoney(v Violations, field string, m Money) {
	switch {
	case m.Cents <= 0:
		v.Add(field, CodeMustBePositive)
	case m.Cents > MaxAmountCents:
		v.Add(field, CodeOutOfRange)
	}
}

func positiveQuantity(v Violations, field string, q decimal.Decimal) {
	switch {
	case !q.IsPositive():
		v.Add(field, CodeMustBePositive)
	case q.GreaterThan(MaxQuantity):
		v.Add(field, CodeOutOfRange)
	}
}

// boundedProduct flags field when price × quantity does not fit in one amount.
func boundedProduct(v Violations, field string, price Money, q decimal.Decimal) {
	if price.Cents <= 0 || !q.IsPositive() {
		return
	}
	if _, err := price.CheckedMulDecimal(q); err != nil {
		v.Add(field, CodeOutOfRange)
	}
}

func (p Project) Validate() error {
	v := Violations{}
	requiredText(v, "name", p.Name)
	requiredText(v, "address", p.Address)
	requiredText(v, "responsible", p.Responsible)
	if p.StartDate.IsZero() {
		v.Add("start_date", CodeRequired)
	}
	if !p.ExpectedEndDate.IsZero() && !p.StartDate.IsZero() && p.ExpectedEndDate.Before(p.StartDate.Time) {
		v.Add("expected_end_date", CodeOutOfRange)
	}
	positiveMoney(v, "total_budget", p.TotalBudget)
	switch {
	case math.IsNaN(p.ProfitMargin) || math.IsInf(p.ProfitMargin, 0):
		v.Add("profit_margin", CodeInvalidNumber)
	case p.ProfitMargin < 0 || p.ProfitMargin > 100:
		v.Add("profit_margin", CodeOutOfRange)
	}
	if !p.Status.Valid() {
		v.Add("status", CodeInvalidChoice)
	}
	return v.Err()
}

func (s Stage) Validate() error {
	v := Violations{}
	if strings.TrimSpace(s.ProjectID) == "" {
		v.Add("project_id", CodeRequired)
	}
	requiredText(v, "name", s.Name)
	maxText(v, "responsible", s.Responsible)
	positiveMoney(v, "estimated_cost", s.EstimatedCost)
	if !s.Status.Valid() {
		v.Add("status", CodeInvalidChoice)
	}
	return v.Err()
}

func (m Material) Validate() error {
	v := Violations{}
	if strings.TrimSpace(m.StageID) == "" {
		v.Add("stage_id", CodeRequired)
	}
	requiredText(v, "name", m.Name)
	requiredText(v, "unit", m.Unit)
	maxText(v, "supplier", m.Supplier)
	positiveQuantity(v, "quantity", m.Quantity)
	positiveMoney(v, "unit_price", m.UnitPrice)
	boundedProduct(v, "quantity", m.UnitPrice, m.Quantity)
	return v.Err()
}

func (l Labor) Validate() error {
	v := Violations{}
	if strings.TrimSpace(l.StageID) == "" {
		v.Add("stage_id", CodeRequired)
	}
	requiredText(v, "role", l.Role)
	maxText(v, "worker_name", l.WorkerName)
	positiveMoney(v, "hourly_rate", l.HourlyRate)
	positiveQuantity(v, "hours_worked", l.HoursWorked)
	boundedProduct(v, "hours_worked", l.HourlyRate, l.HoursWorked)
	return v.Err()
}

func (e Expense) Validate() error {
	v := Violations{}
	if strings.TrimSpace(e.ProjectID) == "" {
		v.Add("project_id", CodeRequired)
	}
	requiredText(v, "description", e.Description)
	if e.Category == "" {
		v.Add("category", CodeRequired)
	} else if !e.Category.Valid() {
		v.Add("category", CodeInvalidChoice)
	}
	positiveMoney(v, "amount", e.Amount)
	return v.Err()
}
