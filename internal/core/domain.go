package core

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectPaused     ProjectStatus = "paused"
)

const (
	StagePending    StageStatus = "pending"
	StageInProgress StageStatus = "in_progress"
	StageCompleted  StageStatus = "completed"
)

const (
	CategoryRental    ExpenseCategory = "rental"
	CategoryFees      ExpenseCategory = "fees"
	CategoryTransport ExpenseCategory = "transport"
	CategoryFood      ExpenseCategory = "food"
	CategoryEquipment ExpenseCategory = "equipment"
	CategoryOther     ExpenseCategory = "other"
)

// DefaultProfitMargin is applied to new projects created without an explicit margin.
const DefaultProfitMargin = 20.0

type (
	ProjectStatus   string
	StageStatus     string
	ExpenseCategory string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Project struct {
		ID              string
		Name            string
		Address         string
		Responsible     string
		StartDate       Date
		ExpectedEndDate Date // optional
		TotalBudget     Money
		ProfitMargin    float64 // percentage
		Status          ProjectStatus
	}

	Stage struct {
		ID            string
		ProjectID     string
		Name          string
		EstimatedCost Money
		Status        StageStatus
		Responsible   string
		Deadline      Date // optional
	}

	Material struct {
		ID           string
		StageID      string
		Name         string
		Unit         string
		Quantity     decimal.Decimal
		UnitPrice    Money
		Supplier     string
		PurchaseDate Date
	}

	Labor struct {
		ID          string
		StageID     string
		Role        string
		WorkerName  string
		HourlyRate  Money
		HoursWorked decimal.Decimal
		Date        Date
	}

	Expense struct {
		ID          string
		ProjectID   string
		Description string
		Category    ExpenseCategory
		Amount      Money
		Date        Date
	}
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidStatus   = errors.New("invalid status")
)

// NewID returns a fresh random entity identifier.
func NewID() string {
	return uuid.NewString()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date at UTC midnight.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a YYYY-MM-DD form value.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// IsEmpty returns true if the date is zero (used for optional dates)
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// String formats the date as YYYY-MM-DD, or "" when empty.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectInProgress, ProjectCompleted, ProjectPaused:
		return true
	}
	return false
}

func (s StageStatus) Valid() bool {
	switch s {
	case StagePending, StageInProgress, StageCompleted:
		return true
	}
	return false
}

func (c ExpenseCategory) Valid() bool {
	for _, v := range ExpenseCategories() {
		if c == v {
			return true
		}
	}
	return false
}

// ProjectStatuses lists every project status in display order.
func ProjectStatuses() []ProjectStatus {
	return []ProjectStatus{ProjectPlanning, ProjectInProgress, ProjectCompleted, ProjectPaused}
}

// StageStatuses lists every stage status in workflow order.
func StageStatuses() []StageStatus {
	return []StageStatus{StagePending, StageInProgress, StageCompleted}
}

// ExpenseCategories is the fixed set of expense categories.
func ExpenseCategories() []ExpenseCategory {
	return []ExpenseCategory{CategoryRental, CategoryFees, CategoryTransport, CategoryFood, CategoryEquipment, CategoryOther}
}

// Cost is quantity × unit price, rounded half away from zero to the cent.
func (m Material) Cost() Money {
	return m.UnitPrice.MulDecimal(m.Quantity)
}

// Cost is hourly rate × hours worked, rounded to the cent.
func (l Labor) Cost() Money {
	return l.HourlyRate.MulDecimal(l.HoursWorked)
}
