package core

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Snapshot is the full entity store of one workspace, in insertion order.
type Snapshot struct {
	Projects  []Project
	Stages    []Stage
	Materials []Material
	Labor     []Labor
	Expenses  []Expense
}

// Financials is the derived cost summary of one project.
type Financials struct {
	TotalMaterials    Money
	TotalLabor        Money
	TotalExpenses     Money
	TotalCost         Money
	ProjectedProfit   Money
	RealMargin        float64 // percent of budget
	BudgetUtilization float64 // percent of budget
	IsOverBudget      bool
	IsRisk            bool // cost above 80% of budget
}

// StageCost is the actual spend attributed to one stage.
type StageCost struct {
	Materials Money
	Labor     Money
	Total     Money
}

// StageProgress counts stages by completion.
type StageProgress struct {
	Total     int
	Completed int
}

// FindProject returns the project with the given id.
func (s Snapshot) FindProject(id string) (Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// FindStage returns the stage with the given id.
func (s Snapshot) FindStage(id string) (Stage, bool) {
	for _, st := range s.Stages {
		if st.ID == id {
			return st, true
		}
	}
	return Stage{}, false
}

// StagesOf returns the stages of a project.
func (s Snapshot) StagesOf(projectID string) []Stage {
	var out []Stage
	for _, st := range s.Stages {
		if st.ProjectID == projectID {
			out = append(out, st)
		}
	}
	return out
}

// MaterialsOf returns the materials booked against any stage of a project.
func (s Snapshot) MaterialsOf(projectID string) []Material {
	ids := s.stageIDs(projectID)
	var out []Material
	for _, m := range s.Materials {
		if _, ok := ids[m.StageID]; ok {
			out = append(out, m)
		}
	}
	return out
}

// LaborOf returns the labor entries booked against any stage of a project.
func (s Snapshot) LaborOf(projectID string) []Labor {
	ids := s.stageIDs(projectID)
	var out []Labor
	for _, l := range s.Labor {
		if _, ok := ids[l.StageID]; ok {
			out = append(out, l)
		}
	}
	return out
}

// ExpensesOf returns the expenses of a project.
func (s Snapshot) ExpensesOf(projectID string) []Expense {
	var out []Expense
	for _, e := range s.Expenses {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out
}

func (s Snapshot) stageIDs(projectID string) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, st := range s.Stages {
		if st.ProjectID == projectID {
			ids[st.ID] = struct{}{}
		}
	}
	return ids
}

// ComputeFinancials derives the cost summary of a project from the current
// state of the store. An unknown project is treated as having budget 0.
func ComputeFinancials(projectID string, s Snapshot) Financials {
	var f Financials
	for _, m := range s.MaterialsOf(projectID) {
		f.TotalMaterials = f.TotalMaterials.Add(m.Cost())
	}
	for _, l := range s.LaborOf(projectID) {
		f.TotalLabor = f.TotalLabor.Add(l.Cost())
	}
	for _, e := range s.ExpensesOf(projectID) {
		f.TotalExpenses = f.TotalExpenses.Add(e.Amount)
	}
	f.TotalCost = f.TotalMaterials.Add(f.TotalLabor).Add(f.TotalExpenses)

	var budget Money
	if p, ok := s.FindProject(projectID); ok {
		budget = p.TotalBudget
	}
	f.ProjectedProfit = budget.Sub(f.TotalCost)
	if budget.Cents > 0 {
		f.RealMargin = float64(f.ProjectedProfit.Cents) / float64(budget.Cents) * 100
		f.BudgetUtilization = float64(f.TotalCost.Cents) / float64(budget.Cents) * 100
	}
	f.IsOverBudget = f.TotalCost.Cents > budget.Cents
	f.IsRisk = isAboveRiskThreshold(f.TotalCost, budget)
	return f
}

// cost > 0.8 × budget, evaluated exactly.
func isAboveRiskThreshold(cost, budget Money) bool {
	c := decimal.NewFromInt(cost.Cents).Mul(decimal.NewFromInt(10))
	b := decimal.NewFromInt(budget.Cents).Mul(decimal.NewFromInt(8))
	return c.GreaterThan(b)
}

// StageCosts sums the materials and labor booked against one stage.
func StageCosts(stageID string, s Snapshot) StageCost {
	var c StageCost
	for _, m := range s.Materials {
		if m.StageID == stageID {
			c.Materials = c.Materials.Add(m.Cost())
		}
	}
	for _, l := range s.Labor {
		if l.StageID == stageID {
			c.Labor = c.Labor.Add(l.Cost())
		}
	}
	c.Total = c.Materials.Add(c.Labor)
	return c
}

// Progress counts the stages of a project and how many are completed.
func Progress(stages []Stage) StageProgress {
	p := StageProgress{Total: len(stages)}
	for _, st := range stages {
		if st.Status == StageCompleted {
			p.Completed++
		}
	}
	return p
}

// ProjectBar is one bar of the budget vs spend chart.
type ProjectBar struct {
	ProjectID string
	Label     string
	Budget    Money
	Spend     Money
}

// PortfolioSummary aggregates every project of a workspace for the dashboard.
type PortfolioSummary struct {
	ProjectCount   int
	TotalBudget    Money
	TotalSpend     Money
	TotalMaterials Money
	TotalLabor     Money
	TotalExpenses  Money
	OverallProfit  Money
	IsOverallRisk  bool
	RiskProjects   int
	Bars           []ProjectBar
	ByProject      map[string]Financials
}

// Portfolio computes dashboard totals across all projects.
func Portfolio(s Snapshot) PortfolioSummary {
	sum := PortfolioSummary{
		ProjectCount: len(s.Projects),
		ByProject:    make(map[string]Financials, len(s.Projects)),
	}
	for _, p := range s.Projects {
		f := ComputeFinancials(p.ID, s)
		sum.ByProject[p.ID] = f
		sum.TotalBudget = sum.TotalBudget.Add(p.TotalBudget)
		sum.TotalSpend = sum.TotalSpend.Add(f.TotalCost)
		sum.TotalMaterials = sum.TotalMaterials.Add(f.TotalMaterials)
		sum.TotalLabor = sum.TotalLabor.Add(f.TotalLabor)
		sum.TotalExpenses = sum.TotalExpenses.Add(f.TotalExpenses)
		if f.IsRisk {
			sum.RiskProjects++
		}
		sum.Bars = append(sum.Bars, ProjectBar{
			ProjectID: p.ID,
			Label:     ShortLabel(p.Name, 10),
			Budget:    p.TotalBudget,
			Spend:     f.TotalCost,
		})
	}
	sum.OverallProfit = sum.TotalBudget.Sub(sum.TotalSpend)
	sum.IsOverallRisk = isAboveRiskThreshold(sum.TotalSpend, sum.TotalBudget)
	return sum
}

// ShortLabel truncates name to n runes followed by "..." when longer.
func ShortLabel(name string, n int) string {
	if utf8.RuneCountInString(name) <= n {
		return name
	}
	return string([]rune(name)[:n]) + "..."
}
