package core

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

// villaVerde mirrors the demo project: 39,500 in materials, 7,200 in labor.
func villaVerde() Snapshot {
	return Snapshot{
		Projects: []Project{{ID: "p1", Name: "Residencial Villa Verde", TotalBudget: NewMoney(250000), ProfitMargin: 20, Status: ProjectInProgress}},
		Stages: []Stage{
			{ID: "s1", ProjectID: "p1", Name: "Fundação", EstimatedCost: NewMoney(35000), Status: StageCompleted},
			{ID: "s2", ProjectID: "p1", Name: "Alvenaria", EstimatedCost: NewMoney(45000), Status: StageInProgress},
		},
		Materials: []Material{
			{ID: "m1", StageID: "s1", Name: "Concreto", Quantity: decimal.NewFromInt(50), UnitPrice: NewMoney(450)},
			{ID: "m2", StageID: "s1", Name: "Aço", Quantity: decimal.NewFromInt(1000), UnitPrice: NewMoney(8)},
			{ID: "m3", StageID: "s2", Name: "Tijolo", Quantity: decimal.NewFromInt(10), UnitPrice: NewMoney(900)},
		},
		Labor: []Labor{
			{ID: "l1", StageID: "s1", Role: "Pedreiro", HourlyRate: NewMoney(30), HoursWorked: decimal.NewFromInt(160)},
			{ID: "l2", StageID: "s1", Role: "Servente", HourlyRate: NewMoney(15), HoursWorked: decimal.NewFromInt(160)},
		},
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 0.01 }

func TestComputeFinancialsExample(t *testing.T) {
	f := ComputeFinancials("p1", villaVerde())
	if f.TotalMaterials != NewMoney(39500) {
		t.Fatalf("materials = %d", f.TotalMaterials.Cents)
	}
	if f.TotalLabor != NewMoney(7200) {
		t.Fatalf("labor = %d", f.TotalLabor.Cents)
	}
	if f.TotalCost != NewMoney(46700) {
		t.Fatalf("cost = %d", f.TotalCost.Cents)
	}
	if f.ProjectedProfit != NewMoney(203300) {
		t.Fatalf("profit = %d", f.ProjectedProfit.Cents)
	}
	if !approx(f.BudgetUtilization, 18.68) {
		t.Fatalf("utilization = %f", f.BudgetUtilization)
	}
	if !approx(f.RealMargin, 81.32) {
		t.Fatalf("real margin = %f", f.RealMargin)
	}
	if f.IsRisk || f.IsOverBudget {
		t.Fatalf("unexpected flags %+v", f)
	}
}

func TestComputeFinancialsExpenses(t *testing.T) {
	s := villaVerde()
	before := ComputeFinancials("p1", s).TotalCost
	s.Expenses = append(s.Expenses,
		Expense{ID: "e1", ProjectID: "p1", Description: "Caçamba", Category: CategoryRental, Amount: NewMoney(1200)},
		Expense{ID: "e2", ProjectID: "p1", Description: "Frete", Category: CategoryTransport, Amount: NewMoney(450)},
		Expense{ID: "e3", ProjectID: "other", Description: "Outro", Category: CategoryOther, Amount: NewMoney(999)},
	)
	f := ComputeFinancials("p1", s)
	if f.TotalExpenses != NewMoney(1650) {
		t.Fatalf("expenses = %d", f.TotalExpenses.Cents)
	}
	if f.TotalCost != NewMoney(48350) {
		t.Fatalf("cost = %d", f.TotalCost.Cents)
	}
	if f.TotalCost.Sub(before) != NewMoney(1650) {
		t.Fatalf("delta = %d", f.TotalCost.Sub(before).Cents)
	}
}

func TestComputeFinancialsAddingEntryIncreasesCostExactly(t *testing.T) {
	s := villaVerde()
	before := ComputeFinancials("p1", s).TotalCost
	m := Material{ID: "m9", StageID: "s2", Quantity: decimal.RequireFromString("3.5"), UnitPrice: Money{Cents: 1999}}
	s.Materials = append(s.Materials, m)
	after := ComputeFinancials("p1", s).TotalCost
	if after.Sub(before) != m.Cost() {
		t.Fatalf("delta %d, want %d", after.Sub(before).Cents, m.Cost().Cents)
	}
}

func TestComputeFinancialsThresholds(t *testing.T) {
	cases := []struct {
		name   string
		budget int64
		cost   int64
		risk   bool
		over   bool
	}{
		{"well below", 1000, 500, false, false},
		{"exactly 80%", 1000, 800, false, false},
		{"just above 80%", 100000, 80001, true, false},
		{"exactly budget", 1000, 1000, true, false},
		{"over budget", 1000, 1001, true, true},
		{"huge budget without cost", 1_500_000_000_000_000_000, 0, false, false},
		{"int64 budget without cost", math.MaxInt64, 0, false, false},
		{"huge cost just under budget", 1 << 62, 1<<62 - 1, true, false},
		{"huge cost at 80%", 5 << 58, 4 << 58, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Snapshot{
				Projects: []Project{{ID: "p", TotalBudget: Money{Cents: tc.budget}}},
				Expenses: []Expense{{ID: "e", ProjectID: "p", Amount: Money{Cents: tc.cost}}},
			}
			f := ComputeFinancials("p", s)
			if f.IsRisk != tc.risk || f.IsOverBudget != tc.over {
				t.Fatalf("risk=%v over=%v, want %v %v", f.IsRisk, f.IsOverBudget, tc.risk, tc.over)
			}
		})
	}
}

func TestComputeFinancialsZeroBudget(t *testing.T) {
	s := Snapshot{
		Projects: []Project{{ID: "p"}},
		Expenses: []Expense{{ID: "e", ProjectID: "p", Amount: NewMoney(10)}},
	}
	f := ComputeFinancials("p", s)
	if f.RealMargin != 0 || f.BudgetUtilization != 0 {
		t.Fatalf("ratios must be 0 with no budget, got %+v", f)
	}
	if !f.IsOverBudget || !f.IsRisk {
		t.Fatalf("any spend on a zero budget is over budget")
	}
}

func TestComputeFinancialsUnknownProject(t *testing.T) {
	f := ComputeFinancials("missing", villaVerde())
	if f != (Financials{}) {
		t.Fatalf("expected zero financials, got %+v", f)
	}
}

func TestStageCostsAndProgress(t *testing.T) {
	s := villaVerde()
	c := StageCosts("s1", s)
	if c.Materials != NewMoney(30500) || c.Labor != NewMoney(7200) || c.Total != NewMoney(37700) {
		t.Fatalf("stage s1 costs %+v", c)
	}
	p := Progress(s.StagesOf("p1"))
	if p.Total != 2 || p.Completed != 1 {
		t.Fatalf("progress %+v", p)
	}
}

func TestPortfolio(t *testing.T) {
	s := villaVerde()
	s.Projects = append(s.Projects, Project{ID: "p2", Name: "Reforma Apto 402", TotalBudget: NewMoney(45000), Status: ProjectPlanning})
	s.Stages = append(s.Stages, Stage{ID: "s3", ProjectID: "p2", Name: "Demolição", Status: StagePending})

	sum := Portfolio(s)
	if sum.ProjectCount != 2 {
		t.Fatalf("count %d", sum.ProjectCount)
	}
	if sum.TotalBudget != NewMoney(295000) || sum.TotalSpend != NewMoney(46700) {
		t.Fatalf("totals %d / %d", sum.TotalBudget.Cents, sum.TotalSpend.Cents)
	}
	if sum.OverallProfit != NewMoney(248300) || sum.IsOverallRisk {
		t.Fatalf("profit %d risk %v", sum.OverallProfit.Cents, sum.IsOverallRisk)
	}
	if len(sum.Bars) != 2 || sum.Bars[0].Label != "Residencia..." || sum.Bars[1].Label != "Reforma Ap..." {
		t.Fatalf("bars %+v", sum.Bars)
	}
	if sum.ByProject["p2"].TotalCost.Cents != 0 {
		t.Fatalf("p2 should have no cost")
	}
}

func TestShortLabel(t *testing.T) {
	cases := map[string]string{
		"Casa":            "Casa",
		"Exatamente":      "Exatamente",
		"Demolição Geral": "Demolição ...",
		"":                "",
	}
	for in, want := range cases {
		if got := ShortLabel(in, 10); got != want {
			t.Errorf("ShortLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPortfolioRiskWithLargeBudgets(t *testing.T) {
	s := Snapshot{Projects: []Project{
		{ID: "a", Name: "A", TotalBudget: Money{Cents: MaxAmountCents}},
		{ID: "b", Name: "B", TotalBudget: Money{Cents: MaxAmountCents}},
	}}
	sum := Portfolio(s)
	if sum.IsOverallRisk || sum.RiskProjects != 0 {
		t.Fatalf("no spend must not be a risk, got %+v", sum)
	}
	if sum.TotalBudget.Cents != 2*MaxAmountCents || sum.OverallProfit.Cents != 2*MaxAmountCents {
		t.Fatalf("unexpected totals %+v", sum)
	}
}
