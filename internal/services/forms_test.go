package services

import (
	"strings"
	"testing"

	"obras/internal/core"
)

func TestSanitizeText(t *testing.T) {
	cases := map[string]string{
		"  Fundação  ":   "Fundação",
		"a\tb":           "ab",
		"line\nbreak\r":  "linebreak",
		"\x00\x1bok\x7f": "ok",
		"":               "",
	}
	for in, want := range cases {
		if got := SanitizeText(in); got != want {
			t.Errorf("SanitizeText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildExpense(t *testing.T) {
	today := core.NewDate(2024, 6, 1)
	e, v := BuildExpense("p1", ExpenseInput{Description: "Almoço equipe", Category: "food", Amount: "85,50"}, today)
	if !v.Empty() {
		t.Fatalf("unexpected violations %v", v)
	}
	if e.Amount.Cents != 8550 || e.Date != today || e.Category != core.CategoryFood {
		t.Fatalf("unexpected expense %+v", e)
	}

	_, v = BuildExpense("p1", ExpenseInput{Description: "", Category: "misc", Amount: "x", Date: "2024-13-01"}, today)
	want := core.Violations{
		"description": core.CodeRequired,
		"category":    core.CodeInvalidChoice,
		"amount":      core.CodeInvalidNumber,
		"date":        core.CodeInvalidDate,
	}
	for k, code := range want {
		if v[k] != code {
			t.Errorf("%s: got %q, want %q", k, v[k], code)
		}
	}
}

func TestBuildLaborRequiresPositiveHours(t *testing.T) {
	_, v := BuildLabor(LaborInput{StageID: "s", Role: "Eletricista", HourlyRate: "50", HoursWorked: "-2"}, core.Today())
	if v["hours_worked"] != core.CodeMustBePositive {
		t.Fatalf("unexpected violations %v", v)
	}
	_, v = BuildLabor(LaborInput{Role: "Eletricista", HourlyRate: "50", HoursWorked: "2"}, core.Today())
	if v["stage_id"] != core.CodeRequired {
		t.Fatalf("unexpected violations %v", v)
	}
}

func TestBuildProjectMargin(t *testing.T) {
	in := ProjectInput{Name: "A", Address: "B", Responsible: "C", StartDate: "2024-01-01", TotalBudget: "100", ProfitMargin: "15,5"}
	p, v := BuildProject(in)
	if !v.Empty() || p.ProfitMargin != 15.5 {
		t.Fatalf("margin %v violations %v", p.ProfitMargin, v)
	}
	in.ProfitMargin = "150"
	if _, v := BuildProject(in); v["profit_margin"] != core.CodeOutOfRange {
		t.Fatalf("unexpected violations %v", v)
	}
	in.ProfitMargin = ""
	in.ExpectedEndDate = "2023-12-31"
	if _, v := BuildProject(in); v["expected_end_date"] != core.CodeOutOfRange {
		t.Fatalf("unexpected violations %v", v)
	}
	in.Name = strings.Repeat("x", core.MaxTextLength+1)
	if _, v := BuildProject(in); v["name"] != core.CodeTooLong {
		t.Fatalf("unexpected violations %v", v)
	}
}

func TestBuildProjectRejectsNonFiniteMargin(t *testing.T) {
	base := ProjectInput{Name: "A", Address: "B", Responsible: "C", StartDate: "2024-01-01", TotalBudget: "100"}
	for _, margin := range []string{"NaN", "nan", "Inf", "-Inf", "+Infinity"} {
		in := base
		in.ProfitMargin = margin
		if _, v := BuildProject(in); v["profit_margin"] != core.CodeInvalidNumber {
			t.Errorf("margin %q: violations %v", margin, v)
		}
	}
}

func TestNumericBounds(t *testing.T) {
	today := core.NewDate(2024, 6, 1)
	cases := []struct {
		name  string
		build func() core.Violations
		field string
		code  string
	}{
		{"budget above bound", func() core.Violations {
			_, v := BuildProject(ProjectInput{Name: "A", Address: "B", Responsible: "C", StartDate: "2024-01-01", TotalBudget: "15000000000000000"})
			return v
		}, "total_budget", core.CodeOutOfRange},
		{"budget at bound", func() core.Violations {
			_, v := BuildProject(ProjectInput{Name: "A", Address: "B", Responsible: "C", StartDate: "2024-01-01", TotalBudget: "1000000000000"})
			return v
		}, "total_budget", ""},
		{"quantity above bound", func() core.Violations {
			_, v := BuildMaterial(MaterialInput{StageID: "s", Name: "Areia", Quantity: "100000000000000000", UnitPrice: "1"}, today)
			return v
		}, "quantity", core.CodeOutOfRange},
		{"material cost above bound", func() core.Violations {
			_, v := BuildMaterial(MaterialInput{StageID: "s", Name: "Areia", Quantity: "1000000", UnitPrice: "10000000"}, today)
			return v
		}, "quantity", core.CodeOutOfRange},
		{"hours above bound", func() core.Violations {
			_, v := BuildLabor(LaborInput{StageID: "s", Role: "Pedreiro", HourlyRate: "30", HoursWorked: "2000000000"}, today)
			return v
		}, "hours_worked", core.CodeOutOfRange},
		{"labor cost above bound", func() core.Violations {
			_, v := BuildLabor(LaborInput{StageID: "s", Role: "Pedreiro", HourlyRate: "1000000000", HoursWorked: "5000"}, today)
			return v
		}, "hours_worked", core.CodeOutOfRange},
		{"expense above bound", func() core.Violations {
			_, v := BuildExpense("p1", ExpenseInput{Description: "Guindaste", Category: "equipment", Amount: "99999999999999999999"}, today)
			return v
		}, "amount", core.CodeOutOfRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := tc.build()
			if tc.code == "" {
				if !v.Empty() {
					t.Fatalf("unexpected violations %v", v)
				}
				return
			}
			if v[tc.field] != tc.code {
				t.Fatalf("%s: got %q, want %q (all %v)", tc.field, v[tc.field], tc.code, v)
			}
		})
	}
}

func TestBuildMaterialAtBoundKeepsPositiveCost(t *testing.T) {
	m, v := BuildMaterial(MaterialInput{StageID: "s", Name: "Areia", Quantity: "1000000000", UnitPrice: "1000"}, core.NewDate(2024, 6, 1))
	if !v.Empty() {
		t.Fatalf("unexpected violations %v", v)
	}
	if m.Cost().Cents != core.MaxAmountCents {
		t.Fatalf("cost %d, want %d", m.Cost().Cents, core.MaxAmountCents)
	}
}
