package http

import (
	"testing"

	"github.com/shopspring/decimal"

	"obras/internal/core"
	"obras/internal/i18n"
)

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		lang  string
		cents int64
		want  string
	}{
		{i18n.PT, 4670000, "R$ 46.700,00"},
		{i18n.EN, 4670000, "R$ 46,700.00"},
		{i18n.PT, 5, "R$ 0,05"},
		{i18n.PT, 123456789, "R$ 1.234.567,89"},
		{i18n.PT, -1550, "-R$ 15,50"},
		{"xx", 100000, "R$ 1.000,00"},
	}
	for _, tt := range tests {
		if got := formatBRL(tt.lang, tt.cents); got != tt.want {
			t.Errorf("formatBRL(%q, %d) = %q, want %q", tt.lang, tt.cents, got, tt.want)
		}
	}
}

func TestFormatNumbers(t *testing.T) {
	if got := formatPercent(i18n.PT, 18.68); got != "18,68%" {
		t.Errorf("percent pt = %q", got)
	}
	if got := formatPercent(i18n.EN, 100); got != "100.00%" {
		t.Errorf("percent en = %q", got)
	}
	if got := formatDecimal(i18n.PT, decimal.RequireFromString("2.5")); got != "2,5" {
		t.Errorf("decimal pt = %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	d := core.NewDate(2024, 3, 1)
	if got := formatDate(i18n.PT, d); got != "01/03/2024" {
		t.Errorf("pt = %q", got)
	}
	if got := formatDate(i18n.EN, d); got != "2024-03-01" {
		t.Errorf("en = %q", got)
	}
	if got := formatDate(i18n.PT, core.Date{}); got != "-" {
		t.Errorf("empty = %q", got)
	}
	if got := inputDate(core.Date{}); got != "" {
		t.Errorf("empty input date = %q", got)
	}
}

func TestBarWidth(t *testing.T) {
	tests := []struct {
		part, whole int64
		want        int
	}{
		{0, 100, 0},
		{50, 0, 0},
		{1, 1000, 2},
		{467, 2500, 19},
		{300, 200, 100},
	}
	for _, tt := range tests {
		if got := barWidth(core.NewMoney(tt.part), core.NewMoney(tt.whole)); got != tt.want {
			t.Errorf("barWidth(%d, %d) = %d, want %d", tt.part, tt.whole, got, tt.want)
		}
	}
}

func TestNormalizeTab(t *testing.T) {
	for in, want := range map[string]string{"": tabOverview, "labor": tabLabor, "x": tabOverview, "expenses": tabExpenses} {
		if got := normalizeTab(in); got != want {
			t.Errorf("normalizeTab(%q) = %q", in, got)
		}
	}
}

func TestTemplatesParse(t *testing.T) {
	app := newTestApp(t)
	for _, name := range []string{"login", "dashboard", "projects", "project", "confirm_delete", "print", "error"} {
		if _, ok := app.srv.templates.pages[name]; !ok {
			t.Errorf("page %q not loaded", name)
		}
	}
}
