package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"obras/internal/cache"
	"obras/internal/core"
)

type fakeGenerator struct {
	reply  string
	err    error
	calls  int
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.reply, f.err
}

func villaVerde() Input {
	p := core.Project{Name: "Residencial Villa Verde", TotalBudget: core.NewMoney(250000), ProfitMargin: 20}
	f := core.Financials{TotalCost: core.NewMoney(46700), BudgetUtilization: 18.68, RealMargin: 81.32}
	return NewInput(p, f, core.StageProgress{Total: 2, Completed: 1})
}

func TestAnalyzeWithoutKey(t *testing.T) {
	var a *Advisor
	if got := a.Analyze(context.Background(), "p1", villaVerde()); got != MsgNoKey {
		t.Fatalf("got %q", got)
	}
	if got := New(nil, nil).Analyze(context.Background(), "p1", villaVerde()); got != MsgNoKey {
		t.Fatalf("got %q", got)
	}
}

func TestAnalyzeDegradesToFixedStrings(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
		want string
	}{
		{"error", &fakeGenerator{err: errors.New("timeout")}, MsgCallFailed},
		{"empty", &fakeGenerator{}, MsgEmpty},
		{"ok", &fakeGenerator{reply: "**Status Geral:** Seguro"}, "**Status Geral:** Seguro"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.gen, nil).Analyze(context.Background(), "p1", villaVerde())
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnalyzeCachesOnlySuccess(t *testing.T) {
	reports := cache.NewLRUCache[string](10, time.Minute)
	gen := &fakeGenerator{err: errors.New("down")}
	a := New(gen, reports)
	in := villaVerde()

	a.Analyze(context.Background(), "p1", in)
	a.Analyze(context.Background(), "p1", in)
	if gen.calls != 2 {
		t.Fatalf("errors must not be cached, calls = %d", gen.calls)
	}

	gen.err = nil
	gen.reply = "Alerta"
	a.Analyze(context.Background(), "p1", in)
	if got := a.Analyze(context.Background(), "p1", in); got != "Alerta" || gen.calls != 3 {
		t.Fatalf("got %q after %d calls", got, gen.calls)
	}

	in.TotalCost = core.NewMoney(48350)
	a.Analyze(context.Background(), "p1", in)
	if gen.calls != 4 {
		t.Fatalf("changed figures should miss the cache, calls = %d", gen.calls)
	}
}

func TestForgetDropsProjectReports(t *testing.T) {
	reports := cache.NewLRUCache[string](10, time.Minute)
	gen := &fakeGenerator{reply: "Seguro"}
	a := New(gen, reports)
	in := villaVerde()

	a.Analyze(context.Background(), "p1", in)
	a.Analyze(context.Background(), "p2", in)
	a.Forget("p1")
	if reports.Size() != 1 {
		t.Fatalf("expected only p2 cached, size = %d", reports.Size())
	}
	a.Analyze(context.Background(), "p1", in)
	if gen.calls != 3 {
		t.Fatalf("forgotten project should be generated again, calls = %d", gen.calls)
	}

	var none *Advisor
	none.Forget("p1")
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(villaVerde())
	for _, want := range []string{
		"máximo 150 palavras",
		"Nome: Residencial Villa Verde",
		"Orçamento Total: R$ 250000.00",
		"Custo Atual: R$ 46700.00",
		"Utilização do Orçamento: 18.68%",
		"Margem de Lucro Esperada: 20%",
		"Margem Real Atual: 81.32%",
		"Etapas Totais: 2",
		"Etapas Concluídas: 1",
		"Seguro / Alerta / Crítico",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestFingerprint(t *testing.T) {
	a, b := villaVerde(), villaVerde()
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("same input, different fingerprint")
	}
	b.StagesCompleted = 2
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatal("different input, same fingerprint")
	}
}
