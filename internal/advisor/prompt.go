package advisor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"obras/internal/core"
)

// Input is the slice of a project that is sent for analysis.
type Input struct {
	ProjectName     string
	Budget          core.Money
	TotalCost       core.Money
	Utilization     float64
	ExpectedMargin  float64
	RealMargin      float64
	StagesTotal     int
	StagesCompleted int
}

func NewInput(p core.Project, f core.Financials, progress core.StageProgress) Input {
	return Input{
		ProjectName:     p.Name,
		Budget:          p.TotalBudget,
		TotalCost:       f.TotalCost,
		Utilization:     f.BudgetUtilization,
		ExpectedMargin:  p.ProfitMargin,
		RealMargin:      f.RealMargin,
		StagesTotal:     progress.Total,
		StagesCompleted: progress.Completed,
	}
}

// Fingerprint changes whenever any figure in the prompt changes.
func (in Input) Fingerprint() string {
	sum := sha256.Sum256([]byte(BuildPrompt(in)))
	return hex.EncodeToString(sum[:8])
}

// BuildPrompt renders the analysis request in Portuguese.
func BuildPrompt(in Input) string {
	var b strings.Builder
	b.WriteString("Você é um engenheiro civil sênior e especialista em gestão de custos de obras.\n")
	b.WriteString("Analise os dados do seguinte projeto e forneça um relatório curto (máximo 150 palavras) sobre a saúde financeira e riscos.\n")
	b.WriteString("Use formatação Markdown simples.\n\n")

	b.WriteString("Dados do Projeto:\n")
	fmt.Fprintf(&b, "Nome: %s\n", in.ProjectName)
	fmt.Fprintf(&b, "Orçamento Total: R$ %.2f\n", in.Budget.Reais())
	fmt.Fprintf(&b, "Custo Atual: R$ %.2f\n", in.TotalCost.Reais())
	fmt.Fprintf(&b, "Utilização do Orçamento: %.2f%%\n", in.Utilization)
	fmt.Fprintf(&b, "Margem de Lucro Esperada: %g%%\n", in.ExpectedMargin)
	fmt.Fprintf(&b, "Margem Real Atual: %.2f%%\n\n", in.RealMargin)

	b.WriteString("Progresso:\n")
	fmt.Fprintf(&b, "Etapas Totais: %d\n", in.StagesTotal)
	fmt.Fprintf(&b, "Etapas Concluídas: %d\n\n", in.StagesCompleted)

	b.WriteString("Responda com:\n")
	b.WriteString("1. Status Geral (Seguro / Alerta / Crítico)\n")
	b.WriteString("2. Principal Risco identificado\n")
	b.WriteString("3. Uma recomendação prática para economizar ou manter o cronograma.\n")
	return b.String()
}
