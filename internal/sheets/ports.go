package sheets

import (
	"context"
	"time"

	"obras/internal/core"
)

// ReportRow is one line of the project report sheet.
type ReportRow struct {
	Timestamp    time.Time
	Event        string
	ProjectID    string
	ProjectName  string
	Budget       core.Money
	TotalCost    core.Money
	Utilization  float64
	RealMargin   float64
	IsRisk       bool
	IsOverBudget bool
}

// Header is the first row of a report sheet, matching ReportRow.Values.
var Header = []any{"Data", "Evento", "Projeto ID", "Projeto", "Orçamento", "Custo Total", "Utilização %", "Margem Real %", "Risco", "Estouro"}

// Values renders the row in sheet column order. Amounts are in currency
// units, percentages rounded to two decimals.
func (r ReportRow) Values() []any {
	return []any{
		r.Timestamp.UTC().Format(time.RFC3339),
		r.Event,
		r.ProjectID,
		r.ProjectName,
		r.Budget.Reais(),
		r.TotalCost.Reais(),
		round2(r.Utilization),
		round2(r.RealMargin),
		yesNo(r.IsRisk),
		yesNo(r.IsOverBudget),
	}
}

func round2(f float64) float64 {
	if f < 0 {
		return -float64(int64(-f*100+0.5)) / 100
	}
	return float64(int64(f*100+0.5)) / 100
}

func yesNo(b bool) string {
	if b {
		return "SIM"
	}
	return "NÃO"
}

// Ports for outbound adapters.
type (
	// ReportWriter appends report rows to an external spreadsheet.
	ReportWriter interface {
		AppendReport(ctx context.Context, row ReportRow) (rowRef string, err error)
	}
)
