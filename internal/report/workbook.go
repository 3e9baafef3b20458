// Package report renders a project's cost report as an XLSX workbook.
package report

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"

	"obras/internal/i18n"
	"obras/internal/services"
)

// ContentType of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names, in workbook order.
const (
	SheetSummary   = "Resumo"
	SheetStages    = "Etapas"
	SheetMaterials = "Materiais"
	SheetLabor     = "Mão de Obra"
	SheetExpenses  = "Despesas"
)

type sheet struct {
	name   string
	header []string
	rows   [][]any
	widths []float64
}

// ProjectWorkbook builds the workbook and a download filename. Labels for
// statuses and categories follow lang.
func ProjectWorkbook(v services.ProjectView, lang string) (*excelize.File, string, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, "", fmt.Errorf("create header style: %w", err)
	}

	sheets := []sheet{
		summarySheet(v, lang),
		stagesSheet(v, lang),
		materialsSheet(v),
		laborSheet(v),
		expensesSheet(v, lang),
	}
	for i, s := range sheets {
		if i == 0 {
			err = f.SetSheetName("Sheet1", s.name)
		} else {
			_, err = f.NewSheet(s.name)
		}
		if err != nil {
			f.Close()
			return nil, "", fmt.Errorf("create sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s, headerStyle); err != nil {
			f.Close()
			return nil, "", err
		}
	}

	return f, filename(v.Project.Name), nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	header := make([]any, len(s.header))
	for i, h := range s.header {
		header[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", s.name, err)
	}
	last, _ := excelize.ColumnNumberToName(len(s.header))
	if err := f.SetCellStyle(s.name, "A1", last+"1", headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", s.name, err)
	}
	for i, row := range s.rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", s.name, i+2, err)
		}
	}
	for i, w := range s.widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(s.name, col, col, w)
	}
	return nil
}

func summarySheet(v services.ProjectView, lang string) sheet {
	p, fin := v.Project, v.Financials
	rows := [][]any{
		{"Projeto", p.Name},
		{"Endereço", p.Address},
		{"Responsável", p.Responsible},
		{"Status", i18n.T(lang, "project_status."+string(p.Status))},
		{"Início", p.StartDate.String()},
		{"Previsão de Término", p.ExpectedEndDate.String()},
		{"Orçamento (R$)", p.TotalBudget.Reais()},
		{"Margem Esperada (%)", p.ProfitMargin},
		{"Materiais (R$)", fin.TotalMaterials.Reais()},
		{"Mão de Obra (R$)", fin.TotalLabor.Reais()},
		{"Despesas (R$)", fin.TotalExpenses.Reais()},
		{"Custo Total (R$)", fin.TotalCost.Reais()},
		{"Lucro Projetado (R$)", fin.ProjectedProfit.Reais()},
		{"Margem Real (%)", round2(fin.RealMargin)},
		{"Utilização do Orçamento (%)", round2(fin.BudgetUtilization)},
		{"Acima do Orçamento", yesNo(fin.IsOverBudget)},
		{"Risco", yesNo(fin.IsRisk)},
		{"Etapas Concluídas", fmt.Sprintf("%d/%d", v.Progress.Completed, v.Progress.Total)},
	}
	return sheet{name: SheetSummary, header: []string{"Campo", "Valor"}, rows: rows, widths: []float64{28, 40}}
}

func stagesSheet(v services.ProjectView, lang string) sheet {
	s := sheet{
		name:   SheetStages,
		header: []string{"Etapa", "Status", "Responsável", "Prazo", "Custo Estimado (R$)", "Materiais (R$)", "Mão de Obra (R$)", "Custo Real (R$)"},
		widths: []float64{24, 14, 20, 12, 18, 16, 16, 16},
	}
	for _, st := range v.Stages {
		s.rows = append(s.rows, []any{
			st.Name, i18n.T(lang, "stage_status."+string(st.Status)), st.Responsible, st.Deadline.String(),
			st.EstimatedCost.Reais(), st.Cost.Materials.Reais(), st.Cost.Labor.Reais(), st.Cost.Total.Reais(),
		})
	}
	return s
}

func materialsSheet(v services.ProjectView) sheet {
	s := sheet{
		name:   SheetMaterials,
		header: []string{"Etapa", "Material", "Unidade", "Quantidade", "Preço Unitário (R$)", "Total (R$)", "Fornecedor", "Data"},
		widths: []float64{20, 24, 10, 12, 18, 14, 20, 12},
	}
	for _, m := range v.Materials {
		qty, _ := m.Quantity.Float64()
		s.rows = append(s.rows, []any{
			v.StageNames[m.StageID], m.Name, m.Unit, qty, m.UnitPrice.Reais(), m.Cost().Reais(), m.Supplier, m.PurchaseDate.String(),
		})
	}
	return s
}

func laborSheet(v services.ProjectView) sheet {
	s := sheet{
		name:   SheetLabor,
		header: []string{"Etapa", "Função", "Profissional", "Valor Hora (R$)", "Horas", "Total (R$)", "Data"},
		widths: []float64{20, 18, 20, 16, 10, 14, 12},
	}
	for _, l := range v.Labor {
		hours, _ := l.HoursWorked.Float64()
		s.rows = append(s.rows, []any{
			v.StageNames[l.StageID], l.Role, l.WorkerName, l.HourlyRate.Reais(), hours, l.Cost().Reais(), l.Date.String(),
		})
	}
	return s
}

func expensesSheet(v services.ProjectView, lang string) sheet {
	s := sheet{
		name:   SheetExpenses,
		header: []string{"Descrição", "Categoria", "Valor (R$)", "Data"},
		widths: []float64{30, 16, 14, 12},
	}
	for _, e := range v.Expenses {
		s.rows = append(s.rows, []any{e.Description, i18n.T(lang, "category."+string(e.Category)), e.Amount.Reais(), e.Date.String()})
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "SIM"
	}
	return "NÃO"
}

func round2(f float64) float64 {
	return float64(int64(f*100+0.5)) / 100
}

// filename keeps letters and digits of the project name.
func filename(projectName string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return r
		case r == ' ' || r == '-' || r == '_':
			return '_'
		default:
			return -1
		}
	}, strings.TrimSpace(projectName))
	if slug == "" {
		slug = "projeto"
	}
	return "obras_" + slug + ".xlsx"
}
