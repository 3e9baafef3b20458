package report

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"

	"obras/internal/services"
	"obras/internal/store/memory"
)

func seededView(t *testing.T) services.ProjectView {
	t.Helper()
	svc := services.NewProjectService(memory.NewSeeded(), nil)
	_, projects, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	view, err := svc.Project(context.Background(), projects[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	return view
}

func TestProjectWorkbook(t *testing.T) {
	f, name, err := ProjectWorkbook(seededView(t), "pt")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if name != "obras_Residencial_Villa_Verde.xlsx" {
		t.Errorf("filename = %q", name)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer got.Close()

	want := []string{SheetSummary, SheetStages, SheetMaterials, SheetLabor, SheetExpenses}
	sheets := got.GetSheetList()
	if len(sheets) != len(want) {
		t.Fatalf("sheets = %v", sheets)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Errorf("sheet %d = %q, want %q", i, sheets[i], want[i])
		}
	}

	materials, _ := got.GetRows(SheetMaterials)
	if len(materials) != 4 {
		t.Fatalf("materials rows = %d", len(materials))
	}
	if materials[1][0] != "Fundação" || materials[1][1] != "Concreto Usinado" {
		t.Errorf("first material row = %v", materials[1])
	}

	summary, _ := got.GetRows(SheetSummary)
	found := false
	for _, row := range summary {
		if len(row) == 2 && row[0] == "Custo Total (R$)" {
			found = row[1] == "46700"
		}
	}
	if !found {
		t.Errorf("summary lacks total cost 46700: %v", summary)
	}

	labor, _ := got.GetRows(SheetLabor)
	if len(labor) != 3 {
		t.Errorf("labor rows = %d", len(labor))
	}

	styleID, err := got.GetCellStyle(SheetStages, "A1")
	if err != nil {
		t.Fatal(err)
	}
	style, err := got.GetStyle(styleID)
	if err != nil {
		t.Fatal(err)
	}
	if style.Font == nil || !style.Font.Bold {
		t.Errorf("header is not bold")
	}
}

func TestFilename(t *testing.T) {
	tests := map[string]string{
		"Reforma Apto 402": "obras_Reforma_Apto_402.xlsx",
		"  ":               "obras_projeto.xlsx",
		"Casa/../x":        "obras_Casax.xlsx",
	}
	for in, want := range tests {
		if got := filename(in); got != want {
			t.Errorf("filename(%q) = %q, want %q", in, got, want)
		}
	}
}
