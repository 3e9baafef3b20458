package memory

import (
	"github.com/shopspring/decimal"

	"obras/internal/core"
)

// DemoSnapshot returns the demo workspace every new session starts from.
// Identifiers are fresh so that separate sessions never share ids.
func DemoSnapshot() core.Snapshot {
	villa, apto := core.NewID(), core.NewID()
	fundacao, alvenaria, demolicao := core.NewID(), core.NewID(), core.NewID()
	qty := decimal.NewFromInt

	return core.Snapshot{
		Projects: []core.Project{
			{
				ID: villa, Name: "Residencial Villa Verde", Address: "Av. Paulista, 1000", Responsible: "Eng. Carlos",
				StartDate: core.NewDate(2023, 10, 1), ExpectedEndDate: core.NewDate(2024, 5, 1),
				TotalBudget: core.NewMoney(250000), ProfitMargin: 20, Status: core.ProjectInProgress,
			},
			{
				ID: apto, Name: "Reforma Apto 402", Address: "Rua Augusta, 500", Responsible: "Arq. Ana",
				StartDate: core.NewDate(2024, 1, 15), ExpectedEndDate: core.NewDate(2024, 3, 1),
				TotalBudget: core.NewMoney(45000), ProfitMargin: 15, Status: core.ProjectPlanning,
			},
		},
		Stages: []core.Stage{
			{ID: fundacao, ProjectID: villa, Name: "Fundação", EstimatedCost: core.NewMoney(50000), Status: core.StageCompleted, Responsible: "Carlos", Deadline: core.NewDate(2023, 11, 1)},
			{ID: alvenaria, ProjectID: villa, Name: "Alvenaria", EstimatedCost: core.NewMoney(80000), Status: core.StageInProgress, Responsible: "Carlos", Deadline: core.NewDate(2024, 1, 1)},
			{ID: demolicao, ProjectID: apto, Name: "Demolição", EstimatedCost: core.NewMoney(5000), Status: core.StagePending, Responsible: "Ana", Deadline: core.NewDate(2024, 1, 20)},
		},
		Materials: []core.Material{
			{ID: core.NewID(), StageID: fundacao, Name: "Concreto Usinado", Unit: "m3", Quantity: qty(50), UnitPrice: core.NewMoney(450), Supplier: "Polimix", PurchaseDate: core.NewDate(2023, 10, 10)},
			{ID: core.NewID(), StageID: fundacao, Name: "Aço CA-50", Unit: "kg", Quantity: qty(1000), UnitPrice: core.NewMoney(8), Supplier: "Gerdau", PurchaseDate: core.NewDate(2023, 10, 12)},
			{ID: core.NewID(), StageID: alvenaria, Name: "Tijolo Cerâmico", Unit: "milheiro", Quantity: qty(10), UnitPrice: core.NewMoney(900), Supplier: "Olaria", PurchaseDate: core.NewDate(2023, 12, 5)},
		},
		Labor: []core.Labor{
			{ID: core.NewID(), StageID: fundacao, Role: "Pedreiro", WorkerName: "João", HourlyRate: core.NewMoney(30), HoursWorked: qty(160), Date: core.NewDate(2023, 10, 30)},
			{ID: core.NewID(), StageID: fundacao, Role: "Servente", WorkerName: "Pedro", HourlyRate: core.NewMoney(15), HoursWorked: qty(160), Date: core.NewDate(2023, 10, 30)},
		},
	}
}
