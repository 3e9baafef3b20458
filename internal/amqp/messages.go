package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"obras/internal/core"
)

// Event names carried by ProjectReportMessage.
const (
	EventProjectCreated = "project.created"
	EventProjectDeleted = "project.deleted"
	EventStageCreated   = "stage.created"
	EventStageStatus    = "stage.status_changed"
	EventCostAdded      = "cost.added"
	EventCostRemoved    = "cost.removed"
)

// ProjectReportMessage is a point-in-time financial report of one project,
// published after every mutation that changes it. Money is in cents.
type ProjectReportMessage struct {
	Event             string    `json:"event"`
	ProjectID         string    `json:"project_id"`
	ProjectName       string    `json:"project_name"`
	BudgetCents       int64     `json:"budget_cents"`
	TotalCostCents    int64     `json:"total_cost_cents"`
	ProfitCents       int64     `json:"profit_cents"`
	BudgetUtilization float64   `json:"budget_utilization"`
	RealMargin        float64   `json:"real_margin"`
	IsRisk            bool      `json:"is_risk"`
	IsOverBudget      bool      `json:"is_over_budget"`
	StagesTotal       int       `json:"stages_total"`
	StagesCompleted   int       `json:"stages_completed"`
	Timestamp         time.Time `json:"timestamp"`
}

// NewProjectReportMessage builds the report of projectID from snap. A
// deleted project is reported with its last known name and zero totals.
func NewProjectReportMessage(event string, p core.Project, snap core.Snapshot) *ProjectReportMessage {
	f := core.ComputeFinancials(p.ID, snap)
	progress := core.Progress(snap.StagesOf(p.ID))
	return &ProjectReportMessage{
		Event:             event,
		ProjectID:         p.ID,
		ProjectName:       p.Name,
		BudgetCents:       p.TotalBudget.Cents,
		TotalCostCents:    f.TotalCost.Cents,
		ProfitCents:       p.TotalBudget.Sub(f.TotalCost).Cents,
		BudgetUtilization: f.BudgetUtilization,
		RealMargin:        f.RealMargin,
		IsRisk:            f.IsRisk,
		IsOverBudget:      f.IsOverBudget,
		StagesTotal:       progress.Total,
		StagesCompleted:   progress.Completed,
		Timestamp:         time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ProjectReportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ProjectReportMessageFromJSON decodes and sanity-checks a message body.
func ProjectReportMessageFromJSON(data []byte) (*ProjectReportMessage, error) {
	var msg ProjectReportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ProjectID == "" || msg.Event == "" {
		return nil, fmt.Errorf("report message missing event or project id")
	}
	return &msg, nil
}
