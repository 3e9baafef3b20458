// Package worker turns project report events into rows of the external
// report spreadsheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"obras/internal/amqp"
	"obras/internal/core"
	"obras/internal/sheets"
)

// ReportWorker handles report messages consumed from AMQP.
type ReportWorker struct {
	writer sheets.ReportWriter
}

func NewReportWorker(writer sheets.ReportWriter) *ReportWorker {
	return &ReportWorker{writer: writer}
}

// HandleReportMessage appends the report carried by msg. An error makes the
// consumer requeue the message.
func (w *ReportWorker) HandleReportMessage(ctx context.Context, msg *amqp.ProjectReportMessage) error {
	slog.InfoContext(ctx, "Processing report message",
		"component", "worker",
		"event", msg.Event,
		"project_id", msg.ProjectID)

	ref, err := w.writer.AppendReport(ctx, RowFromMessage(msg))
	if err != nil {
		return fmt.Errorf("append report for project %s: %w", msg.ProjectID, err)
	}

	slog.InfoContext(ctx, "Report synced to sheet",
		"component", "worker",
		"project_id", msg.ProjectID,
		"ref", ref)
	return nil
}

// RowFromMessage maps a report message to a sheet row.
func RowFromMessage(msg *amqp.ProjectReportMessage) sheets.ReportRow {
	return sheets.ReportRow{
		Timestamp:    msg.Timestamp,
		Event:        msg.Event,
		ProjectID:    msg.ProjectID,
		ProjectName:  msg.ProjectName,
		Budget:       core.Money{Cents: msg.BudgetCents},
		TotalCost:    core.Money{Cents: msg.TotalCostCents},
		Utilization:  msg.BudgetUtilization,
		RealMargin:   msg.RealMargin,
		IsRisk:       msg.IsRisk,
		IsOverBudget: msg.IsOverBudget,
	}
}
