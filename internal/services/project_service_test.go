package services

import (
	"context"
	"errors"
	"testing"

	"obras/internal/amqp"
	"obras/internal/core"
	"obras/internal/store/memory"
)

type fakePublisher struct {
	msgs []*amqp.ProjectReportMessage
	err  error
}

func (f *fakePublisher) PublishProjectReport(_ context.Context, msg *amqp.ProjectReportMessage) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

func newService(t *testing.T) (*ProjectService, *fakePublisher) {
	t.Helper()
	pub := &fakePublisher{}
	svc := NewProjectService(memory.New(), pub)
	svc.today = func() core.Date { return core.NewDate(2024, 6, 1) }
	return svc, pub
}

func validationFields(t *testing.T, err error) core.Violations {
	t.Helper()
	var ve *core.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	return ve.Fields
}

func createProject(t *testing.T, svc *ProjectService, budget string) core.Project {
	t.Helper()
	p, err := svc.CreateProject(context.Background(), ProjectInput{
		Name: "Residencial Villa Verde", Address: "Av. Paulista, 1000", Responsible: "Eng. Carlos",
		StartDate: "2023-10-01", TotalBudget: budget,
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

func TestCreateProjectDefaults(t *testing.T) {
	svc, pub := newService(t)
	p := createProject(t, svc, "250000")
	if p.Status != core.ProjectPlanning || p.ProfitMargin != 20 || p.TotalBudget != core.NewMoney(250000) {
		t.Fatalf("unexpected defaults %+v", p)
	}
	if len(pub.msgs) != 1 || pub.msgs[0].Event != amqp.EventProjectCreated {
		t.Fatalf("expected a project.created event, got %+v", pub.msgs)
	}
}

func TestCreateProjectRejectsBadBudget(t *testing.T) {
	for _, budget := range []string{"0", "-10", "abc", ""} {
		svc, _ := newService(t)
		_, err := svc.CreateProject(context.Background(), ProjectInput{
			Name: "X", Address: "Y", Responsible: "Z", StartDate: "2024-01-01", TotalBudget: budget,
		})
		fields := validationFields(t, err)
		if _, ok := fields["total_budget"]; !ok {
			t.Fatalf("budget %q: expected total_budget violation, got %v", budget, fields)
		}
		_, projects, _ := svc.Dashboard(context.Background())
		if len(projects) != 0 {
			t.Fatalf("budget %q: project was created", budget)
		}
	}
}

func TestCreateProjectViolationCodes(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.CreateProject(context.Background(), ProjectInput{
		StartDate: "01/02/2024", TotalBudget: "0", ProfitMargin: "abc",
	})
	fields := validationFields(t, err)
	want := core.Violations{
		"name":          core.CodeRequired,
		"address":       core.CodeRequired,
		"responsible":   core.CodeRequired,
		"start_date":    core.CodeInvalidDate,
		"total_budget":  core.CodeMustBePositive,
		"profit_margin": core.CodeInvalidNumber,
	}
	for k, code := range want {
		if fields[k] != code {
			t.Errorf("%s: got %q, want %q", k, fields[k], code)
		}
	}
}

func TestFinancialFlowMatchesExample(t *testing.T) {
	ctx := context.Background()
	svc, pub := newService(t)
	p := createProject(t, svc, "250000")

	st, err := svc.CreateStage(ctx, p.ID, StageInput{Name: "Fundação", EstimatedCost: "50000"}, "admin")
	if err != nil {
		t.Fatal(err)
	}
	if st.Status != core.StagePending || st.Responsible != "admin" {
		t.Fatalf("stage defaults %+v", st)
	}

	for _, in := range []MaterialInput{
		{StageID: st.ID, Name: "Concreto Usinado", Unit: "m3", Quantity: "50", UnitPrice: "450"},
		{StageID: st.ID, Name: "Aço CA-50", Unit: "kg", Quantity: "1000", UnitPrice: "8"},
		{StageID: st.ID, Name: "Tijolo Cerâmico", Unit: "milheiro", Quantity: "10", UnitPrice: "900,00"},
	} {
		if _, err := svc.AddMaterial(ctx, p.ID, in); err != nil {
			t.Fatalf("add material %s: %v", in.Name, err)
		}
	}
	for _, in := range []LaborInput{
		{StageID: st.ID, Role: "Pedreiro", HourlyRate: "30", HoursWorked: "160"},
		{StageID: st.ID, Role: "Servente", HourlyRate: "15", HoursWorked: "160"},
	} {
		l, err := svc.AddLabor(ctx, p.ID, in)
		if err != nil {
			t.Fatalf("add labor: %v", err)
		}
		if l.Date != core.NewDate(2024, 6, 1) {
			t.Fatalf("labor date should default to today, got %v", l.Date)
		}
	}

	view, err := svc.Project(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if view.Financials.TotalCost != core.NewMoney(46700) || view.Financials.ProjectedProfit != core.NewMoney(203300) {
		t.Fatalf("financials %+v", view.Financials)
	}
	if view.Financials.IsRisk {
		t.Fatalf("should not be at risk")
	}

	for _, in := range []ExpenseInput{
		{Description: "Caçamba", Category: "rental", Amount: "1200"},
		{Description: "Frete", Category: "transport", Amount: "450"},
	} {
		if _, err := svc.AddExpense(ctx, p.ID, in); err != nil {
			t.Fatalf("add expense: %v", err)
		}
	}
	view, _ = svc.Project(ctx, p.ID)
	if view.Financials.TotalExpenses != core.NewMoney(1650) || view.Financials.TotalCost != core.NewMoney(48350) {
		t.Fatalf("after expenses %+v", view.Financials)
	}
	if len(view.Stages) != 1 || view.Stages[0].Cost.Total != core.NewMoney(46700) {
		t.Fatalf("stage cost %+v", view.Stages)
	}

	last := pub.msgs[len(pub.msgs)-1]
	if last.TotalCostCents != core.NewMoney(48350).Cents || last.Event != amqp.EventCostAdded {
		t.Fatalf("last event %+v", last)
	}
}

func TestStageMustBelongToProject(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	a := createProject(t, svc, "1000")
	b := createProject(t, svc, "1000")
	st, err := svc.CreateStage(ctx, a.ID, StageInput{Name: "S", EstimatedCost: "10"}, "")
	if err != nil {
		t.Fatal(err)
	}
	_, err = svc.AddMaterial(ctx, b.ID, MaterialInput{StageID: st.ID, Name: "M", Quantity: "1", UnitPrice: "1"})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.CreateStage(ctx, "ghost", StageInput{Name: "S", EstimatedCost: "10"}, ""); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMaterialDefaultsAndValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	p := createProject(t, svc, "1000")
	st, _ := svc.CreateStage(ctx, p.ID, StageInput{Name: "S", EstimatedCost: "10"}, "")

	m, err := svc.AddMaterial(ctx, p.ID, MaterialInput{StageID: st.ID, Name: " Areia\x00 ", Quantity: "2,5", UnitPrice: "10"})
	if err != nil {
		t.Fatal(err)
	}
	if m.Unit != DefaultUnit || m.Name != "Areia" || m.PurchaseDate != core.NewDate(2024, 6, 1) {
		t.Fatalf("unexpected material %+v", m)
	}

	_, err = svc.AddMaterial(ctx, p.ID, MaterialInput{StageID: st.ID, Name: "X", Quantity: "0", UnitPrice: "-1"})
	fields := validationFields(t, err)
	if fields["quantity"] != core.CodeMustBePositive || fields["unit_price"] != core.CodeMustBePositive {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestSetStageStatus(t *testing.T) {
	ctx := context.Background()
	svc, pub := newService(t)
	p := createProject(t, svc, "1000")
	st, _ := svc.CreateStage(ctx, p.ID, StageInput{Name: "S", EstimatedCost: "10"}, "")

	// any status to any status
	for _, status := range []string{"completed", "pending", "in_progress"} {
		got, err := svc.SetStageStatus(ctx, st.ID, status)
		if err != nil || string(got.Status) != status {
			t.Fatalf("set %s: %+v %v", status, got, err)
		}
	}
	if pub.msgs[len(pub.msgs)-1].Event != amqp.EventStageStatus {
		t.Fatalf("expected stage status event")
	}
	if fields := validationFields(t, errOnly(svc.SetStageStatus(ctx, st.ID, "paused"))); fields["status"] != core.CodeInvalidChoice {
		t.Fatalf("unexpected fields %v", fields)
	}
	if _, err := svc.SetStageStatus(ctx, "ghost", "completed"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func errOnly[T any](_ T, err error) error { return err }

func TestDeleteEntriesAndCascade(t *testing.T) {
	ctx := context.Background()
	svc, pub := newService(t)
	p := createProject(t, svc, "1000")
	st, _ := svc.CreateStage(ctx, p.ID, StageInput{Name: "S", EstimatedCost: "10"}, "")
	m, _ := svc.AddMaterial(ctx, p.ID, MaterialInput{StageID: st.ID, Name: "M", Quantity: "1", UnitPrice: "100"})
	l, _ := svc.AddLabor(ctx, p.ID, LaborInput{StageID: st.ID, Role: "R", HourlyRate: "10", HoursWorked: "1"})
	e, _ := svc.AddExpense(ctx, p.ID, ExpenseInput{Description: "D", Category: "food", Amount: "5"})

	if pid, err := svc.DeleteMaterial(ctx, m.ID); err != nil || pid != p.ID {
		t.Fatalf("delete material: %q %v", pid, err)
	}
	if pid, err := svc.DeleteLabor(ctx, l.ID); err != nil || pid != p.ID {
		t.Fatalf("delete labor: %q %v", pid, err)
	}
	view, _ := svc.Project(ctx, p.ID)
	if view.Financials.TotalCost != core.NewMoney(5) {
		t.Fatalf("cost after deletes %d", view.Financials.TotalCost.Cents)
	}

	res, err := svc.DeleteProject(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stages != 1 || res.Expenses != 1 {
		t.Fatalf("cascade %+v", res)
	}
	if _, err := svc.DeleteExpense(ctx, e.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expense should be gone with its project, got %v", err)
	}
	if _, err := svc.Project(ctx, p.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if last := pub.msgs[len(pub.msgs)-1]; last.Event != amqp.EventProjectDeleted || last.ProjectID != p.ID {
		t.Fatalf("expected project.deleted, got %+v", last)
	}
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewProjectService(memory.New(), pub)
	if _, err := svc.CreateProject(context.Background(), ProjectInput{
		Name: "X", Address: "Y", Responsible: "Z", StartDate: "2024-01-01", TotalBudget: "10",
	}); err != nil {
		t.Fatalf("publish failure leaked: %v", err)
	}
}

func TestNilPublisher(t *testing.T) {
	svc := NewProjectService(memory.NewSeeded(), nil)
	sum, projects, err := svc.Dashboard(context.Background())
	if err != nil || len(projects) != 2 || sum.TotalSpend != core.NewMoney(46700) {
		t.Fatalf("dashboard %+v %v", sum, err)
	}
	if _, err := svc.DeleteProject(context.Background(), projects[1].ID); err != nil {
		t.Fatal(err)
	}
}
