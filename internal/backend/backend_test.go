package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"obras/internal/config"
	"obras/internal/core"
)

func TestMemoryProviderIsolatesSessions(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProvider(true)

	a, err := p.Open(ctx, "session-a")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := p.Open(ctx, "session-b")

	projects, _ := a.ListProjects(ctx)
	if len(projects) != 2 {
		t.Fatalf("seeded workspace has %d projects", len(projects))
	}
	if _, err := a.DeleteProject(ctx, projects[0].ID); err != nil {
		t.Fatal(err)
	}
	if other, _ := b.ListProjects(ctx); len(other) != 2 {
		t.Fatalf("delete leaked into another session")
	}

	again, _ := p.Workspace(ctx, "session-a")
	if left, _ := again.ListProjects(ctx); len(left) != 1 {
		t.Fatalf("same session should see its own changes")
	}

	p.Release("session-a")
	if p.Len() != 1 {
		t.Fatalf("len = %d", p.Len())
	}
	fresh, _ := p.Open(ctx, "session-a")
	if all, _ := fresh.ListProjects(ctx); len(all) != 2 {
		t.Fatalf("a new login should start over from the seed")
	}

	if _, err := p.Open(ctx, ""); err == nil {
		t.Fatal("expected error for empty session id")
	}
}

func TestMemoryProviderNeverRevivesReleasedSession(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProvider(true)

	if _, err := p.Workspace(ctx, "never-opened"); !errors.Is(err, ErrNoWorkspace) {
		t.Fatalf("expected ErrNoWorkspace, got %v", err)
	}

	if _, err := p.Open(ctx, "s"); err != nil {
		t.Fatal(err)
	}
	p.Release("s")
	if _, err := p.Workspace(ctx, "s"); !errors.Is(err, ErrNoWorkspace) {
		t.Fatalf("expected ErrNoWorkspace after release, got %v", err)
	}
	if p.Len() != 0 {
		t.Fatalf("released session was recreated, len = %d", p.Len())
	}
}

func TestMemoryProviderWithoutSeed(t *testing.T) {
	ws, _ := NewMemoryProvider(false).Open(context.Background(), "s")
	if projects, _ := ws.ListProjects(context.Background()); len(projects) != 0 {
		t.Fatalf("expected empty workspace")
	}
}

func TestFactorySQLiteSharesWorkspace(t *testing.T) {
	ctx := context.Background()
	res, err := NewFactory(nil).CreateBackend(ctx, Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "obras.db"),
		SeedDemoData: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer res.Cleanup()

	if res.Publisher != nil {
		t.Fatal("publisher should be nil without AMQP")
	}
	if err := res.Provider.Ready(ctx); err != nil {
		t.Fatal(err)
	}
	a, _ := res.Provider.Workspace(ctx, "a")
	b, _ := res.Provider.Workspace(ctx, "b")
	p, err := a.CreateProject(ctx, core.Project{
		Name: "Galpão", Address: "Rua 1", Responsible: "Ana", StartDate: core.NewDate(2024, 1, 1),
		TotalBudget: core.NewMoney(1000), ProfitMargin: 10, Status: core.ProjectPlanning,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.GetProject(ctx, p.ID); err != nil {
		t.Fatalf("sqlite workspace should be shared: %v", err)
	}
	if all, _ := b.ListProjects(ctx); len(all) != 3 {
		t.Fatalf("expected 2 seeded + 1 created, got %d", len(all))
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	cfg, err := FromAppConfig(&config.Config{DataBackend: "memory", SeedDemoData: true})
	if err != nil || cfg.Type != MemoryBackend || !cfg.SeedDemoData {
		t.Fatalf("unexpected %+v %v", cfg, err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"amqp without queue", Config{Type: MemoryBackend, AMQPURL: "amqp://x", AMQPExchange: "e"}, true},
		{"unknown", Config{Type: "redis"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
