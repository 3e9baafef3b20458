// Package advisor produces a short natural-language risk report for a
// project. Every failure degrades to a fixed message; callers always get a
// string to show.
package advisor

import (
	"context"
	"log/slog"
	"time"

	"obras/internal/cache"
	"obras/internal/metrics"
)

// Messages shown instead of a report.
const (
	MsgNoKey      = "Erro: Chave de API não configurada."
	MsgCallFailed = "Erro ao conectar com a IA para análise."
	MsgEmpty      = "Não foi possível gerar a análise."
)

type Advisor struct {
	gen   Generator
	cache cache.Cache[string]
}

// New returns an advisor. gen may be nil, meaning no API key is configured.
// reports may be nil to disable caching.
func New(gen Generator, reports cache.Cache[string]) *Advisor {
	return &Advisor{gen: gen, cache: reports}
}

// Analyze returns a report for the project, or one of the fixed messages.
func (a *Advisor) Analyze(ctx context.Context, projectID string, in Input) string {
	if a == nil || a.gen == nil {
		metrics.RecordAdvisorCall("no_key", 0)
		return MsgNoKey
	}

	key := cacheKeyPrefix(projectID) + in.Fingerprint()
	if a.cache != nil {
		if report, ok := a.cache.Get(key); ok {
			metrics.RecordAdvisorCall("cached", 0)
			return report
		}
	}

	start := time.Now()
	report, err := a.gen.Generate(ctx, BuildPrompt(in))
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordAdvisorCall("error", elapsed)
		slog.ErrorContext(ctx, "AI analysis failed",
			"component", "advisor", "project_id", projectID, "error", err)
		return MsgCallFailed
	}
	if report == "" {
		metrics.RecordAdvisorCall("empty", elapsed)
		return MsgEmpty
	}

	metrics.RecordAdvisorCall("success", elapsed)
	if a.cache != nil {
		a.cache.Set(key, report)
	}
	slog.InfoContext(ctx, "AI analysis generated",
		"component", "advisor", "project_id", projectID, "duration_ms", elapsed.Milliseconds())
	return report
}

// Forget drops every cached report of a project.
func (a *Advisor) Forget(projectID string) {
	if a == nil || a.cache == nil {
		return
	}
	a.cache.DeletePrefix(cacheKeyPrefix(projectID))
}

func cacheKeyPrefix(projectID string) string {
	return projectID + ":"
}
