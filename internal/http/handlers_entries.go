package http

import (
	"context"
	"net/http"

	"obras/internal/auth"
	"obras/internal/i18n"
	applog "obras/internal/log"
	"obras/internal/services"
)

// respondProject answers a detail-page mutation. htmx gets the refreshed
// project body; plain forms are redirected back to the tab, or get the
// full page when the submission was rejected.
func (s *Server) respondProject(w http.ResponseWriter, r *http.Request, svc *services.ProjectService,
	projectID, tab string, status int, toastKey string, apply func(*projectBody)) {
	lang := s.lang(r)
	view, err := svc.Project(r.Context(), projectID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	body := s.newBody(r, view, tab)
	if apply != nil {
		apply(&body)
	}

	if !isHTMX(r) {
		if status == http.StatusOK {
			http.Redirect(w, r, "/projects/"+projectID+"?tab="+body.Tab, http.StatusSeeOther)
			return
		}
		s.render(w, r, status, "project", projectPage{page: s.pageData(r, "projects"), Body: body})
		return
	}

	b := NewHTMXResponse().Status(status).TriggerProjectChanged(projectID)
	if status == http.StatusOK {
		b.TriggerFormReset().TriggerSuccessNotification(t(lang, toastKey))
	} else {
		b.TriggerErrorNotification(t(lang, "error.validation"))
	}
	s.partial(w, r, b, "project_body", body)
}

// createEntry parses a detail-page form and runs create with it.
func (s *Server) createEntry(w http.ResponseWriter, r *http.Request, entity, tab, toastKey string, fields []string,
	attach func(*projectBody, formState),
	create func(context.Context, *services.ProjectService, string, *RequestBodyParser) error) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		BadRequestError(t(s.lang(r), "error.validation")).Write(w)
		return
	}
	svc, err := s.service(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	projectID := r.PathValue("id")

	if err := create(r.Context(), svc, projectID, p); err != nil {
		violations, ok := validation(err)
		if !ok {
			s.fail(w, r, err)
			return
		}
		form := formState{Values: p.Values(fields...), Errors: violations}
		s.respondProject(w, r, svc, projectID, tab, http.StatusUnprocessableEntity, "",
			func(b *projectBody) { attach(b, form) })
		return
	}

	applog.NewStructuredLogger(s.logger).LogMutation(r.Context(), entity, applog.OpCreate, "", projectID)
	s.respondProject(w, r, svc, projectID, tab, http.StatusOK, toastKey, nil)
}

// deleteEntry removes one cost entry; remove returns the owning project.
func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request, entity, tab string,
	remove func(context.Context, *services.ProjectService, string) (string, error)) {
	svc, err := s.service(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id := r.PathValue("id")
	projectID, err := remove(r.Context(), svc, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	applog.NewStructuredLogger(s.logger).LogMutation(r.Context(), entity, applog.OpDelete, id, projectID)
	s.respondProject(w, r, svc, projectID, tab, http.StatusOK, "toast.entry_deleted", nil)
}

func (s *Server) handleCreateStage(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())
	s.createEntry(w, r, "stage", tabOverview, "toast.stage_created", stageFields,
		func(b *projectBody, f formState) { b.Stage = f },
		func(ctx context.Context, svc *services.ProjectService, projectID string, p *RequestBodyParser) error {
			_, err := svc.CreateStage(ctx, projectID, stageInput(p), sess.Username)
			return err
		})
}

// handleStageStatus moves a stage to the posted status. Any status may
// follow any other.
func (s *Server) handleStageStatus(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		BadRequestError(t(s.lang(r), "error.validation")).Write(w)
		return
	}
	svc, err := s.service(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	stage, err := svc.SetStageStatus(r.Context(), r.PathValue("id"), p.Get("status"))
	if err != nil {
		if violations, ok := validation(err); ok {
			UnprocessableEntityError(i18n.Violation(s.lang(r), violations["status"])).Write(w)
			return
		}
		s.fail(w, r, err)
		return
	}
	applog.NewStructuredLogger(s.logger).LogMutation(r.Context(), "stage", applog.OpUpdate, stage.ID, stage.ProjectID)
	s.respondProject(w, r, svc, stage.ProjectID, tabOverview, http.StatusOK, "toast.stage_updated", nil)
}

func (s *Server) handleAddMaterial(w http.ResponseWriter, r *http.Request) {
	s.createEntry(w, r, "material", tabMaterials, "toast.entry_added", materialFields,
		func(b *projectBody, f formState) { b.Material = f },
		func(ctx context.Context, svc *services.ProjectService, projectID string, p *RequestBodyParser) error {
			_, err := svc.AddMaterial(ctx, projectID, materialInput(p))
			return err
		})
}

func (s *Server) handleDeleteMaterial(w http.ResponseWriter, r *http.Request) {
	s.deleteEntry(w, r, "material", tabMaterials,
		func(ctx context.Context, svc *services.ProjectService, id string) (string, error) {
			return svc.DeleteMaterial(ctx, id)
		})
}

func (s *Server) handleAddLabor(w http.ResponseWriter, r *http.Request) {
	s.createEntry(w, r, "labor", tabLabor, "toast.entry_added", laborFields,
		func(b *projectBody, f formState) { b.Labor = f },
		func(ctx context.Context, svc *services.ProjectService, projectID string, p *RequestBodyParser) error {
			_, err := svc.AddLabor(ctx, projectID, laborInput(p))
			return err
		})
}

func (s *Server) handleDeleteLabor(w http.ResponseWriter, r *http.Request) {
	s.deleteEntry(w, r, "labor", tabLabor,
		func(ctx context.Context, svc *services.ProjectService, id string) (string, error) {
			return svc.DeleteLabor(ctx, id)
		})
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	s.createEntry(w, r, "expense", tabExpenses, "toast.entry_added", expenseFields,
		func(b *projectBody, f formState) { b.Expense = f },
		func(ctx context.Context, svc *services.ProjectService, projectID string, p *RequestBodyParser) error {
			_, err := svc.AddExpense(ctx, projectID, expenseInput(p))
			return err
		})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	s.deleteEntry(w, r, "expense", tabExpenses,
		func(ctx context.Context, svc *services.ProjectService, id string) (string, error) {
			return svc.DeleteExpense(ctx, id)
		})
}
