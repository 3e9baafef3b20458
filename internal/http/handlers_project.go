package http

import (
	"net/http"

	"obras/internal/advisor"
	"obras/internal/core"
	applog "obras/internal/log"
	"obras/internal/report"
	"obras/internal/services"
)

// handleProject renders the detail page, or only its body for tab switches.
func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	svc, err := s.service(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := svc.Project(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	body := s.newBody(r, view, r.URL.Query().Get("tab"))
	if isHTMX(r) {
		s.partial(w, r, NewHTMXResponse(), "project_body", body)
		return
	}
	s.render(w, r, http.StatusOK, "project", projectPage{page: s.pageData(r, "projects"), Body: body})
}

func (s *Server) newBody(r *http.Request, view services.ProjectView, tab string) projectBody {
	return projectBody{Lang: s.lang(r), View: view, Tab: normalizeTab(tab)}
}

// handleDeleteProject asks for confirmation unless confirm=yes was posted.
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	lang := s.lang(r)
	id := r.PathValue("id")
	svc, err := s.service(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	confirmed := false
	if r.Method == http.MethodPost {
		p := NewRequestBodyParser(w, r)
		if err := p.Parse(); err != nil {
			BadRequestError(t(lang, "error.validation")).Write(w)
			return
		}
		confirmed = p.Get("confirm") == "yes"
	}

	if !confirmed {
		view, err := svc.Project(r.Context(), id)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		data := confirmDeletePage{
			page:    s.pageData(r, "projects"),
			Project: view.Project,
			Cascade: core.CascadeResult{
				ProjectID: id,
				Stages:    len(view.Stages),
				Materials: len(view.Materials),
				Labor:     len(view.Labor),
				Expenses:  len(view.Expenses),
			},
		}
		if isHTMX(r) {
			s.partial(w, r, NewHTMXResponse(), "confirm_delete", data)
			return
		}
		s.render(w, r, http.StatusOK, "confirm_delete", data)
		return
	}

	res, err := svc.DeleteProject(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.advisor.Forget(id)
	s.logger.InfoContext(r.Context(), "Project deleted",
		applog.FieldProjectID, id,
		"stages", res.Stages, "materials", res.Materials, "labor", res.Labor, "expenses", res.Expenses)

	if isHTMX(r) {
		NewHTMXResponse().
			TriggerSuccessNotification(t(lang, "toast.project_deleted")).
			Redirect("/projects").
			Write(w)
		return
	}
	http.Redirect(w, r, "/projects", http.StatusSeeOther)
}

// handleExport streams the project workbook.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	svc, err := s.service(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := svc.Project(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	f, name, err := report.ProjectWorkbook(view, s.lang(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := f.Write(w); err != nil {
		s.logger.ErrorContext(r.Context(), "Workbook write failed",
			applog.FieldProjectID, view.Project.ID,
			applog.FieldOperation, applog.OpExport,
			applog.FieldError, err)
	}
}

// handlePrint renders the report in a standalone print layout.
func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	svc, err := s.service(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := svc.Project(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.renderEntry(w, r, http.StatusOK, "print", "document", printPage{page: s.pageData(r, ""), View: view})
}

// handleAnalysis asks the advisor about the project. The response is
// always 200 with a text; failures arrive as fixed messages.
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	svc, err := s.service(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := svc.Project(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	text := s.advisor.Analyze(r.Context(), view.Project.ID,
		advisor.NewInput(view.Project, view.Financials, view.Progress))
	s.partial(w, r, NewHTMXResponse(), "advisor_result", advisorResult{Lang: s.lang(r), Text: text})
}
