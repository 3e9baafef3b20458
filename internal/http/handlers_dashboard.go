package http

import (
	"net/http"
	"strconv"

	"obras/internal/core"
	applog "obras/internal/log"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	svc, err := s.service(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	summary, projects, err := svc.Dashboard(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "dashboard", dashboardPage{
		page:     s.pageData(r, "dashboard"),
		Summary:  summary,
		Projects: projectCards(projects, summary),
	})
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	data, err := s.projectsData(r, formState{})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "projects", data)
}

func (s *Server) projectsData(r *http.Request, form formState) (projectsPage, error) {
	svc, err := s.service(r)
	if err != nil {
		return projectsPage{}, err
	}
	summary, projects, err := svc.Dashboard(r.Context())
	if err != nil {
		return projectsPage{}, err
	}
	return projectsPage{
		page:     s.pageData(r, "projects"),
		Projects: projectCards(projects, summary),
		Form:     form,
	}, nil
}

// handleCreateProject re-renders the projects section: with the new card
// on success, with per-field messages and 422 on rejection.
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	lang := s.lang(r)
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		BadRequestError(t(lang, "error.validation")).Write(w)
		return
	}

	svc, err := s.service(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	project, err := svc.CreateProject(r.Context(), projectInput(p))
	if err != nil {
		violations, ok := validation(err)
		if !ok {
			s.fail(w, r, err)
			return
		}
		data, derr := s.projectsData(r, formState{Values: p.Values(projectFields...), Errors: violations})
		if derr != nil {
			s.fail(w, r, derr)
			return
		}
		if !isHTMX(r) {
			s.render(w, r, http.StatusUnprocessableEntity, "projects", data)
			return
		}
		s.partial(w, r, NewHTMXResponse().Status(http.StatusUnprocessableEntity).
			TriggerErrorNotification(t(lang, "error.validation")), "projects_section", data)
		return
	}

	s.logger.InfoContext(r.Context(), "Project created",
		applog.FieldProjectID, project.ID,
		"budget_cents", project.TotalBudget.Cents)

	if !isHTMX(r) {
		http.Redirect(w, r, "/projects/"+project.ID, http.StatusSeeOther)
		return
	}
	data, err := s.projectsData(r, formState{})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.partial(w, r, NewHTMXResponse().
		TriggerFormReset().
		TriggerSuccessNotification(t(lang, "toast.project_created")), "projects_section", data)
}

// handleFinancials serves the aggregator output as JSON.
func (s *Server) handleFinancials(w http.ResponseWriter, r *http.Request) {
	svc, err := s.service(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := svc.Project(r.Context(), r.PathValue("id"))
	if err != nil {
		if isNotFound(err) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, financialsJSON(view.Project, view.Financials, view.Progress))
}

type financialsResponse struct {
	ProjectID         string  `json:"project_id"`
	Name              string  `json:"name"`
	Budget            string  `json:"budget"`
	TotalMaterials    string  `json:"total_materials"`
	TotalLabor        string  `json:"total_labor"`
	TotalExpenses     string  `json:"total_expenses"`
	TotalCost         string  `json:"total_cost"`
	ProjectedProfit   string  `json:"projected_profit"`
	RealMargin        float64 `json:"real_margin"`
	BudgetUtilization float64 `json:"budget_utilization"`
	IsOverBudget      bool    `json:"is_over_budget"`
	IsRisk            bool    `json:"is_risk"`
	StagesTotal       int     `json:"stages_total"`
	StagesCompleted   int     `json:"stages_completed"`
}

// financialsJSON renders money as decimal strings so no precision is lost.
func financialsJSON(p core.Project, f core.Financials, progress core.StageProgress) financialsResponse {
	return financialsResponse{
		ProjectID:         p.ID,
		Name:              p.Name,
		Budget:            centsString(p.TotalBudget.Cents),
		TotalMaterials:    centsString(f.TotalMaterials.Cents),
		TotalLabor:        centsString(f.TotalLabor.Cents),
		TotalExpenses:     centsString(f.TotalExpenses.Cents),
		TotalCost:         centsString(f.TotalCost.Cents),
		ProjectedProfit:   centsString(f.ProjectedProfit.Cents),
		RealMargin:        round2(f.RealMargin),
		BudgetUtilization: round2(f.BudgetUtilization),
		IsOverBudget:      f.IsOverBudget,
		IsRisk:            f.IsRisk,
		StagesTotal:       progress.Total,
		StagesCompleted:   progress.Completed,
	}
}

func centsString(cents int64) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return sign + strconv.FormatInt(cents/100, 10) + "." + twoDigits(cents%100)
}

func round2(f float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(f, 'f', 2, 64), 64)
	return v
}
