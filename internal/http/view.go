package http

import (
	"obras/internal/core"
	"obras/internal/services"
)

// Project detail tabs.
const (
	tabOverview  = "overview"
	tabMaterials = "materials"
	tabLabor     = "labor"
	tabExpenses  = "expenses"
)

func normalizeTab(tab string) string {
	switch tab {
	case tabMaterials, tabLabor, tabExpenses:
		return tab
	default:
		return tabOverview
	}
}

// page is the data every full document needs.
type page struct {
	Lang string
	User string
	Nav  string
}

// formState carries submitted values and their violations back into a form.
type formState struct {
	Values map[string]string
	Errors core.Violations
}

func (f formState) V(field string) string { return f.Values[field] }

func (f formState) E(field string) string { return f.Errors[field] }

func (f formState) HasErrors() bool { return len(f.Errors) > 0 }

type projectCard struct {
	core.Project
	Financials core.Financials
}

type (
	loginPage struct {
		page
		Username string
		Failed   bool
	}

	dashboardPage struct {
		page
		Summary  core.PortfolioSummary
		Projects []projectCard
	}

	projectsPage struct {
		page
		Projects []projectCard
		Form     formState
	}

	projectPage struct {
		page
		Body projectBody
	}

	// projectBody is the swappable part of the detail page: the financial
	// header, the tab strip and the active tab.
	projectBody struct {
		Lang     string
		View     services.ProjectView
		Tab      string
		Stage    formState
		Material formState
		Labor    formState
		Expense  formState
	}

	confirmDeletePage struct {
		page
		Project core.Project
		// Cascade counts what the delete will remove with the project.
		Cascade core.CascadeResult
	}

	printPage struct {
		page
		View services.ProjectView
	}

	errorPage struct {
		page
		Status  int
		Message string
	}

	advisorResult struct {
		Lang string
		Text string
	}
)

func projectCards(projects []core.Project, summary core.PortfolioSummary) []projectCard {
	cards := make([]projectCard, 0, len(projects))
	for _, p := range projects {
		cards = append(cards, projectCard{Project: p, Financials: summary.ByProject[p.ID]})
	}
	return cards
}
