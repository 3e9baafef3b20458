package http

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"obras/internal/core"
	"obras/internal/i18n"
)

// templateSet holds the shared layout and partials plus one clone per page,
// so every page can define its own "content" block.
type templateSet struct {
	partials *template.Template
	pages    map[string]*template.Template
}

func parseTemplates(fsys fs.FS) (*templateSet, error) {
	base, err := template.New("base").Funcs(templateFuncs()).
		ParseFS(fsys, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout and partials: %w", err)
	}

	files, err := fs.Glob(fsys, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob pages: %w", err)
	}
	set := &templateSet{partials: base, pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone base for %s: %w", file, err)
		}
		if _, err := clone.ParseFS(fsys, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		set.pages[strings.TrimSuffix(path.Base(file), ".html")] = clone
	}
	return set, nil
}

// page renders a full document. Pages rendered outside the app shell
// name their own entry template.
func (t *templateSet) page(name, entry string, data any) ([]byte, error) {
	tpl, ok := t.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, entry, data); err != nil {
		return nil, fmt.Errorf("render page %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func (t *templateSet) partial(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.partials.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render partial %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"t":         i18n.T,
		"violation": i18n.Violation,
		"brl":       func(lang string, m core.Money) string { return formatBRL(lang, m.Cents) },
		"pct":       formatPercent,
		"qty":       formatDecimal,
		"date":      formatDate,
		"inputDate": inputDate,
		"width":     barWidth,
		"projectStatus": func(lang string, s core.ProjectStatus) string {
			return i18n.T(lang, "project_status."+string(s))
		},
		"stageStatus": func(lang string, s core.StageStatus) string {
			return i18n.T(lang, "stage_status."+string(s))
		},
		"category": func(lang string, c core.ExpenseCategory) string {
			return i18n.T(lang, "category."+string(c))
		},
		"stageStatuses":   core.StageStatuses,
		"projectStatuses": core.ProjectStatuses,
		"categories":      core.ExpenseCategories,
		"tabs":            func() []string { return []string{tabOverview, tabMaterials, tabLabor, tabExpenses} },
		"dict":            dict,
		"splitLines":      func(s string) []string { return strings.Split(s, "\n") },
	}
}

// dict builds a map from alternating keys and values so partials can take
// several arguments.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict needs an even number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}
