package core

import "fmt"

// CascadeResult reports what a project deletion removed.
type CascadeResult struct {
	ProjectID string
	Stages    int
	Materials int
	Labor     int
	Expenses  int
}

// DeleteProjectCascade returns a copy of s without the project, its stages,
// the materials and labor of those stages and its expenses. s is not modified.
func DeleteProjectCascade(s Snapshot, projectID string) (Snapshot, CascadeResult, error) {
	if _, ok := s.FindProject(projectID); !ok {
		return s, CascadeResult{}, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	res := CascadeResult{ProjectID: projectID}
	removed := s.stageIDs(projectID)

	var out Snapshot
	for _, p := range s.Projects {
		if p.ID != projectID {
			out.Projects = append(out.Projects, p)
		}
	}
	for _, st := range s.Stages {
		if st.ProjectID == projectID {
			res.Stages++
			continue
		}
		out.Stages = append(out.Stages, st)
	}
	for _, m := range s.Materials {
		if _, ok := removed[m.StageID]; ok {
			res.Materials++
			continue
		}
		out.Materials = append(out.Materials, m)
	}
	for _, l := range s.Labor {
		if _, ok := removed[l.StageID]; ok {
			res.Labor++
			continue
		}
		out.Labor = append(out.Labor, l)
	}
	for _, e := range s.Expenses {
		if e.ProjectID == projectID {
			res.Expenses++
			continue
		}
		out.Expenses = append(out.Expenses, e)
	}
	return out, res, nil
}

// Orphans returns a description of every dangling reference in s. An
// empty result means referential integrity holds.
func (s Snapshot) Orphans() []string {
	projects := make(map[string]struct{}, len(s.Projects))
	for _, p := range s.Projects {
		projects[p.ID] = struct{}{}
	}
	stages := make(map[string]struct{}, len(s.Stages))
	var out []string
	for _, st := range s.Stages {
		stages[st.ID] = struct{}{}
		if _, ok := projects[st.ProjectID]; !ok {
			out = append(out, "stage "+st.ID+" -> project "+st.ProjectID)
		}
	}
	for _, m := range s.Materials {
		if _, ok := stages[m.StageID]; !ok {
			out = append(out, "material "+m.ID+" -> stage "+m.StageID)
		}
	}
	for _, l := range s.Labor {
		if _, ok := stages[l.StageID]; !ok {
			out = append(out, "labor "+l.ID+" -> stage "+l.StageID)
		}
	}
	for _, e := range s.Expenses {
		if _, ok := projects[e.ProjectID]; !ok {
			out = append(out, "expense "+e.ID+" -> project "+e.ProjectID)
		}
	}
	return out
}
