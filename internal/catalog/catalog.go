// Package catalog loads the project dataset and answers questions about the
// skills each project requires.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	// ProjectNameColumn is the header of the required project name column.
	ProjectNameColumn = "Project Name"
	// SkillColumnPrefix marks every column that holds a required-skill slot.
	SkillColumnPrefix = "skill"
)

// ErrProjectNotFound is returned for lookups of a name absent from the catalog.
var ErrProjectNotFound = errors.New("project not found")

// Project is a single catalog entry. Slots keep the raw positional skill
// cells, empty strings included.
type Project struct {
	Name  string
	Slots []string
}

// Skills returns the non-empty, normalized skill slots in column order.
func (p Project) Skills() []string {
	skills := make([]string, 0, len(p.Slots))
	for _, slot := range p.Slots {
		if skill := Normalize(slot); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

// CombinedSkills joins Skills with single spaces.
func (p Project) CombinedSkills() string {
	return strings.Join(p.Skills(), " ")
}

// Catalog is the read-only view over a loaded dataset. It is safe for
// concurrent readers.
type Catalog struct {
	projects   []Project
	byName     map[string]int
	vocabulary []string
	known      map[string]struct{}
}

// Normalize lowercases and trims a skill token.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// isNull mirrors the cells a dataframe reader would treat as missing.
func isNull(lowered string) bool {
	switch lowered {
	case "", "nan", "null", "n/a":
		return true
	default:
		return false
	}
}

// Load builds a catalog from a table. Column discovery is by name: the
// ProjectNameColumn is required, as is at least one column starting with
// SkillColumnPrefix.
func Load(table *Table) (*Catalog, error) {
	if table == nil || len(table.Header) == 0 {
		return nil, &DatasetError{Message: "dataset has no header"}
	}

	nameIdx := -1
	var skillIdx []int
	for idx, column := range table.Header {
		column = strings.TrimSpace(strings.TrimPrefix(column, "\ufeff"))
		switch {
		case column == ProjectNameColumn:
			if nameIdx != -1 {
				return nil, &DatasetError{Message: "duplicate column", Column: ProjectNameColumn}
			}
			nameIdx = idx
		case strings.HasPrefix(column, SkillColumnPrefix):
			skillIdx = append(skillIdx, idx)
		}
	}

	if nameIdx == -1 {
		return nil, &DatasetError{Message: "required column is missing", Column: ProjectNameColumn}
	}
	if len(skillIdx) == 0 {
		return nil, &DatasetError{Message: "no skill columns found", Column: SkillColumnPrefix + "*"}
	}

	c := &Catalog{
		projects: make([]Project, 0, len(table.Rows)),
		byName:   make(map[string]int, len(table.Rows)),
		known:    make(map[string]struct{}),
	}

	for rowIdx, row := range table.Rows {
		line := rowIdx + 2 // header is line 1
		name := strings.TrimSpace(cell(row, nameIdx))
		if name == "" {
			if rowIsBlank(row) {
				continue
			}
			return nil, &DatasetError{Message: "empty project name", Column: ProjectNameColumn, Row: line}
		}
		if _, dup := c.byName[name]; dup {
			return nil, &DatasetError{Message: fmt.Sprintf("duplicate project name %q", name), Column: ProjectNameColumn, Row: line}
		}

		project := Project{Name: name, Slots: make([]string, len(skillIdx))}
		for slot, idx := range skillIdx {
			raw := strings.TrimSpace(cell(row, idx))
			if isNull(strings.ToLower(raw)) {
				raw = ""
			}
			project.Slots[slot] = raw
		}

		for _, skill := range project.Skills() {
			c.known[skill] = struct{}{}
		}

		c.byName[name] = len(c.projects)
		c.projects = append(c.projects, project)
	}

	c.vocabulary = make([]string, 0, len(c.known))
	for skill := range c.known {
		c.vocabulary = append(c.vocabulary, skill)
	}
	sort.Strings(c.vocabulary)

	return c, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func rowIsBlank(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

// Len returns the number of projects.
func (c *Catalog) Len() int {
	return len(c.projects)
}

// Projects returns the projects in dataset order. The slice is a copy.
func (c *Catalog) Projects() []Project {
	out := make([]Project, len(c.projects))
	copy(out, c.projects)
	return out
}

// Project looks a project up by its exact name.
func (c *Catalog) Project(name string) (Project, bool) {
	idx, ok := c.byName[strings.TrimSpace(name)]
	if !ok {
		return Project{}, false
	}
	return c.projects[idx], true
}

// Vocabulary returns every distinct skill token in the catalog, sorted.
func (c *Catalog) Vocabulary() []string {
	out := make([]string, len(c.vocabulary))
	copy(out, c.vocabulary)
	return out
}

// Contains reports whether skill is part of the vocabulary.
func (c *Catalog) Contains(skill string) bool {
	_, ok := c.known[Normalize(skill)]
	return ok
}

// ProjectSkills returns the normalized skills of the named project.
func (c *Catalog) ProjectSkills(name string) ([]string, error) {
	project, ok := c.Project(name)
	if !ok {
		return nil, projectNotFound(name)
	}
	return project.Skills(), nil
}

// CombinedSkillsText returns the TF-IDF document of the named project.
func (c *Catalog) CombinedSkillsText(name string) (string, error) {
	project, ok := c.Project(name)
	if !ok {
		return "", projectNotFound(name)
	}
	return project.CombinedSkills(), nil
}

func projectNotFound(name string) error {
	return fmt.Errorf("project %q: %w", name, ErrProjectNotFound)
}
