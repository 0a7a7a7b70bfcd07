package filtering

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/project-recommender/internal/ranking"
)

// ExcludedProjects is the content of an exclude file: projects the user has
// finished or does not want to see again.
type ExcludedProjects struct {
	Items []*ExcludedProject
}

type ExcludedProject struct {
	Name       string
	Reason     string
	ExcludedAt time.Time
}

// NewExcludedProjects builds exclude entries for the given recommendations.
func NewExcludedProjects(reason string, recs ...*ranking.Recommendation) *ExcludedProjects {
	excluded := &ExcludedProjects{}
	for _, rec := range recs {
		excluded.Items = append(excluded.Items, &ExcludedProject{
			Name:       rec.ProjectName,
			Reason:     reason,
			ExcludedAt: time.Now().UTC(),
		})
	}
	return excluded
}

// GetExcludedProjectsFromFile reads an exclude file. A missing or empty file
// is an empty list.
func GetExcludedProjectsFromFile(path string) (*ExcludedProjects, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ExcludedProjects{}, nil
		}
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedProjects{}, nil
	}

	var excluded ExcludedProjects
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

// Append adds the entries of s that are not already present.
func (e *ExcludedProjects) Append(s *ExcludedProjects) {
	known := make(map[string]struct{}, len(e.Items))
	for _, item := range e.Items {
		known[item.Name] = struct{}{}
	}
	for _, item := range s.Items {
		if _, ok := known[item.Name]; ok {
			continue
		}
		known[item.Name] = struct{}{}
		e.Items = append(e.Items, item)
	}
}

func (e *ExcludedProjects) Names() []string {
	names := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		names = append(names, item.Name)
	}
	return names
}

// ToFile overwrites path with the list.
func (e *ExcludedProjects) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// AppendToFile loads path, merges s into it and writes it back.
func AppendToFile(path string, s *ExcludedProjects) error {
	excluded, err := GetExcludedProjectsFromFile(path)
	if err != nil {
		return fmt.Errorf("load excluded projects: %w", err)
	}

	excluded.Append(s)

	if err := excluded.ToFile(path); err != nil {
		return fmt.Errorf("write excluded projects: %w", err)
	}
	return nil
}

type excludeFileFilter struct {
	path string
}

// NewExcludeFile creates a filter that removes projects listed in the exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, recs *ranking.Recommendations) (*ranking.Recommendations, Step, error) {
	initial := recs.Len()
	if f.path == "" {
		return recs, Step{Initial: initial, Dropped: 0, Left: recs.Len()}, nil
	}

	excluded, err := GetExcludedProjectsFromFile(f.path)
	if err != nil {
		return recs, Step{}, fmt.Errorf("getting excluded projects from file: %w", err)
	}

	removed := recs.Exclude(excluded.Names())
	if len(removed) > 0 {
		deps.Logger.Info("excluding projects based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_projects", removed),
			zap.Int("projects_left", recs.Len()),
		)
	}

	return recs, Step{Initial: initial, Dropped: len(removed), Left: recs.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
