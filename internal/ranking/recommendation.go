package ranking

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spigell/project-recommender/internal/utils"
)

// Recommendation explains how one project scored against the user's skills.
type Recommendation struct {
	ProjectName     string   `json:"project_name"`
	MatchingCount   int      `json:"matching_count"`
	MatchingSkills  []string `json:"matching_skills"`
	MissingSkills   []string `json:"missing_skills"`
	SimilarityScore float64  `json:"similarity_score"`
}

// Recommendations is an ordered recommendation list.
type Recommendations struct {
	Items []*Recommendation `json:"items"`
}

func NewRecommendations(items []*Recommendation) *Recommendations {
	if items == nil {
		items = []*Recommendation{}
	}
	return &Recommendations{Items: items}
}

func (r *Recommendations) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Items)
}

func (r *Recommendations) FindByName(name string) *Recommendation {
	for _, rec := range r.Items {
		if rec.ProjectName == name {
			return rec
		}
	}
	return nil
}

func (r *Recommendations) Names() []string {
	names := make([]string, 0, len(r.Items))
	for _, rec := range r.Items {
		names = append(names, rec.ProjectName)
	}
	return names
}

// Exclude removes the named projects and returns the names actually
// removed. Remaining items keep their order.
func (r *Recommendations) Exclude(names []string) []string {
	targets := make(map[string]struct{}, len(names))
	for _, name := range names {
		targets[name] = struct{}{}
	}

	var excluded []string
	kept := r.Items[:0]
	for _, rec := range r.Items {
		if _, ok := targets[rec.ProjectName]; ok {
			excluded = append(excluded, rec.ProjectName)
			continue
		}
		kept = append(kept, rec)
	}
	for i := len(kept); i < len(r.Items); i++ {
		r.Items[i] = nil
	}
	r.Items = kept

	return excluded
}

// DumpToTmpFile writes the list as indented JSON to a new temp file and
// returns its path.
func (r *Recommendations) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "recommendations_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByMatch groups projects by how many of the user's skills they use.
func (r *Recommendations) ReportByMatch() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, rec := range r.Items {
		key := fmt.Sprintf("%d matching %s", rec.MatchingCount, utils.Plural(rec.MatchingCount, "skill", "skills"))
		report[key] = append(report[key], map[string]string{
			"project":    rec.ProjectName,
			"matching":   strings.Join(rec.MatchingSkills, ", "),
			"missing":    strings.Join(rec.MissingSkills, ", "),
			"similarity": fmt.Sprintf("%.3f", rec.SimilarityScore),
		})
	}
	return report
}
