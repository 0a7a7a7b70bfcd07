// Package ranking scores catalog projects against a user's skills.
package ranking

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/project-recommender/internal/catalog"
)

// ProjectSource lists the projects to rank in a stable order.
type ProjectSource interface {
	Projects() []catalog.Project
}

// Ranker ranks projects by skill overlap and TF-IDF similarity. It keeps no
// per-request state and is safe for concurrent use.
type Ranker struct {
	source ProjectSource
	logger *zap.Logger
}

// NewRanker returns a ranker over source. A nil logger is replaced by a no-op.
func NewRanker(source ProjectSource, logger *zap.Logger) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{source: source, logger: logger}
}

// Recommend scores every project against userSkills. Only projects with a
// positive similarity are returned, ordered by (has a match, match count,
// similarity), ties kept in catalog order. An empty skill set yields an
// empty list.
func (r *Ranker) Recommend(userSkills []string) []*Recommendation {
	user := normalizeSkills(userSkills)
	if len(user) == 0 {
		return []*Recommendation{}
	}

	projects := r.source.Projects()

	docs := make([]string, 0, len(projects)+1)
	docs = append(docs, strings.Join(user, " "))
	for _, project := range projects {
		docs = append(docs, project.CombinedSkills())
	}

	model, vectors := fitTransform(docs)

	userSet := make(map[string]struct{}, len(user))
	for _, skill := range user {
		userSet[skill] = struct{}{}
	}

	recs := make([]*Recommendation, 0)
	for idx, project := range projects {
		similarity := cosine(vectors[0], vectors[idx+1])
		if similarity <= 0 {
			continue
		}

		projectSkills := project.Skills()
		matched := matching(user, projectSkills)
		recs = append(recs, &Recommendation{
			ProjectName:     project.Name,
			MatchingCount:   len(matched),
			MatchingSkills:  matched,
			MissingSkills:   missing(projectSkills, userSet),
			SimilarityScore: similarity,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if (a.MatchingCount > 0) != (b.MatchingCount > 0) {
			return a.MatchingCount > 0
		}
		if a.MatchingCount != b.MatchingCount {
			return a.MatchingCount > b.MatchingCount
		}
		return a.SimilarityScore > b.SimilarityScore
	})

	r.logger.Debug("projects ranked",
		zap.Int("user_skills", len(user)),
		zap.Int("corpus_terms", len(model.terms)),
		zap.Int("projects", len(projects)),
		zap.Int("recommended", len(recs)),
	)

	return recs
}

func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, skill := range skills {
		skill = catalog.Normalize(skill)
		if skill == "" {
			continue
		}
		if _, dup := seen[skill]; dup {
			continue
		}
		seen[skill] = struct{}{}
		out = append(out, skill)
	}
	return out
}

// matching keeps user order.
func matching(user, projectSkills []string) []string {
	have := make(map[string]struct{}, len(projectSkills))
	for _, skill := range projectSkills {
		have[skill] = struct{}{}
	}

	out := make([]string, 0)
	for _, skill := range user {
		if _, ok := have[skill]; ok {
			out = append(out, skill)
		}
	}
	return out
}

// missing keeps slot order.
func missing(projectSkills []string, user map[string]struct{}) []string {
	out := make([]string, 0)
	for _, skill := range projectSkills {
		if _, ok := user[skill]; !ok {
			out = append(out, skill)
		}
	}
	return out
}
