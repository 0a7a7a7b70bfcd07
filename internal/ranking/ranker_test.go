package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/project-recommender/internal/catalog"
)

type projects []catalog.Project

func (p projects) Projects() []catalog.Project { return p }

func project(name string, slots ...string) catalog.Project {
	return catalog.Project{Name: name, Slots: slots}
}

func TestRecommendScenario(t *testing.T) {
	t.Parallel()

	r := NewRanker(projects{
		project("Project A", "Python", "Django", "PostgreSQL"),
		project("Project B", "Java", "Spring Boot", ""),
	}, nil)

	recs := r.Recommend([]string{"python", "django"})
	require.Len(t, recs, 1, "Project B shares no terms")

	got := recs[0]
	assert.Equal(t, "Project A", got.ProjectName)
	assert.Equal(t, 2, got.MatchingCount)
	assert.Equal(t, []string{"python", "django"}, got.MatchingSkills)
	assert.Equal(t, []string{"postgresql"}, got.MissingSkills)
	assert.InDelta(t, 0.7323591428, got.SimilarityScore, 1e-9)
}

func TestRecommendZeroMatchRanksLast(t *testing.T) {
	t.Parallel()

	r := NewRanker(projects{
		project("Enterprise", "Java", "Spring Boot"),
		project("Legacy", "Spring", "Hibernate"),
		project("Unrelated", "Go"),
	}, nil)

	recs := r.Recommend([]string{"Spring"})
	require.Len(t, recs, 2)

	assert.Equal(t, "Legacy", recs[0].ProjectName)
	assert.Equal(t, 1, recs[0].MatchingCount)
	assert.Equal(t, "Enterprise", recs[1].ProjectName)
	assert.Zero(t, recs[1].MatchingCount)
	assert.Empty(t, recs[1].MatchingSkills)
	assert.NotNil(t, recs[1].MatchingSkills)
	assert.Equal(t, []string{"java", "spring boot"}, recs[1].MissingSkills)
	assert.Greater(t, recs[1].SimilarityScore, 0.0)
}

func TestRecommendOrdering(t *testing.T) {
	t.Parallel()

	r := NewRanker(projects{
		project("Script", "Python"),
		project("Platform", "Python", "SQL", "Docker", "Kubernetes"),
		project("Reports", "SQL"),
	}, nil)

	recs := r.Recommend([]string{"python", "sql"})
	require.Len(t, recs, 3)

	names := NewRecommendations(recs).Names()
	assert.Equal(t, []string{"Platform", "Script", "Reports"}, names)
	assert.Equal(t, recs[1].SimilarityScore, recs[2].SimilarityScore, "tie keeps catalog order")
	assert.Less(t, recs[0].SimilarityScore, recs[1].SimilarityScore, "match count dominates similarity")
}

func TestRecommendEmptyAndUnknown(t *testing.T) {
	t.Parallel()

	r := NewRanker(projects{project("A", "Python")}, nil)

	for _, skills := range [][]string{nil, {}, {"", "  "}} {
		recs := r.Recommend(skills)
		require.NotNil(t, recs)
		assert.Empty(t, recs)
	}

	assert.Empty(t, r.Recommend([]string{"cobol"}))
	assert.Empty(t, r.Recommend([]string{"c"}), "single characters are not terms")
}

func TestRecommendNormalizesUserSkills(t *testing.T) {
	t.Parallel()

	r := NewRanker(projects{project("A", "Python", "Flask")}, nil)

	recs := r.Recommend([]string{" Python ", "python", "FLASK"})
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"python", "flask"}, recs[0].MatchingSkills)
	assert.Empty(t, recs[0].MissingSkills)
	assert.InDelta(t, 1.0, recs[0].SimilarityScore, 1e-9)
}

func TestRecommendIsDeterministic(t *testing.T) {
	t.Parallel()

	catalogProjects := projects{
		project("One", "React", "Node.js", "MongoDB"),
		project("Two", "React", "Firebase"),
		project("Three", "Vue", "Node.js"),
		project("Four", "Angular", "MongoDB"),
	}
	r := NewRanker(catalogProjects, nil)
	skills := []string{"react", "node.js", "mongodb"}

	first := r.Recommend(skills)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, r.Recommend(skills))
	}
	for _, rec := range first {
		assert.Greater(t, rec.SimilarityScore, 0.0)
		assert.LessOrEqual(t, rec.SimilarityScore, 1.0)
	}
}
