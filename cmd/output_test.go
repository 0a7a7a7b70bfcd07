package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/project-recommender/internal/pipeline"
	"github.com/spigell/project-recommender/internal/ranking"
)

func sampleResult() *pipeline.Result {
	items := []*ranking.Recommendation{
		{ProjectName: "API Gateway", MatchingCount: 2, MatchingSkills: []string{"go", "docker"}, MissingSkills: []string{"nginx"}, SimilarityScore: 0.81234},
		{ProjectName: "Blog Engine", MatchingCount: 1, MatchingSkills: []string{"go"}, MissingSkills: []string{"postgresql", "redis"}, SimilarityScore: 0.4},
		{ProjectName: "Data Lake", MatchingCount: 0, MissingSkills: []string{"spark"}, SimilarityScore: 0.1},
	}
	return &pipeline.Result{
		Skills:   []string{"go", "docker"},
		Total:    3,
		Page:     2,
		PageSize: 2,
		Items:    items[2:],
		All:      ranking.NewRecommendations(items),
	}
}

func TestWriteResultTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, outputTable, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "Your skills: go, docker")
	assert.Contains(t, out, "Page 2 of 2 (3 projects)")
	assert.Contains(t, out, "PROJECT")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	last := lines[len(lines)-1]
	assert.True(t, strings.HasPrefix(last, "3 "), "rows are numbered across pages: %q", last)
	assert.Contains(t, last, "Data Lake")
	assert.Contains(t, last, "0.100")
	assert.Contains(t, last, "spark")
}

func TestWriteResultEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	res := &pipeline.Result{Skills: []string{"cobol"}, Page: 1, PageSize: 10, All: ranking.NewRecommendations(nil)}
	require.NoError(t, writeResult(&buf, outputTable, res))
	assert.Contains(t, buf.String(), "No projects left to recommend.")
}

func TestWriteResultJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, outputJSON, sampleResult()))

	var view pageView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &view))
	assert.Equal(t, 3, view.Total)
	assert.Equal(t, 2, view.Pages)
	require.Len(t, view.Recommendations, 1)
	assert.Equal(t, "Data Lake", view.Recommendations[0].ProjectName)

	buf.Reset()
	empty := &pipeline.Result{Page: 5, PageSize: 10}
	require.NoError(t, writeResult(&buf, outputJSON, empty))
	assert.Contains(t, buf.String(), `"recommendations": []`)
}

func TestWholeResult(t *testing.T) {
	t.Parallel()

	res := wholeResult(sampleResult())
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 3, res.PageSize)
	assert.Len(t, res.Items, 3)
	assert.Equal(t, 1, res.Pages())
}

func TestWriteSkills(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, writeSkills(&buf, outputTable, []string{"docker", "go"}))
	assert.Equal(t, "docker\ngo\n", buf.String())

	buf.Reset()
	require.NoError(t, writeSkills(&buf, outputJSON, nil))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, writeSkills(&buf, outputTable, nil))
	assert.Equal(t, "No skills found.\n", buf.String())
}

func TestCheckOutputFormat(t *testing.T) {
	t.Parallel()

	assert.NoError(t, checkOutputFormat(outputTable))
	assert.NoError(t, checkOutputFormat(outputJSON))
	assert.Error(t, checkOutputFormat("yaml"))
}

func TestWriteBatch(t *testing.T) {
	t.Parallel()

	results := []*batchResult{
		{File: "alice.txt", Skills: []string{"go"}, Items: sampleResult().All.Items[:1]},
		{File: "bob.pdf", Err: "no skills resolved from input (text)"},
		{File: "carol.txt", Skills: []string{"cobol"}},
	}

	var buf bytes.Buffer
	require.NoError(t, writeBatch(&buf, outputTable, results))

	out := buf.String()
	assert.Contains(t, out, "== alice.txt")
	assert.Contains(t, out, "API Gateway")
	assert.Contains(t, out, "== bob.pdf\nerror: no skills resolved from input (text)")
	assert.Contains(t, out, "== carol.txt\nYour skills: cobol\nNo projects left to recommend.")
}
