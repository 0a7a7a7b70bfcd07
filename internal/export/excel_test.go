package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spigell/project-recommender/internal/ranking"
)

func sample() *ranking.Recommendations {
	return ranking.NewRecommendations([]*ranking.Recommendation{
		{ProjectName: "Blog", MatchingCount: 2, MatchingSkills: []string{"python", "django"}, MissingSkills: []string{"postgresql"}, SimilarityScore: 0.73},
		{ProjectName: "Shop", MatchingCount: 0, MatchingSkills: []string{}, MissingSkills: []string{"java", "spring boot"}, SimilarityScore: 0.12},
	})
}

func TestToExcelAddsExtension(t *testing.T) {
	t.Parallel()

	base := filepath.Join(t.TempDir(), "report")
	path, err := ToExcel(sample(), []string{"python", "django"}, base)
	require.NoError(t, err)
	assert.Equal(t, base+".xlsx", path)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestToExcelKeepsExtension(t *testing.T) {
	t.Parallel()

	want := filepath.Join(t.TempDir(), "report.XLSX")
	path, err := ToExcel(sample(), nil, want)
	require.NoError(t, err)
	assert.Equal(t, want, path)
}

func TestToExcelContent(t *testing.T) {
	t.Parallel()

	path, err := ToExcel(sample(), []string{"python", "django"}, filepath.Join(t.TempDir(), "report.xlsx"))
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	assert.Equal(t, []string{SummarySheet, RecommendationsSheet}, f.GetSheetList())

	skills, err := f.GetCellValue(SummarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "python, django", skills)

	best, err := f.GetCellValue(SummarySheet, "B5")
	require.NoError(t, err)
	assert.Equal(t, "Blog", best)

	rows, err := f.GetRows(RecommendationsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, recommendationHeaders, rows[0])
	assert.Equal(t, []string{"1", "Blog", "2", "python, django", "postgresql", "0.73"}, rows[1])
	assert.Equal(t, "Shop", rows[2][1])
	assert.Equal(t, "", rows[2][3])
}

func TestToExcelEmptyList(t *testing.T) {
	t.Parallel()

	path, err := ToExcel(ranking.NewRecommendations(nil), nil, filepath.Join(t.TempDir(), "empty"))
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	rows, err := f.GetRows(RecommendationsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	count, err := f.GetCellValue(SummarySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "0", count)
}
