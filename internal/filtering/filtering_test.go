package filtering

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/project-recommender/internal/ranking"
)

func sample() *ranking.Recommendations {
	return ranking.NewRecommendations([]*ranking.Recommendation{
		{ProjectName: "Blog", MatchingCount: 2, SimilarityScore: 0.8},
		{ProjectName: "Chat", MatchingCount: 1, SimilarityScore: 0.3},
		{ProjectName: "Shop", MatchingCount: 1, SimilarityScore: 0.6},
		{ProjectName: "Game", MatchingCount: 0, SimilarityScore: 0.2},
	})
}

func TestRunAppliesStepsInOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	excludePath := filepath.Join(dir, "exclude.json")
	require.NoError(t, NewExcludedProjects("done", &ranking.Recommendation{ProjectName: "Shop"}).ToFile(excludePath))

	cfg := &Config{ExcludeFile: excludePath, MinimumScore: 0.25, RequireMatch: true}
	steps := Default()
	require.NoError(t, Validate(cfg, steps))

	core, logs := observer.New(zap.DebugLevel)
	got, err := Run(context.Background(), Deps{Logger: zap.New(core)}, steps, sample())
	require.NoError(t, err)
	assert.Equal(t, []string{"Blog", "Chat"}, got.Names())

	stepLogs := logs.FilterMessage("filter step").All()
	require.Len(t, stepLogs, 3)
	assert.Equal(t, "exclude_file", stepLogs[0].ContextMap()["name"])
	assert.EqualValues(t, 1, stepLogs[0].ContextMap()["dropped"])
	assert.Equal(t, "minimum_score", stepLogs[1].ContextMap()["name"])
	assert.EqualValues(t, 1, stepLogs[1].ContextMap()["dropped"])
	assert.EqualValues(t, 2, stepLogs[2].ContextMap()["left"])
}

func TestRunWithDefaultsKeepsEverything(t *testing.T) {
	t.Parallel()

	steps := Default()
	require.NoError(t, Validate(&Config{}, steps))

	got, err := Run(context.Background(), Deps{}, steps, sample())
	require.NoError(t, err)
	assert.Equal(t, []string{"Blog", "Chat", "Shop", "Game"}, got.Names())

	statuses := Describe(steps)
	require.Len(t, statuses, 3)
	assert.True(t, statuses[0].Enabled)
	assert.Equal(t, "0", statuses[1].Details["minimum_score"])
	assert.False(t, statuses[2].Enabled)
	assert.Equal(t, "not requested in config", statuses[2].Reason)
}

func TestValidateRejectsBadScore(t *testing.T) {
	t.Parallel()

	err := Validate(&Config{MinimumScore: 1.5}, Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minimum_score: minimum score must be within [0, 1]")
}

func TestDisableByName(t *testing.T) {
	t.Parallel()

	steps := Default()
	DisableByName(steps, "minimum_score", "flag")
	require.NoError(t, Validate(&Config{MinimumScore: 0.9}, steps))

	got, err := Run(context.Background(), Deps{}, steps, sample())
	require.NoError(t, err)
	assert.Equal(t, 4, got.Len())
	assert.Equal(t, "flag", Describe(steps)[1].Reason)
}

type failingFilter struct{}

func (failingFilter) Name() string           { return "failing" }
func (failingFilter) Disable(string)         {}
func (failingFilter) IsEnabled() bool        { return true }
func (failingFilter) Validate(*Config) error { return nil }
func (failingFilter) Apply(context.Context, Deps, *ranking.Recommendations) (*ranking.Recommendations, Step, error) {
	return nil, Step{}, errors.New("boom")
}

func TestRunWrapsStepErrors(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), Deps{}, []Filter{failingFilter{}}, sample())
	require.EqualError(t, err, "failing: boom")

	statuses := Describe([]Filter{failingFilter{}})
	assert.Equal(t, Status{Name: "failing", Enabled: true}, statuses[0])
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Deps{}, Default(), sample())
	assert.ErrorIs(t, err, context.Canceled)
}
