package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/project-recommender/internal/ranking"
)

type minimumScoreFilter struct {
	disabled bool
	reason   string
	minimum  float64
}

// NewMinimumScore creates a filter that drops projects whose similarity is
// below the configured floor. A floor of zero keeps everything.
func NewMinimumScore() Filter {
	return &minimumScoreFilter{}
}

func (f *minimumScoreFilter) Name() string { return "minimum_score" }

func (f *minimumScoreFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *minimumScoreFilter) IsEnabled() bool { return !f.disabled }

func (f *minimumScoreFilter) Validate(cfg *Config) error {
	f.minimum = 0
	if cfg != nil {
		f.minimum = cfg.MinimumScore
	}
	if f.minimum < 0 || f.minimum > 1 {
		return fmt.Errorf("minimum score must be within [0, 1], got %v", f.minimum)
	}
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, deps Deps, recs *ranking.Recommendations) (*ranking.Recommendations, Step, error) {
	initial := recs.Len()
	if f.minimum == 0 {
		return recs, Step{Initial: initial, Dropped: 0, Left: recs.Len()}, nil
	}

	var below []string
	for _, rec := range recs.Items {
		if rec.SimilarityScore < f.minimum {
			below = append(below, rec.ProjectName)
		}
	}

	removed := recs.Exclude(below)
	if len(removed) > 0 {
		deps.Logger.Info("excluding projects below minimum score",
			zap.Float64("minimum_score", f.minimum),
			zap.Strings("excluded_projects", removed),
			zap.Int("projects_left", recs.Len()),
		)
	}

	return recs, Step{Initial: initial, Dropped: len(removed), Left: recs.Len()}, nil
}

func (f *minimumScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"minimum_score": strconv.FormatFloat(f.minimum, 'f', -1, 64)},
	}
}

type requireMatchFilter struct {
	enabled bool
	reason  string
}

// NewRequireMatch creates a filter that drops projects sharing no skill slot
// with the user when enabled in config.
func NewRequireMatch() Filter {
	return &requireMatchFilter{enabled: true}
}

func (f *requireMatchFilter) Name() string { return "require_match" }

func (f *requireMatchFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *requireMatchFilter) IsEnabled() bool { return f.enabled }

func (f *requireMatchFilter) Validate(cfg *Config) error {
	if cfg == nil || !cfg.RequireMatch {
		f.Disable("not requested in config")
	}
	return nil
}

func (f *requireMatchFilter) Apply(_ context.Context, deps Deps, recs *ranking.Recommendations) (*ranking.Recommendations, Step, error) {
	initial := recs.Len()

	var unmatched []string
	for _, rec := range recs.Items {
		if rec.MatchingCount == 0 {
			unmatched = append(unmatched, rec.ProjectName)
		}
	}

	removed := recs.Exclude(unmatched)
	if len(removed) > 0 {
		deps.Logger.Info("excluding projects without matching skills",
			zap.Strings("excluded_projects", removed),
			zap.Int("projects_left", recs.Len()),
		)
	}

	return recs, Step{Initial: initial, Dropped: len(removed), Left: recs.Len()}, nil
}

func (f *requireMatchFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason}
}
