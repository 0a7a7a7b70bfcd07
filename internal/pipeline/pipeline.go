// Package pipeline wires extraction, ranking, filtering and pagination
// into one request flow.
package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/project-recommender/internal/catalog"
	"github.com/spigell/project-recommender/internal/filtering"
	"github.com/spigell/project-recommender/internal/ranking"
	"github.com/spigell/project-recommender/internal/skills"
)

// DefaultPageSize is used when Config.PageSize is not set.
const DefaultPageSize = 10

// Extractor finds skills in free text.
type Extractor interface {
	Extract(text string) []string
}

// Ranker orders projects for a skill set.
type Ranker interface {
	Recommend(userSkills []string) []*ranking.Recommendation
}

// Deps are the collaborators a Pipeline runs a request through.
type Deps struct {
	Extractor Extractor
	Ranker    Ranker
	// Filters must be validated before they are passed in.
	Filters []filtering.Filter
	Logger  *zap.Logger
}

// Config holds pipeline tuning. A zero PageSize means DefaultPageSize.
type Config struct {
	PageSize int
}

// Input carries resume or free text, a comma separated skill list, or both.
type Input struct {
	Text      string
	SkillsCSV string
}

// Result is one page of recommendations plus the full filtered list.
type Result struct {
	Skills   []string
	Total    int
	Page     int
	PageSize int
	Items    []*ranking.Recommendation
	All      *ranking.Recommendations
}

// Pages returns the number of pages needed for Total items.
func (r *Result) Pages() int {
	if r.PageSize <= 0 {
		return 0
	}
	return (r.Total + r.PageSize - 1) / r.PageSize
}

// Pipeline resolves skills, ranks, filters and pages one request at a time.
// It is safe for concurrent use.
type Pipeline struct {
	deps     Deps
	pageSize int
	logger   *zap.Logger
}

// New checks deps and returns a ready pipeline.
func New(deps Deps, cfg Config) (*Pipeline, error) {
	if deps.Extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if deps.Ranker == nil {
		return nil, fmt.Errorf("ranker is required")
	}
	if cfg.PageSize < 0 {
		return nil, fmt.Errorf("page size must not be negative, got %d", cfg.PageSize)
	}

	pageSize := cfg.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	deps.Logger = logger

	return &Pipeline{deps: deps, pageSize: pageSize, logger: logger}, nil
}

// PageSize returns the configured page size.
func (p *Pipeline) PageSize() int {
	return p.pageSize
}

// ResolveSkills turns the input into a skill set. Text goes through the
// extractor, the skill list is parsed as is; skills found in text come first.
func (p *Pipeline) ResolveSkills(in Input) ([]string, error) {
	var resolved []string
	var sources []string

	if strings.TrimSpace(in.Text) != "" {
		sources = append(sources, "text")
		resolved = append(resolved, p.deps.Extractor.Extract(in.Text)...)
	}
	if strings.TrimSpace(in.SkillsCSV) != "" {
		sources = append(sources, "skills list")
		resolved = append(resolved, skills.ParseManualSkills(in.SkillsCSV)...)
	}

	resolved = dedupe(resolved)
	if len(resolved) == 0 {
		return nil, &EmptyInputError{Source: strings.Join(sources, ", ")}
	}
	return resolved, nil
}

// Run resolves skills, ranks, filters and returns the requested page.
func (p *Pipeline) Run(ctx context.Context, in Input, page int) (*Result, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page %d", ErrInvalidPage, page)
	}

	userSkills, err := p.ResolveSkills(in)
	if err != nil {
		return nil, err
	}

	all, err := p.recommend(ctx, userSkills)
	if err != nil {
		return nil, err
	}

	total, items, err := Paginate(all.Items, page, p.pageSize)
	if err != nil {
		return nil, err
	}

	p.logger.Info("recommendations ready",
		zap.Strings("skills", userSkills),
		zap.Int("total", total),
		zap.Int("page", page),
		zap.Int("page_items", len(items)),
	)

	return &Result{
		Skills:   userSkills,
		Total:    total,
		Page:     page,
		PageSize: p.pageSize,
		Items:    items,
		All:      all,
	}, nil
}

// Recommend ranks and filters an already resolved skill set.
func (p *Pipeline) Recommend(ctx context.Context, userSkills []string) (*ranking.Recommendations, error) {
	if len(dedupe(userSkills)) == 0 {
		return nil, &EmptyInputError{}
	}
	return p.recommend(ctx, userSkills)
}

func (p *Pipeline) recommend(ctx context.Context, userSkills []string) (recs *ranking.Recommendations, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("recovered from panic while ranking",
				zap.Any("panic", r),
				zap.Strings("skills", userSkills),
				zap.ByteString("stack", debug.Stack()),
			)
			recs, err = nil, ErrInternal
		}
	}()

	recs = ranking.NewRecommendations(p.deps.Ranker.Recommend(userSkills))

	recs, err = filtering.Run(ctx, filtering.Deps{Logger: p.logger}, p.deps.Filters, recs)
	if err != nil {
		return nil, fmt.Errorf("filtering recommendations: %w", err)
	}
	return recs, nil
}

// Paginate returns the total and the 1-based page of recs. A page past the
// end is empty.
func Paginate(recs []*ranking.Recommendation, page, pageSize int) (int, []*ranking.Recommendation, error) {
	if page < 1 || pageSize <= 0 {
		return 0, nil, fmt.Errorf("%w: page %d, page size %d", ErrInvalidPage, page, pageSize)
	}

	total := len(recs)
	start := (page - 1) * pageSize
	if start < 0 || start >= total {
		return total, []*ranking.Recommendation{}, nil
	}
	end := min(start+pageSize, total)

	return total, recs[start:end], nil
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = catalog.Normalize(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
