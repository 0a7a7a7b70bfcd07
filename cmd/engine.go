package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/project-recommender/internal/ai"
	"github.com/spigell/project-recommender/internal/ai/gemini"
	"github.com/spigell/project-recommender/internal/catalog"
	"github.com/spigell/project-recommender/internal/filtering"
	"github.com/spigell/project-recommender/internal/logger"
	"github.com/spigell/project-recommender/internal/pipeline"
	"github.com/spigell/project-recommender/internal/ranking"
	"github.com/spigell/project-recommender/internal/resume"
	"github.com/spigell/project-recommender/internal/secrets"
	"github.com/spigell/project-recommender/internal/skills"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const geminiAPIKeyEnv = "GEMINI_API_KEY"

var errMentorDisabled = errors.New("project mentor is disabled")

// engine holds everything loaded once per process.
type engine struct {
	config    *Config
	catalog   *catalog.Catalog
	extractor *skills.Extractor
	ranker    *ranking.Ranker
	filters   []filtering.Filter
	pipeline  *pipeline.Pipeline
	logger    *zap.Logger
}

// bootstrap builds the logger and reads the config.
func bootstrap() (*Config, *zap.Logger, error) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return nil, log, fmt.Errorf("getting a config: %w", err)
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	log.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return config, log, nil
}

// redacted returns a copy of config safe to log.
func redacted(config *Config) *Config {
	c := *config
	if config.AI != nil && config.AI.Gemini != nil && config.AI.Gemini.APIKey != "" {
		aiCfg := *config.AI
		g := *config.AI.Gemini
		g.APIKey = "<redacted>"
		aiCfg.Gemini = &g
		c.AI = &aiCfg
	}
	return &c
}

func newEngine(config *Config, log *zap.Logger) (*engine, error) {
	log = logger.OrNop(log)

	cat, err := catalog.LoadFile(config.Dataset, config.Sheet)
	if err != nil {
		return nil, err
	}

	log.Info("catalog loaded", append(logger.EngineFields(cat.Len(), len(cat.Vocabulary())),
		zap.String("dataset", config.Dataset),
	)...)

	synonyms := skills.DefaultSynonyms()
	if config.SynonymsFile != "" {
		synonyms, err = skills.LoadSynonyms(config.SynonymsFile)
		if err != nil {
			return nil, fmt.Errorf("loading synonyms: %w", err)
		}
		log.Info("synonyms loaded", zap.String("file", config.SynonymsFile), zap.Int("entries", synonyms.Len()))
	}

	opts := []skills.Option{
		skills.WithFuzzyThreshold(config.Extraction.FuzzyThreshold),
		skills.WithLogger(log),
	}
	if config.Extraction.NER {
		opts = append(opts, skills.WithRecognizer(skills.NewProseRecognizer()))
	}
	extractor := skills.NewExtractor(cat, synonyms, opts...)

	filters := filtering.Default()
	filterCfg := &filtering.Config{
		ExcludeFile:  config.ExcludeFile,
		MinimumScore: config.Filters.MinimumScore,
		RequireMatch: config.Filters.RequireMatch,
	}
	if err := filtering.Validate(filterCfg, filters); err != nil {
		return nil, fmt.Errorf("validating filters: %w", err)
	}

	for _, status := range filtering.Describe(filters) {
		log.Debug("filter configured",
			zap.String("filter", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
		)
	}

	ranker := ranking.NewRanker(cat, log)

	p, err := pipeline.New(pipeline.Deps{
		Extractor: extractor,
		Ranker:    ranker,
		Filters:   filters,
		Logger:    log,
	}, pipeline.Config{PageSize: config.PageSize})
	if err != nil {
		return nil, fmt.Errorf("building pipeline: %w", err)
	}

	return &engine{
		config:    config,
		catalog:   cat,
		extractor: extractor,
		ranker:    ranker,
		filters:   filters,
		pipeline:  p,
		logger:    log,
	}, nil
}

// input reads the resume, if any, and pairs it with the skill list.
func (e *engine) input(resumePath, skillsCSV string) (pipeline.Input, error) {
	in := pipeline.Input{SkillsCSV: skillsCSV}
	if resumePath == "" {
		return in, nil
	}

	text, err := resume.ExtractFile(resumePath)
	if err != nil {
		return in, err
	}
	e.logger.Debug("resume text extracted", zap.String("file", resumePath), zap.Int("length", len(text)))
	in.Text = text

	return in, nil
}

// withRequest returns a logger tagged with a fresh request id.
func withRequest(log *zap.Logger) *zap.Logger {
	return logger.WithRequestID(log, uuid.NewString())
}

func newMentor(ctx context.Context, config *AIConfig, log *zap.Logger) (ai.Mentor, error) {
	if config == nil || !config.Enabled {
		return nil, errMentorDisabled
	}

	provider := strings.TrimSpace(strings.ToLower(config.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", config.Provider)
	}

	if config.Gemini == nil {
		return nil, errors.New("ai.gemini section is required")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  config.Gemini.APIKeyFile,
		Value: config.Gemini.APIKey,
		Env:   geminiAPIKeyEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or %s)", err, geminiAPIKeyEnv)
	}

	genLogger := logger.WithCommonFields(log, "gemini", config.Gemini.Model).With(
		zap.Int("ai_retry_attempts", config.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, gemini.Config{
		APIKey:          apiKey,
		Model:           config.Gemini.Model,
		MaxRetries:      config.Gemini.MaxRetries,
		MaxOutputTokens: config.Gemini.MaxOutputTokens,
		MaxLogLength:    config.Gemini.MaxLogLength,
	}, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewMentor(generator, log), nil
}
