package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/project-recommender/internal/ai/gemini"
	"github.com/spigell/project-recommender/internal/pipeline"
	"github.com/spigell/project-recommender/internal/skills"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Dataset      string            `mapstructure:"dataset" validate:"required"`
	Sheet        string            `mapstructure:"sheet"`
	SynonymsFile string            `mapstructure:"synonyms-file"`
	PageSize     int               `mapstructure:"page-size" validate:"gte=1,lte=100"`
	ExcludeFile  string            `mapstructure:"exclude-file"`
	Extraction   *ExtractionConfig `mapstructure:"extraction" validate:"required"`
	Filters      *FiltersConfig    `mapstructure:"filters" validate:"required"`
	AI           *AIConfig         `mapstructure:"ai" validate:"required"`
}

type ExtractionConfig struct {
	FuzzyThreshold int  `mapstructure:"fuzzy-threshold" validate:"gte=1,lte=100"`
	NER            bool `mapstructure:"ner"`
}

type FiltersConfig struct {
	MinimumScore float64 `mapstructure:"minimum-score" validate:"gte=0,lte=1"`
	RequireMatch bool    `mapstructure:"require-match"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider" validate:"omitempty,oneof=gemini"`
	Gemini   *GeminiConfig `mapstructure:"gemini" validate:"required"`
}

type GeminiConfig struct {
	APIKey          string `mapstructure:"api-key"`
	APIKeyFile      string `mapstructure:"api-key-file"`
	Model           string `mapstructure:"model"`
	MaxRetries      int    `mapstructure:"max-retries" validate:"gte=0,lte=10"`
	MaxLogLength    int    `mapstructure:"max-log-length" validate:"gte=0"`
	MaxOutputTokens int    `mapstructure:"max-output-tokens" validate:"gte=0"`
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("page-size", pipeline.DefaultPageSize)
	v.SetDefault("extraction.fuzzy-threshold", skills.DefaultFuzzyThreshold)
	v.SetDefault("extraction.ner", true)
	v.SetDefault("filters.minimum-score", 0.0)
	v.SetDefault("filters.require-match", false)
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.gemini.model", gemini.DefaultModel)
	v.SetDefault("ai.gemini.max-retries", gemini.DefaultMaxRetries)
	v.SetDefault("ai.gemini.max-log-length", gemini.DefaultMaxLogLength)
	v.SetDefault("ai.gemini.max-output-tokens", gemini.DefaultMaxOutputTokens)
}

func getConfig() (*Config, error) {
	return loadConfig(viper.GetViper())
}

func loadConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if config == nil {
		return nil, errors.New("config is empty")
	}

	config.Dataset = strings.TrimSpace(config.Dataset)

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", describeValidation(err))
	}

	return config, nil
}

// describeValidation rewrites validator errors with config key names.
func describeValidation(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, fmt.Errorf("%s: failed %q (value %v)", configKey(fe.Namespace()), fe.Tag(), fe.Value()))
	}
	return errors.Join(errs...)
}

var configKeys = map[string]string{
	"Dataset":         "dataset",
	"PageSize":        "page-size",
	"Extraction":      "extraction",
	"FuzzyThreshold":  "fuzzy-threshold",
	"Filters":         "filters",
	"MinimumScore":    "minimum-score",
	"AI":              "ai",
	"Provider":        "provider",
	"Gemini":          "gemini",
	"MaxRetries":      "max-retries",
	"MaxLogLength":    "max-log-length",
	"MaxOutputTokens": "max-output-tokens",
}

// configKey turns "Config.Filters.MinimumScore" into "filters.minimum-score".
func configKey(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		if key, ok := configKeys[part]; ok {
			parts[i] = key
		}
	}
	return strings.Join(parts, ".")
}
