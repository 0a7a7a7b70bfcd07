// Package skills turns free text into catalog-backed skill tokens.
package skills

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/project-recommender/internal/catalog"
)

// DefaultFuzzyThreshold is the ratio a token must exceed to count as a
// misspelling of a vocabulary skill.
const DefaultFuzzyThreshold = 85

// minFuzzyTokenLength excludes short words from fuzzy comparison.
const minFuzzyTokenLength = 3

var punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s.+\-#]`)

// VocabularySource provides the set of skills extraction is allowed to return.
type VocabularySource interface {
	Vocabulary() []string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRecognizer sets the named-entity recognizer. Pass nil to disable it.
func WithRecognizer(r EntityRecognizer) Option {
	return func(e *Extractor) {
		e.recognizer = r
	}
}

// WithFuzzyThreshold overrides DefaultFuzzyThreshold.
func WithFuzzyThreshold(threshold int) Option {
	return func(e *Extractor) {
		e.threshold = threshold
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Extractor finds vocabulary skills in text by direct lookup, synonyms,
// fuzzy matching, regular expressions and named entities. It holds no
// mutable state after construction and is safe for concurrent use.
type Extractor struct {
	vocabulary []string
	known      map[string]struct{}
	byLength   map[int][]string
	synonyms   *SynonymTable
	recognizer EntityRecognizer
	threshold  int
	logger     *zap.Logger
}

// NewExtractor snapshots the vocabulary and prepares the fuzzy index.
// A nil synonyms table means no synonym expansion.
func NewExtractor(vocab VocabularySource, synonyms *SynonymTable, opts ...Option) *Extractor {
	e := &Extractor{
		known:     make(map[string]struct{}),
		byLength:  make(map[int][]string),
		synonyms:  synonyms,
		threshold: DefaultFuzzyThreshold,
		logger:    zap.NewNop(),
	}
	if e.synonyms == nil {
		e.synonyms = &SynonymTable{}
	}

	for _, opt := range opts {
		opt(e)
	}

	if vocab != nil {
		for _, skill := range vocab.Vocabulary() {
			skill = catalog.Normalize(skill)
			if skill == "" {
				continue
			}
			if _, dup := e.known[skill]; dup {
				continue
			}
			e.known[skill] = struct{}{}
			e.vocabulary = append(e.vocabulary, skill)
			length := runeLen(skill)
			e.byLength[length] = append(e.byLength[length], skill)
		}
	}
	sort.Strings(e.vocabulary)

	return e
}

// Extract returns the sorted set of vocabulary skills found in text. Empty
// text yields an empty, non-nil slice.
func (e *Extractor) Extract(text string) []string {
	found := make(map[string]struct{})
	if strings.TrimSpace(text) == "" || len(e.vocabulary) == 0 {
		return []string{}
	}

	clean := normalizeText(text)

	e.matchDirect(clean, found)
	e.matchSynonyms(clean, found)
	e.matchFuzzy(clean, found)
	e.matchPatterns(clean, found)
	e.matchEntities(text, found)

	out := make([]string, 0, len(found))
	for skill := range found {
		out = append(out, skill)
	}
	sort.Strings(out)

	e.logger.Debug("skills extracted",
		zap.Int("text_length", len(text)),
		zap.Int("skills", len(out)),
	)
	return out
}

// Contains reports whether skill is part of the extractor's vocabulary.
func (e *Extractor) Contains(skill string) bool {
	_, ok := e.known[catalog.Normalize(skill)]
	return ok
}

func normalizeText(text string) string {
	return punctuation.ReplaceAllString(strings.ToLower(text), " ")
}

func (e *Extractor) matchDirect(clean string, found map[string]struct{}) {
	for _, skill := range e.vocabulary {
		if strings.Contains(clean, skill) {
			found[skill] = struct{}{}
		}
	}
}

func (e *Extractor) matchSynonyms(clean string, found map[string]struct{}) {
	for _, entry := range e.synonyms.Entries {
		if !containsAny(clean, entry.Variants) {
			continue
		}
		if e.Contains(entry.Canonical) {
			found[entry.Canonical] = struct{}{}
			continue
		}
		for _, variant := range entry.Variants {
			if e.Contains(variant) {
				found[variant] = struct{}{}
				break
			}
		}
	}
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if needle != "" && strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

func (e *Extractor) matchFuzzy(clean string, found map[string]struct{}) {
	seen := make(map[string]struct{})
	for _, word := range strings.Fields(clean) {
		if runeLen(word) < minFuzzyTokenLength {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}

		for _, candidate := range e.fuzzyCandidates(word) {
			if Ratio(word, candidate) > e.threshold {
				found[candidate] = struct{}{}
			}
		}
	}
}

func (e *Extractor) matchPatterns(clean string, found map[string]struct{}) {
	for _, pattern := range techPatterns {
		for _, match := range pattern.FindAllString(clean, -1) {
			if match = catalog.Normalize(match); e.Contains(match) {
				found[match] = struct{}{}
			}
		}
	}
}

func (e *Extractor) matchEntities(text string, found map[string]struct{}) {
	if e.recognizer == nil {
		return
	}

	entities, err := e.recognizer.Entities(text)
	if err != nil {
		e.logger.Warn("entity recognition failed, skipping", zap.Error(err))
		return
	}

	for _, entity := range entities {
		if entity = catalog.Normalize(entity); e.Contains(entity) {
			found[entity] = struct{}{}
		}
	}
}
