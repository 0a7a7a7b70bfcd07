package skills

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/spigell/project-recommender/internal/catalog"
)

const synonymsKey = "synonyms"

//go:embed synonyms.yaml
var defaultSynonyms []byte

// SynonymEntry maps one canonical skill onto its known spellings.
type SynonymEntry struct {
	Canonical string   `mapstructure:"canonical"`
	Variants  []string `mapstructure:"variants"`
}

// SynonymTable is an ordered list of synonym entries. It is read-only once
// loaded.
type SynonymTable struct {
	Entries []SynonymEntry
}

// DefaultSynonyms returns the built-in table.
func DefaultSynonyms() *SynonymTable {
	table, err := readSynonyms("yaml", defaultSynonyms)
	if err != nil {
		panic(fmt.Sprintf("built-in synonym table is invalid: %v", err))
	}
	return table
}

// LoadSynonyms reads a synonym table from a yaml, json or toml file.
func LoadSynonyms(path string) (*SynonymTable, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading synonyms file %q: %w", path, err)
	}

	table, err := decodeSynonyms(v)
	if err != nil {
		return nil, fmt.Errorf("synonyms file %q: %w", path, err)
	}
	return table, nil
}

func readSynonyms(format string, data []byte) (*SynonymTable, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return decodeSynonyms(v)
}

func decodeSynonyms(v *viper.Viper) (*SynonymTable, error) {
	raw := v.Get(synonymsKey)
	if raw == nil {
		return nil, fmt.Errorf("missing %q list", synonymsKey)
	}

	var entries []SynonymEntry
	if err := mapstructure.Decode(raw, &entries); err != nil {
		return nil, fmt.Errorf("decoding %q: %w", synonymsKey, err)
	}

	table := &SynonymTable{Entries: make([]SynonymEntry, 0, len(entries))}
	for _, entry := range entries {
		normalized := SynonymEntry{Canonical: catalog.Normalize(entry.Canonical)}
		for _, variant := range entry.Variants {
			if variant = catalog.Normalize(variant); variant != "" {
				normalized.Variants = append(normalized.Variants, variant)
			}
		}
		table.Entries = append(table.Entries, normalized)
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// Validate checks that every entry has a canonical name and at least one
// variant.
func (t *SynonymTable) Validate() error {
	if t == nil {
		return errors.New("synonym table is nil")
	}

	var errs []error
	for idx, entry := range t.Entries {
		if entry.Canonical == "" {
			errs = append(errs, fmt.Errorf("entry %d: empty canonical name", idx))
		}
		if len(entry.Variants) == 0 {
			errs = append(errs, fmt.Errorf("entry %d (%q): no variants", idx, entry.Canonical))
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of entries.
func (t *SynonymTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Entries)
}
