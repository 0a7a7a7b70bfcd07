package skills

import (
	"fmt"

	"github.com/jdkato/prose/v2"
)

// EntityRecognizer finds named entities in raw, unnormalized text.
type EntityRecognizer interface {
	Entities(text string) ([]string, error)
}

// ProseRecognizer recognizes entities with the prose averaged-perceptron
// model.
type ProseRecognizer struct{}

// NewProseRecognizer returns the default recognizer.
func NewProseRecognizer() *ProseRecognizer {
	return &ProseRecognizer{}
}

// Entities returns the text of each recognized entity in document order.
func (ProseRecognizer) Entities(text string) ([]string, error) {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("building prose document: %w", err)
	}

	entities := doc.Entities()
	out := make([]string, 0, len(entities))
	for _, ent := range entities {
		out = append(out, ent.Text)
	}
	return out, nil
}
