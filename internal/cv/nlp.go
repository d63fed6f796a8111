package cv

import (
	"context"
	"fmt"

	"github.com/jdkato/prose/v2"
)

// Token is one word-level unit with its part-of-speech tag.
type Token struct {
	Text string
	Tag  string
}

// IsProperNoun accepts both Penn Treebank and Universal POS tags.
func (t Token) IsProperNoun() bool {
	switch t.Tag {
	case "NNP", "NNPS", "PROPN":
		return true
	}
	return false
}

// Entity is a named-entity span, e.g. Label "GPE" for places.
type Entity struct {
	Text  string
	Label string
}

const LabelGPE = "GPE"

type Annotation struct {
	Tokens   []Token
	Entities []Entity
}

// Annotator tokenizes, tags and runs entity recognition over resume text.
type Annotator interface {
	Annotate(ctx context.Context, text string) (*Annotation, error)
}

// ProseAnnotator is the default Annotator backed by prose's bundled English models.
type ProseAnnotator struct{}

func NewProseAnnotator() *ProseAnnotator {
	return &ProseAnnotator{}
}

func (a *ProseAnnotator) Annotate(ctx context.Context, text string) (*Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("annotate text: %w", err)
	}

	ann := &Annotation{}
	for _, tok := range doc.Tokens() {
		ann.Tokens = append(ann.Tokens, Token{Text: tok.Text, Tag: tok.Tag})
	}
	for _, ent := range doc.Entities() {
		ann.Entities = append(ann.Entities, Entity{Text: ent.Text, Label: ent.Label})
	}
	return ann, nil
}
