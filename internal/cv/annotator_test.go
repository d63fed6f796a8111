package cv

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var stubTokenPattern = regexp.MustCompile(`[^\s,;]+|[,;]`)

// stubAnnotator tags capitalized words as proper nouns and looks entities up in a gazetteer.
type stubAnnotator struct {
	places map[string]bool
	err    error
	calls  int
}

func (s *stubAnnotator) Annotate(ctx context.Context, text string) (*Annotation, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ann := &Annotation{}
	for _, word := range stubTokenPattern.FindAllString(text, -1) {
		tag := "NN"
		switch r := []rune(word)[0]; {
		case unicode.IsDigit(r):
			tag = "CD"
		case unicode.IsUpper(r) && !strings.Contains(word, "@"):
			tag = "NNP"
		case unicode.IsPunct(r):
			tag = ","
		}
		ann.Tokens = append(ann.Tokens, Token{Text: word, Tag: tag})
		if s.places[word] {
			ann.Entities = append(ann.Entities, Entity{Text: word, Label: LabelGPE})
		}
	}
	return ann, nil
}

var errAnnotate = errors.New("model unavailable")
