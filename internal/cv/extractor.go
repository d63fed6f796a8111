package cv

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"resume-parser/internal/logger"
)

// Extractor runs every field extractor over one resume text.
type Extractor struct {
	annotator Annotator
	ref       *Reference
}

func NewExtractor(annotator Annotator, ref *Reference) *Extractor {
	return &Extractor{
		annotator: annotator,
		ref:       ref,
	}
}

// Extract fills Fields from text. The NLP-backed extractors share a single
// annotation pass; the pattern extractors run alongside it.
func (e *Extractor) Extract(ctx context.Context, text string) (Fields, error) {
	var nlp, lexical Fields

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ann, err := e.annotator.Annotate(gctx, text)
		if err != nil {
			return fmt.Errorf("annotate: %w", err)
		}
		nlp.FirstName, nlp.LastName = ExtractNames(ann.Tokens)
		nlp.Qualification = ExtractQualification(ann.Tokens, e.ref.Stopwords)
		nlp.Location = ExtractLocation(ann.Entities, text, e.ref.Places)
		return nil
	})

	g.Go(func() error {
		lexical.PhoneNumbers = ExtractPhoneNumbers(text)
		lexical.Email = ExtractEmail(text)
		lexical.Experience = ExtractExperience(text)
		lexical.Skillset = ExtractSkillset(text, e.ref.Skills)
		lexical.JobRole = ExtractJobRole(text, e.ref.JobRoles)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Fields{}, err
	}

	f := Fields{
		FirstName:     nlp.FirstName,
		LastName:      nlp.LastName,
		PhoneNumbers:  lexical.PhoneNumbers,
		Email:         lexical.Email,
		Qualification: nlp.Qualification,
		Experience:    lexical.Experience,
		Skillset:      lexical.Skillset,
		JobRole:       lexical.JobRole,
		Location:      nlp.Location,
	}

	logger.Ctx(ctx).Debug().
		Int("phones", len(f.PhoneNumbers)).
		Int("qualifications", len(f.Qualification)).
		Int("skills", len(f.Skillset)).
		Bool("has_email", f.Email != "").
		Msg("fields extracted")

	return f, nil
}
