package cv

import (
	"context"
)

// Processor turns a stored document into an assembled Record.
type Processor struct {
	extractor *Extractor
}

func NewProcessor(extractor *Extractor) *Processor {
	return &Processor{extractor: extractor}
}

// Process extracts the document text, runs the field extractors and assembles the record.
func (p *Processor) Process(ctx context.Context, filePath string) (*Record, error) {
	text, err := ExtractText(filePath)
	if err != nil {
		return nil, err
	}
	return p.ProcessText(ctx, text)
}

// ProcessText is Process for text that has already been extracted.
func (p *Processor) ProcessText(ctx context.Context, text string) (*Record, error) {
	fields, err := p.extractor.Extract(ctx, text)
	if err != nil {
		return nil, err
	}
	return Assemble(fields), nil
}
