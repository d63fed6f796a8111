package cv

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file type")
	ErrExtractionFailed  = errors.New("failed to extract text from the file")
)

// ExtractError carries the file and stage that failed.
type ExtractError struct {
	Path string
	Op   string
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}
