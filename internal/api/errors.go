package api

import (
	"errors"
	"net/http"

	"resume-parser/internal/cv"
	"resume-parser/internal/storage"
)

const (
	msgDuplicateEmail    = "A record with this email already exists"
	msgUnsupportedFormat = "Unsupported file format"
	msgExtractionFailed  = "Could not extract text from file"
	msgProcessingFailed  = "Failed to process resume"
	msgCandidateNotFound = "Candidate not found"
)

// HTTPStatus maps a pipeline error to its response status.
func HTTPStatus(err error) int {
	var dup *storage.ErrDuplicateEmail
	var notFound *storage.ErrCandidateNotFound
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &dup):
		return http.StatusConflict
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, cv.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, cv.ErrExtractionFailed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage is the client-facing text for err. Internal details never leak.
func errorMessage(err error) string {
	switch HTTPStatus(err) {
	case http.StatusConflict:
		return msgDuplicateEmail
	case http.StatusNotFound:
		return msgCandidateNotFound
	case http.StatusUnsupportedMediaType:
		return msgUnsupportedFormat
	case http.StatusUnprocessableEntity:
		return msgExtractionFailed
	default:
		return msgProcessingFailed
	}
}
