package api

import (
	"context"
	"encoding/json"
	"net/http"

	"resume-parser/internal/cv"
	"resume-parser/internal/logger"
	"resume-parser/internal/storage"
)

// CandidateStore persists and loads candidate rows.
type CandidateStore interface {
	SaveCandidate(ctx context.Context, rec *cv.Record, tenantID string) (string, error)
	GetCandidateContext(ctx context.Context, candidateID string) (*storage.CandidateRow, error)
}

// ResumeProcessor turns a stored upload into a record.
type ResumeProcessor interface {
	Process(ctx context.Context, filePath string) (*cv.Record, error)
}

type API struct {
	store           CandidateStore
	cvParser        *cv.CVParser
	processor       ResumeProcessor
	defaultTenantID string
	maxUploadBytes  int64
}

type Options struct {
	DefaultTenantID string
	MaxUploadMB     int64
}

func NewAPI(store CandidateStore, parser *cv.CVParser, processor ResumeProcessor, opts Options) *API {
	maxMB := opts.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 10
	}
	return &API{
		store:           store,
		cvParser:        parser,
		processor:       processor,
		defaultTenantID: opts.DefaultTenantID,
		maxUploadBytes:  maxMB << 20,
	}
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn().Err(err).Msg("failed to write response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error" example:"A record with this email already exists"`
}

// UploadResponse is returned when a resume has been stored.
type UploadResponse struct {
	Message     string `json:"message" example:"Resume successfully processed"`
	CandidateID string `json:"candidate_id" example:"3f1c2b9e-8a47-4c1d-9a3e-5b2f7d6e1a00"`
}
