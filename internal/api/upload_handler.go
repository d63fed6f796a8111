package api

import (
	"errors"
	"net/http"
	"time"

	"resume-parser/internal/logger"
)

const (
	msgNoFilePart     = "No file part"
	msgNoSelectedFile = "No selected file"
	msgFileTooLarge   = "File too large"
	msgUploadSuccess  = "Resume successfully processed"
)

// UploadHandler parses an uploaded resume and stores the candidate
// @Summary Upload and parse a resume
// @Description Upload a resume (PDF, DOC or DOCX). The extracted candidate is stored for the tenant unless the email is already registered.
// @Tags resumes
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Resume file (PDF, DOC or DOCX)"
// @Param tenant_id query string false "Tenant identifier" default(default_tenant_id)
// @Success 200 {object} UploadResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 415 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /upload [post]
func (a *API) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	startTime := time.Now()
	ctx := r.Context()
	log := logger.Ctx(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, a.maxUploadBytes)
	if err := r.ParseMultipartForm(a.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, msgFileTooLarge)
			return
		}
		log.Debug().Err(err).Msg("request is not a usable multipart form")
		respondError(w, http.StatusBadRequest, msgNoFilePart)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		// a part named "file" with an empty filename is parsed as a plain value
		if _, ok := r.MultipartForm.Value["file"]; ok {
			respondError(w, http.StatusBadRequest, msgNoSelectedFile)
			return
		}
		respondError(w, http.StatusBadRequest, msgNoFilePart)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		respondError(w, http.StatusBadRequest, msgNoSelectedFile)
		return
	}

	tenantID := r.URL.Query().Get("tenant_id")
	if tenantID == "" {
		tenantID = a.defaultTenantID
	}

	saved, err := a.cvParser.SaveUpload(header.Filename, file)
	if err != nil {
		log.Error().Err(err).Str("filename", header.Filename).Msg("failed to save upload")
		respondError(w, http.StatusInternalServerError, msgProcessingFailed)
		return
	}
	defer func() {
		if _, err := a.cvParser.Cleanup(saved); err != nil {
			log.Warn().Err(err).Str("path", saved.FilePath).Msg("failed to remove upload")
		}
	}()

	log.Info().
		Str("filename", saved.Filename).
		Str("file_type", saved.FileType).
		Int64("file_size", saved.FileSize).
		Str("tenant_id", tenantID).
		Msg("resume received")

	rec, err := a.processor.Process(ctx, saved.FilePath)
	if err != nil {
		a.fail(w, r, err, "failed to parse resume")
		return
	}

	if e := log.Debug(); e.Enabled() {
		if data, err := rec.Marshal(); err == nil {
			e.RawJSON("record", data).Msg("resume parsed")
		}
	}

	candidateID, err := a.store.SaveCandidate(ctx, rec, tenantID)
	if err != nil {
		a.fail(w, r, err, "failed to save candidate")
		return
	}

	log.Info().
		Str("candidate_id", candidateID).
		Dur("elapsed", time.Since(startTime)).
		Msg("candidate stored")

	respondJSON(w, http.StatusOK, UploadResponse{
		Message:     msgUploadSuccess,
		CandidateID: candidateID,
	})
}

// fail logs err and writes the mapped error response.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := HTTPStatus(err)
	event := logger.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Ctx(r.Context()).Error()
	}
	event.Err(err).Int("status", status).Msg(msg)
	respondError(w, status, errorMessage(err))
}
