package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser/internal/cv"
	"resume-parser/internal/storage"
)

const testCandidateID = "3f1c2b9e-8a47-4c1d-9a3e-5b2f7d6e1a00"

type fakeStore struct {
	saved    []*cv.Record
	tenants  []string
	saveErr  error
	rows     map[string]*storage.CandidateRow
	emails   map[string]bool
	getCalls int
}

func (s *fakeStore) SaveCandidate(_ context.Context, rec *cv.Record, tenantID string) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	if s.emails == nil {
		s.emails = map[string]bool{}
	}
	if s.emails[rec.Email] {
		return "", &storage.ErrDuplicateEmail{Email: rec.Email, Table: "candidate"}
	}
	s.emails[rec.Email] = true
	s.saved = append(s.saved, rec)
	s.tenants = append(s.tenants, tenantID)
	return testCandidateID, nil
}

func (s *fakeStore) GetCandidateContext(_ context.Context, id string) (*storage.CandidateRow, error) {
	s.getCalls++
	if row, ok := s.rows[id]; ok {
		return row, nil
	}
	return nil, &storage.ErrCandidateNotFound{CandidateID: id}
}

type fakeProcessor struct {
	rec   *cv.Record
	err   error
	paths []string
	seen  []string // file contents at processing time
}

func (p *fakeProcessor) Process(_ context.Context, path string) (*cv.Record, error) {
	p.paths = append(p.paths, path)
	if data, err := os.ReadFile(path); err == nil {
		p.seen = append(p.seen, string(data))
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.rec, nil
}

func sampleRecord() *cv.Record {
	return cv.Assemble(cv.Fields{
		FirstName:    "John",
		LastName:     "Smith",
		PhoneNumbers: []string{"9876543210"},
		Email:        "john.smith@example.com",
		Experience:   "5 years",
		Skillset:     []string{"Python"},
		JobRole:      "Developer",
		Location:     "Bangalore",
	})
}

type testEnv struct {
	api       *API
	store     *fakeStore
	processor *fakeProcessor
	uploads   string
	handler   http.Handler
}

func newTestEnv(t *testing.T, keepUploads bool) *testEnv {
	t.Helper()
	uploads := filepath.Join(t.TempDir(), "uploads")
	store := &fakeStore{}
	proc := &fakeProcessor{rec: sampleRecord()}
	a := NewAPI(store, cv.NewCVParser(uploads, keepUploads), proc, Options{
		DefaultTenantID: "default_tenant_id",
		MaxUploadMB:     1,
	})
	return &testEnv{api: a, store: store, processor: proc, uploads: uploads, handler: NewRouter(a)}
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", "application/octet-stream")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, body io.Reader) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func uploadRequest(t *testing.T, target, filename string, content []byte) *http.Request {
	body, ct := multipartBody(t, "file", filename, content)
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", ct)
	return req
}

func TestUploadHandler_Success(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.do(uploadRequest(t, "/upload?tenant_id=acme", "resume.pdf", []byte("%PDF-1.4")))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))
	assert.NotEmpty(t, resp.Header().Get("X-Request-Id"))
	assert.Equal(t, map[string]string{
		"message":      "Resume successfully processed",
		"candidate_id": testCandidateID,
	}, decodeBody(t, resp.Body))

	require.Len(t, env.store.saved, 1)
	assert.Equal(t, "acme", env.store.tenants[0])
	assert.Equal(t, []string{"%PDF-1.4"}, env.processor.seen)
	assert.Equal(t, filepath.Join(env.uploads, "resume.pdf"), env.processor.paths[0])

	// uploads are removed once processed
	assert.NoFileExists(t, env.processor.paths[0])
}

func TestUploadHandler_DefaultTenant(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.do(uploadRequest(t, "/upload", "cv.docx", []byte("doc")))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []string{"default_tenant_id"}, env.store.tenants)
}

func TestUploadHandler_KeepUploads(t *testing.T) {
	env := newTestEnv(t, true)

	resp := env.do(uploadRequest(t, "/upload", "cv.pdf", []byte("pdf")))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.FileExists(t, filepath.Join(env.uploads, "cv.pdf"))
}

func TestUploadHandler_MissingFile(t *testing.T) {
	env := newTestEnv(t, false)

	t.Run("other field only", func(t *testing.T) {
		body, ct := multipartBody(t, "document", "cv.pdf", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", ct)

		resp := env.do(req)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "No file part", decodeBody(t, resp.Body)["error"])
	})

	t.Run("not multipart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")

		resp := env.do(req)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "No file part", decodeBody(t, resp.Body)["error"])
	})

	t.Run("empty filename", func(t *testing.T) {
		resp := env.do(uploadRequest(t, "/upload", "", nil))
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "No selected file", decodeBody(t, resp.Body)["error"])
	})

	assert.Empty(t, env.processor.paths)
}

func TestUploadHandler_TooLarge(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.do(uploadRequest(t, "/upload", "big.pdf", bytes.Repeat([]byte("a"), 2<<20)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
	assert.Empty(t, env.processor.paths)
}

func TestUploadHandler_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.do(httptest.NewRequest(http.MethodGet, "/upload", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)
	assert.Equal(t, http.MethodPost, resp.Header().Get("Allow"))
}

func TestUploadHandler_PipelineErrors(t *testing.T) {
	tests := []struct {
		name       string
		processErr error
		saveErr    error
		wantStatus int
		wantError  string
	}{
		{
			name:       "unsupported format",
			processErr: &cv.ExtractError{Path: "x.txt", Op: "extract", Err: cv.ErrUnsupportedFormat},
			wantStatus: http.StatusUnsupportedMediaType,
			wantError:  "Unsupported file format",
		},
		{
			name:       "no text",
			processErr: &cv.ExtractError{Path: "x.pdf", Op: "extract", Err: cv.ErrExtractionFailed},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "Could not extract text from file",
		},
		{
			name:       "annotator failure",
			processErr: errors.New("tagger crashed"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to process resume",
		},
		{
			name:       "duplicate email",
			saveErr:    &storage.ErrDuplicateEmail{Email: "a@b.c", Table: "company"},
			wantStatus: http.StatusConflict,
			wantError:  "A record with this email already exists",
		},
		{
			name:       "database down",
			saveErr:    &storage.PersistenceError{Op: "begin transaction", Err: errors.New("dial tcp: refused")},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to process resume",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, false)
			env.processor.err = tt.processErr
			env.store.saveErr = tt.saveErr

			resp := env.do(uploadRequest(t, "/upload", "resume.pdf", []byte("data")))

			assert.Equal(t, tt.wantStatus, resp.Code)
			assert.Equal(t, map[string]string{"error": tt.wantError}, decodeBody(t, resp.Body))
			assert.NoFileExists(t, filepath.Join(env.uploads, "resume.pdf"))
		})
	}
}

func TestUploadHandler_SameEmailTwice(t *testing.T) {
	env := newTestEnv(t, false)

	first := env.do(uploadRequest(t, "/upload", "a.pdf", []byte("a")))
	second := env.do(uploadRequest(t, "/upload", "b.pdf", []byte("b")))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Len(t, env.store.saved, 1)
}

func TestGetCandidateHandler(t *testing.T) {
	env := newTestEnv(t, false)
	env.store.rows = map[string]*storage.CandidateRow{
		testCandidateID: {CandidateID: testCandidateID, Name: "John Smith", TenantID: "acme"},
	}

	resp := env.do(httptest.NewRequest(http.MethodGet, "/api/candidates/"+testCandidateID, nil))
	require.Equal(t, http.StatusOK, resp.Code)
	var row storage.CandidateRow
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&row))
	assert.Equal(t, "John Smith", row.Name)

	resp = env.do(httptest.NewRequest(http.MethodGet, "/api/candidates/8d7e6f5a-0000-4000-8000-000000000000", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Candidate not found", decodeBody(t, resp.Body)["error"])

	resp = env.do(httptest.NewRequest(http.MethodGet, "/api/candidates/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, 2, env.store.getCalls)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, resp.Body.String())
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, HTTPStatus(nil))
	assert.Equal(t, http.StatusConflict, HTTPStatus(fmt.Errorf("save: %w", &storage.ErrDuplicateEmail{})))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(&storage.ErrCandidateNotFound{}))
	assert.Equal(t, http.StatusUnsupportedMediaType, HTTPStatus(cv.ErrUnsupportedFormat))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(cv.ErrExtractionFailed))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}
