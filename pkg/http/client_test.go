package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_UploadFile(t *testing.T) {
	var gotTenant, gotName, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload", r.URL.Path)
		gotTenant = r.URL.Query().Get("tenant_id")

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotName, gotBody = header.Filename, string(data)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Resume successfully processed","candidate_id":"abc"}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "cv.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	c := NewClient(srv.URL, 5*time.Second)
	res, err := c.UploadFile(context.Background(), path, "acme")
	require.NoError(t, err)

	assert.True(t, res.OK())
	assert.Equal(t, "abc", res.CandidateID)
	assert.Equal(t, "acme", gotTenant)
	assert.Equal(t, "cv.pdf", gotName)
	assert.Equal(t, "%PDF-1.4", gotBody)
}

func TestClient_UploadFileConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"A record with this email already exists"}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "cv.docx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	res, err := NewClient(srv.URL+"/", time.Second).UploadFile(context.Background(), path, "")
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t, "A record with this email already exists", res.Error)
}

func TestClient_UploadFileMissing(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1", time.Second).UploadFile(context.Background(), "/does/not/exist.pdf", "")
	assert.Error(t, err)
}

func TestClient_Health(t *testing.T) {
	healthy := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	assert.NoError(t, c.Health(context.Background()))

	healthy = false
	assert.Error(t, c.Health(context.Background()))
}
