package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legastream/legastream/internal/database"
	"github.com/legastream/legastream/internal/document"
	"github.com/legastream/legastream/internal/models"
	"github.com/legastream/legastream/internal/queue"
	"github.com/legastream/legastream/internal/stats"
	"github.com/legastream/legastream/internal/storage"
	"github.com/legastream/legastream/internal/tenant"
)

const handlerTestMaxBytes = 1 << 20

type fakeQueue struct {
	enqueued []queue.DocumentAnalyzePayload
}

func (q *fakeQueue) EnqueueDocumentAnalyze(p queue.DocumentAnalyzePayload) error {
	q.enqueued = append(q.enqueued, p)
	return nil
}

func newDocumentTestHandler(t *testing.T) (*DocumentHandler, *sql.DB, *fakeQueue) {
	t.Helper()
	db, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)
	require.NoError(t, database.InitSchema(db))

	_, err = db.Exec(
		`INSERT INTO users (email, password_hash, first_name, last_name) VALUES (?, ?, ?, ?)`,
		"owner@example.com", "hash", "Test", "Owner")
	require.NoError(t, err)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	q := &fakeQueue{}
	h := NewDocumentHandler(document.NewService(db, store), q, stats.NewService(db, nil), handlerTestMaxBytes)
	return h, db, q
}

func authedRequest(r *http.Request) *http.Request {
	return r.WithContext(tenant.WithUser(r.Context(), &models.User{ID: 1}))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func multipartPDF(t *testing.T, size int) (*bytes.Buffer, string) {
	t.Helper()
	payload := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte{'a'}, size-9)...)
	require.Len(t, payload, size)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "contract.pdf")
	require.NoError(t, err)
	_, err = fw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func uploadPDF(t *testing.T, h *DocumentHandler, size int) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartPDF(t, size)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Upload(rec, authedRequest(req))
	return rec
}

// The size limit is inclusive and applies to the file, not the whole
// multipart body, so a PDF of exactly the limit uploads fine even though
// boundaries and part headers push the request past it.
func TestUploadAcceptsFileAtSizeLimit(t *testing.T) {
	h, _, q := newDocumentTestHandler(t)

	rec := uploadPDF(t, h, handlerTestMaxBytes)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var doc models.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, models.DocStatusProcessing, doc.Status)
	assert.Equal(t, int64(handlerTestMaxBytes), doc.FileSize)
	assert.Len(t, q.enqueued, 1)
}

func TestUploadRejectsFileOverSizeLimit(t *testing.T) {
	h, _, q := newDocumentTestHandler(t)

	rec := uploadPDF(t, h, handlerTestMaxBytes+1)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "File too large (maximum 1MB)", body["error"])
	assert.Empty(t, q.enqueued)
}

func TestListIncludesStatusCounts(t *testing.T) {
	h, db, _ := newDocumentTestHandler(t)

	for _, status := range []string{
		models.DocStatusUploaded, models.DocStatusProcessing,
		models.DocStatusCompleted, models.DocStatusCompleted,
	} {
		_, err := db.Exec(
			`INSERT INTO documents (user_id, filename, original_filename, file_size, content_type, status)
			 VALUES (1, 'a.pdf', 'a.pdf', 10, 'application/pdf', ?)`, status)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(req))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Documents       []models.Document `json:"documents"`
		Count           int               `json:"count"`
		ProcessingCount int               `json:"processing_count"`
		CompletedCount  int               `json:"completed_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Documents, 4)
	assert.Equal(t, 4, resp.Count)
	assert.Equal(t, 1, resp.ProcessingCount)
	assert.Equal(t, 2, resp.CompletedCount)
}

func TestEntitiesOrderedByConfidenceWithTypeCounts(t *testing.T) {
	h, db, _ := newDocumentTestHandler(t)

	res, err := db.Exec(
		`INSERT INTO documents (user_id, filename, original_filename, file_size, content_type, status)
		 VALUES (1, 'a.pdf', 'a.pdf', 10, 'application/pdf', ?)`, models.DocStatusCompleted)
	require.NoError(t, err)
	docID, err := res.LastInsertId()
	require.NoError(t, err)

	entities := []struct {
		typ        string
		value      string
		confidence float64
	}{
		{models.EntityParty, "Acme Inc", 0.70},
		{models.EntityDate, "01/01/2024", 0.95},
		{models.EntityParty, "Globex LLC", 0.85},
	}
	for _, e := range entities {
		_, err := db.Exec(
			`INSERT INTO entities (document_id, entity_type, entity_value, context, confidence)
			 VALUES (?, ?, ?, '', ?)`, docID, e.typ, e.value, e.confidence)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+strconv.FormatInt(docID, 10)+"/entities", nil)
	req = withURLParam(authedRequest(req), "id", strconv.FormatInt(docID, 10))
	rec := httptest.NewRecorder()
	h.Entities(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Entities       []models.Entity `json:"entities"`
		Count          int             `json:"count"`
		EntitiesByType map[string]int  `json:"entities_by_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Entities, 3)
	assert.Equal(t, "01/01/2024", resp.Entities[0].Value)
	assert.Equal(t, "Globex LLC", resp.Entities[1].Value)
	assert.Equal(t, "Acme Inc", resp.Entities[2].Value)

	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, map[string]int{
		models.EntityParty: 2,
		models.EntityDate:  1,
	}, resp.EntitiesByType)
}
