package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/legastream/legastream/internal/document"
	"github.com/legastream/legastream/internal/models"
	"github.com/legastream/legastream/internal/queue"
	"github.com/legastream/legastream/internal/stats"
	"github.com/legastream/legastream/internal/tenant"
)

// multipartOverhead covers boundary lines and part headers so a file of
// exactly the configured limit still fits in the request body.
const multipartOverhead = 1 << 20

// analysisQueue is the slice of the queue client the handler needs.
type analysisQueue interface {
	EnqueueDocumentAnalyze(payload queue.DocumentAnalyzePayload) error
}

type DocumentHandler struct {
	svc      *document.Service
	queue    analysisQueue
	stats    *stats.Service
	maxBytes int64
}

func NewDocumentHandler(svc *document.Service, qc analysisQueue, st *stats.Service, maxBytes int64) *DocumentHandler {
	return &DocumentHandler{svc: svc, queue: qc, stats: st, maxBytes: maxBytes}
}

// Upload accepts a multipart PDF, stores it, and queues analysis. The
// response returns immediately with status processing; the frontend
// polls the document until the worker finishes.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := tenant.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	// The file limit is inclusive and enforced by ValidateUpload on the
	// decoded part; the body cap only guards against runaway requests, so
	// it leaves headroom for multipart boundaries and part headers.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "File too large or invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "file field required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read upload")
		return
	}

	doc, err := h.svc.Upload(r.Context(), userID, header.Filename,
		header.Header.Get("Content-Type"), data, h.maxBytes)
	if err != nil {
		var verr *document.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, verr.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	h.enqueueAnalysis(w, r, userID, doc)
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := tenant.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	docs, err := h.svc.List(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	if docs == nil {
		docs = []*models.Document{}
	}

	var processing, completed int
	for _, d := range docs {
		switch d.Status {
		case models.DocStatusProcessing:
			processing++
		case models.DocStatusCompleted:
			completed++
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"documents":        docs,
		"count":            len(docs),
		"processing_count": processing,
		"completed_count":  completed,
	})
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	doc, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, document.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}

	h.stats.Invalidate(r.Context(), userID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Analyze re-queues a completed or errored document. The prior entity
// set is replaced atomically when the worker persists.
func (h *DocumentHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	doc, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	if doc.Status == models.DocStatusProcessing {
		writeError(w, http.StatusConflict, "analysis already in progress")
		return
	}

	h.enqueueAnalysis(w, r, userID, doc)
}

func (h *DocumentHandler) Entities(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	entities, err := h.svc.Entities(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list entities")
		return
	}

	byType := map[string]int{}
	for _, e := range entities {
		byType[e.Type]++
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entities":         entities,
		"count":            len(entities),
		"entities_by_type": byType,
	})
}

func (h *DocumentHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	doc, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"id": doc.ID, "status": doc.Status})
}

func (h *DocumentHandler) enqueueAnalysis(w http.ResponseWriter, r *http.Request, userID int64, doc *models.Document) {
	if err := h.queue.EnqueueDocumentAnalyze(queue.DocumentAnalyzePayload{
		DocumentID: doc.ID,
		UserID:     userID,
	}); err != nil {
		slog.Error("failed to enqueue analysis", "document_id", doc.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to queue analysis")
		return
	}

	if err := h.svc.SetStatus(r.Context(), userID, doc.ID, models.DocStatusProcessing); err != nil {
		slog.Error("failed to mark processing", "document_id", doc.ID, "error", err)
	}
	doc.Status = models.DocStatusProcessing

	h.stats.Invalidate(r.Context(), userID)
	writeJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) requestIDs(w http.ResponseWriter, r *http.Request) (userID, docID int64, ok bool) {
	userID, authed := tenant.UserIDFromContext(r.Context())
	if !authed {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return 0, 0, false
	}

	docID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document ID")
		return 0, 0, false
	}
	return userID, docID, true
}
