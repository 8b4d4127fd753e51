package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/legastream/legastream/internal/analysis"
	"github.com/legastream/legastream/internal/document"
	"github.com/legastream/legastream/internal/models"
	"github.com/legastream/legastream/internal/queue"
)

// AnalyzeWorker drives the analysis pipeline for one queued document.
// asynq retries the task on error, so transient Redis or SQLite
// failures get another shot; the pipeline itself degrades internally
// and rarely errors.
type AnalyzeWorker struct {
	docSvc      *document.Service
	analysisSvc *analysis.Service
}

func NewAnalyzeWorker(docSvc *document.Service, analysisSvc *analysis.Service) *AnalyzeWorker {
	return &AnalyzeWorker{
		docSvc:      docSvc,
		analysisSvc: analysisSvc,
	}
}

func (w *AnalyzeWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.DocumentAnalyzePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	slog.Info("analyzing document", "document_id", payload.DocumentID, "user_id", payload.UserID)

	if err := w.docSvc.SetStatus(ctx, payload.UserID, payload.DocumentID, models.DocStatusProcessing); err != nil {
		// Document deleted between enqueue and execution; nothing to do.
		if errors.Is(err, document.ErrNotFound) {
			slog.Warn("document gone before analysis", "document_id", payload.DocumentID)
			return nil
		}
		return fmt.Errorf("mark processing: %w", err)
	}

	if _, err := w.analysisSvc.Analyze(ctx, payload.DocumentID); err != nil {
		// Once asynq is out of retries the document must not stay stuck
		// at processing.
		if finalAttempt(ctx) {
			if serr := w.docSvc.SetStatus(ctx, payload.UserID, payload.DocumentID, models.DocStatusError); serr != nil && !errors.Is(serr, document.ErrNotFound) {
				slog.Error("failed to mark document errored", "document_id", payload.DocumentID, "error", serr)
			}
		}
		return fmt.Errorf("analyze document %d: %w", payload.DocumentID, err)
	}

	return nil
}

// finalAttempt reports whether asynq will not run this task again. Missing
// retry metadata (outside a server context) counts as final.
func finalAttempt(ctx context.Context) bool {
	retried, ok := asynq.GetRetryCount(ctx)
	if !ok {
		return true
	}
	maxRetry, ok := asynq.GetMaxRetry(ctx)
	if !ok {
		return true
	}
	return retried >= maxRetry
}
