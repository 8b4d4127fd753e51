package workers

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legastream/legastream/internal/analysis"
	"github.com/legastream/legastream/internal/config"
	"github.com/legastream/legastream/internal/database"
	"github.com/legastream/legastream/internal/document"
	"github.com/legastream/legastream/internal/llm"
	"github.com/legastream/legastream/internal/models"
	"github.com/legastream/legastream/internal/queue"
	"github.com/legastream/legastream/internal/storage"
)

func newWorkerTestDB(t *testing.T) *sql.DB {
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
	return db
}

func analyzeTask(t *testing.T, docID int64) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(queue.DocumentAnalyzePayload{DocumentID: docID, UserID: 1})
	require.NoError(t, err)
	return asynq.NewTask(queue.TypeDocumentAnalyze, payload)
}

// When the pipeline fails on the last attempt the document must end up
// at error, not stuck at processing forever.
func TestProcessTaskMarksErrorWhenOutOfRetries(t *testing.T) {
	db := newWorkerTestDB(t)
	res, err := db.Exec(
		`INSERT INTO documents (user_id, filename, original_filename, file_size, content_type, status)
		 VALUES (1, 'a.pdf', 'a.pdf', 10, 'application/pdf', ?)`, models.DocStatusUploaded)
	require.NoError(t, err)
	docID, err := res.LastInsertId()
	require.NoError(t, err)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	docSvc := document.NewService(db, store)

	// The pipeline reads through a dead handle, so Analyze fails with an
	// infrastructure error while status updates still go through.
	deadDB, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
	require.NoError(t, err)
	require.NoError(t, deadDB.Close())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	analysisSvc := analysis.NewService(deadDB, llm.NewGateway(config.AIConfig{}),
		t.TempDir(), t.TempDir(), analysis.StrategyLocal, logger)

	w := NewAnalyzeWorker(docSvc, analysisSvc)

	// A context without asynq retry metadata counts as the final attempt.
	err = w.ProcessTask(context.Background(), analyzeTask(t, docID))
	require.Error(t, err)

	doc, err := docSvc.Get(context.Background(), 1, docID)
	require.NoError(t, err)
	assert.Equal(t, models.DocStatusError, doc.Status)
}

func TestProcessTaskSkipsDeletedDocument(t *testing.T) {
	db := newWorkerTestDB(t)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	docSvc := document.NewService(db, store)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	analysisSvc := analysis.NewService(db, llm.NewGateway(config.AIConfig{}),
		t.TempDir(), t.TempDir(), analysis.StrategyLocal, logger)

	w := NewAnalyzeWorker(docSvc, analysisSvc)

	assert.NoError(t, w.ProcessTask(context.Background(), analyzeTask(t, 9999)))
}
