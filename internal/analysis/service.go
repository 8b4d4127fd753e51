package analysis

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/legastream/legastream/internal/llm"
	"github.com/legastream/legastream/internal/models"
	"github.com/legastream/legastream/pkg/textextract"
)

const (
	StrategyRemote = "remote"
	StrategyLocal  = "local"
	StrategyHybrid = "hybrid"

	extractedTextLimit = 10000
)

// Service runs the full analysis pipeline for one document: text
// extraction, entity extraction, compliance and risk scoring, summary,
// and a single transaction persisting all of it.
type Service struct {
	db           *sql.DB
	gateway      llm.Gateway
	uploadsDir   string
	documentsDir string
	strategy     string
	logger       *slog.Logger
}

func NewService(db *sql.DB, gateway llm.Gateway, uploadsDir, documentsDir, strategy string, logger *slog.Logger) *Service {
	if strategy == "" {
		strategy = StrategyHybrid
	}
	return &Service{
		db:           db,
		gateway:      gateway,
		uploadsDir:   uploadsDir,
		documentsDir: documentsDir,
		strategy:     strategy,
		logger:       logger,
	}
}

// Result is what a completed analysis produced, mirroring the stored
// results blob plus the full entity and issue sets.
type Result struct {
	Entities    []ExtractedEntity
	Compliance  ComplianceResult
	Risk        RiskResult
	Summary     string
	Confidence  float64
	UsingRealAI bool
}

// Analyze runs the pipeline and persists the outcome. Extraction and
// model failures degrade to local fallbacks instead of failing; only
// database errors mark the document as errored.
func (s *Service) Analyze(ctx context.Context, documentID int64) (*Result, error) {
	doc, err := s.loadDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("load document %d: %w", documentID, err)
	}

	log := s.logger.With("document_id", documentID)
	log.Info("starting analysis", "strategy", s.strategy, "ai_enabled", s.gateway.Enabled())

	text := s.extractText(doc)
	log.Info("text extracted", "chars", len(text))

	entities, usedRemote := s.extractEntities(ctx, text)
	log.Info("entities extracted", "count", len(entities), "remote", usedRemote)

	compliance := CheckCompliance(text, entities)
	risk := AssessRisk(text, compliance)
	summary := s.summarize(ctx, text, len(entities))

	result := &Result{
		Entities:    entities,
		Compliance:  compliance,
		Risk:        risk,
		Summary:     summary,
		Confidence:  calculateConfidence(len(entities), compliance.Score, usedRemote),
		UsingRealAI: usedRemote,
	}

	if err := s.persist(ctx, documentID, text, result); err != nil {
		s.markError(ctx, documentID)
		return nil, fmt.Errorf("persist analysis for document %d: %w", documentID, err)
	}

	log.Info("analysis complete",
		"compliance_score", compliance.Score,
		"risk_level", risk.Level,
		"confidence", result.Confidence)
	return result, nil
}

func (s *Service) loadDocument(ctx context.Context, id int64) (*models.Document, error) {
	var doc models.Document
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, filename, original_filename, file_size, content_type, status
		 FROM documents WHERE id = ?`, id).
		Scan(&doc.ID, &doc.UserID, &doc.Filename, &doc.OriginalFilename,
			&doc.FileSize, &doc.ContentType, &doc.Status)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// extractText resolves the stored file across the known path
// conventions and pulls plain text out of it. Every failure mode
// degrades to the placeholder so the pipeline still completes.
func (s *Service) extractText(doc *models.Document) string {
	name := doc.Filename
	if name == "" {
		name = doc.OriginalFilename
	}

	candidates := []string{
		filepath.Join(s.uploadsDir, name),
		filepath.Join(s.documentsDir, name),
		filepath.Join(s.documentsDir, fmt.Sprintf("%d_%s", doc.ID, name)),
	}

	var path string
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			path = c
			break
		}
	}
	if path == "" {
		s.logger.Warn("document file not found", "document_id", doc.ID, "filename", name)
		return textextract.PlaceholderText
	}

	f, err := os.Open(path)
	if err != nil {
		return textextract.PlaceholderText
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return textextract.PlaceholderText
	}

	extracted, err := textextract.ExtractPDF(f, info.Size())
	if err != nil {
		s.logger.Warn("text extraction failed", "document_id", doc.ID, "error", err)
		return textextract.PlaceholderText
	}
	return extracted.Content
}

// extractEntities applies the configured strategy. Hybrid always takes
// PARTY from the strict local path and the other nine types from the
// remote model when it answers, concatenating and deduplicating.
func (s *Service) extractEntities(ctx context.Context, text string) ([]ExtractedEntity, bool) {
	if s.strategy == StrategyLocal || !s.gateway.Enabled() {
		return ExtractEntitiesLocal(text), false
	}

	remote, err := ExtractEntitiesRemote(ctx, s.gateway, text)
	if err != nil {
		s.logger.Warn("remote entity extraction failed, falling back to local", "error", err)
		return ExtractEntitiesLocal(text), false
	}

	if s.strategy == StrategyRemote {
		return remote, true
	}

	// hybrid
	others := remote[:0:0]
	for _, e := range remote {
		if e.Type != models.EntityParty {
			others = append(others, e)
		}
	}
	combined := append(ExtractParties(text), others...)
	return dedupeEntities(combined), true
}

func (s *Service) summarize(ctx context.Context, text string, entityCount int) string {
	if s.gateway.Enabled() {
		summary, err := GenerateSummaryRemote(ctx, s.gateway, text)
		if err == nil {
			return summary
		}
		s.logger.Warn("remote summary failed, falling back to local", "error", err)
	}
	return SummarizeLocal(text, entityCount)
}

// persist replaces the document's entities and issues and stores the
// results blob in one transaction, so the entities_extracted count in
// the blob can never drift from the entity rows.
func (s *Service) persist(ctx context.Context, documentID int64, text string, r *Result) error {
	results, err := json.Marshal(models.AnalysisResults{
		EntitiesExtracted: len(r.Entities),
		ComplianceScore:   r.Compliance.Score,
		RiskLevel:         r.Risk.Level,
		IssuesFlagged:     len(r.Compliance.Issues),
		ConfidenceScore:   r.Confidence,
		Summary:           r.Summary,
		UsingRealAI:       r.UsingRealAI,
	})
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entities WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("delete entities: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM compliance_issues WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("delete issues: %w", err)
	}

	for _, e := range r.Entities {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entities (document_id, entity_type, entity_value, context, confidence)
			 VALUES (?, ?, ?, ?, ?)`,
			documentID, e.Type, e.Value, e.Context, e.Confidence); err != nil {
			return fmt.Errorf("insert entity: %w", err)
		}
	}

	for i, issue := range r.Compliance.Issues {
		recommendation := "Review required"
		if i < len(r.Compliance.Recommendations) {
			recommendation = r.Compliance.Recommendations[i]
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO compliance_issues (document_id, issue_type, severity, description, recommendation)
			 VALUES (?, 'compliance', ?, ?, ?)`,
			documentID, r.Risk.Level, issue, recommendation); err != nil {
			return fmt.Errorf("insert issue: %w", err)
		}
	}

	stored := truncateUTF8(text, extractedTextLimit)
	if _, err := tx.ExecContext(ctx,
		`UPDATE documents
		 SET status = ?, analysis_results = ?, extracted_text = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		models.DocStatusCompleted, string(results), stored, documentID); err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	return tx.Commit()
}

// truncateUTF8 cuts s to at most limit bytes without splitting a rune.
func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func (s *Service) markError(ctx context.Context, documentID int64) {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE documents SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		models.DocStatusError, documentID); err != nil {
		s.logger.Error("failed to mark document errored", "document_id", documentID, "error", err)
	}
}

// calculateConfidence blends entity volume, compliance, and whether a
// real model answered into a 0-100 score with one decimal.
func calculateConfidence(entityCount, complianceScore int, usedRemote bool) float64 {
	confidence := 0.75
	confidence += math.Min(float64(entityCount)*0.01, 0.15)
	confidence += float64(complianceScore) / 100.0 * 0.1
	if usedRemote {
		confidence += 0.1
	}
	if confidence > 0.99 {
		confidence = 0.99
	}
	return math.Round(confidence*1000) / 10
}
