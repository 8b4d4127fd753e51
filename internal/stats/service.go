package stats

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/legastream/legastream/internal/cache"
	"github.com/legastream/legastream/internal/models"
)

const cacheTTL = 30 * time.Second

// Stats is the per-user dashboard summary.
type Stats struct {
	TotalDocuments     int `json:"total_documents"`
	CompletedDocuments int `json:"completed_documents"`
	ProcessingCount    int `json:"processing_count"`
	ErrorCount         int `json:"error_count"`
	TotalEntities      int `json:"total_entities"`
	TotalIssues        int `json:"total_issues"`
}

// Service aggregates document counts per user, cached briefly in
// Redis since the dashboard polls it.
type Service struct {
	db    *sql.DB
	cache *cache.Cache
}

func NewService(db *sql.DB, c *cache.Cache) *Service {
	return &Service{db: db, cache: c}
}

func (s *Service) ForUser(ctx context.Context, userID int64) (*Stats, error) {
	key := fmt.Sprintf("stats:user:%d", userID)

	var cached Stats
	if s.cache != nil {
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	stats, err := s.compute(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		// Best effort; serving stale-free stats matters more than caching.
		_ = s.cache.Set(ctx, key, stats, cacheTTL)
	}
	return stats, nil
}

// Invalidate drops the cached stats after uploads, deletions, or
// completed analyses change the counts.
func (s *Service) Invalidate(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, fmt.Sprintf("stats:user:%d", userID))
	}
}

func (s *Service) compute(ctx context.Context, userID int64) (*Stats, error) {
	var stats Stats

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		FROM documents WHERE user_id = ?`,
		models.DocStatusCompleted, models.DocStatusProcessing, models.DocStatusError, userID).
		Scan(&stats.TotalDocuments, &stats.CompletedDocuments,
			&stats.ProcessingCount, &stats.ErrorCount)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM entities e
		JOIN documents d ON d.id = e.document_id
		WHERE d.user_id = ?`, userID).Scan(&stats.TotalEntities)
	if err != nil {
		return nil, fmt.Errorf("count entities: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM compliance_issues i
		JOIN documents d ON d.id = i.document_id
		WHERE d.user_id = ?`, userID).Scan(&stats.TotalIssues)
	if err != nil {
		return nil, fmt.Errorf("count issues: %w", err)
	}

	return &stats, nil
}
