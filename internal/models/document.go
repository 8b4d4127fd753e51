package models

import (
	"encoding/json"
	"time"
)

type Document struct {
	ID               int64           `json:"id" db:"id"`
	UserID           int64           `json:"-" db:"user_id"`
	Filename         string          `json:"filename" db:"filename"`
	OriginalFilename string          `json:"original_filename" db:"original_filename"`
	FileSize         int64           `json:"file_size" db:"file_size"`
	ContentType      string          `json:"content_type" db:"content_type"`
	Status           string          `json:"status" db:"status"`
	AnalysisResults  json.RawMessage `json:"analysis_results,omitempty" db:"analysis_results"`
	ExtractedText    string          `json:"-" db:"extracted_text"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

const (
	DocStatusUploaded   = "uploaded"
	DocStatusProcessing = "processing"
	DocStatusCompleted  = "completed"
	DocStatusError      = "error"
)

// AnalysisResults is the JSON blob stored on the document row. Its
// EntitiesExtracted count must always match the number of entity rows for
// the document; both are written in the same transaction.
type AnalysisResults struct {
	EntitiesExtracted int     `json:"entities_extracted"`
	ComplianceScore   int     `json:"compliance_score"`
	RiskLevel         string  `json:"risk_level"`
	IssuesFlagged     int     `json:"issues_flagged"`
	ConfidenceScore   float64 `json:"confidence_score"`
	Summary           string  `json:"summary"`
	UsingRealAI       bool    `json:"using_real_ai"`
}

type Entity struct {
	ID         int64     `json:"id" db:"id"`
	DocumentID int64     `json:"document_id" db:"document_id"`
	Type       string    `json:"entity_type" db:"entity_type"`
	Value      string    `json:"entity_value" db:"entity_value"`
	Context    string    `json:"context" db:"context"`
	Confidence float64   `json:"confidence" db:"confidence"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// The ten entity categories the extractor recognizes.
const (
	EntityParty        = "PARTY"
	EntityDate         = "DATE"
	EntityAmount       = "AMOUNT"
	EntityAddress      = "ADDRESS"
	EntityObligation   = "OBLIGATION"
	EntityClause       = "CLAUSE"
	EntityJurisdiction = "JURISDICTION"
	EntityTerm         = "TERM"
	EntityCondition    = "CONDITION"
	EntityPenalty      = "PENALTY"
)

func EntityTypes() []string {
	return []string{
		EntityParty, EntityDate, EntityAmount, EntityAddress, EntityObligation,
		EntityClause, EntityJurisdiction, EntityTerm, EntityCondition, EntityPenalty,
	}
}

type ComplianceIssue struct {
	ID             int64     `json:"id" db:"id"`
	DocumentID     int64     `json:"document_id" db:"document_id"`
	IssueType      string    `json:"issue_type" db:"issue_type"`
	Severity       string    `json:"severity" db:"severity"`
	Description    string    `json:"description" db:"description"`
	Recommendation string    `json:"recommendation" db:"recommendation"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
