package queue

const (
	TypeDocumentAnalyze = "document:analyze"
)

type DocumentAnalyzePayload struct {
	DocumentID int64 `json:"document_id"`
	UserID     int64 `json:"user_id"`
}
