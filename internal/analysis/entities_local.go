package analysis

import (
	"regexp"
	"strings"

	"github.com/legastream/legastream/internal/models"
)

// ExtractedEntity is an entity before it has a database row.
type ExtractedEntity struct {
	Type       string  `json:"type"`
	Value      string  `json:"value"`
	Context    string  `json:"context"`
	Confidence float64 `json:"confidence"`
}

type typedPattern struct {
	entityType string
	re         *regexp.Regexp
	context    string
	confidence float64
}

// The fixed battery of per-type patterns, applied in order. Tuned
// against real contracts; PARTY is deliberately absent here and
// handled separately with a denylist.
var localPatterns = []typedPattern{
	{models.EntityDate,
		regexp.MustCompile(`(?i)\b\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}\b|\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}\b`),
		"Date found in document", 0.90},
	{models.EntityAmount,
		regexp.MustCompile(`(?i)\$[\d,]+(?:\.\d{2})?|\b\d+(?:,\d{3})*(?:\.\d{2})?\s*(?:USD|dollars?)\b`),
		"Monetary amount", 0.95},
	{models.EntityAddress,
		regexp.MustCompile(`(?i)\b\d+\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\s+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Drive|Dr|Lane|Ln|Suite|Ste)\b`),
		"Address", 0.88},
	{models.EntityObligation,
		regexp.MustCompile(`(?i)\b(?:shall|must|agrees?\s+to|is\s+(?:required|obligated)\s+to)\s+(?:\w+\s+){0,6}\w+`),
		"Obligation clause", 0.70},
	{models.EntityClause,
		regexp.MustCompile(`(?i)\b(?:Section|Clause|Article|Paragraph)\s+\d+(?:\.\d+)*\b`),
		"Clause reference", 0.92},
	{models.EntityJurisdiction,
		regexp.MustCompile(`(?i)\b(?:laws?\s+of\s+(?:the\s+)?(?:State\s+of\s+)?[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?|governed\s+by\s+the\s+laws?\s+of\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?|courts?\s+of\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`),
		"Governing jurisdiction", 0.85},
	{models.EntityTerm,
		regexp.MustCompile(`(?i)\b(?:term\s+of\s+\w+\s+(?:years?|months?|days?)|(?:period|duration)\s+of\s+\d+\s+(?:years?|months?|days?)|\d+[\s\-](?:year|month|day)\s+(?:term|period))\b`),
		"Term or duration", 0.80},
	{models.EntityCondition,
		regexp.MustCompile(`(?i)\b(?:subject\s+to|provided\s+that|in\s+the\s+event\s+(?:of|that)|unless\s+otherwise)\s+(?:\w+\s+){0,6}\w+`),
		"Conditional clause", 0.68},
	{models.EntityPenalty,
		regexp.MustCompile(`(?i)\b(?:penalty\s+of\s+\S+|liquidated\s+damages|late\s+fees?\s+of\s+\S+|fine\s+of\s+\S+)`),
		"Penalty clause", 0.85},
}

var partyPattern = regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\b`)

var partyCompanyPattern = regexp.MustCompile(`\b[A-Z][A-Za-z&,.\s]{2,40}?\s(?:Inc|LLC|Ltd|Corp|Corporation|Company|LLP|LP|PLC)\.?\b`)

// Capitalized-bigram matching over-triggers badly, so PARTY candidates
// pass through a denylist of words that look like names but never are.
var partyDenylist = map[string]bool{
	// generic document words
	"this": true, "agreement": true, "contract": true, "document": true,
	"party": true, "parties": true, "section": true, "clause": true,
	"article": true, "terms": true, "conditions": true, "whereas": true,
	"hereby": true, "herein": true, "thereof": true, "effective": true,
	"date": true, "page": true, "exhibit": true, "schedule": true,
	"appendix": true, "confidential": true, "proprietary": true,
	// US state names that show up as capitalized pairs
	"new": true, "york": true, "jersey": true, "north": true, "south": true,
	"carolina": true, "dakota": true, "west": true, "virginia": true,
	"rhode": true, "island": true, "hampshire": true, "mexico": true,
	// job titles
	"chief": true, "executive": true, "officer": true, "president": true,
	"vice": true, "director": true, "manager": true, "general": true,
	"counsel": true, "secretary": true, "treasurer": true,
}

// ExtractEntitiesLocal runs the regex battery over the text, dedupes
// by (type, value) and returns the combined set.
func ExtractEntitiesLocal(text string) []ExtractedEntity {
	var entities []ExtractedEntity

	for _, p := range localPatterns {
		for _, match := range p.re.FindAllString(text, -1) {
			entities = append(entities, ExtractedEntity{
				Type:       p.entityType,
				Value:      strings.TrimSpace(match),
				Context:    p.context,
				Confidence: p.confidence,
			})
		}
	}

	entities = append(entities, ExtractParties(text)...)

	return dedupeEntities(entities)
}

// ExtractParties is the strict local PARTY path: company-suffix names
// first, then capitalized-bigram candidates filtered by the denylist.
func ExtractParties(text string) []ExtractedEntity {
	var entities []ExtractedEntity

	for _, match := range partyCompanyPattern.FindAllString(text, -1) {
		entities = append(entities, ExtractedEntity{
			Type:       models.EntityParty,
			Value:      strings.TrimSpace(match),
			Context:    "Named party to agreement",
			Confidence: 0.85,
		})
	}

	for _, match := range partyPattern.FindAllString(text, -1) {
		words := strings.Fields(match)
		if len(words) > 3 || len(match) < 5 {
			continue
		}
		if anyDenied(words) {
			continue
		}
		entities = append(entities, ExtractedEntity{
			Type:       models.EntityParty,
			Value:      strings.TrimSpace(match),
			Context:    "Person or organization name",
			Confidence: 0.75,
		})
	}

	return dedupeEntities(entities)
}

func anyDenied(words []string) bool {
	for _, w := range words {
		if partyDenylist[strings.ToLower(w)] {
			return true
		}
	}
	return false
}

func dedupeEntities(entities []ExtractedEntity) []ExtractedEntity {
	seen := make(map[string]bool, len(entities))
	out := entities[:0]
	for _, e := range entities {
		key := e.Type + "\x00" + e.Value
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}
