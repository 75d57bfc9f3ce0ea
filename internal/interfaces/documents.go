package interfaces

import (
	"context"

	"github.com/ternarybob/animus/internal/models"
)

// DocumentExtractor extracts plain text from uploaded reference documents.
// Extraction never fails outright: a missing capability or an unreadable
// file yields a sentinel or empty document, and callers decide whether
// usable grounding material is present.
type DocumentExtractor interface {
	Extract(filename string, content []byte) models.ReferenceDocument
}

// Summarizer compresses long reference text into a short bullet digest.
// Failures degrade to a placeholder string embedded in the returned text.
type Summarizer interface {
	Summarize(ctx context.Context, text, label string) string
}
