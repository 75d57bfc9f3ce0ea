package documents

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/animus/internal/interfaces"
	"github.com/ternarybob/animus/internal/models"
)

// Sentinel strings returned when a parsing capability is disabled. They are
// embedded inline instead of raising, so the rest of the pipeline continues;
// callers treat them as "no usable content".
const (
	SentinelWordUnavailable = "(docx extraction unavailable – word-processor support is disabled)"
	SentinelPDFUnavailable  = "(pdf extraction unavailable – pdf support is disabled)"
)

// Extractor extracts plain text from uploaded reference documents,
// dispatching on the filename extension.
type Extractor struct {
	logger  arbor.ILogger
	tempDir string

	// Capability switches. Both default to enabled; tests and constrained
	// deployments can disable a format, which routes it to its sentinel.
	WordEnabled bool
	PDFEnabled  bool
}

// Compile-time interface assertion
var _ interfaces.DocumentExtractor = (*Extractor)(nil)

// NewExtractor creates a new document extractor
func NewExtractor(logger arbor.ILogger) *Extractor {
	tempDir := filepath.Join(os.TempDir(), "animus-pdf")
	os.MkdirAll(tempDir, 0755)

	return &Extractor{
		logger:      logger,
		tempDir:     tempDir,
		WordEnabled: true,
		PDFEnabled:  true,
	}
}

// Extract returns the plain text of an uploaded document. It never fails:
// unsupported or unreadable content degrades to an empty or sentinel
// document. No size limit is enforced here; truncation is the caller's
// responsibility.
func (e *Extractor) Extract(filename string, content []byte) models.ReferenceDocument {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return models.ReferenceDocument{Text: decodeUTF8(content), Format: models.FormatText}
	case ".md":
		return models.ReferenceDocument{Text: decodeUTF8(content), Format: models.FormatMarkdown}
	case ".docx":
		if !e.WordEnabled {
			return models.ReferenceDocument{Text: SentinelWordUnavailable, Format: models.FormatWord, Sentinel: true}
		}
		return e.extractWord(filename, content)
	case ".pdf":
		if !e.PDFEnabled {
			return models.ReferenceDocument{Text: SentinelPDFUnavailable, Format: models.FormatPDF, Sentinel: true}
		}
		return e.extractPDF(filename, content)
	default:
		// Unrecognized extension: attempt a UTF-8 decode, otherwise empty.
		if !utf8.Valid(content) && len(decodeUTF8(content)) == 0 {
			return models.ReferenceDocument{Text: "", Format: models.FormatText}
		}
		return models.ReferenceDocument{Text: decodeUTF8(content), Format: models.FormatText}
	}
}

// decodeUTF8 decodes bytes as UTF-8, dropping undecodable bytes.
func decodeUTF8(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}

	var builder strings.Builder
	builder.Grow(len(content))
	for len(content) > 0 {
		r, size := utf8.DecodeRune(content)
		if r != utf8.RuneError || size > 1 {
			builder.WriteRune(r)
		}
		content = content[size:]
	}
	return builder.String()
}
