package documents

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/ternarybob/animus/internal/models"
)

// extractPDF extracts text per page in order, joined by newlines. A single
// page's extraction failure contributes an empty string for that page only;
// it does not abort the whole document. A document pdfcpu cannot read at all
// degrades to an empty document.
func (e *Extractor) extractPDF(filename string, content []byte) models.ReferenceDocument {
	// pdfcpu operates on files, so stage the upload in the temp dir.
	tempFile := filepath.Join(e.tempDir, fmt.Sprintf("extract_%s.pdf", uuid.NewString()))
	if err := os.WriteFile(tempFile, content, 0644); err != nil {
		e.logger.Warn().Err(err).Str("file", filename).Msg("Failed to stage PDF for extraction")
		return models.ReferenceDocument{Text: "", Format: models.FormatPDF}
	}
	defer os.Remove(tempFile)

	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		e.logger.Warn().Err(err).Str("file", filename).Msg("Failed to read PDF context")
		return models.ReferenceDocument{Text: "", Format: models.FormatPDF}
	}
	pageCount := pdfCtx.PageCount

	outDir := filepath.Join(e.tempDir, fmt.Sprintf("pages_%s", uuid.NewString()))
	os.MkdirAll(outDir, 0755)
	defer os.RemoveAll(outDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		// Whole-document content extraction failed; every page contributes
		// an empty string, but the document itself is still returned.
		e.logger.Warn().Err(err).Str("file", filename).Msg("Failed to extract PDF content")
		return models.ReferenceDocument{Text: assemblePages(nil, pageCount), Format: models.FormatPDF}
	}

	pageTexts := readExtractedPages(outDir)

	return models.ReferenceDocument{
		Text:   assemblePages(pageTexts, pageCount),
		Format: models.FormatPDF,
	}
}

// readExtractedPages collects the per-page content files pdfcpu wrote into
// outDir, keyed by page number. Unreadable page files are simply skipped.
func readExtractedPages(outDir string) map[int]string {
	files, _ := os.ReadDir(outDir)
	pageTexts := make(map[int]string, len(files))

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(file.Name(), "Content_page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(content)
			continue
		}
		if _, err := fmt.Sscanf(file.Name(), "page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(content)
		}
	}

	return pageTexts
}

// assemblePages joins page texts in page order. Pages with no extracted
// text (failed or empty) contribute an empty string at their position.
func assemblePages(pageTexts map[int]string, pageCount int) string {
	if pageCount <= 0 {
		// No page count available: fall back to whatever pages exist, sorted.
		numbers := make([]int, 0, len(pageTexts))
		for pageNum := range pageTexts {
			numbers = append(numbers, pageNum)
		}
		sort.Ints(numbers)
		parts := make([]string, 0, len(numbers))
		for _, pageNum := range numbers {
			parts = append(parts, pageTexts[pageNum])
		}
		return strings.Join(parts, "\n")
	}

	parts := make([]string, pageCount)
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		parts[pageNum-1] = pageTexts[pageNum]
	}
	return strings.Join(parts, "\n")
}
