package documents

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/ternarybob/animus/internal/models"
)

// extractWord pulls paragraph text from a .docx archive in document order,
// joined by newlines. A document that cannot be opened degrades to an empty
// document rather than an error.
func (e *Extractor) extractWord(filename string, content []byte) models.ReferenceDocument {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		e.logger.Warn().Err(err).Str("file", filename).Msg("Failed to open docx archive")
		return models.ReferenceDocument{Text: "", Format: models.FormatWord}
	}

	var documentXML []byte
	for _, file := range reader.File {
		if file.Name == "word/document.xml" {
			rc, err := file.Open()
			if err != nil {
				e.logger.Warn().Err(err).Str("file", filename).Msg("Failed to open docx document part")
				return models.ReferenceDocument{Text: "", Format: models.FormatWord}
			}
			documentXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				e.logger.Warn().Err(err).Str("file", filename).Msg("Failed to read docx document part")
				return models.ReferenceDocument{Text: "", Format: models.FormatWord}
			}
			break
		}
	}

	if documentXML == nil {
		e.logger.Warn().Str("file", filename).Msg("Docx archive has no document part")
		return models.ReferenceDocument{Text: "", Format: models.FormatWord}
	}

	paragraphs := extractDocxParagraphs(documentXML)
	return models.ReferenceDocument{
		Text:   strings.Join(paragraphs, "\n"),
		Format: models.FormatWord,
	}
}

// extractDocxParagraphs walks the WordprocessingML token stream collecting
// the text runs of each <w:p> paragraph in document order.
func extractDocxParagraphs(documentXML []byte) []string {
	decoder := xml.NewDecoder(bytes.NewReader(documentXML))

	var paragraphs []string
	var current strings.Builder
	inParagraph := false
	inText := false

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch element := token.(type) {
		case xml.StartElement:
			switch element.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
			case "t":
				inText = true
			case "tab":
				if inParagraph {
					current.WriteString("\t")
				}
			case "br":
				if inParagraph {
					current.WriteString("\n")
				}
			}
		case xml.EndElement:
			switch element.Name.Local {
			case "p":
				if inParagraph {
					paragraphs = append(paragraphs, current.String())
					inParagraph = false
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inParagraph && inText {
				current.Write(element)
			}
		}
	}

	return paragraphs
}
