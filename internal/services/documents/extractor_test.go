package documents

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/animus/internal/models"
)

func newTestExtractor() *Extractor {
	return NewExtractor(arbor.NewLogger())
}

// buildDocx assembles a minimal .docx archive with the given paragraphs.
func buildDocx(t *testing.T, paragraphs []string) []byte {
	t.Helper()

	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, paragraph := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>`)
		if err := xmlEscape(&body, paragraph); err != nil {
			t.Fatalf("escape paragraph: %v", err)
		}
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	entry, err := writer.Create("word/document.xml")
	require.NoError(t, err)
	_, err = entry.Write([]byte(body.String()))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return buf.Bytes()
}

func xmlEscape(builder *strings.Builder, s string) error {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	_, err := builder.WriteString(replacer.Replace(s))
	return err
}

func TestExtract_PlainFormats(t *testing.T) {
	extractor := newTestExtractor()

	tests := []struct {
		name       string
		filename   string
		content    string
		wantFormat models.DocumentFormat
	}{
		{"Text file", "notes.txt", "Düz metin içerik.", models.FormatText},
		{"Markdown file", "guide.MD", "# Başlık\n\nİçerik.", models.FormatMarkdown},
		{"Unknown extension falls back to text", "data.csv", "a,b,c", models.FormatText},
		{"No extension", "README", "okubeni", models.FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := extractor.Extract(tt.filename, []byte(tt.content))
			assert.Equal(t, tt.wantFormat, doc.Format)
			assert.Equal(t, tt.content, doc.Text)
			assert.False(t, doc.Sentinel)
			assert.True(t, doc.Usable())
		})
	}
}

func TestExtract_InvalidUTF8IsDropped(t *testing.T) {
	extractor := newTestExtractor()

	doc := extractor.Extract("notes.txt", []byte{'o', 'k', 0xff, 0xfe, '!'})
	assert.Equal(t, "ok!", doc.Text)
}

func TestExtract_DisabledCapabilitiesReturnSentinels(t *testing.T) {
	extractor := newTestExtractor()
	extractor.WordEnabled = false
	extractor.PDFEnabled = false

	t.Run("Word disabled", func(t *testing.T) {
		doc := extractor.Extract("report.docx", []byte("irrelevant"))
		assert.True(t, doc.Sentinel)
		assert.False(t, doc.Usable())
		assert.Contains(t, doc.Text, "unavailable")
		assert.Equal(t, models.FormatWord, doc.Format)
	})

	t.Run("PDF disabled", func(t *testing.T) {
		doc := extractor.Extract("report.pdf", []byte("irrelevant"))
		assert.True(t, doc.Sentinel)
		assert.False(t, doc.Usable())
		assert.Contains(t, doc.Text, "unavailable")
		assert.Equal(t, models.FormatPDF, doc.Format)
	})
}

func TestExtract_Docx(t *testing.T) {
	extractor := newTestExtractor()

	t.Run("Paragraphs in document order", func(t *testing.T) {
		content := buildDocx(t, []string{"Birinci paragraf.", "İkinci paragraf.", "Üçüncü & son."})

		doc := extractor.Extract("material.docx", content)
		assert.Equal(t, models.FormatWord, doc.Format)
		assert.Equal(t, "Birinci paragraf.\nİkinci paragraf.\nÜçüncü & son.", doc.Text)
	})

	t.Run("Corrupt archive degrades to empty", func(t *testing.T) {
		doc := extractor.Extract("broken.docx", []byte("not a zip archive"))
		assert.Equal(t, models.FormatWord, doc.Format)
		assert.Equal(t, "", doc.Text)
		assert.False(t, doc.Usable())
	})

	t.Run("Archive without document part degrades to empty", func(t *testing.T) {
		var buf bytes.Buffer
		writer := zip.NewWriter(&buf)
		entry, err := writer.Create("word/styles.xml")
		require.NoError(t, err)
		_, err = entry.Write([]byte("<styles/>"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		doc := extractor.Extract("odd.docx", buf.Bytes())
		assert.Equal(t, "", doc.Text)
	})
}

func TestExtractDocxParagraphs_TabsAndBreaks(t *testing.T) {
	documentXML := []byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>önce</w:t></w:r><w:r><w:tab/></w:r><w:r><w:t>sonra</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>üst</w:t><w:br/><w:t>alt</w:t></w:r></w:p>` +
		`</w:body></w:document>`)

	paragraphs := extractDocxParagraphs(documentXML)
	require.Len(t, paragraphs, 2)
	assert.Equal(t, "önce\tsonra", paragraphs[0])
	assert.Equal(t, "üst\nalt", paragraphs[1])
}

func TestAssemblePages(t *testing.T) {
	tests := []struct {
		name      string
		pageTexts map[int]string
		pageCount int
		want      string
	}{
		{
			name:      "All pages present",
			pageTexts: map[int]string{1: "bir", 2: "iki", 3: "üç"},
			pageCount: 3,
			want:      "bir\niki\nüç",
		},
		{
			name:      "Failed middle page contributes empty string",
			pageTexts: map[int]string{1: "bir", 3: "üç"},
			pageCount: 3,
			want:      "bir\n\nüç",
		},
		{
			name:      "No pages extracted",
			pageTexts: nil,
			pageCount: 2,
			want:      "\n",
		},
		{
			name:      "Unknown page count falls back to sorted pages",
			pageTexts: map[int]string{2: "iki", 1: "bir"},
			pageCount: 0,
			want:      "bir\niki",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, assemblePages(tt.pageTexts, tt.pageCount))
		})
	}
}
