package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/animus/internal/models"
)

func structuredOutcome() *models.AnalysisOutcome {
	return &models.AnalysisOutcome{
		Result: models.NewStructuredResult(&models.StructuredAnalysis{
			Meta: models.AnalysisMeta{
				EducationTitle: "Stres Yönetimi",
				NumAnswers:     2,
				Language:       "Turkish",
			},
			Narrative:    "Yanıtlarınız düzenli bir uygulama çabasını gösteriyor.",
			SafetyNotes:  "Bu değerlendirme klinik bir tanı değildir.",
			Themes:       []string{"düzenlilik"},
			Strengths:    []string{"istikrar"},
			GrowthAreas:  []string{"uyku düzeni"},
			MicroActions: []string{"akşam nefes egzersizi"},
		}),
	}
}

func TestExportJSON(t *testing.T) {
	service := NewService(arbor.NewLogger())

	data, err := service.ExportJSON(structuredOutcome())
	require.NoError(t, err)

	var decoded models.StructuredAnalysis
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Stres Yönetimi", decoded.Meta.EducationTitle)
	assert.Contains(t, string(data), "düzenlilik")
}

func TestExportText(t *testing.T) {
	service := NewService(arbor.NewLogger())

	t.Run("Structured exports narrative only", func(t *testing.T) {
		data, err := service.ExportText(structuredOutcome())
		require.NoError(t, err)
		assert.Equal(t, "Yanıtlarınız düzenli bir uygulama çabasını gösteriyor.", string(data))
	})

	t.Run("Raw exports preserved text", func(t *testing.T) {
		outcome := &models.AnalysisOutcome{Result: models.NewRawResult("{bozuk")}
		data, err := service.ExportText(outcome)
		require.NoError(t, err)
		assert.Equal(t, "{bozuk", string(data))
	})
}

func TestExportMarkdown(t *testing.T) {
	service := NewService(arbor.NewLogger())

	t.Run("Structured report has all sections in order", func(t *testing.T) {
		data, err := service.ExportMarkdown(structuredOutcome())
		require.NoError(t, err)
		markdown := string(data)

		sections := []string{
			"# Stres Yönetimi",
			"Yanıtlarınız düzenli bir uygulama çabasını gösteriyor.",
			"## Temalar",
			"## Güçlü Yönler",
			"## Gelişim Alanları",
			"## Mikro Adımlar",
			"## Güvenlik Notları",
		}
		last := -1
		for _, section := range sections {
			index := strings.Index(markdown, section)
			require.GreaterOrEqual(t, index, 0, "missing section %s", section)
			assert.Greater(t, index, last, "section %s out of order", section)
			last = index
		}
	})

	t.Run("Empty lists are omitted", func(t *testing.T) {
		outcome := structuredOutcome()
		outcome.Result.Structured.Themes = nil
		outcome.Result.Structured.SafetyNotes = ""

		data, err := service.ExportMarkdown(outcome)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "## Temalar")
		assert.NotContains(t, string(data), "## Güvenlik Notları")
	})

	t.Run("Plain result exports narrative only", func(t *testing.T) {
		outcome := &models.AnalysisOutcome{Result: models.NewPlainResult("Serbest metin.")}

		data, err := service.ExportMarkdown(outcome)
		require.NoError(t, err)
		assert.Equal(t, "Serbest metin.\n", string(data))
	})

	t.Run("Structured without payload is an error", func(t *testing.T) {
		outcome := &models.AnalysisOutcome{Result: models.AnalysisResult{Kind: models.ResultStructured}}

		_, err := service.ExportMarkdown(outcome)
		assert.Error(t, err)
	})
}

func TestExportPDF(t *testing.T) {
	service := NewService(arbor.NewLogger())

	tests := []struct {
		name    string
		outcome *models.AnalysisOutcome
	}{
		{"Structured report", structuredOutcome()},
		{"Plain result", &models.AnalysisOutcome{Result: models.NewPlainResult("Serbest metin analizi.")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := service.ExportPDF(tt.outcome)
			require.NoError(t, err)
			require.NotEmpty(t, data)
			assert.Equal(t, "%PDF", string(data[:4]))
		})
	}
}
