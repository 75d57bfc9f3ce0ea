package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/animus/internal/common"
	"github.com/ternarybob/animus/internal/models"
)

// fakeSummarizer records labels and returns a deterministic digest.
type fakeSummarizer struct {
	labels []string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text, label string) string {
	f.labels = append(f.labels, label)
	return "özet(" + label + ")"
}

func serviceConfig() *common.Config {
	config := common.NewDefaultConfig()
	config.Gemini.APIKey = "test-key"
	return config
}

func usableDocument(text string) *models.ReferenceDocument {
	return &models.ReferenceDocument{Text: text, Format: models.FormatText}
}

func serviceInput() *models.GenerationInput {
	return &models.GenerationInput{
		Questionnaire: finalizeQuestionnaire(),
		Answers:       []models.Answer{{ID: "1", Text: "bir yanıt"}},
		Education:     usableDocument("eğitim dokümanı"),
		Technique:     usableDocument("teknik dokümanı"),
	}
}

func newTestService(config *common.Config, provider *fakeProvider, summarizer *fakeSummarizer) *Service {
	logger := arbor.NewLogger()
	return NewService(config, summarizer, NewGenerator(provider, logger), logger)
}

func TestRun_Preconditions(t *testing.T) {
	structuredResponse := `{"meta":{"education_title":"Eğitim","language":"Turkish"},"narrative":"Analiz."}`

	tests := []struct {
		name       string
		mutate     func(config *common.Config, input *models.GenerationInput)
		wantReason string
	}{
		{
			name: "No credential",
			mutate: func(config *common.Config, input *models.GenerationInput) {
				config.Gemini.APIKey = ""
			},
			wantReason: "credential",
		},
		{
			name: "No questionnaire",
			mutate: func(config *common.Config, input *models.GenerationInput) {
				input.Questionnaire = nil
			},
			wantReason: "questionnaire",
		},
		{
			name: "Only empty answers",
			mutate: func(config *common.Config, input *models.GenerationInput) {
				input.Answers = []models.Answer{{ID: "1", Text: "   "}}
			},
			wantReason: "answers",
		},
		{
			name: "Missing education document",
			mutate: func(config *common.Config, input *models.GenerationInput) {
				input.Education = nil
			},
			wantReason: "education",
		},
		{
			name: "Sentinel technique document",
			mutate: func(config *common.Config, input *models.GenerationInput) {
				input.Technique = &models.ReferenceDocument{Text: "(unavailable)", Sentinel: true}
			},
			wantReason: "technique",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := serviceConfig()
			input := serviceInput()
			tt.mutate(config, input)

			provider := &fakeProvider{response: structuredResponse}
			service := newTestService(config, provider, &fakeSummarizer{})

			_, err := service.Run(context.Background(), input)

			var preconditionErr *models.PreconditionError
			require.ErrorAs(t, err, &preconditionErr)
			assert.Contains(t, preconditionErr.Reason, tt.wantReason)
			// No external call happens on a violated precondition
			assert.Equal(t, 0, provider.calls)
		})
	}
}

func TestRun_TestModeSkipsDocumentPrecondition(t *testing.T) {
	config := serviceConfig()
	input := serviceInput()
	input.Education = nil
	input.Technique = nil
	input.Options.TestMode = true

	provider := &fakeProvider{response: `{"meta":{"education_title":"Eğitim","language":"Turkish"},"narrative":"Analiz."}`}
	summarizer := &fakeSummarizer{}
	service := newTestService(config, provider, summarizer)

	outcome, err := service.Run(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, models.ResultStructured, outcome.Result.Kind)
	assert.Equal(t, 1, provider.calls)
	// Missing documents never reach the summarizer
	assert.Empty(t, summarizer.labels)
}

func TestRun_SummarizedGrounding(t *testing.T) {
	config := serviceConfig()
	input := serviceInput()

	provider := &fakeProvider{response: `{"meta":{"education_title":"Eğitim","language":"Turkish"},"narrative":"Analiz."}`}
	summarizer := &fakeSummarizer{}
	service := newTestService(config, provider, summarizer)

	_, err := service.Run(context.Background(), input)
	require.NoError(t, err)

	require.Equal(t, []string{"Eğitim Özeti", "Teknik & Yöntemler Özeti"}, summarizer.labels)

	require.NotNil(t, provider.lastRequest)
	userPrompt := provider.lastRequest.Messages[0].Content
	assert.Contains(t, userPrompt, "özet(Eğitim Özeti)")
	assert.Contains(t, userPrompt, "özet(Teknik & Yöntemler Özeti)")
	assert.NotContains(t, userPrompt, "eğitim dokümanı")
}

func TestRun_FullTextGrounding(t *testing.T) {
	config := serviceConfig()
	input := serviceInput()
	input.Options.Grounding = models.GroundingFullText

	provider := &fakeProvider{response: `{"meta":{"education_title":"Eğitim","language":"Turkish"},"narrative":"Analiz."}`}
	summarizer := &fakeSummarizer{}
	service := newTestService(config, provider, summarizer)

	_, err := service.Run(context.Background(), input)
	require.NoError(t, err)

	assert.Empty(t, summarizer.labels)
	assert.Contains(t, provider.lastRequest.Messages[0].Content, "eğitim dokümanı")
	assert.Contains(t, provider.lastRequest.Messages[0].Content, "teknik dokümanı")
}

func TestRun_FinalizesMeta(t *testing.T) {
	config := serviceConfig()
	input := serviceInput()

	// Model reports the wrong count and language
	provider := &fakeProvider{response: `{"meta":{"education_title":"Eğitim","num_answers":42,"language":"English"},"narrative":"Analiz."}`}
	service := newTestService(config, provider, &fakeSummarizer{})

	outcome, err := service.Run(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Result.Structured.Meta.NumAnswers)
	assert.Equal(t, "Turkish", outcome.Result.Structured.Meta.Language)
	assert.Equal(t, "fake", outcome.Provider)
	assert.False(t, outcome.GeneratedAt.IsZero())
}

func TestRun_PlainFormat(t *testing.T) {
	config := serviceConfig()
	input := serviceInput()
	input.Options.Format = models.OutputPlain

	provider := &fakeProvider{response: "Serbest metin analizi."}
	service := newTestService(config, provider, &fakeSummarizer{})

	outcome, err := service.Run(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, models.ResultPlainText, outcome.Result.Kind)
	assert.Empty(t, outcome.Warnings)
	// Plain mode sends no schema section and no output schema
	assert.Nil(t, provider.lastRequest.OutputSchema)
	assert.NotContains(t, provider.lastRequest.Messages[0].Content, "# JSON ŞEMA")
}

func TestRun_ExplicitZeroTemperatureReachesProvider(t *testing.T) {
	config := serviceConfig()
	input := serviceInput()
	zero := float32(0)
	input.Options.Temperature = &zero

	provider := &fakeProvider{response: `{"meta":{"education_title":"Eğitim","language":"Turkish"},"narrative":"Analiz."}`}
	service := newTestService(config, provider, &fakeSummarizer{})

	_, err := service.Run(context.Background(), input)
	require.NoError(t, err)

	require.NotNil(t, provider.lastRequest)
	require.NotNil(t, provider.lastRequest.Temperature)
	assert.Equal(t, float32(0), *provider.lastRequest.Temperature)
}

func TestResolveOptions(t *testing.T) {
	config := serviceConfig()
	service := newTestService(config, &fakeProvider{}, &fakeSummarizer{})

	t.Run("Defaults from config", func(t *testing.T) {
		resolved := service.resolveOptions(models.AnalysisOptions{})

		assert.Equal(t, "Turkish", resolved.language)
		assert.Equal(t, float32(0.3), resolved.temperature)
		assert.Equal(t, models.OutputStructured, resolved.format)
		assert.Equal(t, models.GroundingSummarized, resolved.grounding)
		assert.True(t, resolved.includeQuestionnaire)
	})

	t.Run("Temperature is clamped", func(t *testing.T) {
		high := float32(3.5)
		low := float32(-1)

		assert.Equal(t, float32(1), service.resolveOptions(models.AnalysisOptions{Temperature: &high}).temperature)
		assert.Equal(t, float32(0), service.resolveOptions(models.AnalysisOptions{Temperature: &low}).temperature)
	})

	t.Run("Request overrides win", func(t *testing.T) {
		include := false
		resolved := service.resolveOptions(models.AnalysisOptions{
			Language:             "English",
			Format:               models.OutputPlain,
			Grounding:            models.GroundingFullText,
			IncludeQuestionnaire: &include,
		})

		assert.Equal(t, "English", resolved.language)
		assert.Equal(t, models.OutputPlain, resolved.format)
		assert.Equal(t, models.GroundingFullText, resolved.grounding)
		assert.False(t, resolved.includeQuestionnaire)
	})
}
