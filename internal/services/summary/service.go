package summary

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/animus/internal/interfaces"
)

// MaxInputRunes bounds the text sent to the summarization call. The pipeline
// never sends unbounded text to this step.
const MaxInputRunes = 12000

const summarySystemInstruction = "Kısa ve bilgi kaybı olmadan özetleyen bir yardımcı yazarsın."

// Service compresses long reference text into a small bullet digest through
// a single LLM call. It is best-effort: a failed call degrades to a
// placeholder string that downstream steps treat as valid (if low-quality)
// reference text, never as an error condition.
type Service struct {
	generator   interfaces.ContentGenerator
	logger      arbor.ILogger
	model       string
	temperature float32
}

// Compile-time interface assertion
var _ interfaces.Summarizer = (*Service)(nil)

// NewService creates a new summarization service
func NewService(generator interfaces.ContentGenerator, model string, temperature float32, logger arbor.ILogger) *Service {
	if temperature <= 0 {
		temperature = 0.2
	}
	return &Service{
		generator:   generator,
		logger:      logger,
		model:       model,
		temperature: temperature,
	}
}

// Summarize requests a 10-12 bullet digest of the text under the given
// label. The input is truncated to a bounded prefix before sending. Any
// failure returns a human-readable placeholder embedding the error.
func (s *Service) Summarize(ctx context.Context, text, label string) string {
	truncated := truncateRunes(text, MaxInputRunes)

	prompt := fmt.Sprintf("Metni 10-12 maddeyle kısa, öz ve bilgi kaybı olmadan özetle. Başlık: %s.\n\nMetin:\n%s", label, truncated)

	response, err := s.generator.GenerateContent(ctx, &interfaces.ContentRequest{
		Messages: []interfaces.Message{
			{Role: "user", Content: prompt},
		},
		Model:             s.model,
		Temperature:       &s.temperature,
		SystemInstruction: summarySystemInstruction,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("label", label).Msg("Summarization failed, using placeholder")
		return fmt.Sprintf("(özetlenemedi: %v)", err)
	}

	s.logger.Debug().
		Str("label", label).
		Int("input_len", len(truncated)).
		Int("summary_len", len(response.Text)).
		Msg("Reference text summarized")

	return response.Text
}

// truncateRunes bounds a string to at most limit runes without splitting a
// multi-byte character.
func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
