package analysis

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/animus/internal/interfaces"
	"github.com/ternarybob/animus/internal/models"
	"github.com/ternarybob/animus/internal/services/prompts"
)

// Generator issues one assembled prompt to the LLM and resolves the result
// variant exactly once.
type Generator struct {
	provider interfaces.ContentGenerator
	logger   arbor.ILogger
}

// NewGenerator creates a new analysis generator
func NewGenerator(provider interfaces.ContentGenerator, logger arbor.ILogger) *Generator {
	return &Generator{
		provider: provider,
		logger:   logger,
	}
}

// Generate issues the prompt as a single request. A call failure propagates
// as a GenerationError carrying the underlying cause; there is no internal
// retry. In structured mode a response that fails to parse as JSON is not
// discarded: it is wrapped as a raw result so the operator can inspect what
// the model actually returned.
func (g *Generator) Generate(ctx context.Context, prompt prompts.Prompt, format models.OutputFormat, model string, temperature float32) (models.AnalysisResult, string, string, error) {
	request := &interfaces.ContentRequest{
		Messages: []interfaces.Message{
			{Role: "user", Content: prompt.User},
		},
		Model:             model,
		Temperature:       &temperature,
		SystemInstruction: prompt.System,
	}

	if format == models.OutputStructured {
		request.OutputSchema = OutputSchema()
	}

	response, err := g.provider.GenerateContent(ctx, request)
	if err != nil {
		return models.AnalysisResult{}, "", "", &models.GenerationError{Cause: err}
	}

	if format != models.OutputStructured {
		return models.NewPlainResult(response.Text), response.Provider, response.Model, nil
	}

	payload, parseErr := parseStructured(response.Text)
	if parseErr != nil {
		g.logger.Warn().Err(parseErr).Msg("Structured response did not parse as JSON, keeping raw text")
		return models.NewRawResult(response.Text), response.Provider, response.Model, nil
	}

	return models.NewStructuredResult(payload), response.Provider, response.Model, nil
}

// parseStructured decodes the model's response text into the structured
// payload. Code-fence wrappers are tolerated since some models add them
// even in JSON mode.
func parseStructured(text string) (*models.StructuredAnalysis, error) {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var payload models.StructuredAnalysis
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
