package analysis

import (
	"context"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/animus/internal/common"
	"github.com/ternarybob/animus/internal/interfaces"
	"github.com/ternarybob/animus/internal/models"
	"github.com/ternarybob/animus/internal/services/prompts"
)

// Service runs the full generation chain for one request: summarize the two
// reference documents, assemble the prompt, generate the analysis, finalize
// its metadata. Each run is self-contained; inputs are read at invocation
// time and nothing is shared across requests.
type Service struct {
	config     *common.Config
	summarizer interfaces.Summarizer
	generator  *Generator
	logger     arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.AnalysisService = (*Service)(nil)

// NewService creates a new analysis service
func NewService(config *common.Config, summarizer interfaces.Summarizer, generator *Generator, logger arbor.ILogger) *Service {
	return &Service{
		config:     config,
		summarizer: summarizer,
		generator:  generator,
		logger:     logger,
	}
}

// Run executes one generation request. Preconditions are checked before any
// external call is made; a violated precondition returns PreconditionError
// and no request leaves the process. The chain is sequential: education
// summary, technique summary, then the analysis call.
func (s *Service) Run(ctx context.Context, input *models.GenerationInput) (*models.AnalysisOutcome, error) {
	if err := s.checkPreconditions(input); err != nil {
		return nil, err
	}

	opts := s.resolveOptions(input.Options)

	material := s.buildMaterial(ctx, input, opts)

	promptOpts := prompts.Options{
		IncludeQuestionnaire: opts.includeQuestionnaire,
		Language:             opts.language,
	}
	if opts.format == models.OutputStructured {
		promptOpts.SchemaJSON = SchemaJSON()
	}

	prompt := prompts.Assemble(material, input.Questionnaire, input.Answers, promptOpts)

	s.logger.Info().
		Str("model", opts.model).
		Str("format", string(opts.format)).
		Str("grounding", string(opts.grounding)).
		Int("answered", input.Questionnaire.AnsweredCount(input.Answers)).
		Msg("Generating analysis")

	result, provider, model, err := s.generator.Generate(ctx, prompt, opts.format, opts.model, opts.temperature)
	if err != nil {
		return nil, err
	}

	finalized, warnings := Finalize(result, input.Questionnaire, input.Answers, opts.language)

	return &models.AnalysisOutcome{
		Result:      finalized,
		Warnings:    warnings,
		Model:       model,
		Provider:    provider,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// checkPreconditions rejects a request before any external call: missing
// credential, missing questionnaire, no non-empty answers, or missing
// grounding material outside test mode.
func (s *Service) checkPreconditions(input *models.GenerationInput) error {
	if !s.config.HasCredential() {
		return &models.PreconditionError{Reason: "no LLM credential configured"}
	}
	if input.Questionnaire == nil || len(input.Questionnaire.Questions) == 0 {
		return &models.PreconditionError{Reason: "no questionnaire loaded"}
	}
	if input.Questionnaire.AnsweredCount(input.Answers) == 0 {
		return &models.PreconditionError{Reason: "no non-empty answers provided"}
	}

	testMode := input.Options.TestMode || s.config.Analysis.TestMode
	if !testMode {
		if input.Education == nil || !input.Education.Usable() {
			return &models.PreconditionError{Reason: "education document missing or unusable"}
		}
		if input.Technique == nil || !input.Technique.Usable() {
			return &models.PreconditionError{Reason: "technique document missing or unusable"}
		}
	}

	return nil
}

type resolvedOptions struct {
	model                string
	language             string
	temperature          float32
	format               models.OutputFormat
	grounding            models.GroundingMode
	includeQuestionnaire bool
}

// resolveOptions layers request options over configured defaults.
func (s *Service) resolveOptions(opts models.AnalysisOptions) resolvedOptions {
	resolved := resolvedOptions{
		model:                opts.Model,
		language:             s.config.Analysis.Language,
		temperature:          s.config.Analysis.Temperature,
		format:               models.OutputStructured,
		grounding:            models.GroundingSummarized,
		includeQuestionnaire: s.config.Analysis.IncludeQuestionnaire,
	}

	if strings.TrimSpace(opts.Language) != "" {
		resolved.language = opts.Language
	}
	if opts.Temperature != nil {
		temperature := *opts.Temperature
		if temperature < 0 {
			temperature = 0
		}
		if temperature > 1 {
			temperature = 1
		}
		resolved.temperature = temperature
	}
	if opts.Format != "" {
		resolved.format = opts.Format
	}
	if opts.Grounding != "" {
		resolved.grounding = opts.Grounding
	}
	if opts.IncludeQuestionnaire != nil {
		resolved.includeQuestionnaire = *opts.IncludeQuestionnaire
	}

	return resolved
}

// buildMaterial produces the grounding text pair. In summarized mode each
// document goes through one summary call, education first, technique second;
// labels are fixed at the call sites so results cannot be cross-assigned.
// Sentinel documents skip the summary call and are embedded as-is so the
// capability gap stays visible downstream.
func (s *Service) buildMaterial(ctx context.Context, input *models.GenerationInput, opts resolvedOptions) prompts.Material {
	education := documentText(input.Education)
	technique := documentText(input.Technique)

	material := prompts.Material{
		Education: education,
		Technique: technique,
		Mode:      opts.grounding,
	}

	if opts.grounding != models.GroundingSummarized {
		return material
	}

	if input.Education != nil && input.Education.Usable() {
		material.Education = s.summarizer.Summarize(ctx, education, "Eğitim Özeti")
	}
	if input.Technique != nil && input.Technique.Usable() {
		material.Technique = s.summarizer.Summarize(ctx, technique, "Teknik & Yöntemler Özeti")
	}

	return material
}

func documentText(doc *models.ReferenceDocument) string {
	if doc == nil {
		return ""
	}
	return doc.Text
}
