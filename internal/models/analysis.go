package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ResultKind discriminates the analysis result union. The kind is resolved
// once at generation time and never re-inferred later.
type ResultKind string

const (
	// ResultStructured is a schema-shaped analysis object.
	ResultStructured ResultKind = "structured"
	// ResultPlainText is a free-text analysis.
	ResultPlainText ResultKind = "plain"
	// ResultRawUnparsed preserves a structured-mode response that failed to
	// parse as JSON, so the operator can inspect what the model returned.
	ResultRawUnparsed ResultKind = "raw"
)

// OutputFormat selects the requested response shape.
type OutputFormat string

const (
	OutputStructured OutputFormat = "structured"
	OutputPlain      OutputFormat = "plain"
)

// GroundingMode selects how reference material is embedded in the prompt.
type GroundingMode string

const (
	// GroundingSummarized compresses each reference document through the
	// summarizer before embedding.
	GroundingSummarized GroundingMode = "summarized"
	// GroundingFullText embeds the raw document text with no length cap;
	// the caller accepts the risk of exceeding model context.
	GroundingFullText GroundingMode = "fulltext"
)

// AnalysisMeta is the metadata block of a structured analysis. NumAnswers
// and Language are always overwritten locally during finalize.
type AnalysisMeta struct {
	EducationTitle string `json:"education_title" validate:"required"`
	NumAnswers     int    `json:"num_answers" validate:"gte=0"`
	Language       string `json:"language" validate:"required"`
}

// StructuredAnalysis is the schema-constrained analysis payload.
type StructuredAnalysis struct {
	Meta         AnalysisMeta `json:"meta" validate:"required"`
	Narrative    string       `json:"narrative" validate:"required"`
	SafetyNotes  string       `json:"safety_notes,omitempty"`
	Themes       []string     `json:"themes,omitempty"`
	Strengths    []string     `json:"strengths,omitempty"`
	GrowthAreas  []string     `json:"growth_areas,omitempty"`
	MicroActions []string     `json:"micro_actions,omitempty"`
}

// AnalysisResult is the tagged union over the three result variants.
// Exactly one of Structured, Text, or Raw is populated, per Kind.
type AnalysisResult struct {
	Kind       ResultKind          `json:"kind"`
	Structured *StructuredAnalysis `json:"structured,omitempty"`
	Text       string              `json:"text,omitempty"`
	Raw        string              `json:"raw,omitempty"`
}

// NewStructuredResult wraps a parsed structured payload.
func NewStructuredResult(payload *StructuredAnalysis) AnalysisResult {
	return AnalysisResult{Kind: ResultStructured, Structured: payload}
}

// NewPlainResult wraps a free-text response.
func NewPlainResult(text string) AnalysisResult {
	return AnalysisResult{Kind: ResultPlainText, Text: text}
}

// NewRawResult wraps an unparseable structured-mode response.
func NewRawResult(raw string) AnalysisResult {
	return AnalysisResult{Kind: ResultRawUnparsed, Raw: raw}
}

// AnalysisOutcome is what one generation request produces: the result plus
// any non-fatal validation warnings collected along the way.
type AnalysisOutcome struct {
	Result      AnalysisResult `json:"result"`
	Warnings    []string       `json:"warnings,omitempty"`
	Model       string         `json:"model,omitempty"`
	Provider    string         `json:"provider,omitempty"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// GenerationInput carries everything one generation request reads at
// invocation time. Instances are self-contained; nothing is shared across
// concurrent requests.
type GenerationInput struct {
	Questionnaire *Questionnaire
	Answers       []Answer
	Education     *ReferenceDocument
	Technique     *ReferenceDocument
	Options       AnalysisOptions
}

// AnalysisOptions are the caller-supplied generation knobs.
type AnalysisOptions struct {
	Model                string        `json:"model,omitempty"`
	Language             string        `json:"language,omitempty"` // "Turkish" or "English"
	Temperature          *float32      `json:"temperature,omitempty"`
	Format               OutputFormat  `json:"format,omitempty"`
	Grounding            GroundingMode `json:"grounding,omitempty"`
	IncludeQuestionnaire *bool         `json:"include_questionnaire,omitempty"`
	TestMode             bool          `json:"test_mode,omitempty"`
}

// ValidateShape checks a structured analysis against the expected schema.
// It returns a list of human-readable violations rather than an error: the
// LLM's output shape is advisory, so callers decide severity.
func ValidateShape(payload *StructuredAnalysis) []string {
	if payload == nil {
		return []string{"structured payload is missing"}
	}

	validate := validator.New()
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	violations := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		violations = append(violations, fmt.Sprintf("field %s failed rule %q", fieldError.Namespace(), fieldError.Tag()))
	}
	return violations
}

// ExportJSON renders the result in its download shape: the structured
// payload itself, {"text": ...} for plain results, or {"raw": ...} for
// unparsed responses. Unicode is preserved (no HTML escaping).
func (r AnalysisResult) ExportJSON() ([]byte, error) {
	var value interface{}
	switch r.Kind {
	case ResultStructured:
		value = r.Structured
	case ResultPlainText:
		value = map[string]string{"text": r.Text}
	case ResultRawUnparsed:
		value = map[string]string{"raw": r.Raw}
	default:
		return nil, fmt.Errorf("unknown result kind %q", r.Kind)
	}
	return marshalIndentNoEscape(value)
}

// NarrativeText returns the human-readable core of the result.
func (r AnalysisResult) NarrativeText() string {
	switch r.Kind {
	case ResultStructured:
		if r.Structured != nil {
			return r.Structured.Narrative
		}
		return ""
	case ResultPlainText:
		return r.Text
	case ResultRawUnparsed:
		return r.Raw
	default:
		return ""
	}
}

func marshalIndentNoEscape(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
