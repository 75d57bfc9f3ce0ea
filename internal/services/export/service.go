package export

import (
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/animus/internal/interfaces"
	"github.com/ternarybob/animus/internal/models"
)

// Report section headings are fixed so exported artifacts stay diffable.
const (
	headingThemes       = "## Temalar"
	headingStrengths    = "## Güçlü Yönler"
	headingGrowthAreas  = "## Gelişim Alanları"
	headingMicroActions = "## Mikro Adımlar"
	headingSafetyNotes  = "## Güvenlik Notları"
)

// Service renders a finalized analysis into downloadable artifacts.
type Service struct {
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.ExportService = (*Service)(nil)

// NewService creates a new export service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		logger: logger,
	}
}

// ExportJSON renders the analysis.json artifact. Structured results export
// their payload directly; plain and raw results export {"text"} / {"raw"}.
func (s *Service) ExportJSON(outcome *models.AnalysisOutcome) ([]byte, error) {
	return outcome.Result.ExportJSON()
}

// ExportText renders the narrative as a plain-text file.
func (s *Service) ExportText(outcome *models.AnalysisOutcome) ([]byte, error) {
	return []byte(outcome.Result.NarrativeText()), nil
}

// ExportMarkdown renders the full report: narrative first, then the
// optional list sections under fixed headings.
func (s *Service) ExportMarkdown(outcome *models.AnalysisOutcome) ([]byte, error) {
	var builder strings.Builder

	switch outcome.Result.Kind {
	case models.ResultStructured:
		payload := outcome.Result.Structured
		if payload == nil {
			return nil, fmt.Errorf("structured result has no payload")
		}

		builder.WriteString("# ")
		builder.WriteString(payload.Meta.EducationTitle)
		builder.WriteString("\n\n")
		builder.WriteString(payload.Narrative)
		builder.WriteString("\n")

		writeListSection(&builder, headingThemes, payload.Themes)
		writeListSection(&builder, headingStrengths, payload.Strengths)
		writeListSection(&builder, headingGrowthAreas, payload.GrowthAreas)
		writeListSection(&builder, headingMicroActions, payload.MicroActions)

		if strings.TrimSpace(payload.SafetyNotes) != "" {
			builder.WriteString("\n")
			builder.WriteString(headingSafetyNotes)
			builder.WriteString("\n\n")
			builder.WriteString(payload.SafetyNotes)
			builder.WriteString("\n")
		}

	default:
		builder.WriteString(outcome.Result.NarrativeText())
		builder.WriteString("\n")
	}

	return []byte(builder.String()), nil
}

// ExportPDF renders the markdown report as a PDF document.
func (s *Service) ExportPDF(outcome *models.AnalysisOutcome) ([]byte, error) {
	markdown, err := s.ExportMarkdown(outcome)
	if err != nil {
		return nil, err
	}
	return s.renderPDF(string(markdown))
}

func writeListSection(builder *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	builder.WriteString("\n")
	builder.WriteString(heading)
	builder.WriteString("\n\n")
	for _, item := range items {
		builder.WriteString("- ")
		builder.WriteString(item)
		builder.WriteString("\n")
	}
}
