package interfaces

import (
	"context"

	"github.com/ternarybob/animus/internal/models"
)

// AnalysisService runs the full generation chain for one request:
// summarize reference material, assemble the prompt, generate the
// analysis, and finalize its metadata.
type AnalysisService interface {
	Run(ctx context.Context, input *models.GenerationInput) (*models.AnalysisOutcome, error)
}

// ExportService renders a finalized analysis into downloadable artifacts.
type ExportService interface {
	ExportJSON(outcome *models.AnalysisOutcome) ([]byte, error)
	ExportText(outcome *models.AnalysisOutcome) ([]byte, error)
	ExportMarkdown(outcome *models.AnalysisOutcome) ([]byte, error)
	ExportPDF(outcome *models.AnalysisOutcome) ([]byte, error)
}
