package analysis

import (
	"strings"

	"github.com/ternarybob/animus/internal/models"
)

// Finalize fills in the deterministic metadata of a structured result and
// returns any shape violations as warnings. The answered count and language
// are always computed locally and overwrite whatever the model reported.
// Finalize is idempotent: running it twice yields the same meta block.
// Plain and raw results pass through unchanged (raw results carry a single
// warning so the caller surfaces the parse gap).
func Finalize(result models.AnalysisResult, questionnaire *models.Questionnaire, answers []models.Answer, language string) (models.AnalysisResult, []string) {
	switch result.Kind {
	case models.ResultStructured:
		payload := result.Structured
		if payload == nil {
			payload = &models.StructuredAnalysis{}
			result.Structured = payload
		}

		if strings.TrimSpace(payload.Meta.EducationTitle) == "" {
			payload.Meta.EducationTitle = questionnaire.EducationTitle()
		}
		payload.Meta.NumAnswers = questionnaire.AnsweredCount(answers)
		payload.Meta.Language = language

		return result, models.ValidateShape(payload)

	case models.ResultRawUnparsed:
		return result, []string{"structured response did not match the expected JSON shape; raw text preserved"}

	default:
		return result, nil
	}
}
