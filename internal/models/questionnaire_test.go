package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoQuestionSet() *Questionnaire {
	return &Questionnaire{
		Meta: QuestionnaireMeta{EducationTitle: "Stres Yönetimi"},
		Questions: []Question{
			{ID: "1", Prompt: "Bu eğitimden beklentiniz nedir?"},
			{ID: "2", Prompt: "Hangi teknikleri denediniz?"},
		},
	}
}

func TestParseQuestionnaire(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		data      string
		wantErr   bool
		wantIDs   []string
		wantTitle string
	}{
		{
			name:      "String and numeric ids",
			filename:  "questionnaire.json",
			data:      `{"meta":{"education_title":"Derin Nefes"},"questions":[{"id":"1","question":"Soru bir"},{"id":2,"question":"Soru iki"}]}`,
			wantIDs:   []string{"1", "2"},
			wantTitle: "Derin Nefes",
		},
		{
			name:      "Missing ids default to position",
			filename:  "questionnaire.json",
			data:      `{"questions":[{"question":"Birinci"},{"question":"İkinci"},{"question":"Üçüncü"}]}`,
			wantIDs:   []string{"1", "2", "3"},
			wantTitle: DefaultEducationTitle,
		},
		{
			name:      "YAML upload",
			filename:  "questionnaire.yaml",
			data:      "meta:\n  education_title: Uyku Hijyeni\nquestions:\n  - id: 1\n    question: Soru bir\n  - id: 2\n    question: Soru iki\n",
			wantIDs:   []string{"1", "2"},
			wantTitle: "Uyku Hijyeni",
		},
		{
			name:     "Invalid JSON",
			filename: "questionnaire.json",
			data:     `{"questions": [`,
			wantErr:  true,
		},
		{
			name:     "No questions",
			filename: "questionnaire.json",
			data:     `{"questions":[]}`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questionnaire, err := ParseQuestionnaire(tt.filename, []byte(tt.data))
			if tt.wantErr {
				require.Error(t, err)
				var malformed *MalformedInputError
				assert.ErrorAs(t, err, &malformed)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, questionnaire.EducationTitle())

			ids := make([]string, 0, len(questionnaire.Questions))
			for _, question := range questionnaire.Questions {
				ids = append(ids, question.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestParseQuestionnaire_MissingPromptGetsPlaceholder(t *testing.T) {
	questionnaire, err := ParseQuestionnaire("q.json", []byte(`{"questions":[{"id":"1"},{"id":"2","question":"Gerçek soru"}]}`))
	require.NoError(t, err)

	assert.Equal(t, "Soru 1", questionnaire.Questions[0].Prompt)
	assert.Equal(t, "Gerçek soru", questionnaire.Questions[1].Prompt)
}

func TestParseAnswers(t *testing.T) {
	answers, err := ParseAnswers("answers.json", []byte(`[{"id":2,"answer":"uygulamayı denedim"},{"id":"1","answer":""}]`))
	require.NoError(t, err)
	require.Len(t, answers, 2)

	assert.Equal(t, "2", answers[0].ID)
	assert.Equal(t, "uygulamayı denedim", answers[0].Text)
	assert.Equal(t, "1", answers[1].ID)
	assert.Equal(t, "", answers[1].Text)
}

func TestAnsweredCount(t *testing.T) {
	questionnaire := twoQuestionSet()

	tests := []struct {
		name    string
		answers []Answer
		want    int
	}{
		{
			name:    "One answered one blank",
			answers: []Answer{{ID: "2", Text: "uygulamayı denedim"}, {ID: "1", Text: ""}},
			want:    1,
		},
		{
			name:    "Whitespace-only is unanswered",
			answers: []Answer{{ID: "1", Text: "   "}, {ID: "2", Text: "\t\n"}},
			want:    0,
		},
		{
			name:    "Unknown id is not counted",
			answers: []Answer{{ID: "99", Text: "kayıp"}, {ID: "1", Text: "geçerli"}},
			want:    1,
		},
		{
			name:    "All answered",
			answers: []Answer{{ID: "1", Text: "evet"}, {ID: "2", Text: "hayır"}},
			want:    2,
		},
		{
			name:    "No answers",
			answers: nil,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, questionnaire.AnsweredCount(tt.answers))
		})
	}
}

func TestOrderAnswers(t *testing.T) {
	questionnaire := twoQuestionSet()

	t.Run("Reordered input follows questionnaire order", func(t *testing.T) {
		ordered := questionnaire.OrderAnswers([]Answer{
			{ID: "2", Text: "ikinci yanıt"},
			{ID: "1", Text: "birinci yanıt"},
		})

		require.Len(t, ordered, 2)
		assert.Equal(t, "1", ordered[0].ID)
		assert.Equal(t, "birinci yanıt", ordered[0].Text)
		assert.Equal(t, "2", ordered[1].ID)
		assert.Equal(t, "ikinci yanıt", ordered[1].Text)
	})

	t.Run("Missing answer yields empty entry", func(t *testing.T) {
		ordered := questionnaire.OrderAnswers([]Answer{{ID: "2", Text: "tek yanıt"}})

		require.Len(t, ordered, 2)
		assert.Equal(t, "", ordered[0].Text)
		assert.Equal(t, "tek yanıt", ordered[1].Text)
	})

	t.Run("Duplicate ids keep the first", func(t *testing.T) {
		ordered := questionnaire.OrderAnswers([]Answer{
			{ID: "1", Text: "ilk"},
			{ID: "1", Text: "sonraki"},
		})

		assert.Equal(t, "ilk", ordered[0].Text)
	})
}
