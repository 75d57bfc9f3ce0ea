package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/animus/internal/models"
)

func testQuestionnaire() *models.Questionnaire {
	return &models.Questionnaire{
		Meta: models.QuestionnaireMeta{EducationTitle: "Stres Yönetimi"},
		Questions: []models.Question{
			{ID: "1", Prompt: "Beklentiniz nedir?"},
			{ID: "2", Prompt: "Neler denediniz?"},
		},
	}
}

func TestAssemble_SectionOrder(t *testing.T) {
	material := Material{
		Education: "eğitim özeti metni",
		Technique: "teknik özeti metni",
		Mode:      models.GroundingSummarized,
	}
	prompt := Assemble(material, testQuestionnaire(), []models.Answer{{ID: "1", Text: "denge"}}, Options{
		IncludeQuestionnaire: true,
		SchemaJSON:           `{"type":"object"}`,
		Language:             "Turkish",
	})

	assert.Equal(t, SystemInstruction, prompt.System)

	sections := []string{
		"# EĞİTİM ÖZETİ",
		"# TEKNİK & YÖNTEMLER ÖZETİ",
		"# SORULAR",
		"# KULLANICI YANITLARI",
		"# JSON ŞEMA",
		"# ÇIKTI DİLİ",
	}
	last := -1
	for _, section := range sections {
		index := strings.Index(prompt.User, section)
		require.GreaterOrEqual(t, index, 0, "missing section %s", section)
		assert.Greater(t, index, last, "section %s out of order", section)
		last = index
	}
}

func TestAssemble_FullTextHeaders(t *testing.T) {
	material := Material{
		Education: "tam eğitim metni",
		Technique: "tam teknik metni",
		Mode:      models.GroundingFullText,
	}
	prompt := Assemble(material, testQuestionnaire(), nil, Options{})

	assert.Contains(t, prompt.User, "# EĞİTİM İÇERİĞİ")
	assert.Contains(t, prompt.User, "# TEKNİK & YÖNTEMLER İÇERİĞİ")
	assert.NotContains(t, prompt.User, "# EĞİTİM ÖZETİ")
}

func TestAssemble_AnswersFollowQuestionnaireOrder(t *testing.T) {
	prompt := Assemble(Material{}, testQuestionnaire(), []models.Answer{
		{ID: "2", Text: "ikinci yanıt"},
		{ID: "1", Text: "birinci yanıt"},
	}, Options{})

	first := strings.Index(prompt.User, "birinci yanıt")
	second := strings.Index(prompt.User, "ikinci yanıt")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)
}

func TestAssemble_OptionalSections(t *testing.T) {
	t.Run("Questionnaire omitted when disabled", func(t *testing.T) {
		prompt := Assemble(Material{}, testQuestionnaire(), nil, Options{IncludeQuestionnaire: false})
		assert.NotContains(t, prompt.User, "# SORULAR")
		assert.NotContains(t, prompt.User, "Beklentiniz nedir?")
		assert.Contains(t, prompt.User, "# KULLANICI YANITLARI")
	})

	t.Run("Schema omitted when empty", func(t *testing.T) {
		prompt := Assemble(Material{}, testQuestionnaire(), nil, Options{})
		assert.NotContains(t, prompt.User, "# JSON ŞEMA")
	})

	t.Run("Language omitted when empty", func(t *testing.T) {
		prompt := Assemble(Material{}, testQuestionnaire(), nil, Options{})
		assert.NotContains(t, prompt.User, "# ÇIKTI DİLİ")
	})
}

func TestAssemble_SentinelEmbeddedVerbatim(t *testing.T) {
	sentinel := "(pdf extraction unavailable – pdf support is disabled)"
	prompt := Assemble(Material{Education: sentinel, Technique: ""}, testQuestionnaire(), nil, Options{})

	assert.Contains(t, prompt.User, sentinel)
}

func TestAssemble_TurkishTextNotEscaped(t *testing.T) {
	prompt := Assemble(Material{}, testQuestionnaire(), []models.Answer{
		{ID: "1", Text: "çalışmayı & sürdürmeyi öğrendim"},
	}, Options{IncludeQuestionnaire: true})

	assert.Contains(t, prompt.User, "çalışmayı & sürdürmeyi öğrendim")
	assert.NotContains(t, prompt.User, `&`)
}
