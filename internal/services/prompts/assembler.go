package prompts

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/ternarybob/animus/internal/models"
)

// SystemInstruction is the fixed policy for the analysis call. It binds the
// model to the supplied reference material and to a single-narrative output.
const SystemInstruction = `Sen, kişisel gelişim eğitimleri için geliştirilmiş bir "Kullanıcı Yanıtları Analiz Uzmanı"sın.

Görevin:
- Kullanıcının sorulara verdiği yanıtları dikkatle inceleyip, Eğitim içeriği ve Teknik & Yöntemler içeriğinde verilen bilgiler doğrultusunda bütünlüklü, kişiselleştirilmiş ve anlamlı bir gelişim analizi sunmak.
- Analiz yaparken yalnızca sağlanan Eğitim ve Teknik & Yöntemler içeriğine sadık kal. Bu içeriklerin dışında kavram veya varsayım ekleme, bağlam dışı yorum yapma.
- Çıktı TEK BİR uzun, akıcı metin olacak; başlık veya madde listesi olmayacak.
- Anlatım akıcı, empatik, yargısız ve profesyonel olmalı.
- Kullanıcının yanıtlarındaki duygusal ton, ihtiyaçlar, farkındalıklar ve olası zorluklar analiz içinde doğal biçimde yer almalı.
- Sorulan bir konu sağlanan içerikte yer almıyorsa, cevap uydurmak yerine konunun içerikte ele alınmadığını açıkça belirt.
- Gerekiyorsa güvenlik / kriz uyarılarını yalnızca içerik gerektirdiğinde metnin sonunda ekle.
- Nihai hedef, kullanıcının eğitimden aldığı değeri günlük yaşamına entegre edebilmesini kolaylaştırmaktır.`

// Material is the grounding text pair fed into the prompt, either raw
// document text or summarizer output depending on the grounding mode.
type Material struct {
	Education string
	Technique string
	Mode      models.GroundingMode
}

// Options control optional prompt sections.
type Options struct {
	// IncludeQuestionnaire embeds the question list alongside the answers.
	// One upstream variant omitted it; this keeps the behavior an explicit
	// configuration choice instead of a silent default.
	IncludeQuestionnaire bool
	// SchemaJSON, when non-empty, is appended so the model sees the expected
	// response shape in structured mode.
	SchemaJSON string
	// Language names the output language ("Turkish" or "English").
	Language string
}

// Prompt is the assembled system/user instruction pair.
type Prompt struct {
	System string
	User   string
}

// Assemble merges the reference material, the questionnaire, and the user's
// answers into the instruction pair. Section order is fixed: education text,
// technique text, questions, answers, schema. Answers are serialized in
// questionnaire order regardless of arrival order. Sentinel reference
// documents are embedded as-is so the gap stays reviewable downstream.
func Assemble(material Material, questionnaire *models.Questionnaire, answers []models.Answer, opts Options) Prompt {
	ordered := questionnaire.OrderAnswers(answers)

	educationHeader := "# EĞİTİM ÖZETİ"
	techniqueHeader := "# TEKNİK & YÖNTEMLER ÖZETİ"
	if material.Mode == models.GroundingFullText {
		educationHeader = "# EĞİTİM İÇERİĞİ"
		techniqueHeader = "# TEKNİK & YÖNTEMLER İÇERİĞİ"
	}

	var builder strings.Builder
	builder.WriteString(educationHeader)
	builder.WriteString("\n")
	builder.WriteString(material.Education)
	builder.WriteString("\n\n")
	builder.WriteString(techniqueHeader)
	builder.WriteString("\n")
	builder.WriteString(material.Technique)

	if opts.IncludeQuestionnaire {
		builder.WriteString("\n\n# SORULAR\n")
		builder.WriteString(serializeQuestions(questionnaire.Questions))
	}

	builder.WriteString("\n\n# KULLANICI YANITLARI\n")
	builder.WriteString(serializeAnswers(ordered))

	if opts.SchemaJSON != "" {
		builder.WriteString("\n\n# JSON ŞEMA\n")
		builder.WriteString(opts.SchemaJSON)
	}

	if opts.Language != "" {
		builder.WriteString("\n\n# ÇIKTI DİLİ\n")
		builder.WriteString(opts.Language)
	}

	return Prompt{
		System: SystemInstruction,
		User:   builder.String(),
	}
}

type promptQuestion struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

type promptAnswer struct {
	ID     string `json:"id"`
	Answer string `json:"answer"`
}

func serializeQuestions(questions []models.Question) string {
	items := make([]promptQuestion, 0, len(questions))
	for _, question := range questions {
		items = append(items, promptQuestion{ID: question.ID, Question: question.Prompt})
	}
	return marshalNoEscape(items)
}

func serializeAnswers(answers []models.Answer) string {
	items := make([]promptAnswer, 0, len(answers))
	for _, answer := range answers {
		items = append(items, promptAnswer{ID: answer.ID, Answer: answer.Text})
	}
	return marshalNoEscape(items)
}

// marshalNoEscape marshals without HTML escaping so Turkish text survives
// round-trips unmangled.
func marshalNoEscape(v interface{}) string {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return "[]"
	}
	return strings.TrimRight(buf.String(), "\n")
}
