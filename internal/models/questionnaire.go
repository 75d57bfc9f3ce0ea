package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultEducationTitle is used when the questionnaire carries no title.
const DefaultEducationTitle = "Eğitim"

// Question is a single questionnaire entry. Order is significant: display
// and analysis both follow questionnaire order.
type Question struct {
	ID     string `json:"id"`
	Prompt string `json:"question"`
}

// QuestionnaireMeta is the descriptive label block carried through to output.
type QuestionnaireMeta struct {
	EducationTitle string `json:"education_title"`
}

// Questionnaire is an ordered fixed question set plus its metadata.
type Questionnaire struct {
	Meta      QuestionnaireMeta `json:"meta"`
	Questions []Question        `json:"questions"`
}

// Answer is a user's response to a question. Empty text means unanswered.
type Answer struct {
	ID   string `json:"id"`
	Text string `json:"answer"`
}

// EducationTitle returns the questionnaire title, defaulted if absent.
func (q *Questionnaire) EducationTitle() string {
	if title := strings.TrimSpace(q.Meta.EducationTitle); title != "" {
		return title
	}
	return DefaultEducationTitle
}

// HasQuestion reports whether the questionnaire contains the given id.
func (q *Questionnaire) HasQuestion(id string) bool {
	for _, question := range q.Questions {
		if question.ID == id {
			return true
		}
	}
	return false
}

// AnsweredCount returns the number of answers with non-empty text whose id
// references a question in this questionnaire. This count is always computed
// locally; model-reported counts are never trusted.
func (q *Questionnaire) AnsweredCount(answers []Answer) int {
	count := 0
	for _, answer := range answers {
		if strings.TrimSpace(answer.Text) == "" {
			continue
		}
		if q.HasQuestion(answer.ID) {
			count++
		}
	}
	return count
}

// OrderAnswers returns one answer per question, in questionnaire order,
// regardless of the order answers arrived in. Questions without a matching
// answer get an empty-text entry so the prompt shape stays stable.
func (q *Questionnaire) OrderAnswers(answers []Answer) []Answer {
	byID := make(map[string]string, len(answers))
	for _, answer := range answers {
		if _, exists := byID[answer.ID]; !exists {
			byID[answer.ID] = answer.Text
		}
	}

	ordered := make([]Answer, 0, len(q.Questions))
	for _, question := range q.Questions {
		ordered = append(ordered, Answer{ID: question.ID, Text: byID[question.ID]})
	}
	return ordered
}

// rawQuestionnaire mirrors the upload format, where ids may be strings or
// numbers and may be missing entirely.
type rawQuestionnaire struct {
	Meta      *rawMeta      `json:"meta" yaml:"meta"`
	Questions []rawQuestion `json:"questions" yaml:"questions"`
}

type rawMeta struct {
	EducationTitle string `json:"education_title" yaml:"education_title"`
}

type rawQuestion struct {
	ID       interface{} `json:"id" yaml:"id"`
	Question string      `json:"question" yaml:"question"`
}

type rawAnswer struct {
	ID     interface{} `json:"id" yaml:"id"`
	Answer string      `json:"answer" yaml:"answer"`
}

// ParseQuestionnaire parses an uploaded questionnaire definition. JSON is the
// primary format; .yaml/.yml files are accepted as an equivalent. A missing
// question id defaults to the 1-based position as a string.
func ParseQuestionnaire(filename string, data []byte) (*Questionnaire, error) {
	var raw rawQuestionnaire
	if err := unmarshalByExtension(filename, data, &raw); err != nil {
		return nil, &MalformedInputError{File: filename, Cause: err}
	}
	if len(raw.Questions) == 0 {
		return nil, &MalformedInputError{File: filename, Cause: fmt.Errorf("no questions defined")}
	}

	questionnaire := &Questionnaire{
		Questions: make([]Question, 0, len(raw.Questions)),
	}
	if raw.Meta != nil {
		questionnaire.Meta.EducationTitle = raw.Meta.EducationTitle
	}

	for i, question := range raw.Questions {
		id := normalizeID(question.ID)
		if id == "" {
			id = strconv.Itoa(i + 1)
		}
		prompt := question.Question
		if strings.TrimSpace(prompt) == "" {
			prompt = fmt.Sprintf("Soru %d", i+1)
		}
		questionnaire.Questions = append(questionnaire.Questions, Question{ID: id, Prompt: prompt})
	}

	return questionnaire, nil
}

// ParseAnswers parses an uploaded answers file: a JSON (or YAML) array of
// {id, answer} objects.
func ParseAnswers(filename string, data []byte) ([]Answer, error) {
	var raw []rawAnswer
	if err := unmarshalByExtension(filename, data, &raw); err != nil {
		return nil, &MalformedInputError{File: filename, Cause: err}
	}

	answers := make([]Answer, 0, len(raw))
	for _, answer := range raw {
		answers = append(answers, Answer{ID: normalizeID(answer.ID), Text: answer.Answer})
	}
	return answers, nil
}

func unmarshalByExtension(filename string, data []byte, v interface{}) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	default:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		return decoder.Decode(v)
	}
}

// normalizeID renders a string-or-number id as a stable string.
func normalizeID(v interface{}) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(id)
	case json.Number:
		return id.String()
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	case float64:
		if id == float64(int64(id)) {
			return strconv.FormatInt(int64(id), 10)
		}
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", id))
	}
}
