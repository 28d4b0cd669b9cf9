// Package form turns a questionnaire definition into typed input fields and
// validates submitted raw values into normalized answer tuples. All values
// arrive as strings (the admin UI posts HTML forms); the per-type validators
// in the dispatch table own parsing, range checks and slot selection.
package form

import (
	"fmt"

	"github.com/lshigami/Wombats/internal/model"
)

// Input is one submitted raw value keyed by question.
type Input struct {
	QuestionID uint
	Value      string
}

// Normalized is one validated answer tuple. Exactly one of the three slots is
// set for a non-empty value; all nil means "left blank" on an optional field.
type Normalized struct {
	QuestionID  uint
	IntValue    *int
	TextValue   *string
	ChoiceValue *string
}

// ChoiceOption mirrors a question choice for rendering.
type ChoiceOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field is one typed input contract for presentation.
type Field struct {
	QuestionID uint               `json:"question_id"`
	Text       string             `json:"text"`
	HelpText   string             `json:"help_text,omitempty"`
	Type       model.QuestionType `json:"type"`
	Required   bool               `json:"required"`
	ReadOnly   bool               `json:"read_only"`
	Min        int                `json:"min,omitempty"`
	Max        int                `json:"max,omitempty"`
	Choices    []ChoiceOption     `json:"choices,omitempty"`
	Value      string             `json:"value,omitempty"`
}

// FieldError is a field-scoped validation failure.
type FieldError struct {
	QuestionID uint   `json:"question_id"`
	Message    string `json:"message"`
}

// ValidationErrors aggregates field errors; a submission with any entry is
// rejected wholesale.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	return fmt.Sprintf("submission failed validation on %d field(s)", len(v))
}

// BuildFields produces the ordered typed fields for a form, merging in the
// instance's current answers when present. Preview mode marks every field
// optional and read-only so administrators can inspect a form before
// activation without being able to submit it.
func BuildFields(f *model.Form, answers []model.Answer, preview bool) []Field {
	byQuestion := make(map[uint]model.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	fields := make([]Field, 0, len(f.Questions))
	for _, q := range f.Questions {
		field := Field{
			QuestionID: q.ID,
			Text:       q.Text,
			HelpText:   q.HelpText,
			Type:       q.Type,
			Required:   q.Required && !preview,
			ReadOnly:   preview,
		}
		if q.Type.Numeric() {
			field.Min, field.Max = bounds(&q)
		}
		if q.Type == model.QuestionSingleSelect {
			for _, c := range q.Choices {
				field.Choices = append(field.Choices, ChoiceOption{Value: c.Value, Label: c.Label})
			}
		}
		if a, ok := byQuestion[q.ID]; ok && q.Type.Answerable() {
			field.Value = displayValue(q.Type, &a)
		}
		fields = append(fields, field)
	}
	return fields
}

func displayValue(t model.QuestionType, a *model.Answer) string {
	switch {
	case a.TextValue != nil:
		return *a.TextValue
	case a.ChoiceValue != nil:
		return *a.ChoiceValue
	case a.IntValue != nil:
		if t == model.QuestionBoolean {
			if *a.IntValue == 1 {
				return "yes"
			}
			return "no"
		}
		return fmt.Sprintf("%d", *a.IntValue)
	}
	return ""
}
