package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lshigami/Wombats/internal/model"
)

// typeSpec is one row of the dispatch table: how a question type validates a
// raw value and which answer slot it populates. Adding a question type is a
// one-place change here.
type typeSpec struct {
	validate func(q *model.Question, raw string) (Normalized, *FieldError)
}

var typeSpecs = map[model.QuestionType]typeSpec{
	model.QuestionShortText:     {validate: validateText},
	model.QuestionLongText:      {validate: validateText},
	model.QuestionStarRating:    {validate: validateRating},
	model.QuestionEmojiRating:   {validate: validateEmoji},
	model.QuestionNumericRating: {validate: validateRating},
	model.QuestionNumber:        {validate: validateNumber},
	model.QuestionBoolean:       {validate: validateBoolean},
	model.QuestionSingleSelect:  {validate: validateChoice},
}

// ratingDefaultMin and ratingDefaultMax apply when a rating question carries
// no explicit bounds.
const (
	ratingDefaultMin = 1
	ratingDefaultMax = 5
)

// bounds resolves the effective numeric bounds of a question. Number
// questions default to min 0 with no upper bound (reported as 0).
func bounds(q *model.Question) (int, int) {
	if q.Type == model.QuestionNumber {
		min := 0
		if q.MinValue != nil {
			min = *q.MinValue
		}
		max := 0
		if q.MaxValue != nil {
			max = *q.MaxValue
		}
		return min, max
	}
	min, max := ratingDefaultMin, ratingDefaultMax
	if q.MinValue != nil {
		min = *q.MinValue
	}
	if q.MaxValue != nil {
		max = *q.MaxValue
	}
	return min, max
}

// Validate converts submitted inputs into normalized answer tuples, or
// reports every field-level failure at once. Unknown question ids are
// ignored rather than errored; missing required answers and out-of-range
// numerics reject the submission wholesale.
func Validate(f *model.Form, inputs []Input) ([]Normalized, ValidationErrors) {
	byQuestion := make(map[uint]string, len(inputs))
	for _, in := range inputs {
		byQuestion[in.QuestionID] = strings.TrimSpace(in.Value)
	}

	var normalized []Normalized
	var errs ValidationErrors
	for i := range f.Questions {
		q := &f.Questions[i]
		if !q.Type.Answerable() {
			continue
		}
		spec, ok := typeSpecs[q.Type]
		if !ok {
			errs = append(errs, FieldError{QuestionID: q.ID, Message: fmt.Sprintf("unsupported question type %q", q.Type)})
			continue
		}

		raw := byQuestion[q.ID]
		if raw == "" {
			if q.Required {
				errs = append(errs, FieldError{QuestionID: q.ID, Message: "this question is required"})
				continue
			}
			normalized = append(normalized, Normalized{QuestionID: q.ID})
			continue
		}

		n, ferr := spec.validate(q, raw)
		if ferr != nil {
			errs = append(errs, *ferr)
			continue
		}
		normalized = append(normalized, n)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return normalized, nil
}

func validateText(q *model.Question, raw string) (Normalized, *FieldError) {
	// Empty strings never reach here; blank optional answers keep all slots nil.
	v := raw
	return Normalized{QuestionID: q.ID, TextValue: &v}, nil
}

func validateRating(q *model.Question, raw string) (Normalized, *FieldError) {
	min, max := bounds(q)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return Normalized{}, &FieldError{QuestionID: q.ID, Message: fmt.Sprintf("%q is not a whole number", raw)}
	}
	if v < min || v > max {
		return Normalized{}, &FieldError{QuestionID: q.ID, Message: fmt.Sprintf("value must be between %d and %d", min, max)}
	}
	return Normalized{QuestionID: q.ID, IntValue: &v}, nil
}

func validateEmoji(q *model.Question, raw string) (Normalized, *FieldError) {
	// Emoji answers arrive either as the symbol itself or as its ordinal
	// rank; both normalize to the ordinal so aggregation never needs the
	// text slot.
	if ordinal, ok := EmojiOrdinal(raw); ok {
		return Normalized{QuestionID: q.ID, IntValue: &ordinal}, nil
	}
	return validateRating(q, raw)
}

func validateNumber(q *model.Question, raw string) (Normalized, *FieldError) {
	min, max := bounds(q)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return Normalized{}, &FieldError{QuestionID: q.ID, Message: fmt.Sprintf("%q is not a whole number", raw)}
	}
	if v < min {
		return Normalized{}, &FieldError{QuestionID: q.ID, Message: fmt.Sprintf("value must be at least %d", min)}
	}
	if q.MaxValue != nil && v > max {
		return Normalized{}, &FieldError{QuestionID: q.ID, Message: fmt.Sprintf("value must be at most %d", max)}
	}
	return Normalized{QuestionID: q.ID, IntValue: &v}, nil
}

func validateBoolean(q *model.Question, raw string) (Normalized, *FieldError) {
	switch strings.ToLower(raw) {
	case "yes", "true", "1":
		v := 1
		return Normalized{QuestionID: q.ID, IntValue: &v}, nil
	case "no", "false", "0":
		v := 0
		return Normalized{QuestionID: q.ID, IntValue: &v}, nil
	}
	return Normalized{}, &FieldError{QuestionID: q.ID, Message: "answer must be yes or no"}
}

func validateChoice(q *model.Question, raw string) (Normalized, *FieldError) {
	for _, c := range q.Choices {
		if c.Value == raw {
			v := raw
			return Normalized{QuestionID: q.ID, ChoiceValue: &v}, nil
		}
	}
	return Normalized{}, &FieldError{QuestionID: q.ID, Message: fmt.Sprintf("%q is not one of the available choices", raw)}
}
