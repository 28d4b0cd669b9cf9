package form

import (
	"testing"

	"github.com/lshigami/Wombats/internal/model"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func ratingForm() *model.Form {
	return &model.Form{
		ID: 1,
		Questions: []model.Question{
			{ID: 10, Type: model.QuestionSectionHeader, Text: "This week"},
			{ID: 11, Type: model.QuestionStarRating, Text: "Punctuality", Required: true},
			{ID: 12, Type: model.QuestionEmojiRating, Text: "Customer mood", Required: true},
			{ID: 13, Type: model.QuestionNumber, Text: "Damage-free jobs"},
			{ID: 14, Type: model.QuestionLongText, Text: "Notes"},
		},
	}
}

func TestValidateRequiredMissing(t *testing.T) {
	f := ratingForm()
	normalized, errs := Validate(f, []Input{{QuestionID: 11, Value: "4"}})
	require.Nil(t, normalized)
	require.Len(t, errs, 1)
	require.Equal(t, uint(12), errs[0].QuestionID)
}

func TestValidateAllOrNothing(t *testing.T) {
	// One valid answer alongside one out-of-range answer rejects the whole
	// submission; nothing is normalized.
	f := ratingForm()
	normalized, errs := Validate(f, []Input{
		{QuestionID: 11, Value: "9"},
		{QuestionID: 12, Value: "😐"},
	})
	require.Nil(t, normalized)
	require.Len(t, errs, 1)
	require.Equal(t, uint(11), errs[0].QuestionID)
}

func TestValidateRatingBounds(t *testing.T) {
	q := model.Question{ID: 1, Type: model.QuestionStarRating, Required: true}
	f := &model.Form{Questions: []model.Question{q}}

	_, errs := Validate(f, []Input{{QuestionID: 1, Value: "0"}})
	require.Len(t, errs, 1)
	_, errs = Validate(f, []Input{{QuestionID: 1, Value: "6"}})
	require.Len(t, errs, 1)

	normalized, errs := Validate(f, []Input{{QuestionID: 1, Value: "5"}})
	require.Nil(t, errs)
	require.Equal(t, 5, *normalized[0].IntValue)

	// Explicit bounds override the 1..5 default.
	f.Questions[0].MinValue = intPtr(1)
	f.Questions[0].MaxValue = intPtr(10)
	normalized, errs = Validate(f, []Input{{QuestionID: 1, Value: "8"}})
	require.Nil(t, errs)
	require.Equal(t, 8, *normalized[0].IntValue)
}

func TestValidateEmojiSymbolAndOrdinalEquivalent(t *testing.T) {
	f := &model.Form{Questions: []model.Question{
		{ID: 1, Type: model.QuestionEmojiRating, Required: true},
	}}

	bySymbol, errs := Validate(f, []Input{{QuestionID: 1, Value: "🙂"}})
	require.Nil(t, errs)
	byOrdinal, errs := Validate(f, []Input{{QuestionID: 1, Value: "4"}})
	require.Nil(t, errs)
	require.Equal(t, *bySymbol[0].IntValue, *byOrdinal[0].IntValue)
	require.Equal(t, 4, *bySymbol[0].IntValue)

	_, errs = Validate(f, []Input{{QuestionID: 1, Value: "🚚"}})
	require.Len(t, errs, 1)
}

func TestValidateNumber(t *testing.T) {
	f := &model.Form{Questions: []model.Question{
		{ID: 1, Type: model.QuestionNumber, Required: true},
	}}

	// Numbers default to min 0 with no upper bound.
	_, errs := Validate(f, []Input{{QuestionID: 1, Value: "-1"}})
	require.Len(t, errs, 1)
	normalized, errs := Validate(f, []Input{{QuestionID: 1, Value: "70000"}})
	require.Nil(t, errs)
	require.Equal(t, 70000, *normalized[0].IntValue)

	f.Questions[0].MaxValue = intPtr(20)
	_, errs = Validate(f, []Input{{QuestionID: 1, Value: "21"}})
	require.Len(t, errs, 1)

	_, errs = Validate(f, []Input{{QuestionID: 1, Value: "three"}})
	require.Len(t, errs, 1)
}

func TestValidateBoolean(t *testing.T) {
	f := &model.Form{Questions: []model.Question{
		{ID: 1, Type: model.QuestionBoolean, Required: true},
	}}
	for _, raw := range []string{"yes", "TRUE", "1"} {
		normalized, errs := Validate(f, []Input{{QuestionID: 1, Value: raw}})
		require.Nil(t, errs, raw)
		require.Equal(t, 1, *normalized[0].IntValue, raw)
	}
	for _, raw := range []string{"no", "False", "0"} {
		normalized, errs := Validate(f, []Input{{QuestionID: 1, Value: raw}})
		require.Nil(t, errs, raw)
		require.Equal(t, 0, *normalized[0].IntValue, raw)
	}
	_, errs := Validate(f, []Input{{QuestionID: 1, Value: "maybe"}})
	require.Len(t, errs, 1)
}

func TestValidateSingleSelect(t *testing.T) {
	f := &model.Form{Questions: []model.Question{
		{ID: 1, Type: model.QuestionSingleSelect, Required: true, Choices: []model.Choice{
			{Value: "ready", Label: "Ready now"},
			{Value: "not_yet", Label: "Not yet"},
		}},
	}}
	normalized, errs := Validate(f, []Input{{QuestionID: 1, Value: "ready"}})
	require.Nil(t, errs)
	require.Equal(t, "ready", *normalized[0].ChoiceValue)

	_, errs = Validate(f, []Input{{QuestionID: 1, Value: "someday"}})
	require.Len(t, errs, 1)
}

func TestValidateIgnoresUnknownAndSectionHeaders(t *testing.T) {
	f := ratingForm()
	normalized, errs := Validate(f, []Input{
		{QuestionID: 11, Value: "4"},
		{QuestionID: 12, Value: "😍"},
		{QuestionID: 10, Value: "ignored"},  // section header
		{QuestionID: 999, Value: "ignored"}, // not on this form
	})
	require.Nil(t, errs)
	for _, n := range normalized {
		require.NotEqual(t, uint(10), n.QuestionID)
		require.NotEqual(t, uint(999), n.QuestionID)
	}
}

func TestValidateOptionalBlankKeepsSlotsNil(t *testing.T) {
	f := ratingForm()
	normalized, errs := Validate(f, []Input{
		{QuestionID: 11, Value: "3"},
		{QuestionID: 12, Value: "2"},
		{QuestionID: 14, Value: "   "},
	})
	require.Nil(t, errs)
	var notes *Normalized
	for i := range normalized {
		if normalized[i].QuestionID == 14 {
			notes = &normalized[i]
		}
	}
	require.NotNil(t, notes)
	require.Nil(t, notes.IntValue)
	require.Nil(t, notes.TextValue)
	require.Nil(t, notes.ChoiceValue)
}

func TestBuildFieldsMergesAnswers(t *testing.T) {
	f := ratingForm()
	four := 4
	ok := 1
	text := "Truck 7 needs new straps"
	answers := []model.Answer{
		{QuestionID: 11, IntValue: &four},
		{QuestionID: 13, IntValue: &ok},
		{QuestionID: 14, TextValue: &text},
	}
	fields := BuildFields(f, answers, false)
	require.Len(t, fields, 5)

	byID := make(map[uint]Field)
	for _, fl := range fields {
		byID[fl.QuestionID] = fl
	}
	require.Equal(t, "4", byID[11].Value)
	require.Equal(t, "1", byID[13].Value)
	require.Equal(t, text, byID[14].Value)
	require.Equal(t, 1, byID[11].Min)
	require.Equal(t, 5, byID[11].Max)
	require.True(t, byID[11].Required)
	require.False(t, byID[11].ReadOnly)
}

func TestBuildFieldsPreview(t *testing.T) {
	f := ratingForm()
	fields := BuildFields(f, nil, true)
	for _, fl := range fields {
		require.False(t, fl.Required)
		require.True(t, fl.ReadOnly)
		require.Empty(t, fl.Value)
	}
}

func TestBuildFieldsBooleanDisplay(t *testing.T) {
	yes, no := 1, 0
	f := &model.Form{Questions: []model.Question{
		{ID: 1, Type: model.QuestionBoolean},
		{ID: 2, Type: model.QuestionBoolean},
	}}
	fields := BuildFields(f, []model.Answer{
		{QuestionID: 1, IntValue: &yes},
		{QuestionID: 2, IntValue: &no},
	}, false)
	require.Equal(t, "yes", fields[0].Value)
	require.Equal(t, "no", fields[1].Value)
}

func TestBuildFieldsChoices(t *testing.T) {
	f := &model.Form{Questions: []model.Question{
		{ID: 1, Type: model.QuestionSingleSelect, Choices: []model.Choice{
			{Value: "a", Label: "Alpha"},
			{Value: "b", Label: "Bravo"},
		}},
	}}
	fields := BuildFields(f, nil, false)
	require.Equal(t, []ChoiceOption{{Value: "a", Label: "Alpha"}, {Value: "b", Label: "Bravo"}}, fields[0].Choices)
}

func TestEmojiScaleRoundTrip(t *testing.T) {
	for ordinal := 1; ordinal <= 5; ordinal++ {
		symbol := EmojiSymbol(ordinal)
		require.NotEmpty(t, symbol)
		back, ok := EmojiOrdinal(symbol)
		require.True(t, ok)
		require.Equal(t, ordinal, back)
	}
	require.Empty(t, EmojiSymbol(0))
	require.Empty(t, EmojiSymbol(6))
}
