package service

import (
	"testing"

	"github.com/lshigami/Wombats/internal/dto"
	"github.com/lshigami/Wombats/internal/model"
	"github.com/stretchr/testify/require"
)

// schemaFixture seeds one form with three questions mirrored into both repos,
// the way the storage layer keeps them.
func schemaFixture(active bool) (*mockFormRepo, *mockQuestionRepo, SchemaService, uint) {
	formRepo := newMockFormRepo()
	questionRepo := newMockQuestionRepo()

	f := model.Form{
		Type:     model.FormTypeWeekly,
		Name:     "Weekly Crew Check-in",
		IsActive: active,
		Questions: []model.Question{
			{Text: "Punctuality", Type: model.QuestionStarRating, Required: true, Order: 0},
			{Text: "Customer mood", Type: model.QuestionEmojiRating, Order: 1},
			{Text: "Notes", Type: model.QuestionLongText, Order: 2},
		},
	}
	formRepo.Create(&f)
	questionRepo.seed(f.Questions...)

	return formRepo, questionRepo, NewSchemaService(formRepo, questionRepo), f.ID
}

func TestCreateFormSeedsDefaults(t *testing.T) {
	formRepo := newMockFormRepo()
	svc := NewSchemaService(formRepo, newMockQuestionRepo())

	resp, err := svc.CreateForm(dto.FormCreateDTO{Type: "weekly", Name: "Weekly Crew Check-in"})
	require.NoError(t, err)
	require.Equal(t, "weekly", resp.Type)
	require.NotEmpty(t, resp.Questions)

	for i, q := range resp.Questions {
		require.Equal(t, i, q.Order)
	}
	require.Equal(t, string(model.QuestionSectionHeader), resp.Questions[0].Type)
	require.False(t, resp.Questions[0].Required)
	require.False(t, resp.Questions[0].IncludeInTrends)
}

func TestCreateFormExplicitQuestions(t *testing.T) {
	svc := NewSchemaService(newMockFormRepo(), newMockQuestionRepo())

	resp, err := svc.CreateForm(dto.FormCreateDTO{
		Type: "quarterly",
		Name: "Quarterly Review",
		Questions: []dto.QuestionCreateDTO{
			{Text: "Goals progress", Type: "numeric_rating", Required: true, MinValue: intPtr(1), MaxValue: intPtr(10)},
			{Text: "Readiness", Type: "single_select", Choices: []dto.ChoiceDTO{{Value: "ready", Label: "Ready"}}},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Questions, 2)
	require.Equal(t, 0, resp.Questions[0].Order)
	require.Equal(t, 1, resp.Questions[1].Order)
	require.Equal(t, 10, *resp.Questions[0].MaxValue)
	require.Len(t, resp.Questions[1].Choices, 1)
}

func TestCreateFormRejectsBadInput(t *testing.T) {
	svc := NewSchemaService(newMockFormRepo(), newMockQuestionRepo())

	_, err := svc.CreateForm(dto.FormCreateDTO{Type: "fortnightly", Name: "Nope"})
	require.Error(t, err)

	_, err = svc.CreateForm(dto.FormCreateDTO{
		Type: "weekly", Name: "Nope",
		Questions: []dto.QuestionCreateDTO{{Text: "Pick one", Type: "single_select"}},
	})
	require.Error(t, err)
}

func TestAddQuestionAppendsAtEnd(t *testing.T) {
	_, _, svc, formID := schemaFixture(false)

	resp, err := svc.AddQuestion(formID, dto.QuestionCreateDTO{Text: "Safety briefing done", Type: "boolean"})
	require.NoError(t, err)
	require.Equal(t, 3, resp.Order)
	require.Equal(t, formID, resp.FormID)
}

func TestAddQuestionFormNotFound(t *testing.T) {
	_, _, svc, _ := schemaFixture(false)
	_, err := svc.AddQuestion(404, dto.QuestionCreateDTO{Text: "X", Type: "boolean"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateQuestionClearsBoundsOffNumericTypes(t *testing.T) {
	_, questionRepo, svc, _ := schemaFixture(false)

	// Question 1 starts as a star rating; switching it to long text drops the
	// numeric bounds entirely.
	resp, err := svc.UpdateQuestion(1, dto.QuestionUpdateDTO{
		Text: "Punctuality notes", Type: "long_text",
		MinValue: intPtr(1), MaxValue: intPtr(5),
	})
	require.NoError(t, err)
	require.Nil(t, resp.MinValue)
	require.Nil(t, resp.MaxValue)

	stored, err := questionRepo.FindByID(1)
	require.NoError(t, err)
	require.Equal(t, model.QuestionLongText, stored.Type)
	require.Nil(t, stored.MinValue)
}

func TestUpdateQuestionReplacesChoices(t *testing.T) {
	_, _, svc, _ := schemaFixture(false)

	resp, err := svc.UpdateQuestion(2, dto.QuestionUpdateDTO{
		Text: "Crew readiness", Type: "single_select",
		Choices: []dto.ChoiceDTO{
			{Value: "short", Label: "Short-handed"},
			{Value: "full", Label: "Fully staffed"},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Choices, 2)

	// Switching away from single_select discards the choice set.
	resp, err = svc.UpdateQuestion(2, dto.QuestionUpdateDTO{
		Text: "Crew readiness", Type: "short_text",
		Choices: []dto.ChoiceDTO{{Value: "stale", Label: "Stale"}},
	})
	require.NoError(t, err)
	require.Empty(t, resp.Choices)
}

func TestDeleteQuestionKeepsSequenceDense(t *testing.T) {
	_, questionRepo, svc, formID := schemaFixture(false)

	require.NoError(t, svc.DeleteQuestion(2))

	remaining, err := questionRepo.FindByFormID(formID)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	require.Equal(t, 0, remaining[0].Order)
	require.Equal(t, 1, remaining[1].Order)
	require.Equal(t, "Punctuality", remaining[0].Text)
	require.Equal(t, "Notes", remaining[1].Text)
}

func TestDeleteQuestionRefusesLastOnActiveForm(t *testing.T) {
	_, _, svc, _ := schemaFixture(true)

	require.NoError(t, svc.DeleteQuestion(3))
	require.NoError(t, svc.DeleteQuestion(2))
	require.ErrorIs(t, svc.DeleteQuestion(1), ErrLastQuestion)
}

func TestReorderQuestion(t *testing.T) {
	_, questionRepo, svc, formID := schemaFixture(false)

	// Move the last question to the front.
	require.NoError(t, svc.ReorderQuestion(3, 0))
	ordered, err := questionRepo.FindByFormID(formID)
	require.NoError(t, err)
	require.Equal(t, []string{"Notes", "Punctuality", "Customer mood"}, questionTexts(ordered))

	// Out-of-range positions clamp to the ends.
	require.NoError(t, svc.ReorderQuestion(3, 99))
	ordered, _ = questionRepo.FindByFormID(formID)
	require.Equal(t, []string{"Punctuality", "Customer mood", "Notes"}, questionTexts(ordered))

	require.NoError(t, svc.ReorderQuestion(2, -5))
	ordered, _ = questionRepo.FindByFormID(formID)
	require.Equal(t, []string{"Customer mood", "Punctuality", "Notes"}, questionTexts(ordered))

	for i, q := range ordered {
		require.Equal(t, i, q.Order)
	}
}

func questionTexts(qs []model.Question) []string {
	out := make([]string, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.Text)
	}
	return out
}

func TestDeleteFormGuards(t *testing.T) {
	_, _, svc, formID := schemaFixture(true)
	require.ErrorIs(t, svc.DeleteForm(formID), ErrFormActive)

	formRepo2, _, svc2, formID2 := schemaFixture(false)
	formRepo2.instanceCounts[formID2] = 4
	require.ErrorIs(t, svc2.DeleteForm(formID2), ErrHasInstances)

	_, _, svc3, formID3 := schemaFixture(false)
	require.NoError(t, svc3.DeleteForm(formID3))
	_, err := svc3.GetForm(formID3)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPreviewForm(t *testing.T) {
	_, _, svc, formID := schemaFixture(false)

	fields, err := svc.PreviewForm(formID)
	require.NoError(t, err)
	require.Len(t, fields, 3)
	for _, f := range fields {
		require.True(t, f.ReadOnly)
		require.False(t, f.Required)
	}
}
