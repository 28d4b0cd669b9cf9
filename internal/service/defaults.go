package service

import "github.com/lshigami/Wombats/internal/model"

func intPtr(v int) *int { return &v }

// defaultQuestions is the seed set applied when an administrator creates a
// form without supplying questions. The sets mirror the paper checklists the
// dispatch office used before the platform existed.
func defaultQuestions(formType model.FormType) []model.Question {
	var questions []model.Question
	switch formType {
	case model.FormTypeWeekly:
		questions = []model.Question{
			{Text: "This week", Type: model.QuestionSectionHeader},
			{Text: "Punctuality on scheduled jobs", Type: model.QuestionStarRating, Required: true, MinValue: intPtr(1), MaxValue: intPtr(5)},
			{Text: "Customer interactions", Type: model.QuestionEmojiRating, Required: true},
			{Text: "Jobs completed without damage claims", Type: model.QuestionNumber, MinValue: intPtr(0)},
			{Text: "Anything to flag for dispatch?", HelpText: "Vehicle issues, supply shortages, scheduling conflicts.", Type: model.QuestionLongText},
		}
	case model.FormTypeMonthly:
		questions = []model.Question{
			{Text: "Overall performance", Type: model.QuestionSectionHeader},
			{Text: "Quality of work this month", Type: model.QuestionStarRating, Required: true, MinValue: intPtr(1), MaxValue: intPtr(5)},
			{Text: "Teamwork on crew assignments", Type: model.QuestionNumericRating, Required: true, MinValue: intPtr(1), MaxValue: intPtr(10)},
			{Text: "Morale", Type: model.QuestionEmojiRating},
			{Text: "Completed required safety briefing", Type: model.QuestionBoolean, Required: true},
			{Text: "Summary and goals for next month", Type: model.QuestionLongText, Required: true},
		}
	case model.FormTypeQuarterly:
		questions = []model.Question{
			{Text: "Progress against quarterly goals", Type: model.QuestionNumericRating, Required: true, MinValue: intPtr(1), MaxValue: intPtr(10)},
			{Text: "Readiness for additional responsibility", Type: model.QuestionSingleSelect, Required: true, Choices: []model.Choice{
				{Value: "not_yet", Label: "Not yet"},
				{Value: "developing", Label: "Developing"},
				{Value: "ready", Label: "Ready now"},
			}},
			{Text: "Development notes", Type: model.QuestionLongText},
		}
	case model.FormTypeAnnual:
		questions = []model.Question{
			{Text: "Annual review", Type: model.QuestionSectionHeader},
			{Text: "Overall rating for the year", Type: model.QuestionStarRating, Required: true, MinValue: intPtr(1), MaxValue: intPtr(5)},
			{Text: "Key accomplishments", Type: model.QuestionLongText, Required: true},
			{Text: "Areas for growth", Type: model.QuestionLongText, Required: true},
			{Text: "Recommended for advancement", Type: model.QuestionBoolean},
		}
	}
	for i := range questions {
		questions[i].Order = i
		questions[i].IncludeInTrends = questions[i].Type.Numeric()
	}
	return questions
}
