package period

import (
	"time"

	"github.com/lshigami/Wombats/internal/model"
)

// Period is one evaluation window. Start and End are inclusive dates
// truncated to midnight so a whole batch run computed from one "today"
// reference lands on identical bounds.
type Period struct {
	Start time.Time
	End   time.Time
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// For computes the period containing today for the given form cadence.
// Weekly periods run Monday through Sunday; monthly, quarterly and annual
// periods follow calendar bounds.
func For(formType model.FormType, today time.Time) Period {
	day := midnight(today)
	switch formType {
	case model.FormTypeWeekly:
		offset := int(day.Weekday()-time.Monday+7) % 7
		start := day.AddDate(0, 0, -offset)
		return Period{Start: start, End: start.AddDate(0, 0, 6)}
	case model.FormTypeMonthly:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return Period{Start: start, End: start.AddDate(0, 1, -1)}
	case model.FormTypeQuarterly:
		quarterStartMonth := time.Month(((int(day.Month())-1)/3)*3 + 1)
		start := time.Date(day.Year(), quarterStartMonth, 1, 0, 0, 0, 0, day.Location())
		return Period{Start: start, End: start.AddDate(0, 3, -1)}
	case model.FormTypeAnnual:
		start := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, day.Location())
		return Period{Start: start, End: time.Date(day.Year(), time.December, 31, 0, 0, 0, 0, day.Location())}
	}
	return Period{Start: day, End: day}
}

// GenerationDue reports whether the daily trigger should stamp out instances
// for the given cadence today. Weekly forms fire on Mondays; monthly forms on
// the 1st with a catch-up run on the 15th; quarterly and annual forms on
// their calendar boundaries. Generation is idempotent, so an extra firing is
// harmless.
func GenerationDue(formType model.FormType, today time.Time) bool {
	day := midnight(today)
	switch formType {
	case model.FormTypeWeekly:
		return day.Weekday() == time.Monday
	case model.FormTypeMonthly:
		return day.Day() == 1 || day.Day() == 15
	case model.FormTypeQuarterly:
		return day.Day() == 1 && (int(day.Month())-1)%3 == 0
	case model.FormTypeAnnual:
		return day.Month() == time.January && day.Day() == 1
	}
	return false
}
