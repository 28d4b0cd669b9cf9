package period

import (
	"testing"
	"time"

	"github.com/lshigami/Wombats/internal/model"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestForWeekly(t *testing.T) {
	// Wednesday 2026-03-04 falls in the Monday 2026-03-02 .. Sunday 2026-03-08 week.
	p := For(model.FormTypeWeekly, date(2026, time.March, 4))
	require.Equal(t, date(2026, time.March, 2), p.Start)
	require.Equal(t, date(2026, time.March, 8), p.End)

	// A Monday is its own period start; a Sunday belongs to the week that began
	// six days earlier.
	p = For(model.FormTypeWeekly, date(2026, time.March, 2))
	require.Equal(t, date(2026, time.March, 2), p.Start)
	p = For(model.FormTypeWeekly, date(2026, time.March, 8))
	require.Equal(t, date(2026, time.March, 2), p.Start)
}

func TestForCalendarCadences(t *testing.T) {
	p := For(model.FormTypeMonthly, date(2026, time.February, 17))
	require.Equal(t, date(2026, time.February, 1), p.Start)
	require.Equal(t, date(2026, time.February, 28), p.End)

	p = For(model.FormTypeQuarterly, date(2026, time.May, 20))
	require.Equal(t, date(2026, time.April, 1), p.Start)
	require.Equal(t, date(2026, time.June, 30), p.End)

	p = For(model.FormTypeAnnual, date(2026, time.August, 9))
	require.Equal(t, date(2026, time.January, 1), p.Start)
	require.Equal(t, date(2026, time.December, 31), p.End)
}

func TestForNormalizesTimeOfDay(t *testing.T) {
	midday := time.Date(2026, time.March, 4, 13, 45, 12, 0, time.UTC)
	p := For(model.FormTypeWeekly, midday)
	require.Equal(t, date(2026, time.March, 2), p.Start)
	require.Equal(t, date(2026, time.March, 8), p.End)
}

func TestGenerationDue(t *testing.T) {
	cases := []struct {
		name     string
		formType model.FormType
		today    time.Time
		want     bool
	}{
		{"weekly on Monday", model.FormTypeWeekly, date(2026, time.March, 2), true},
		{"weekly on Tuesday", model.FormTypeWeekly, date(2026, time.March, 3), false},
		{"monthly on the 1st", model.FormTypeMonthly, date(2026, time.April, 1), true},
		{"monthly catch-up on the 15th", model.FormTypeMonthly, date(2026, time.April, 15), true},
		{"monthly mid-month", model.FormTypeMonthly, date(2026, time.April, 9), false},
		{"quarterly on quarter start", model.FormTypeQuarterly, date(2026, time.July, 1), true},
		{"quarterly on ordinary month start", model.FormTypeQuarterly, date(2026, time.May, 1), false},
		{"annual on Jan 1", model.FormTypeAnnual, date(2026, time.January, 1), true},
		{"annual on any other day", model.FormTypeAnnual, date(2026, time.June, 1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, GenerationDue(tc.formType, tc.today))
		})
	}
}
