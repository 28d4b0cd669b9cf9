package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Both aggregation strategies rely on NumericTypes matching the Numeric
// predicate: the SQL GROUP BY filters on the list, the in-memory path on the
// method. A drift between the two would make the strategies disagree.
func TestNumericTypesMatchPredicate(t *testing.T) {
	all := []QuestionType{
		QuestionShortText, QuestionLongText, QuestionStarRating, QuestionEmojiRating,
		QuestionNumericRating, QuestionNumber, QuestionBoolean, QuestionSingleSelect,
		QuestionSectionHeader,
	}

	listed := make(map[QuestionType]bool)
	for _, qt := range NumericTypes() {
		listed[qt] = true
	}
	for _, qt := range all {
		require.Equal(t, qt.Numeric(), listed[qt], "type %s", qt)
	}
	require.False(t, listed[QuestionBoolean])
}
