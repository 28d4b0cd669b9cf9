package form

// emojiScale maps the five sentiment symbols to their ordinal rank. The
// legacy data entry screens submitted the symbol itself; newer clients send
// the ordinal directly. Both forms are accepted on input and only the ordinal
// is persisted.
var emojiScale = map[string]int{
	"😡": 1,
	"🙁": 2,
	"😐": 3,
	"🙂": 4,
	"😍": 5,
}

var emojiByOrdinal = [6]string{"", "😡", "🙁", "😐", "🙂", "😍"}

// EmojiOrdinal resolves a symbolic emoji answer to its 1..5 rank.
func EmojiOrdinal(symbol string) (int, bool) {
	ordinal, ok := emojiScale[symbol]
	return ordinal, ok
}

// EmojiSymbol is the inverse mapping, used when labelling distribution
// buckets. Out-of-range ordinals return the empty string.
func EmojiSymbol(ordinal int) string {
	if ordinal < 1 || ordinal > 5 {
		return ""
	}
	return emojiByOrdinal[ordinal]
}
