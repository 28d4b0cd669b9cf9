package model

import (
	"time"

	"gorm.io/gorm"
)

// QuestionType is the closed set of input kinds a Question may take.
type QuestionType string

const (
	QuestionShortText     QuestionType = "short_text"
	QuestionLongText      QuestionType = "long_text"
	QuestionStarRating    QuestionType = "star_rating"
	QuestionEmojiRating   QuestionType = "emoji_rating"
	QuestionNumericRating QuestionType = "numeric_rating"
	QuestionNumber        QuestionType = "number"
	QuestionBoolean       QuestionType = "boolean"
	QuestionSingleSelect  QuestionType = "single_select"
	QuestionSectionHeader QuestionType = "section_header"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionShortText, QuestionLongText, QuestionStarRating, QuestionEmojiRating,
		QuestionNumericRating, QuestionNumber, QuestionBoolean, QuestionSingleSelect,
		QuestionSectionHeader:
		return true
	}
	return false
}

// Numeric reports whether the type stores an integer value and honors the
// Min/Max bounds.
func (t QuestionType) Numeric() bool {
	switch t {
	case QuestionStarRating, QuestionEmojiRating, QuestionNumericRating, QuestionNumber:
		return true
	}
	return false
}

// NumericTypes lists every type Numeric reports true for. The aggregation
// queries filter on this set so the storage strategy consumes exactly the
// rows the in-memory strategy keeps; boolean answers store an int but are
// not trend data.
func NumericTypes() []QuestionType {
	return []QuestionType{QuestionStarRating, QuestionEmojiRating, QuestionNumericRating, QuestionNumber}
}

// Answerable reports whether the type carries an Answer at all.
// Section headers are rendering-only markers.
func (t QuestionType) Answerable() bool {
	return t != QuestionSectionHeader
}

// Question is one item within a Form. Order is a dense 0..N-1 sequence unique
// within the owning form; the reorder operation rewrites the whole sibling
// sequence to keep it that way. Uniqueness of (form_id, "order") is enforced
// by a partial index over live rows, created in the migration step.
type Question struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	FormID          uint           `json:"form_id" gorm:"not null;index"`
	Text            string         `json:"text" gorm:"type:text;not null"`
	HelpText        string         `json:"help_text,omitempty" gorm:"type:text"`
	Type            QuestionType   `json:"type" gorm:"not null"`
	Required        bool           `json:"required" gorm:"not null;default:false"`
	MinValue        *int           `json:"min_value,omitempty"`
	MaxValue        *int           `json:"max_value,omitempty"`
	Order           int            `json:"order" gorm:"not null"`
	IncludeInTrends bool           `json:"include_in_trends" gorm:"not null;default:true"`
	Choices         []Choice       `json:"choices,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
