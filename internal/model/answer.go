package model

import "time"

// Answer is the persisted response to one Question within one instance.
// Exactly one of the three value slots is meaningful, chosen by the
// Question's type. Rows are scaffolded empty at instance creation and then
// updated in place; the unique index over (instance, question) is the final
// backstop against duplicates under concurrent double-submits.
type Answer struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	InstanceID  uint      `json:"instance_id" gorm:"not null;index;uniqueIndex:idx_answers_instance_question"`
	QuestionID  uint      `json:"question_id" gorm:"not null;index;uniqueIndex:idx_answers_instance_question"`
	Question    Question  `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	IntValue    *int      `json:"int_value,omitempty"`
	TextValue   *string   `json:"text_value,omitempty" gorm:"type:text"`
	ChoiceValue *string   `json:"choice_value,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
