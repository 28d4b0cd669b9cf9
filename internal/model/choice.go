package model

import (
	"time"

	"gorm.io/gorm"
)

// Choice is one selectable option of a single_select Question.
type Choice struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	QuestionID uint           `json:"question_id" gorm:"not null;index"`
	Value      string         `json:"value" gorm:"not null"`
	Label      string         `json:"label" gorm:"not null"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
