package model

import (
	"time"

	"gorm.io/gorm"
)

// FormType is the recurrence cadence of a questionnaire.
type FormType string

const (
	FormTypeWeekly    FormType = "weekly"
	FormTypeMonthly   FormType = "monthly"
	FormTypeQuarterly FormType = "quarterly"
	FormTypeAnnual    FormType = "annual"
)

func (t FormType) Valid() bool {
	switch t {
	case FormTypeWeekly, FormTypeMonthly, FormTypeQuarterly, FormTypeAnnual:
		return true
	}
	return false
}

// Form is a questionnaire definition scoped to a department (nil = role-level
// form, e.g. the manager self-review) and a recurrence type. At most one Form
// per (department, type) may be active at a time; the application-level lock
// in the activation service is backed by a partial unique index on
// (coalesce(department_id,0), type) where is_active.
type Form struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	DepartmentID *uint          `json:"department_id,omitempty" gorm:"index:idx_forms_group"`
	Type         FormType       `json:"type" gorm:"not null;index:idx_forms_group"`
	Name         string         `json:"name" gorm:"not null"`
	IsActive     bool           `json:"is_active" gorm:"not null;default:false"`
	Questions    []Question     `json:"questions,omitempty" gorm:"foreignKey:FormID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
