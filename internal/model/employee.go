package model

import (
	"time"

	"gorm.io/gorm"
)

// Role is the evaluator-class hierarchy position of an employee.
type Role string

const (
	RoleEmployee      Role = "employee"
	RoleManager       Role = "manager"
	RoleSeniorManager Role = "senior_manager"
)

// Evaluator reports whether the role reviews other people, which is what the
// access-lock gate and the generation pass key on.
func (r Role) Evaluator() bool {
	return r == RoleManager || r == RoleSeniorManager
}

// Employee is the org-directory record behind the evaluator/evaluatee
// pairing. ManagerID points at the direct supervisor (a manager for
// employees, a senior manager for managers).
type Employee struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `json:"name" gorm:"not null"`
	Email        string         `json:"email" gorm:"not null;uniqueIndex"`
	DepartmentID *uint          `json:"department_id,omitempty" gorm:"index"`
	Department   *Department    `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
	ManagerID    *uint          `json:"manager_id,omitempty" gorm:"index"`
	Role         Role           `json:"role" gorm:"not null;default:'employee'"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Department groups employees and scopes department-level forms.
type Department struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `json:"name" gorm:"not null;uniqueIndex"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
