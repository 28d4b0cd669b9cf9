package model

import "time"

// RolePair distinguishes the two evaluator/evaluatee pairings that share this
// entity: a manager reviewing a direct report, and a senior manager reviewing
// a manager.
type RolePair string

const (
	RolePairEmployeeReview RolePair = "employee_review"
	RolePairManagerReview  RolePair = "manager_review"
)

// InstanceStatus is the lifecycle state of an evaluation instance.
// "completed" is sticky: re-submitting an already completed instance refreshes
// SubmittedAt but never moves the status back to pending.
type InstanceStatus string

const (
	InstancePending   InstanceStatus = "pending"
	InstanceCompleted InstanceStatus = "completed"
)

// EvaluationInstance is one concrete assignment of a Form between one
// evaluator and one evaluatee for one period. Creation is idempotent: the
// unique index over (form, evaluator, evaluatee, period) makes get-or-create
// safe under concurrent generation runs. Instances are never deleted in
// normal operation, so there is no soft-delete column.
type EvaluationInstance struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	FormID         uint           `json:"form_id" gorm:"not null;uniqueIndex:idx_instances_key"`
	Form           Form           `json:"form,omitempty" gorm:"foreignKey:FormID"`
	EvaluatorID    uint           `json:"evaluator_id" gorm:"not null;index;uniqueIndex:idx_instances_key"`
	EvaluateeID    uint           `json:"evaluatee_id" gorm:"not null;index;uniqueIndex:idx_instances_key"`
	DepartmentID   *uint          `json:"department_id,omitempty" gorm:"index"`
	RolePair       RolePair       `json:"role_pair" gorm:"not null"`
	PeriodStart    time.Time      `json:"period_start" gorm:"not null;uniqueIndex:idx_instances_key"`
	PeriodEnd      time.Time      `json:"period_end" gorm:"not null;uniqueIndex:idx_instances_key;index"`
	Status         InstanceStatus `json:"status" gorm:"not null;default:'pending';index"`
	SubmittedAt    *time.Time     `json:"submitted_at,omitempty"`
	LastRemindedAt *time.Time     `json:"last_reminded_at,omitempty"`
	Answers        []Answer       `json:"answers,omitempty" gorm:"foreignKey:InstanceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Overdue reports whether the instance is pending past its period end.
func (i *EvaluationInstance) Overdue(today time.Time) bool {
	return i.Status == InstancePending && i.PeriodEnd.Before(today)
}
