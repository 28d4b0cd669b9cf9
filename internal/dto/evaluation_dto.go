package dto

import (
	"time"

	"github.com/lshigami/Wombats/internal/form"
)

// InstanceSummaryDTO lists one evaluation assignment for the evaluator's
// pending queue.
type InstanceSummaryDTO struct {
	ID            uint       `json:"id"`
	FormID        uint       `json:"form_id"`
	FormName      string     `json:"form_name,omitempty"`
	EvaluatorID   uint       `json:"evaluator_id"`
	EvaluateeID   uint       `json:"evaluatee_id"`
	RolePair      string     `json:"role_pair"`
	PeriodStart   time.Time  `json:"period_start"`
	PeriodEnd     time.Time  `json:"period_end"`
	Status        string     `json:"status"`
	SubmittedAt   *time.Time `json:"submitted_at,omitempty"`
	Overdue       bool       `json:"overdue"`
}

// InstanceDetailDTO is the rendered evaluation: the instance plus its typed
// input fields carrying any previously saved values.
type InstanceDetailDTO struct {
	ID          uint         `json:"id"`
	FormID      uint         `json:"form_id"`
	FormName    string       `json:"form_name"`
	EvaluatorID uint         `json:"evaluator_id"`
	EvaluateeID uint         `json:"evaluatee_id"`
	PeriodStart time.Time    `json:"period_start"`
	PeriodEnd   time.Time    `json:"period_end"`
	Status      string       `json:"status"`
	SubmittedAt *time.Time   `json:"submitted_at,omitempty"`
	Fields      []form.Field `json:"fields"`
}

// AnswerInputDTO is one submitted raw value.
type AnswerInputDTO struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Value      string `json:"value"`
}

// SubmitDTO is the full submission payload for one instance.
type SubmitDTO struct {
	Answers []AnswerInputDTO `json:"answers" binding:"required,dive"`
}

// SubmitResultDTO reports the persisted state after a successful submission.
type SubmitResultDTO struct {
	InstanceID  uint       `json:"instance_id"`
	Status      string     `json:"status"`
	SubmittedAt *time.Time `json:"submitted_at"`
}

// OverdueDTO is the lock-check response.
type OverdueDTO struct {
	EvaluatorID uint `json:"evaluator_id"`
	HasOverdue  bool `json:"has_overdue"`
}
