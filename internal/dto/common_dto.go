package dto

// ErrorResponse is the generic error envelope every controller returns.
type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// FieldErrorDTO is one field-scoped validation failure.
type FieldErrorDTO struct {
	QuestionID uint   `json:"question_id"`
	Message    string `json:"message"`
}

// ValidationErrorResponse carries the full set of field errors for a
// rejected submission.
type ValidationErrorResponse struct {
	Message string          `json:"message"`
	Fields  []FieldErrorDTO `json:"fields"`
}
